// Package service stores photos of a lead's existing equipment and closes out
// the photo flow.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"hvac_quote_backend/internal/adapters/storage"
	"hvac_quote_backend/internal/events"
	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/internal/photos/flow"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	msgLeadNotFound  = "lead not found"
	msgPhotoNotFound = "photo not found"
	msgUnknownSlot   = "unknown photo slot"
	msgNoPhotos      = "no photos have been uploaded for this lead"
)

// PhotoStore is the photo metadata persistence.
type PhotoStore interface {
	CreatePhoto(ctx context.Context, params repository.CreatePhotoParams) (repository.Photo, error)
	GetPhotoByID(ctx context.Context, id uuid.UUID) (repository.Photo, error)
	ListPhotos(ctx context.Context, leadID uuid.UUID) ([]repository.Photo, error)
}

// LeadPort is what the photo flow needs from the leads module.
type LeadPort interface {
	LeadExists(ctx context.Context, leadID uuid.UUID) (bool, error)
	MarkPhotosSubmitted(ctx context.Context, leadID uuid.UUID) error
}

type Service struct {
	photos   PhotoStore
	leads    LeadPort
	storage  storage.StorageService
	bucket   string
	flow     *flow.Flow
	tracker  *flow.Tracker
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(photos PhotoStore, leads LeadPort, store storage.StorageService, bucket string, f *flow.Flow, tracker *flow.Tracker, eventBus events.Bus, log *logger.Logger) *Service {
	if f == nil {
		f = flow.Default()
	}
	if tracker == nil {
		tracker = flow.NewTracker()
	}
	return &Service{
		photos:   photos,
		leads:    leads,
		storage:  store,
		bucket:   bucket,
		flow:     f,
		tracker:  tracker,
		eventBus: eventBus,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Flow() *flow.Flow { return s.flow }

// UploadInput is one file for one slot.
type UploadInput struct {
	LeadID      uuid.UUID
	PhotoKey    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload stores the object and records a photo row. A second upload for the
// same slot adds another row; the admin view shows every version. Once the
// slot and lead are known every outcome, including a rejected file, is
// recorded on the tracker.
func (s *Service) Upload(ctx context.Context, in UploadInput) (repository.Photo, error) {
	in.PhotoKey = strings.TrimSpace(in.PhotoKey)
	if !s.flow.ValidSlot(in.PhotoKey) {
		return repository.Photo{}, apperr.Validation(msgUnknownSlot)
	}
	if err := s.requireLead(ctx, in.LeadID); err != nil {
		return repository.Photo{}, err
	}

	token := s.tracker.Begin(in.LeadID, in.PhotoKey)
	photo, err := s.checkAndStore(ctx, in)
	s.tracker.Finish(in.LeadID, in.PhotoKey, token, err)
	if err != nil {
		return repository.Photo{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.PhotoUploaded{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    photo.LeadID,
			PhotoID:   photo.ID,
			PhotoKey:  photo.PhotoKey,
			FileSize:  photo.FileSize,
		})
	}
	return photo, nil
}

func (s *Service) checkAndStore(ctx context.Context, in UploadInput) (repository.Photo, error) {
	if err := s.storage.ValidateContentType(in.ContentType); err != nil {
		return repository.Photo{}, apperr.Wrap(apperr.KindValidation, "unsupported photo type", err)
	}
	if err := s.storage.ValidateFileSize(in.Size); err != nil {
		return repository.Photo{}, apperr.Wrap(apperr.KindValidation, "photo is too large", err)
	}
	return s.store(ctx, in)
}

func (s *Service) store(ctx context.Context, in UploadInput) (repository.Photo, error) {
	limit := s.storage.GetMaxFileSize()
	data, err := io.ReadAll(io.LimitReader(in.Body, limit+1))
	if err != nil {
		return repository.Photo{}, apperr.Wrap(apperr.KindBadRequest, "could not read photo", err)
	}
	if int64(len(data)) > limit {
		return repository.Photo{}, apperr.Validation("photo is too large")
	}

	key := s.objectKey(in.LeadID, in.PhotoKey, in.ContentType)
	if _, err := s.storage.UploadFile(ctx, s.bucket, key, in.ContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		s.log.WithContext(ctx).WithLead(in.LeadID.String()).Error("photo upload failed", "slot", in.PhotoKey, "error", err)
		return repository.Photo{}, apperr.Wrap(apperr.KindUnavailable, "photo storage is unavailable", err)
	}

	photo, err := s.photos.CreatePhoto(ctx, repository.CreatePhotoParams{
		LeadID:      in.LeadID,
		PhotoKey:    in.PhotoKey,
		StorageURL:  s.storage.ObjectURL(s.bucket, key),
		StoragePath: key,
		FileSize:    int64(len(data)),
		MimeType:    in.ContentType,
		TakenAt:     takenAt(data),
	})
	if err != nil {
		s.log.DatabaseError("create_photo", err)
		if delErr := s.storage.DeleteObject(ctx, s.bucket, key); delErr != nil {
			s.log.Degraded("delete_orphan_photo", in.LeadID.String(), delErr)
		}
		return repository.Photo{}, err
	}
	return photo, nil
}

// objectKey is leads/{leadId}/{slot}-{unixMillis}{ext}.
func (s *Service) objectKey(leadID uuid.UUID, slot, contentType string) string {
	return fmt.Sprintf("leads/%s/%s-%d%s", leadID, slot, s.now().UnixMilli(), storage.ExtensionFor(contentType))
}

// takenAt reads the capture time from EXIF when the image carries it.
func takenAt(data []byte) *time.Time {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	t, err := x.DateTime()
	if err != nil || t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

// CompleteResult reports what was submitted.
type CompleteResult struct {
	LeadID     uuid.UUID `json:"leadId"`
	PhotoCount int       `json:"photoCount"`
}

// Complete closes the photo flow for a lead.
func (s *Service) Complete(ctx context.Context, leadID uuid.UUID) (CompleteResult, error) {
	if err := s.requireLead(ctx, leadID); err != nil {
		return CompleteResult{}, err
	}

	photos, err := s.photos.ListPhotos(ctx, leadID)
	if err != nil {
		return CompleteResult{}, err
	}
	if len(photos) == 0 {
		return CompleteResult{}, apperr.Precondition(msgNoPhotos)
	}

	if err := s.leads.MarkPhotosSubmitted(ctx, leadID); err != nil {
		return CompleteResult{}, err
	}
	s.tracker.Forget(leadID)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.PhotosSubmitted{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     leadID,
			PhotoCount: len(photos),
		})
	}
	return CompleteResult{LeadID: leadID, PhotoCount: len(photos)}, nil
}

// Status returns the upload state of every slot touched for the lead.
func (s *Service) Status(leadID uuid.UUID) map[string]flow.UploadStatus {
	return s.tracker.Snapshot(leadID)
}

// Open returns the stored object for a photo. The caller closes the reader.
func (s *Service) Open(ctx context.Context, photoID uuid.UUID) (repository.Photo, io.ReadCloser, error) {
	photo, err := s.photos.GetPhotoByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return repository.Photo{}, nil, apperr.NotFound(msgPhotoNotFound)
		}
		return repository.Photo{}, nil, err
	}

	body, err := s.storage.DownloadFile(ctx, s.bucket, photo.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return repository.Photo{}, nil, apperr.NotFound(msgPhotoNotFound)
		}
		return repository.Photo{}, nil, apperr.Wrap(apperr.KindUnavailable, "photo storage is unavailable", err)
	}
	return photo, body, nil
}

func (s *Service) requireLead(ctx context.Context, leadID uuid.UUID) error {
	ok, err := s.leads.LeadExists(ctx, leadID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(msgLeadNotFound)
	}
	return nil
}

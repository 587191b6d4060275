// Package management handles lead creation, wizard persistence and the admin
// views of leads.
package management

import (
	"context"
	"encoding/json"
	"errors"

	"hvac_quote_backend/internal/events"
	"hvac_quote_backend/internal/leads/domain"
	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/internal/leads/transport"
	propertytransport "hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/phone"
	"hvac_quote_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgLeadNotFound    = "lead not found"
	maxNotesRunes      = 5000
	maxCorrectionRunes = 2000
)

// Repository defines the data access the management service needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.AdminWriter
	repository.PredictionStore
	repository.PhotoStore
}

// PropertyLookup resolves an address to a property record.
type PropertyLookup interface {
	Lookup(ctx context.Context, address string) (*propertytransport.Property, error)
}

type Service struct {
	repo     Repository
	property PropertyLookup
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo Repository, property PropertyLookup, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, property: property, eventBus: eventBus, log: log}
}

// Create stores a lead from the contact step.
func (s *Service) Create(ctx context.Context, in transport.CreateLeadInput) (repository.Lead, error) {
	params := repository.CreateLeadParams{
		AddressRaw: sanitize.Line(in.AddressRaw),
		FirstName:  sanitize.Line(in.FirstName),
		LastName:   sanitize.Line(in.LastName),
		Email:      sanitize.Line(in.Email),
		Phone:      phone.NormalizeE164(in.Phone),
	}
	if params.AddressRaw == "" {
		return repository.Lead{}, apperr.Validation("address is required")
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return repository.Lead{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LeadCreated{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     lead.ID,
			AddressRaw: lead.AddressRaw,
			Name:       FullName(lead),
			Email:      params.Email,
		})
	}
	return lead, nil
}

// LoadProperty looks up address and stores the snapshot on the lead. The
// lookup error is returned untouched so callers can decide whether it blocks.
func (s *Service) LoadProperty(ctx context.Context, leadID uuid.UUID, address string) (*propertytransport.Property, error) {
	if s.property == nil {
		return nil, apperr.Unavailable("property lookup is not configured")
	}

	p, err := s.property.Lookup(ctx, address)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(p)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encode property snapshot", err)
	}

	if _, err := s.repo.SetProperty(ctx, leadID, p.FormattedAddress, snapshot); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgLeadNotFound)
		}
		return nil, err
	}
	return p, nil
}

// ApplyPatch writes one step's answers. A patch that lost to a newer one for
// the same step is dropped without error.
func (s *Service) ApplyPatch(ctx context.Context, patch transport.LeadPatch) error {
	params := repository.PatchParams{
		SyncKey:              patch.Step,
		RequestedAt:          patch.RequestedAt,
		HasAttic:             patch.HasAttic,
		BasementType:         patch.BasementType,
		HasDuctwork:          patch.HasDuctwork,
		NumberOfFloors:       patch.NumberOfFloors,
		Corrections:          sanitize.TextPtr(patch.Corrections, maxCorrectionRunes),
		OwnershipStatus:      patch.OwnershipStatus,
		CurrentHeating:       patch.CurrentHeating,
		InstallationTimeline: patch.InstallationTimeline,
		ElectricityProvider:  patch.ElectricityProvider,
		GasProvider:          patch.GasProvider,
		GasProviderSet:       patch.GasProviderSet,
		Status:               patch.Status,
	}

	applied, err := s.repo.ApplyPatch(ctx, patch.LeadID, params)
	if err != nil {
		return err
	}
	if !applied {
		s.log.WithLead(patch.LeadID.String()).Debug("lead patch skipped", "step", patch.Step)
	}
	return nil
}

// SetStatus moves a lead along a wizard milestone.
func (s *Service) SetStatus(ctx context.Context, leadID uuid.UUID, ev domain.WizardEvent) error {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return err
	}

	next := domain.NextStatus(domain.Status(lead.Status), ev)
	if string(next) == lead.Status {
		return nil
	}
	return s.repo.UpdateStatus(ctx, leadID, string(next))
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound(msgLeadNotFound)
		}
		return repository.Lead{}, err
	}
	return lead, nil
}

// List returns a page of leads for the admin table.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	params := repository.ListParams{Page: req.Page, PageSize: req.PageSize}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 25
	}
	if req.Status != "" {
		status := req.Status
		params.Status = &status
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	out := make([]transport.LeadSummaryResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToSummaryResponse(item))
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	return transport.LeadListResponse{
		Items:      out,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// GetDetail returns a lead with its predictions and photos.
func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (transport.LeadDetailResponse, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	predictions, err := s.repo.ListPredictions(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	photos, err := s.repo.ListPhotos(ctx, id)
	if err != nil {
		return transport.LeadDetailResponse{}, err
	}

	photoResponses := make([]transport.PhotoResponse, 0, len(photos))
	for _, p := range photos {
		photoResponses = append(photoResponses, ToPhotoResponse(p))
	}

	return transport.LeadDetailResponse{
		Lead:        ToLeadResponse(lead),
		Predictions: ToPredictionResponses(predictions),
		Photos:      photoResponses,
	}, nil
}

// AdminUpdate edits status and notes. Any valid status is allowed here.
func (s *Service) AdminUpdate(ctx context.Context, id uuid.UUID, req transport.AdminUpdateRequest) (transport.LeadResponse, error) {
	params := repository.AdminUpdateParams{}

	if req.Status != nil {
		if !domain.Status(*req.Status).Valid() {
			return transport.LeadResponse{}, apperr.Validation("unknown status")
		}
		params.Status = req.Status
	}
	if req.AdminNotes.Set {
		params.AdminNotesSet = true
		params.AdminNotes = sanitize.TextPtr(req.AdminNotes.Value, maxNotesRunes)
	}

	lead, err := s.repo.AdminUpdate(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

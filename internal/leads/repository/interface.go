package repository

import (
	"context"

	"github.com/google/uuid"
)

// LeadReader provides read-only access to leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]LeadSummary, int, error)
}

// LeadWriter covers the wizard's writes.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	SetProperty(ctx context.Context, id uuid.UUID, formattedAddress string, propertyData []byte) (Lead, error)
	ApplyPatch(ctx context.Context, id uuid.UUID, params PatchParams) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// AdminWriter covers edits made from the admin surface.
type AdminWriter interface {
	AdminUpdate(ctx context.Context, id uuid.UUID, params AdminUpdateParams) (Lead, error)
}

type PredictionStore interface {
	ReplacePredictions(ctx context.Context, leadID uuid.UUID, inputs []PredictionInput, status string) ([]Prediction, error)
	ListPredictions(ctx context.Context, leadID uuid.UUID) ([]Prediction, error)
}

type PhotoStore interface {
	CreatePhoto(ctx context.Context, params CreatePhotoParams) (Photo, error)
	GetPhotoByID(ctx context.Context, id uuid.UUID) (Photo, error)
	ListPhotos(ctx context.Context, leadID uuid.UUID) ([]Photo, error)
}

// LeadsRepository composes every lead store interface.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	AdminWriter
	PredictionStore
	PhotoStore
}

var _ LeadsRepository = (*Repository)(nil)

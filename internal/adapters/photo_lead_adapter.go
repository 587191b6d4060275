package adapters

import (
	"context"

	"hvac_quote_backend/internal/leads/domain"
	"hvac_quote_backend/internal/leads/management"
	"hvac_quote_backend/platform/apperr"

	"github.com/google/uuid"
)

// PhotoLeadAdapter gives the photos module the two lead operations it needs.
type PhotoLeadAdapter struct {
	leads *management.Service
}

func NewPhotoLeadAdapter(leads *management.Service) *PhotoLeadAdapter {
	return &PhotoLeadAdapter{leads: leads}
}

func (a *PhotoLeadAdapter) LeadExists(ctx context.Context, leadID uuid.UUID) (bool, error) {
	if _, err := a.leads.GetByID(ctx, leadID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *PhotoLeadAdapter) MarkPhotosSubmitted(ctx context.Context, leadID uuid.UUID) error {
	return a.leads.SetStatus(ctx, leadID, domain.EventPhotosSubmitted)
}

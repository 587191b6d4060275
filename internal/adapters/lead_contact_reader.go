package adapters

import (
	"context"
	"fmt"

	"hvac_quote_backend/internal/leads/management"
	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/internal/notification"

	"github.com/google/uuid"
)

// LeadContactReader reads contact details for admin notifications.
type LeadContactReader struct {
	leads repository.LeadReader
}

func NewLeadContactReader(leads repository.LeadReader) *LeadContactReader {
	return &LeadContactReader{leads: leads}
}

func (a *LeadContactReader) GetLeadContact(ctx context.Context, leadID uuid.UUID) (notification.LeadContact, error) {
	lead, err := a.leads.GetByID(ctx, leadID)
	if err != nil {
		return notification.LeadContact{}, fmt.Errorf("look up lead for notification: %w", err)
	}

	address := lead.AddressRaw
	if lead.FormattedAddress != nil && *lead.FormattedAddress != "" {
		address = *lead.FormattedAddress
	}
	contact := notification.LeadContact{
		Name:    management.FullName(lead),
		Address: address,
	}
	if lead.Email != nil {
		contact.Email = *lead.Email
	}
	return contact, nil
}

var _ notification.LeadContactReader = (*LeadContactReader)(nil)

package adapters

import (
	"context"

	propertyservice "hvac_quote_backend/internal/property/service"
	"hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/apperr"
)

// PropertyLookupAdapter lets the leads module look up properties without
// depending on whether the property client is configured.
type PropertyLookupAdapter struct {
	svc *propertyservice.Service
}

// NewPropertyLookupAdapter wraps svc. A nil svc yields an adapter whose
// lookups fail as unavailable.
func NewPropertyLookupAdapter(svc *propertyservice.Service) *PropertyLookupAdapter {
	return &PropertyLookupAdapter{svc: svc}
}

func (a *PropertyLookupAdapter) Lookup(ctx context.Context, address string) (*transport.Property, error) {
	if a == nil || a.svc == nil {
		return nil, apperr.Unavailable("property lookup is not configured")
	}
	return a.svc.Lookup(ctx, address)
}

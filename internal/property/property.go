// Package property provides the property lookup bounded context.
package property

import (
	"context"

	"hvac_quote_backend/internal/property/transport"
)

// Lookup is what other domains depend on for property records.
type Lookup interface {
	Lookup(ctx context.Context, address string) (*transport.Property, error)
}

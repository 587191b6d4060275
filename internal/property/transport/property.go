// Package transport provides DTOs for the property lookup domain.
package transport

import (
	"encoding/json"
)

// Property is the subset of a RentCast record the quote flow reads. Every
// other field of the upstream record is kept in Extra so the stored snapshot
// stays complete.
type Property struct {
	ID               string         `json:"id,omitempty"`
	FormattedAddress string         `json:"formattedAddress"`
	AddressLine1     string         `json:"addressLine1,omitempty"`
	City             string         `json:"city"`
	State            string         `json:"state"`
	ZipCode          string         `json:"zipCode"`
	Latitude         *float64       `json:"latitude,omitempty"`
	Longitude        *float64       `json:"longitude,omitempty"`
	Bedrooms         *int           `json:"bedrooms,omitempty"`
	Bathrooms        *float64       `json:"bathrooms,omitempty"`
	SquareFootage    *int           `json:"squareFootage,omitempty"`
	LotSize          *int           `json:"lotSize,omitempty"`
	YearBuilt        *int           `json:"yearBuilt,omitempty"`
	PropertyType     string         `json:"propertyType,omitempty"`
	LastSalePrice    *float64       `json:"lastSalePrice,omitempty"`
	LastSaleDate     string         `json:"lastSaleDate,omitempty"`
	AssessedValue    *float64       `json:"assessedValue,omitempty"`
	Features         map[string]any `json:"features,omitempty"`

	Extra map[string]any `json:"-"`
}

// typed mirrors Property without methods so encoding/json does not recurse.
type typed Property

var knownKeys = map[string]bool{
	"id": true, "formattedAddress": true, "addressLine1": true, "city": true, "state": true,
	"zipCode": true, "latitude": true, "longitude": true, "bedrooms": true, "bathrooms": true,
	"squareFootage": true, "lotSize": true, "yearBuilt": true, "propertyType": true,
	"lastSalePrice": true, "lastSaleDate": true, "assessedValue": true, "features": true,
}

func (p *Property) UnmarshalJSON(data []byte) error {
	var t typed
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range knownKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		t.Extra = raw
	}

	*p = Property(t)
	return nil
}

// MarshalJSON writes the typed fields and the passthrough fields side by side.
// A typed field wins over an Extra key of the same name.
func (p Property) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(typed(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return body, nil
	}

	merged := make(map[string]any, len(p.Extra)+len(knownKeys))
	for key, value := range p.Extra {
		merged[key] = value
	}
	var known map[string]any
	if err := json.Unmarshal(body, &known); err != nil {
		return nil, err
	}
	for key, value := range known {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// BedroomsOrZero is used by callers that need a count, not a pointer.
func (p *Property) BedroomsOrZero() int {
	if p == nil || p.Bedrooms == nil {
		return 0
	}
	return *p.Bedrooms
}

type LookupRequest struct {
	Address string `json:"address" validate:"required,max=500"`
}

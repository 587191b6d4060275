// Package events holds the lead and photo domain events. The bus itself
// lives in platform/events and is aliased here so modules import one package.
package events

import (
	"hvac_quote_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when the contact step creates a lead.
type LeadCreated struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	AddressRaw string    `json:"addressRaw"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadQuoted is published after predictions are committed.
type LeadQuoted struct {
	BaseEvent
	LeadID           uuid.UUID `json:"leadId"`
	FormattedAddress string    `json:"formattedAddress"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Variants         []string  `json:"variants"`
	LowestTotal      float64   `json:"lowestTotal"`
}

func (e LeadQuoted) EventName() string { return "leads.lead.quoted" }

// =============================================================================
// Photos Domain Events
// =============================================================================

// PhotoUploaded is published for every stored photo.
type PhotoUploaded struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	PhotoID  uuid.UUID `json:"photoId"`
	PhotoKey string    `json:"photoKey"`
	FileSize int64     `json:"fileSize"`
}

func (e PhotoUploaded) EventName() string { return "photos.photo.uploaded" }

// PhotosSubmitted is published when the customer finishes the photo flow.
type PhotosSubmitted struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	PhotoCount int       `json:"photoCount"`
}

func (e PhotosSubmitted) EventName() string { return "photos.flow.submitted" }

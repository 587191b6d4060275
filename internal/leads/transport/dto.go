package transport

import (
	"encoding/json"
	"time"

	"hvac_quote_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Request DTOs
type ListLeadsRequest struct {
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
	Status   string `form:"status" validate:"omitempty,oneof=new property_loaded survey_done quoted photos_submitted contacted followed_up scheduled completed lost"`
}

type AdminUpdateRequest struct {
	Status     *string        `json:"status,omitempty" validate:"omitempty,oneof=new property_loaded survey_done quoted photos_submitted contacted followed_up scheduled completed lost"`
	AdminNotes OptionalString `json:"adminNotes,omitempty" validate:"-"`
}

// CreateLeadInput is what the contact step knows about a new lead.
type CreateLeadInput struct {
	AddressRaw string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
}

// LeadPatch carries one wizard step's answers to the lead store, either
// inline or through the patch queue.
type LeadPatch struct {
	LeadID      uuid.UUID `json:"leadId"`
	Step        string    `json:"step"`
	RequestedAt time.Time `json:"requestedAt"`

	HasAttic       *bool   `json:"hasAttic,omitempty"`
	BasementType   *string `json:"basementType,omitempty"`
	HasDuctwork    *string `json:"hasDuctwork,omitempty"`
	NumberOfFloors *int    `json:"numberOfFloors,omitempty"`
	Corrections    *string `json:"corrections,omitempty"`

	OwnershipStatus      *string `json:"ownershipStatus,omitempty"`
	CurrentHeating       *string `json:"currentHeating,omitempty"`
	InstallationTimeline *string `json:"installationTimeline,omitempty"`

	ElectricityProvider *string `json:"electricityProvider,omitempty"`
	GasProvider         *string `json:"gasProvider,omitempty"`
	GasProviderSet      bool    `json:"gasProviderSet,omitempty"`

	Status *string `json:"status,omitempty"`
}

// Response DTOs
type LeadResponse struct {
	ID                   uuid.UUID       `json:"id"`
	FirstName            *string         `json:"firstName,omitempty"`
	LastName             *string         `json:"lastName,omitempty"`
	Email                *string         `json:"email,omitempty"`
	Phone                *string         `json:"phone,omitempty"`
	AddressRaw           string          `json:"addressRaw"`
	FormattedAddress     *string         `json:"formattedAddress,omitempty"`
	PropertyData         json.RawMessage `json:"propertyData,omitempty"`
	HasAttic             *bool           `json:"hasAttic,omitempty"`
	BasementType         *string         `json:"basementType,omitempty"`
	HasDuctwork          *string         `json:"hasDuctwork,omitempty"`
	NumberOfFloors       *int            `json:"numberOfFloors,omitempty"`
	Corrections          *string         `json:"corrections,omitempty"`
	OwnershipStatus      *string         `json:"ownershipStatus,omitempty"`
	CurrentHeating       *string         `json:"currentHeating,omitempty"`
	InstallationTimeline *string         `json:"installationTimeline,omitempty"`
	ElectricityProvider  *string         `json:"electricityProvider,omitempty"`
	GasProvider          *string         `json:"gasProvider,omitempty"`
	Status               string          `json:"status"`
	AdminNotes           *string         `json:"adminNotes,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

type PredictionResponse struct {
	ID                     uuid.UUID        `json:"id"`
	Variant                string           `json:"variant"`
	NumberOfODU            int              `json:"numberOfODU"`
	TypeOfODU              string           `json:"typeOfODU"`
	ODUSize                string           `json:"oduSize"`
	NumberOfIDU            int              `json:"numberOfIDU"`
	TypeOfIDU              string           `json:"typeOfIDU"`
	IDUSize                string           `json:"iduSize"`
	ElectricalWorkEstimate *float64         `json:"electricalWorkEstimate,omitempty"`
	HVACWorkEstimate       *float64         `json:"hvacWorkEstimate,omitempty"`
	Confidence             *string          `json:"confidence,omitempty"`
	Reasoning              *string          `json:"reasoning,omitempty"`
	Pricing                domain.Breakdown `json:"pricing"`
	CreatedAt              time.Time        `json:"createdAt"`
}

type PhotoResponse struct {
	ID        uuid.UUID  `json:"id"`
	PhotoKey  string     `json:"photoKey"`
	FileSize  int64      `json:"fileSize"`
	MimeType  string     `json:"mimeType"`
	TakenAt   *time.Time `json:"takenAt,omitempty"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"createdAt"`
}

type LeadDetailResponse struct {
	Lead        LeadResponse         `json:"lead"`
	Predictions []PredictionResponse `json:"predictions"`
	Photos      []PhotoResponse      `json:"photos"`
}

type LeadSummaryResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            *string   `json:"email,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	AddressRaw       string    `json:"addressRaw"`
	FormattedAddress *string   `json:"formattedAddress,omitempty"`
	Status           string    `json:"status"`
	PredictionCount  int       `json:"predictionCount"`
	PhotoCount       int       `json:"photoCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

type LeadListResponse struct {
	Items      []LeadSummaryResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}

// PricingRequest asks for a breakdown without a stored prediction.
type PricingRequest struct {
	Electrical float64 `form:"electrical" validate:"min=0"`
	HVAC       float64 `form:"hvac" validate:"min=0"`
}

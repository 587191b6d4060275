package repository

import (
	"time"

	"github.com/google/uuid"
)

// Lead is one wizard submission. Survey answers stay nil until their step is patched.
type Lead struct {
	ID                   uuid.UUID
	FirstName            *string
	LastName             *string
	Email                *string
	Phone                *string
	AddressRaw           string
	FormattedAddress     *string
	PropertyData         []byte
	HasAttic             *bool
	BasementType         *string
	HasDuctwork          *string
	NumberOfFloors       *int
	Corrections          *string
	OwnershipStatus      *string
	CurrentHeating       *string
	InstallationTimeline *string
	ElectricityProvider  *string
	GasProvider          *string
	Status               string
	AdminNotes           *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// LeadSummary is a list row with child counts.
type LeadSummary struct {
	ID               uuid.UUID
	FirstName        *string
	LastName         *string
	Email            *string
	Phone            *string
	AddressRaw       string
	FormattedAddress *string
	Status           string
	PredictionCount  int
	PhotoCount       int
	CreatedAt        time.Time
}

type CreateLeadParams struct {
	AddressRaw string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
}

// PatchParams updates the fields owned by a single wizard step. SyncKey and
// RequestedAt order patches for the same step: an older patch never
// overwrites a newer one.
type PatchParams struct {
	SyncKey     string
	RequestedAt time.Time

	HasAttic       *bool
	BasementType   *string
	HasDuctwork    *string
	NumberOfFloors *int
	Corrections    *string

	OwnershipStatus      *string
	CurrentHeating       *string
	InstallationTimeline *string

	ElectricityProvider *string
	GasProvider         *string
	GasProviderSet      bool

	Status *string
}

type AdminUpdateParams struct {
	Status        *string
	AdminNotes    *string
	AdminNotesSet bool
}

type ListParams struct {
	Status   *string
	Page     int
	PageSize int
}

// Prediction is a persisted equipment configuration for one variant.
type Prediction struct {
	ID                     uuid.UUID
	LeadID                 uuid.UUID
	Variant                string
	NumberOfODU            int
	TypeOfODU              string
	ODUSize                string
	NumberOfIDU            int
	TypeOfIDU              string
	IDUSize                string
	ElectricalWorkEstimate *float64
	HVACWorkEstimate       *float64
	Confidence             *string
	Reasoning              *string
	CreatedAt              time.Time
}

type PredictionInput struct {
	Variant                string
	NumberOfODU            int
	TypeOfODU              string
	ODUSize                string
	NumberOfIDU            int
	TypeOfIDU              string
	IDUSize                string
	ElectricalWorkEstimate *float64
	HVACWorkEstimate       *float64
	Confidence             *string
	Reasoning              *string
}

// Photo is the metadata row for an uploaded object.
type Photo struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	PhotoKey    string
	StorageURL  string
	StoragePath string
	FileSize    int64
	MimeType    string
	TakenAt     *time.Time
	CreatedAt   time.Time
}

type CreatePhotoParams struct {
	LeadID      uuid.UUID
	PhotoKey    string
	StorageURL  string
	StoragePath string
	FileSize    int64
	MimeType    string
	TakenAt     *time.Time
}

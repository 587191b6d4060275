package wizard

import (
	"strings"

	"github.com/google/uuid"
)

// Form is the wizard's accumulated answers. The client sends the whole form
// on every call; each step only reads its own fields.
type Form struct {
	LeadID string `json:"leadId,omitempty"`

	Address string `json:"address"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	HasAttic       *bool  `json:"hasAttic,omitempty"`
	BasementType   string `json:"basementType"`
	HasDuctwork    string `json:"hasDuctwork"`
	NumberOfFloors *int   `json:"numberOfFloors,omitempty"`
	Corrections    string `json:"corrections"`

	OwnershipStatus      string `json:"ownershipStatus"`
	CurrentHeating       string `json:"currentHeating"`
	InstallationTimeline string `json:"installationTimeline"`

	ElectricityProvider string `json:"electricityProvider"`
	GasProvider         string `json:"gasProvider"`
}

// leadID returns the parsed lead id and whether one was supplied at all.
func (f Form) leadID() (uuid.UUID, bool, error) {
	raw := strings.TrimSpace(f.LeadID)
	if raw == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(raw)
	return id, true, err
}

func (f Form) trimmed() Form {
	out := f
	out.LeadID = strings.TrimSpace(f.LeadID)
	out.Address = strings.TrimSpace(f.Address)
	out.FirstName = strings.TrimSpace(f.FirstName)
	out.LastName = strings.TrimSpace(f.LastName)
	out.Email = strings.TrimSpace(f.Email)
	out.Phone = strings.TrimSpace(f.Phone)
	out.BasementType = strings.TrimSpace(f.BasementType)
	out.HasDuctwork = strings.TrimSpace(f.HasDuctwork)
	out.Corrections = strings.TrimSpace(f.Corrections)
	out.OwnershipStatus = strings.TrimSpace(f.OwnershipStatus)
	out.CurrentHeating = strings.TrimSpace(f.CurrentHeating)
	out.InstallationTimeline = strings.TrimSpace(f.InstallationTimeline)
	out.ElectricityProvider = strings.TrimSpace(f.ElectricityProvider)
	out.GasProvider = strings.TrimSpace(f.GasProvider)
	return out
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package management

import (
	"strings"

	"hvac_quote_backend/internal/leads/domain"
	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/internal/leads/transport"
)

func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:                   lead.ID,
		FirstName:            lead.FirstName,
		LastName:             lead.LastName,
		Email:                lead.Email,
		Phone:                lead.Phone,
		AddressRaw:           lead.AddressRaw,
		FormattedAddress:     lead.FormattedAddress,
		PropertyData:         lead.PropertyData,
		HasAttic:             lead.HasAttic,
		BasementType:         lead.BasementType,
		HasDuctwork:          lead.HasDuctwork,
		NumberOfFloors:       lead.NumberOfFloors,
		Corrections:          lead.Corrections,
		OwnershipStatus:      lead.OwnershipStatus,
		CurrentHeating:       lead.CurrentHeating,
		InstallationTimeline: lead.InstallationTimeline,
		ElectricityProvider:  lead.ElectricityProvider,
		GasProvider:          lead.GasProvider,
		Status:               lead.Status,
		AdminNotes:           lead.AdminNotes,
		CreatedAt:            lead.CreatedAt,
		UpdatedAt:            lead.UpdatedAt,
	}
}

// ToPredictionResponse attaches the price breakdown. Missing estimates price as zero.
func ToPredictionResponse(p repository.Prediction) transport.PredictionResponse {
	return transport.PredictionResponse{
		ID:                     p.ID,
		Variant:                p.Variant,
		NumberOfODU:            p.NumberOfODU,
		TypeOfODU:              p.TypeOfODU,
		ODUSize:                p.ODUSize,
		NumberOfIDU:            p.NumberOfIDU,
		TypeOfIDU:              p.TypeOfIDU,
		IDUSize:                p.IDUSize,
		ElectricalWorkEstimate: p.ElectricalWorkEstimate,
		HVACWorkEstimate:       p.HVACWorkEstimate,
		Confidence:             p.Confidence,
		Reasoning:              p.Reasoning,
		Pricing:                domain.Price(derefFloat(p.ElectricalWorkEstimate), derefFloat(p.HVACWorkEstimate)),
		CreatedAt:              p.CreatedAt,
	}
}

func ToPredictionResponses(items []repository.Prediction) []transport.PredictionResponse {
	out := make([]transport.PredictionResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToPredictionResponse(p))
	}
	return out
}

// ToPhotoResponse points URL at the admin photo proxy.
func ToPhotoResponse(p repository.Photo) transport.PhotoResponse {
	return transport.PhotoResponse{
		ID:        p.ID,
		PhotoKey:  p.PhotoKey,
		FileSize:  p.FileSize,
		MimeType:  p.MimeType,
		TakenAt:   p.TakenAt,
		URL:       "/api/v1/admin/photos/" + p.ID.String(),
		CreatedAt: p.CreatedAt,
	}
}

func ToSummaryResponse(s repository.LeadSummary) transport.LeadSummaryResponse {
	return transport.LeadSummaryResponse{
		ID:               s.ID,
		Name:             fullName(s.FirstName, s.LastName),
		Email:            s.Email,
		Phone:            s.Phone,
		AddressRaw:       s.AddressRaw,
		FormattedAddress: s.FormattedAddress,
		Status:           s.Status,
		PredictionCount:  s.PredictionCount,
		PhotoCount:       s.PhotoCount,
		CreatedAt:        s.CreatedAt,
	}
}

func fullName(first, last *string) string {
	parts := make([]string, 0, 2)
	if first != nil && *first != "" {
		parts = append(parts, *first)
	}
	if last != nil && *last != "" {
		parts = append(parts, *last)
	}
	return strings.Join(parts, " ")
}

// FullName joins a lead's first and last name.
func FullName(lead repository.Lead) string {
	return fullName(lead.FirstName, lead.LastName)
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

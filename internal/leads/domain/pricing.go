package domain

const (
	PermitFee      = 450.0
	rebateHigh     = 3500.0
	rebateLow      = 2500.0
	rebateBoundary = 6000.0
)

// Breakdown is the customer-facing cost summary for one prediction.
type Breakdown struct {
	Electrical float64 `json:"electrical"`
	HVAC       float64 `json:"hvac"`
	Permit     float64 `json:"permit"`
	Subtotal   float64 `json:"subtotal"`
	Rebate     float64 `json:"rebate"`
	Total      float64 `json:"total"`
}

// Price computes the breakdown. Missing estimates count as zero.
func Price(electrical, hvac float64) Breakdown {
	subtotal := electrical + hvac + PermitFee
	rebate := rebateLow
	if subtotal > rebateBoundary {
		rebate = rebateHigh
	}
	return Breakdown{
		Electrical: electrical,
		HVAC:       hvac,
		Permit:     PermitFee,
		Subtotal:   subtotal,
		Rebate:     rebate,
		Total:      subtotal - rebate,
	}
}

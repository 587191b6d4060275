package domain

// Ductwork is the homeowner's answer to "does the house have ducts".
type Ductwork string

const (
	DuctworkYes     Ductwork = "yes"
	DuctworkNo      Ductwork = "no"
	DuctworkNotSure Ductwork = "not-sure"
)

// Variant tags one of the competing equipment configurations.
type Variant string

const (
	VariantDucted   Variant = "ducted"
	VariantDuctless Variant = "ductless"
)

// VariantsFor returns the configurations worth predicting for an answer.
// Only a definite "no" rules out the ducted option.
func VariantsFor(answer Ductwork) []Variant {
	if answer == DuctworkNo {
		return []Variant{VariantDuctless}
	}
	return []Variant{VariantDucted, VariantDuctless}
}

// HasExistingDuctwork is the hint sent to the model for a variant.
func (v Variant) HasExistingDuctwork() bool {
	return v == VariantDucted
}

const defaultBedrooms = 3

// ZoneCount estimates indoor units: one per bedroom plus two common areas.
func ZoneCount(bedrooms *int) int {
	if bedrooms == nil || *bedrooms <= 0 {
		return defaultBedrooms + 2
	}
	return *bedrooms + 2
}

// Enumerated survey answers, as accepted by request validation tags.
var (
	BasementTypes         = []string{"full", "partial", "crawlspace", "slab", "none"}
	DuctworkAnswers       = []string{string(DuctworkYes), string(DuctworkNo), string(DuctworkNotSure)}
	OwnershipStatuses     = []string{"own", "rent"}
	HeatingSources        = []string{"oil", "gas", "propane", "electric", "other"}
	InstallationTimelines = []string{"asap", "1-3-months", "3-6-months", "exploring"}
)

// Package wizard runs the customer quote wizard: per-step validation,
// forward and back navigation, and the side effects fired at each transition.
package wizard

import "time"

// Step is a 1-based wizard position.
type Step int

const (
	StepAddress Step = iota + 1
	StepContact
	StepHomeDetails
	StepQualification
	StepUtilities
	StepOverview
	StepQuote
)

const (
	FirstStep = StepAddress
	LastStep  = StepQuote
)

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	switch s {
	case StepAddress:
		return "address"
	case StepContact:
		return "contact"
	case StepHomeDetails:
		return "home_details"
	case StepQualification:
		return "qualification"
	case StepUtilities:
		return "utilities"
	case StepOverview:
		return "overview"
	case StepQuote:
		return "quote"
	default:
		return "unknown"
	}
}

// ProgressInterval is how often the client rotates ProgressMessages while a
// quote is being generated.
const ProgressInterval = 2500 * time.Millisecond

var ProgressMessages = []string{
	"Analyzing your property details...",
	"Calculating heating and cooling loads...",
	"Sizing outdoor and indoor units...",
	"Comparing ducted and ductless options...",
	"Estimating electrical and installation work...",
	"Applying Mass Save rebates...",
	"Finalizing your quote...",
}

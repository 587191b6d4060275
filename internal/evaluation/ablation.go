package evaluation

import (
	"context"
	"strings"
	"time"

	"hvac_quote_backend/internal/prediction"
)

// AblationConfig is one hint combination.
type AblationConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Hints       HintFunc `json:"-"`
}

func ductworkHint(a Actual) *bool {
	ducted := strings.Contains(strings.ToLower(a.TypeOfODU), "duct")
	return &ducted
}

func roomsHint(a Actual) *int {
	rooms := a.NumberOfIDU
	return &rooms
}

// AblationConfigs are the three hint combinations compared in an ablation run.
var AblationConfigs = []AblationConfig{
	{
		Name:        "ductwork-only",
		Description: "Providing only: whether the home has existing ductwork",
		Hints: func(a Actual) prediction.Hints {
			return prediction.Hints{HasExistingDuctwork: ductworkHint(a)}
		},
	},
	{
		Name:        "rooms-only",
		Description: "Providing only: number of rooms/zones to heat and cool",
		Hints: func(a Actual) prediction.Hints {
			return prediction.Hints{NumberOfRooms: roomsHint(a)}
		},
	},
	{
		Name:        "ductwork-and-rooms",
		Description: "Providing both: ductwork info AND number of rooms",
		Hints: func(a Actual) prediction.Hints {
			return prediction.Hints{HasExistingDuctwork: ductworkHint(a), NumberOfRooms: roomsHint(a)}
		},
	},
}

// AblationResult is the report for one configuration.
type AblationResult struct {
	Config AblationConfig `json:"config"`
	Report Report         `json:"results"`
}

type AblationReport struct {
	Results   []AblationResult `json:"results"`
	Timestamp time.Time        `json:"timestamp"`
}

// Best returns the configuration with the highest accuracy.
func (a AblationReport) Best() (AblationResult, bool) {
	if len(a.Results) == 0 {
		return AblationResult{}, false
	}
	best := a.Results[0]
	for _, r := range a.Results[1:] {
		if r.Report.AccuracyRate > best.Report.AccuracyRate {
			best = r
		}
	}
	return best, true
}

// RunAblation runs each configuration over the same actuals. Property
// lookups are shared between passes.
func (r *Runner) RunAblation(ctx context.Context, actuals []Actual, configs []AblationConfig) (AblationReport, error) {
	out := AblationReport{Results: make([]AblationResult, 0, len(configs))}
	for _, cfg := range configs {
		r.log.Info("ablation pass started", "config", cfg.Name, "addresses", len(actuals))
		report, err := r.Run(ctx, actuals, cfg.Hints)
		if err != nil {
			return AblationReport{}, err
		}
		out.Results = append(out.Results, AblationResult{Config: cfg, Report: report})
	}
	out.Timestamp = r.now().UTC()
	return out, nil
}

package evaluation

import (
	"fmt"
	"strings"

	"hvac_quote_backend/internal/prediction"
)

type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchClose       MatchType = "close"
	MatchDirectional MatchType = "directional"
	MatchIncorrect   MatchType = "incorrect"
)

// Predicted is the flattened model answer recorded in a report.
type Predicted struct {
	NumberOfODU int    `json:"numberOfODU"`
	TypeOfODU   string `json:"typeOfODU"`
	ODUSize     string `json:"oduSize"`
	NumberOfIDU int    `json:"numberOfIDU"`
	TypeOfIDU   string `json:"typeOfIDU"`
	IDUSize     string `json:"iduSize"`
	Confidence  string `json:"confidence,omitempty"`
	Reasoning   string `json:"reasoning,omitempty"`
}

func fromResult(r prediction.Result) Predicted {
	p := Predicted{
		TypeOfODU:  r.TypeOfODU,
		ODUSize:    r.ODUSize,
		TypeOfIDU:  r.TypeOfIDU,
		IDUSize:    r.IDUSize,
		Confidence: r.Confidence,
		Reasoning:  r.Reasoning,
	}
	if r.NumberOfODU != nil {
		p.NumberOfODU = *r.NumberOfODU
	}
	if r.NumberOfIDU != nil {
		p.NumberOfIDU = *r.NumberOfIDU
	}
	return p
}

func failed(err error) Predicted {
	return Predicted{
		TypeOfODU:  "ERROR",
		ODUSize:    "0",
		TypeOfIDU:  "ERROR",
		IDUSize:    "0",
		Confidence: "low",
		Reasoning:  "Error: " + err.Error(),
	}
}

// Compare grades a prediction. Types compare case-insensitively, sizes
// exactly.
func Compare(p Predicted, a Actual) (MatchType, string) {
	oduCount := p.NumberOfODU == a.NumberOfODU
	oduType := strings.EqualFold(p.TypeOfODU, a.TypeOfODU)
	oduSize := p.ODUSize == a.ODUSize
	iduCount := p.NumberOfIDU == a.NumberOfIDU
	iduType := strings.EqualFold(p.TypeOfIDU, a.TypeOfIDU)
	iduSize := p.IDUSize == a.IDUSize

	details := strings.Join([]string{
		detail("ODU Count", fmt.Sprint(p.NumberOfODU), fmt.Sprint(a.NumberOfODU), oduCount),
		detail("ODU Type", p.TypeOfODU, a.TypeOfODU, oduType),
		detail("ODU Size", p.ODUSize, a.ODUSize, oduSize),
		detail("IDU Count", fmt.Sprint(p.NumberOfIDU), fmt.Sprint(a.NumberOfIDU), iduCount),
		detail("IDU Type", p.TypeOfIDU, a.TypeOfIDU, iduType),
		detail("IDU Size", p.IDUSize, a.IDUSize, iduSize),
	}, " | ")

	switch {
	case oduCount && oduType && oduSize && iduCount && iduType && iduSize:
		return MatchExact, details
	case oduCount && iduCount && oduType && iduType:
		return MatchClose, details
	case oduType && iduType:
		return MatchDirectional, details
	default:
		return MatchIncorrect, details
	}
}

func detail(label, predicted, actual string, ok bool) string {
	mark := "✗"
	if ok {
		mark = "✓"
	}
	return fmt.Sprintf("%s: %s vs %s %s", label, predicted, actual, mark)
}

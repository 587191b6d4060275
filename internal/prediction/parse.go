package prediction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete means the model answered without one of the six equipment fields.
var ErrIncomplete = errors.New("incomplete prediction response")

// Result is a model's configuration for one variant.
type Result struct {
	NumberOfODU            *int     `json:"numberOfODU"`
	TypeOfODU              string   `json:"typeOfODU"`
	ODUSize                string   `json:"oduSize"`
	NumberOfIDU            *int     `json:"numberOfIDU"`
	TypeOfIDU              string   `json:"typeOfIDU"`
	IDUSize                string   `json:"iduSize"`
	ElectricalWorkEstimate *float64 `json:"electricalWorkEstimate,omitempty"`
	HVACWorkEstimate       *float64 `json:"hvacWorkEstimate,omitempty"`
	Confidence             string   `json:"confidence,omitempty"`
	Reasoning              string   `json:"reasoning,omitempty"`
}

// ODUCount and IDUCount are safe after Parse succeeded.
func (r Result) ODUCount() int { return *r.NumberOfODU }
func (r Result) IDUCount() int { return *r.NumberOfIDU }

// Parse decodes model output. Markdown code fences and text around the JSON
// object are tolerated.
func Parse(text string) (Result, error) {
	body := extractJSONObject(text)
	if body == "" {
		return Result{}, fmt.Errorf("no JSON object in model response")
	}

	var r Result
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return Result{}, fmt.Errorf("decode model response: %w", err)
	}

	if r.NumberOfODU == nil || r.TypeOfODU == "" || r.ODUSize == "" ||
		r.NumberOfIDU == nil || r.TypeOfIDU == "" || r.IDUSize == "" {
		return Result{}, ErrIncomplete
	}
	return r, nil
}

func extractJSONObject(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

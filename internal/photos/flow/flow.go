// Package flow is the photo submission state machine: the step graph, the
// gate-dependent transition table and per-step validation.
package flow

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed steps.yaml
var defaultSteps []byte

type Kind string

const (
	KindInfo       Kind = "info"
	KindPhoto      Kind = "photo"
	KindGate       Kind = "gate"
	KindAdditional Kind = "additional"
	KindDone       Kind = "done"
)

const (
	msgSelectOption = "Please select an option"
	msgUploadPhoto  = "Please upload a photo to continue"
)

type Step struct {
	ID        string `yaml:"id" json:"id"`
	Kind      Kind   `yaml:"kind" json:"kind"`
	Slot      string `yaml:"slot" json:"slot,omitempty"`
	Required  bool   `yaml:"required" json:"required"`
	DependsOn string `yaml:"dependsOn" json:"dependsOn,omitempty"`
	Label     string `yaml:"label" json:"label,omitempty"`
	Title     string `yaml:"title" json:"title"`
	Subtitle  string `yaml:"subtitle" json:"subtitle,omitempty"`
	Hint      string `yaml:"hint" json:"hint,omitempty"`
}

// Answers holds gate answers by gate step id. A missing key is unanswered.
type Answers map[string]bool

// Flow is an ordered, validated list of steps.
type Flow struct {
	steps []Step
	index map[string]int
}

var additionalSlot = regexp.MustCompile(`^additional-\d+$`)

// Default returns the embedded flow.
func Default() *Flow {
	f, err := Parse(defaultSteps)
	if err != nil {
		panic(fmt.Sprintf("embedded photo steps: %v", err))
	}
	return f
}

// Parse reads a step document and checks that every dependent step directly
// follows its gate and that the flow ends with a done step.
func Parse(data []byte) (*Flow, error) {
	var doc struct {
		Steps []Step `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse steps: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("no steps defined")
	}

	f := &Flow{steps: doc.Steps, index: make(map[string]int, len(doc.Steps))}
	for i, s := range doc.Steps {
		if s.ID == "" {
			return nil, fmt.Errorf("step %d has no id", i)
		}
		if _, dup := f.index[s.ID]; dup {
			return nil, fmt.Errorf("duplicate step id %q", s.ID)
		}
		f.index[s.ID] = i

		switch s.Kind {
		case KindInfo, KindGate, KindAdditional, KindDone:
		case KindPhoto:
			if s.Slot == "" {
				return nil, fmt.Errorf("photo step %q has no slot", s.ID)
			}
		default:
			return nil, fmt.Errorf("step %q has unknown kind %q", s.ID, s.Kind)
		}

		if s.DependsOn != "" {
			if i == 0 || doc.Steps[i-1].ID != s.DependsOn || doc.Steps[i-1].Kind != KindGate {
				return nil, fmt.Errorf("step %q must directly follow gate %q", s.ID, s.DependsOn)
			}
		}
	}
	if doc.Steps[len(doc.Steps)-1].Kind != KindDone {
		return nil, fmt.Errorf("last step must be done")
	}
	return f, nil
}

func (f *Flow) Steps() []Step {
	out := make([]Step, len(f.steps))
	copy(out, f.steps)
	return out
}

func (f *Flow) Len() int { return len(f.steps) }

func (f *Flow) Step(pos int) (Step, bool) {
	if pos < 0 || pos >= len(f.steps) {
		return Step{}, false
	}
	return f.steps[pos], true
}

// Position returns the index of a step id.
func (f *Flow) Position(id string) (int, bool) {
	pos, ok := f.index[id]
	return pos, ok
}

// Node is one row of the transition table.
type Node struct {
	ID   string `json:"id"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

// Table computes next and prev for every step under the given answers.
func (f *Flow) Table(answers Answers) []Node {
	nodes := make([]Node, len(f.steps))
	for i, s := range f.steps {
		nodes[i].ID = s.ID
		if n := f.Next(i, answers); n != i {
			nodes[i].Next = f.steps[n].ID
		}
		if p := f.Prev(i, answers); p != i {
			nodes[i].Prev = f.steps[p].ID
		}
	}
	return nodes
}

// included reports whether a step is part of the path under answers.
func (f *Flow) included(pos int, answers Answers) bool {
	s := f.steps[pos]
	if s.DependsOn == "" {
		return true
	}
	return answers[s.DependsOn]
}

// Next is the step after pos, skipping dependent steps whose gate is not
// answered yes. The last step maps to itself.
func (f *Flow) Next(pos int, answers Answers) int {
	if pos < 0 {
		return 0
	}
	for n := pos + 1; n < len(f.steps); n++ {
		if f.included(n, answers) {
			return n
		}
	}
	return len(f.steps) - 1
}

// Prev mirrors Next. The first step maps to itself.
func (f *Flow) Prev(pos int, answers Answers) int {
	if pos >= len(f.steps) {
		return len(f.steps) - 1
	}
	for p := pos - 1; p >= 0; p-- {
		if f.included(p, answers) {
			return p
		}
	}
	return 0
}

// Validate returns the errors that block leaving pos. Keys are the gate step
// id or the photo slot. attached holds slots that have a file picked,
// whatever the state of its upload.
func (f *Flow) Validate(pos int, answers Answers, attached map[string]bool) map[string]string {
	s, ok := f.Step(pos)
	if !ok {
		return map[string]string{"step": "Unknown step"}
	}

	switch s.Kind {
	case KindGate:
		if _, answered := answers[s.ID]; !answered {
			return map[string]string{s.ID: msgSelectOption}
		}
	case KindPhoto:
		if f.required(s, answers) && !attached[s.Slot] {
			return map[string]string{s.Slot: msgUploadPhoto}
		}
	}
	return nil
}

func (f *Flow) required(s Step, answers Answers) bool {
	if !s.Required {
		return false
	}
	if s.DependsOn != "" {
		return answers[s.DependsOn]
	}
	return true
}

// Labels are the progress bar entries, in order.
func (f *Flow) Labels() []string {
	var out []string
	for _, s := range f.steps {
		if s.Label != "" {
			out = append(out, s.Label)
		}
	}
	return out
}

// ProgressIndex is the index into Labels of the nearest labelled step at or
// before pos.
func (f *Flow) ProgressIndex(pos int) int {
	if pos >= len(f.steps) {
		pos = len(f.steps) - 1
	}
	for i := pos; i >= 0; i-- {
		if f.steps[i].Label == "" {
			continue
		}
		idx := 0
		for j := 0; j < i; j++ {
			if f.steps[j].Label != "" {
				idx++
			}
		}
		return idx
	}
	return 0
}

// ValidSlot reports whether slot is a photo slot of the flow or an
// additional-N slot.
func (f *Flow) ValidSlot(slot string) bool {
	if additionalSlot.MatchString(slot) {
		return true
	}
	for _, s := range f.steps {
		if s.Kind == KindPhoto && s.Slot == slot {
			return true
		}
	}
	return false
}

// AdditionalSlot names the n-th extra photo.
func AdditionalSlot(n int) string {
	return fmt.Sprintf("additional-%d", n)
}

// IsAdditionalSlot reports whether slot came from the additional step.
func IsAdditionalSlot(slot string) bool {
	return strings.HasPrefix(slot, "additional-") && additionalSlot.MatchString(slot)
}

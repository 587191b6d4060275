package flow

type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// State is the client's position and what it has collected so far.
type State struct {
	Position int
	Answers  Answers
	Attached map[string]bool
}

// Outcome is where the flow landed.
type Outcome struct {
	Position      int               `json:"position"`
	StepID        string            `json:"stepId"`
	ProgressIndex int               `json:"progressIndex"`
	Done          bool              `json:"done"`
	Errors        map[string]string `json:"errors,omitempty"`
}

// Transition moves one step. Going forward validates the current step first;
// going back never does.
func (f *Flow) Transition(state State, dir Direction) Outcome {
	pos := state.Position
	if pos < 0 {
		pos = 0
	}
	if pos >= len(f.steps) {
		pos = len(f.steps) - 1
	}

	var errs map[string]string
	switch dir {
	case DirectionNext:
		errs = f.Validate(pos, state.Answers, state.Attached)
		if len(errs) == 0 {
			pos = f.Next(pos, state.Answers)
		}
	case DirectionPrev:
		pos = f.Prev(pos, state.Answers)
	}

	return Outcome{
		Position:      pos,
		StepID:        f.steps[pos].ID,
		ProgressIndex: f.ProgressIndex(pos),
		Done:          f.steps[pos].Kind == KindDone,
		Errors:        errs,
	}
}

package planner

import (
	"encoding/json"
	"fmt"
)

// Outcome distinguishes the three ways a search can end. The zero
// value is Unreachable so an empty Result reads as a failure.
type Outcome int

const (
	// Unreachable means no plan exists within the search bounds.
	Unreachable Outcome = iota
	// AlreadySatisfied means the start state meets the goal; the plan
	// is empty and costs nothing.
	AlreadySatisfied
	// Found means a non-empty plan reaches the goal.
	Found
)

func (o Outcome) String() string {
	switch o {
	case AlreadySatisfied:
		return "already_satisfied"
	case Found:
		return "found"
	default:
		return "unreachable"
	}
}

// MarshalJSON encodes the outcome as its string form.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes the string form produced by MarshalJSON.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "already_satisfied":
		*o = AlreadySatisfied
	case "found":
		*o = Found
	case "unreachable":
		*o = Unreachable
	default:
		return fmt.Errorf("unknown outcome %q", s)
	}
	return nil
}

// Result reports one search. Explored counts nodes popped from the
// frontier and Frontier is the peak queue size, so callers can see how
// hard a query was even when it succeeds.
type Result struct {
	Outcome  Outcome  `json:"outcome"`
	Plan     []string `json:"plan,omitempty"`
	Cost     float64  `json:"cost"`
	Explored int      `json:"explored"`
	Frontier int      `json:"frontier"`
	Cached   bool     `json:"cached,omitempty"`
	Budget   bool     `json:"budget_exhausted,omitempty"`
}

// Steps returns the number of actions in the plan.
func (r Result) Steps() int {
	return len(r.Plan)
}

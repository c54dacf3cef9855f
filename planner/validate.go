package planner

import (
	"errors"
	"fmt"

	"github.com/pflow-xyz/go-goap/action"
	"github.com/pflow-xyz/go-goap/state"
)

// ErrActionNotFound reports a plan step naming an operator absent from
// the operator set. It is always an error, never a silent skip.
var ErrActionNotFound = errors.New("action not found in operator set")

// Validate replays a plan step by step from start. It returns true
// when every step's preconditions hold at its turn and the final state
// satisfies the goal. A step naming an unknown operator is an error;
// a step whose preconditions fail is a clean false.
func Validate(plan []string, start state.State, goal Goal, ops []action.Action) (bool, error) {
	index := indexOps(ops)
	current := start.Copy()
	for i, name := range plan {
		a, ok := index[name]
		if !ok {
			return false, fmt.Errorf("validate step %d %q: %w", i, name, ErrActionNotFound)
		}
		if !a.IsValid(current) {
			return false, nil
		}
		current = a.Apply(current)
	}
	return goal.Satisfied(current), nil
}

// Cost sums the operator costs of a plan without replaying effects.
// An unknown step is an error.
func Cost(plan []string, ops []action.Action) (float64, error) {
	index := indexOps(ops)
	total := 0.0
	for i, name := range plan {
		a, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("cost step %d %q: %w", i, name, ErrActionNotFound)
		}
		total += a.Cost
	}
	return total, nil
}

// indexOps maps operator names to actions. On duplicate names the
// first occurrence wins, matching search order.
func indexOps(ops []action.Action) map[string]action.Action {
	index := make(map[string]action.Action, len(ops))
	for _, a := range ops {
		if _, ok := index[a.Name]; !ok {
			index[a.Name] = a
		}
	}
	return index
}

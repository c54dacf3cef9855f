// Package action defines planning operators: a static catalog of
// archetypal actions, personality-adjusted costs, and dynamic expansion
// of world-specific actions for a single planning call.
package action

import (
	"fmt"

	"github.com/pflow-xyz/go-goap/state"
)

// Action is a named state transition with preconditions, effects, and a
// positive cost. Actions are immutable once constructed.
type Action struct {
	Name          string             `json:"name"`
	Category      string             `json:"category,omitempty"`
	Preconditions state.ConditionSet `json:"preconditions,omitempty"`
	Effects       state.EffectSet    `json:"effects,omitempty"`
	Cost          float64            `json:"cost"`
}

// New builds an action from raw precondition and effect maps, applying
// the construction-time inference rules: numeric preconditions are
// minimum thresholds, numeric effects are additive deltas.
func New(name string, pre, eff map[string]any, cost float64) Action {
	return Action{
		Name:          name,
		Preconditions: state.Preconditions(pre),
		Effects:       state.Effects(eff),
		Cost:          cost,
	}
}

// IsValid checks every precondition against the state. It is
// deterministic and never mutates the state.
func (a Action) IsValid(s state.State) bool {
	return a.Preconditions.Satisfied(s)
}

// Apply returns the successor state produced by the action's effects.
// The input state is never mutated.
func (a Action) Apply(s state.State) state.State {
	return a.Effects.Apply(s)
}

// String returns the action name and cost.
func (a Action) String() string {
	return fmt.Sprintf("%s (cost %.1f)", a.Name, a.Cost)
}

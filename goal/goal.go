// Package goal models agent objectives: typed, prioritized condition
// sets with an explicit status lifecycle, a needs-driven generator, and
// a per-agent priority queue manager.
package goal

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pflow-xyz/go-goap/state"
)

// Type classifies what kind of objective a goal represents.
type Type string

const (
	MaintainNeed     Type = "maintain_need"
	ObtainItem       Type = "obtain_item"
	ReachSkill       Type = "reach_skill"
	AccumulateWealth Type = "accumulate_wealth"
	BuildStructure   Type = "build_structure"
	CompleteOrder    Type = "complete_order"
	Socialize        Type = "socialize"
	Learn            Type = "learn"
)

// Status is the lifecycle stage of a goal.
type Status string

const (
	Pending   Status = "pending"
	Active    Status = "active"
	Completed Status = "completed"
	Abandoned Status = "abandoned"
)

// ErrBadTransition reports a status change the lifecycle does not
// allow. Completed and abandoned are terminal.
var ErrBadTransition = errors.New("invalid goal status transition")

// transitions is the status event table: source -> allowed targets.
var transitions = map[Status][]Status{
	Pending: {Active, Abandoned},
	Active:  {Completed, Abandoned},
}

// Goal is one objective for one agent. Conditions describe the world
// state that completes it; Priority orders it against the agent's
// other goals.
type Goal struct {
	ID         string             `json:"id"`
	AgentID    string             `json:"agent_id"`
	Type       Type               `json:"type"`
	Priority   float64            `json:"priority"`
	Conditions state.ConditionSet `json:"conditions"`
	Status     Status             `json:"status"`
	Reason     string             `json:"reason,omitempty"`
	Deadline   *time.Time         `json:"deadline,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// New creates a pending goal with a fresh ID.
func New(agentID string, t Type, priority float64, conds state.ConditionSet) Goal {
	return Goal{
		ID:         uuid.NewString(),
		AgentID:    agentID,
		Type:       t,
		Priority:   priority,
		Conditions: conds,
		Status:     Pending,
		CreatedAt:  time.Now().UTC(),
	}
}

// Satisfied reports whether the state completes the goal.
func (g Goal) Satisfied(s state.State) bool {
	return g.Conditions.Satisfied(s)
}

// Expired reports whether the goal's deadline has passed. Goals
// without a deadline never expire.
func (g Goal) Expired(now time.Time) bool {
	return g.Deadline != nil && now.After(*g.Deadline)
}

// Advance moves the goal to the given status, rejecting transitions
// the event table does not allow.
func (g *Goal) Advance(to Status) error {
	for _, allowed := range transitions[g.Status] {
		if allowed == to {
			g.Status = to
			return nil
		}
	}
	return fmt.Errorf("%s -> %s: %w", g.Status, to, ErrBadTransition)
}

// String returns a compact identity-and-priority form.
func (g Goal) String() string {
	return fmt.Sprintf("%s[%s] p=%.2f %s", g.ID, g.Type, g.Priority, g.Status)
}

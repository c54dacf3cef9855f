package goal

import (
	"fmt"
	"time"

	"github.com/pflow-xyz/go-goap/state"
	"github.com/pflow-xyz/go-goap/world"
)

// Needs thresholds for goal generation. Needs run on the 0..1 scale
// here: hunger rises toward 1, energy drains toward 0.
const (
	hungerThreshold = 0.7
	energyThreshold = 0.2
	wealthThreshold = 100.0
)

// Generate derives goals from an agent's current needs and holdings.
// Need-driven goal IDs carry the generation timestamp, so the manager
// treats goals generated in the same second as the same goal; the
// house goal has a fixed ID because an agent only ever wants one.
func Generate(agent world.AgentState, now time.Time) []Goal {
	var goals []Goal

	if agent.Needs.Hunger > hungerThreshold {
		goals = append(goals, Goal{
			ID:       fmt.Sprintf("eat_food_%d", now.Unix()),
			AgentID:  agent.ID,
			Type:     MaintainNeed,
			Priority: (agent.Needs.Hunger - 0.5) * 2,
			Conditions: state.ConditionSet{
				state.MaxCondition("hunger", state.ZeroTolerance),
			},
			Status:    Pending,
			CreatedAt: now,
		})
	}

	if agent.Needs.Energy < energyThreshold {
		goals = append(goals, Goal{
			ID:       fmt.Sprintf("rest_%d", now.Unix()),
			AgentID:  agent.ID,
			Type:     MaintainNeed,
			Priority: (1.0 - agent.Needs.Energy) * 1.5,
			Conditions: state.ConditionSet{
				state.MinCondition("energy", 1.0),
			},
			Status:    Pending,
			CreatedAt: now,
		})
	}

	if agent.Gold >= wealthThreshold && agent.HomeID == "" {
		goals = append(goals, Goal{
			ID:       "build_house",
			AgentID:  agent.ID,
			Type:     BuildStructure,
			Priority: 0.6,
			Conditions: state.ConditionSet{
				state.EqualsCondition("has_home", true),
			},
			Status:    Pending,
			CreatedAt: now,
		})
	}

	return goals
}

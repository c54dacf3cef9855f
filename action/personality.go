package action

import (
	"fmt"

	"github.com/pflow-xyz/go-goap/world"
)

// Trait-to-action bindings for cost adjustment. work_labor is the
// synthesized work action from Expand.
var (
	laborActions  = map[string]bool{"chop": true, "mine": true, "farm": true, "hunt": true}
	profitActions = map[string]bool{"sell": true, "work_labor": true, "accept_order": true}
	socialActions = map[string]bool{"talk": true, "socialize": true, "recruit": true}
)

// minCost is the floor for personality-adjusted costs.
const minCost = 0.1

// AdjustedCost returns the action's cost skewed by personality: lazy
// agents find physical labor dearer, greedy agents discount profit
// actions, social agents discount social actions.
func AdjustedCost(a Action, p world.Personality) float64 {
	cost := a.Cost
	if laborActions[a.Name] {
		cost *= 1 + p.Laziness
	}
	if profitActions[a.Name] {
		cost *= 1 - p.Greed*0.3
	}
	if socialActions[a.Name] {
		cost *= 1 - p.Sociability*0.2
	}
	if cost < minCost {
		return minCost
	}
	return cost
}

// CostWith looks an action up by name and returns its personality-
// adjusted cost. Unknown names fail loudly.
func (c *Catalog) CostWith(name string, p world.Personality) (float64, error) {
	a, ok := c.Get(name)
	if !ok {
		return 0, fmt.Errorf("cost of %q: %w", name, ErrNotFound)
	}
	return AdjustedCost(a, p), nil
}

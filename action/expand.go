package action

import (
	"math"
	"sort"

	"github.com/pflow-xyz/go-goap/world"
)

// Resource type groups for harvest synthesis.
var (
	gatherableTypes = map[string]bool{
		"bush_berry": true, "tree_apple": true, "wild_wheat": true,
		"mushroom_red": true, "mushroom_brown": true,
	}
	treeTypes = map[string]bool{"tree_oak": true, "tree_pine": true}
	oreYield  = map[string]string{"rock_stone": "has_stone", "ore_iron": "has_ore"}
)

// Expand synthesizes the world-specific actions for one planning call:
// a move and a harvest per known resource, an eat per known food, a buy
// per priced market item, and a generic work action. The result is
// combined with the static catalog by the caller and discarded after
// the call; nothing here is registered.
func Expand(agent world.AgentState, snap world.Snapshot) []Action {
	var actions []Action

	for _, r := range snap.Resources {
		near := "near_" + r.ID

		move := New("move_to_"+r.ID,
			nil,
			map[string]any{near: true},
			moveCost(agent, r))
		move.Category = "dynamic"
		actions = append(actions, move)

		// Harvest actions are keyed by resource id so two resources of
		// the same type stay distinct operators.
		switch {
		case gatherableTypes[r.Type]:
			a := New("gather_"+r.ID,
				map[string]any{near: true},
				map[string]any{"has_" + r.Type: 1}, 1.0)
			a.Category = "dynamic"
			actions = append(actions, a)
		case treeTypes[r.Type]:
			a := New("chop_"+r.ID,
				map[string]any{near: true, "has_axe": 1},
				map[string]any{"has_wood": 1}, 2.0)
			a.Category = "dynamic"
			actions = append(actions, a)
		default:
			if yield, ok := oreYield[r.Type]; ok {
				a := New("mine_"+r.ID,
					map[string]any{near: true, "has_pickaxe": 1},
					map[string]any{yield: 1}, 3.0)
				a.Category = "dynamic"
				actions = append(actions, a)
			}
		}
	}

	for _, food := range snap.KnownFoods() {
		a := New("eat_"+food,
			map[string]any{"has_" + food: 1},
			map[string]any{"hunger": -0.3}, 0.5)
		a.Category = "dynamic"
		actions = append(actions, a)
	}

	items := make([]string, 0, len(snap.MarketPrices))
	for item := range snap.MarketPrices {
		items = append(items, item)
	}
	sort.Strings(items)
	for _, item := range items {
		price := snap.MarketPrices[item]
		a := New("buy_"+item,
			map[string]any{"gold": price},
			map[string]any{"has_" + item: 1, "gold": -price}, 1.0)
		a.Category = "dynamic"
		actions = append(actions, a)
	}

	work := New("work_labor",
		nil,
		map[string]any{"gold": 5, "energy": -0.2}, 5.0)
	work.Category = "dynamic"
	actions = append(actions, work)

	return actions
}

// moveCost is the base move cost plus a small distance term when the
// resource position is known.
func moveCost(agent world.AgentState, r world.Resource) float64 {
	if len(r.Position) < 2 {
		return 1.0
	}
	dist := math.Abs(r.Position[0]-agent.Position[0]) +
		math.Abs(r.Position[1]-agent.Position[1])
	return 1.0 + dist*0.01
}

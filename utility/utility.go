// Package utility scores candidate actions with a weighted sum over
// needs, economy, and risk. It is the cheap reactive layer: no search,
// just one pass over the options.
//
// Needs here run on the 0..100 scale the reactive tick uses, unlike
// the 0..1 scale of goal generation; the thresholds below (hunger 50,
// energy 30) assume it.
package utility

import (
	"github.com/pflow-xyz/go-goap/world"
)

// Weights of the three utility components.
const (
	weightNeeds    = 0.6
	weightEconomic = 0.4
	weightRisk     = 0.2
)

// foodThreshold is the stock level below which gathering food stays
// urgent; stockpileLimit is the held quantity above which gathering
// more of anything loses value.
const (
	foodThreshold  = 3
	stockpileLimit = 10
)

// foods are the item types that count toward the agent's food stock.
var foods = []string{
	"bush_berry", "tree_apple", "bread",
	"mushroom_red", "mushroom_brown", "wild_wheat", "flower_honey",
}

// foodTargets are gather targets that feed the agent; economicTargets
// are gather targets worth money or crafting materials.
var (
	foodTargets     = map[string]bool{"bush_berry": true, "tree_apple": true, "wild_wheat": true}
	economicTargets = map[string]bool{"tree_oak": true, "rock_iron": true}
)

// Option is one candidate action: a type (gather, eat, sleep, move,
// idle), an optional resource target, and the world position where it
// happens.
type Option struct {
	Name     string     `json:"name,omitempty"`
	Type     string     `json:"type"`
	Target   string     `json:"target,omitempty"`
	Position [2]float64 `json:"position"`
}

// Scored is an option with its utility and component breakdown.
type Scored struct {
	Option   Option  `json:"option"`
	Utility  float64 `json:"utility"`
	Needs    float64 `json:"needs"`
	Economic float64 `json:"economic"`
	Risk     float64 `json:"risk"`
}

// Score rates every option for the agent, preserving option order.
func Score(agent world.AgentState, opts []Option) []Scored {
	foodCount := 0
	for _, f := range foods {
		foodCount += agent.ItemCount(f)
	}

	out := make([]Scored, len(opts))
	for i, opt := range opts {
		needs, economic := 0.0, 0.0

		switch opt.Type {
		case "gather":
			switch {
			case foodTargets[opt.Target]:
				if agent.Needs.Hunger > 50 || foodCount < foodThreshold {
					needs += 0.8
				} else {
					needs += 0.2 // stockpile
				}
			case economicTargets[opt.Target]:
				economic += 0.5
			}
		case "eat":
			if agent.Needs.Hunger > 30 {
				needs += 1.0
			} else {
				needs -= 0.5
			}
		case "sleep":
			if agent.Needs.Energy < 30 {
				needs += 1.0
			} else {
				needs -= 0.5
			}
		case "move":
			needs -= 0.1
		case "idle":
			needs -= 0.2
		}

		// Holding plenty of the target makes gathering more redundant.
		if opt.Type == "gather" && agent.ItemCount(opt.Target) > stockpileLimit {
			economic -= 0.3
		}

		dist := manhattan(agent.Position, opt.Position)
		risk := -dist * 0.01

		out[i] = Scored{
			Option:   opt,
			Needs:    needs,
			Economic: economic,
			Risk:     risk,
			Utility:  needs*weightNeeds + economic*weightEconomic + risk*weightRisk,
		}
	}
	return out
}

// Best returns the highest-utility option. Earlier options win ties,
// and the third result is false when no option beats the floor.
func Best(agent world.AgentState, opts []Option) (Option, float64, bool) {
	best := Option{}
	bestUtility := -1000.0
	found := false

	for _, s := range Score(agent, opts) {
		if s.Utility > bestUtility {
			best = s.Option
			bestUtility = s.Utility
			found = true
		}
	}
	return best, bestUtility, found
}

func manhattan(a, b [2]float64) float64 {
	dx := a[0] - b[0]
	if dx < 0 {
		dx = -dx
	}
	dy := a[1] - b[1]
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

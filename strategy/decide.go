package strategy

import (
	"github.com/pflow-xyz/go-goap/world"
)

// Choice names an acquisition path.
type Choice string

const (
	ChooseCraft      Choice = "craft"
	ChooseWorkAndBuy Choice = "work_and_buy"
)

// Decision is the outcome of comparing both paths for an item. Both
// evaluations are kept so callers can show their own reasoning.
type Decision struct {
	Choice Choice     `json:"choice"`
	Craft  Evaluation `json:"craft"`
	Buy    Evaluation `json:"work_and_buy"`
	Reason string     `json:"reason"`
}

// Decide evaluates both paths and applies the priority rules. The
// rules run in strict order; the first that fires wins.
func Decide(item string, agent world.AgentState, snap world.Snapshot) Decision {
	craft := EvaluateCraft(item, agent, snap)
	buy := EvaluateWorkAndBuy(item, agent, snap)

	pick := func(c Choice, reason string) Decision {
		return Decision{Choice: c, Craft: craft, Buy: buy, Reason: reason}
	}

	if !craft.Feasible {
		return pick(ChooseWorkAndBuy, "craft path infeasible")
	}
	if !buy.Feasible {
		return pick(ChooseCraft, "buy path infeasible")
	}

	risky := craft.SuccessProb < 0.7
	lowQuality := craft.Quality < 0.6
	timeRatio := buy.TimeCost / max(craft.TimeCost, 1)

	if craft.SuccessProb < 0.5 || craft.Quality < 0.4 {
		return pick(ChooseWorkAndBuy, "very risky/low quality")
	}
	if (risky || lowQuality) && timeRatio < 3.0 {
		return pick(ChooseWorkAndBuy, "risky and work not too slow")
	}
	if craft.SuccessProb > 0.8 && craft.Quality > 0.7 && craft.TimeCost < buy.TimeCost {
		return pick(ChooseCraft, "reliable and fast")
	}
	if risky {
		return pick(ChooseWorkAndBuy, "default for risky craft")
	}
	if craft.TotalCost < buy.TotalCost {
		return pick(ChooseCraft, "lower total cost")
	}
	return pick(ChooseWorkAndBuy, "lower total cost")
}

// Package strategy evaluates acquisition paths for items: crafting
// directly (fast but risky) versus working for gold and buying
// (slower but guaranteed). It compares the two and picks one with an
// ordered rule set.
package strategy

import (
	"github.com/pflow-xyz/go-goap/world"
)

// Base time costs in ticks.
const (
	baseCraftTime = 10.0
	baseWorkTime  = 20.0
	buyTravel     = 5.0
)

// Below this crafting skill, output quality is questionable.
const minSkillForQuality = 50.0

// defaultPrice is assumed for items the market does not list.
const defaultPrice = 50.0

// riskPenalty is the total-cost surcharge per identified risk.
const riskPenalty = 5.0

// Risk flags attached to a craft evaluation.
const (
	RiskMissingMaterials = "missing_materials"
	RiskLowQuality       = "low_quality_risk"
	RiskHighFailure      = "high_failure_risk"
)

// Evaluation scores one acquisition path. Craft evaluations fill the
// success and quality fields; work-and-buy evaluations fill the
// profession and gold fields and are always guaranteed quality.
type Evaluation struct {
	Feasible          bool     `json:"feasible"`
	TimeCost          float64  `json:"time_cost"`
	SuccessProb       float64  `json:"success_probability,omitempty"`
	Quality           float64  `json:"expected_quality,omitempty"`
	TotalCost         float64  `json:"total_cost"`
	Risks             []string `json:"risks,omitempty"`
	GuaranteedQuality bool     `json:"guaranteed_quality,omitempty"`
	BestProfession    string   `json:"best_profession,omitempty"`
	GoldNeeded        float64  `json:"gold_needed,omitempty"`
	WorkTime          float64  `json:"work_time,omitempty"`
}

// recipes maps craftable items to the material each requires in hand.
// Unlisted items fall back to the generic wood-or-ore rule.
var recipes = map[string][]string{
	"plank":        {"wood"},
	"furniture":    {"wood"},
	"tool_axe":     {"wood", "ore"},
	"tool_pickaxe": {"wood", "ore"},
	"sword":        {"ore"},
	"armor":        {"ore", "hide"},
	"bread":        {"wheat"},
}

// EvaluateCraft scores crafting the item with the agent's own hands.
// Skill drives success probability, expected quality, and speed;
// missing materials add gathering time and a risk flag.
func EvaluateCraft(item string, agent world.AgentState, snap world.Snapshot) Evaluation {
	skill := agent.Skill("crafting")
	hasMaterials := hasMaterialsFor(item, agent)

	success := min(0.95, 0.3+(skill/100)*0.65)
	quality := min(1.0, skill/100)
	timeCost := baseCraftTime * (1.0 - skill/200)

	var risks []string
	if !hasMaterials {
		risks = append(risks, RiskMissingMaterials)
		timeCost += 20
	}
	if skill < minSkillForQuality {
		risks = append(risks, RiskLowQuality)
	}
	if success < 0.7 {
		risks = append(risks, RiskHighFailure)
	}

	return Evaluation{
		Feasible:    hasMaterials || len(snap.Resources) > 0,
		TimeCost:    timeCost,
		SuccessProb: success,
		Quality:     quality,
		TotalCost:   timeCost + riskPenalty*float64(len(risks)),
		Risks:       risks,
	}
}

// EvaluateWorkAndBuy scores earning gold with the agent's best
// profession and buying the item at market price.
func EvaluateWorkAndBuy(item string, agent world.AgentState, snap world.Snapshot) Evaluation {
	price, ok := snap.Price(item)
	if !ok {
		price = defaultPrice
	}

	profession, skill := bestProfession(agent)
	goldPerSession := 5 + skill/10
	goldNeeded := max(0, price-agent.Gold)
	workTime := goldNeeded / goldPerSession * baseWorkTime
	timeCost := workTime + buyTravel

	return Evaluation{
		Feasible:          marketOffers(item, snap),
		TimeCost:          timeCost,
		TotalCost:         timeCost,
		GuaranteedQuality: true,
		BestProfession:    profession,
		GoldNeeded:        goldNeeded,
		WorkTime:          workTime,
	}
}

// hasMaterialsFor checks the agent's inventory against the item's
// recipe, or against the generic rule when the item has none.
func hasMaterialsFor(item string, agent world.AgentState) bool {
	if materials, ok := recipes[item]; ok {
		for _, m := range materials {
			if agent.ItemCount(m) <= 0 {
				return false
			}
		}
		return true
	}
	return agent.ItemCount("wood") > 0 || agent.ItemCount("ore") > 0
}

// marketOffers reports whether the item can be bought. A standing
// sell order is a sure sign; otherwise the tavern is assumed to stock
// basics, so the market effectively always offers.
func marketOffers(item string, snap world.Snapshot) bool {
	for _, order := range snap.QuestBoard {
		if order.Type == "sell" && order.Item == item {
			return true
		}
	}
	return true
}

// bestProfession returns the agent's highest earning skill among the
// three professions. Ties keep the earlier profession in the list;
// an agent with no skills defaults to gathering at zero.
func bestProfession(agent world.AgentState) (string, float64) {
	best, bestSkill := "gathering", agent.Skill("gathering")
	for _, p := range []string{"crafting", "trading"} {
		if s := agent.Skill(p); s > bestSkill {
			best, bestSkill = p, s
		}
	}
	return best, bestSkill
}

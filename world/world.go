// Package world defines the agent and world snapshots the planner
// consumes. These shapes cross the wire: the transport layer decodes
// requests into them and the action expander reads them directly.
package world

import (
	"github.com/pflow-xyz/go-goap/state"
)

// FoodTypes lists the food archetypes every agent knows how to eat.
var FoodTypes = []string{
	"bush_berry", "tree_apple", "bread",
	"mushroom_red", "mushroom_brown", "meat_cooked",
}

// Personality holds the trait values that skew action costs.
// Traits default to 0.5 (indifferent) when a snapshot omits them.
type Personality struct {
	Laziness    float64 `json:"laziness"`
	Greed       float64 `json:"greed"`
	Sociability float64 `json:"sociability"`
}

// DefaultPersonality returns the indifferent personality.
func DefaultPersonality() Personality {
	return Personality{Laziness: 0.5, Greed: 0.5, Sociability: 0.5}
}

// Needs holds an agent's survival needs.
type Needs struct {
	Hunger float64 `json:"hunger"`
	Energy float64 `json:"energy"`
	Social float64 `json:"social"`
}

// AgentState is one agent's view of itself.
type AgentState struct {
	ID            string             `json:"id"`
	Name          string             `json:"name,omitempty"`
	Position      [2]float64         `json:"position"`
	Needs         Needs              `json:"needs"`
	Health        float64            `json:"health"`
	Gold          float64            `json:"gold"`
	Skills        map[string]float64 `json:"skills,omitempty"`
	Inventory     map[string]int     `json:"inventory,omitempty"`
	Personality   Personality        `json:"personality"`
	HomeID        string             `json:"home_id,omitempty"`
	CurrentAction string             `json:"current_action,omitempty"`
}

// Skill returns a skill level, 0 when unknown.
func (a AgentState) Skill(name string) float64 {
	return a.Skills[name]
}

// ItemCount returns the held quantity of an item.
func (a AgentState) ItemCount(item string) int {
	return a.Inventory[item]
}

// HasItem checks the inventory for at least n of an item.
func (a AgentState) HasItem(item string, n int) bool {
	return a.Inventory[item] >= n
}

// PlanningState flattens the agent into planner facts: has_<item>
// counts, skill_<name> levels, the needs and health stats, gold, and
// the position. Gold is keyed "gold" so the synthesized buy and work
// operators bind to it.
func (a AgentState) PlanningState() state.State {
	s := make(state.State, len(a.Inventory)+len(a.Skills)+8)
	for item, qty := range a.Inventory {
		s["has_"+item] = float64(qty)
	}
	for skill, level := range a.Skills {
		s["skill_"+skill] = level
	}
	s["hunger"] = a.Needs.Hunger
	s["energy"] = a.Needs.Energy
	s["social"] = a.Needs.Social
	s["health"] = a.Health
	s["gold"] = a.Gold
	s["pos_x"] = a.Position[0]
	s["pos_y"] = a.Position[1]
	return s
}

// Resource is one harvestable instance in the world.
// Position is empty when the agent does not know where it is.
type Resource struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Position []float64 `json:"position,omitempty"`
	Amount   float64   `json:"amount,omitempty"`
}

// Order is a quest board entry.
type Order struct {
	Type  string  `json:"type"` // "sell" or "buy"
	Item  string  `json:"item"`
	Price float64 `json:"price,omitempty"`
}

// Snapshot is the slice of world knowledge a planning call sees.
type Snapshot struct {
	Resources    []Resource         `json:"resources,omitempty"`
	MarketPrices map[string]float64 `json:"market_prices,omitempty"`
	FoodTypes    []string           `json:"food_types,omitempty"`
	QuestBoard   []Order            `json:"quest_board,omitempty"`
}

// KnownFoods returns the snapshot's food list, falling back to the
// archetype list when the snapshot carries none.
func (s Snapshot) KnownFoods() []string {
	if len(s.FoodTypes) > 0 {
		return s.FoodTypes
	}
	return FoodTypes
}

// Price returns the market price for an item and whether it is listed.
func (s Snapshot) Price(item string) (float64, bool) {
	p, ok := s.MarketPrices[item]
	return p, ok
}

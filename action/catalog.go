package action

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a named action is not in the catalog.
	ErrNotFound = errors.New("action not found")
	// ErrFrozen is returned when registering into a frozen catalog.
	ErrFrozen = errors.New("catalog is frozen")
)

// Catalog is a name-keyed registry of actions. It is constructed
// explicitly and passed to whoever needs it; once frozen it is
// immutable and safe for concurrent readers.
type Catalog struct {
	actions map[string]Action
	order   []string
	frozen  bool
}

// NewEmptyCatalog creates an open catalog with no actions.
func NewEmptyCatalog() *Catalog {
	return &Catalog{actions: make(map[string]Action)}
}

// NewCatalog creates the default archetype catalog, frozen.
func NewCatalog() *Catalog {
	c := NewEmptyCatalog()
	c.registerDefaults()
	return c.Freeze()
}

// Register adds an action. Registering an existing name overwrites the
// previous definition in place. Fails on frozen catalogs, empty names,
// and non-positive costs.
func (c *Catalog) Register(a Action) error {
	if c.frozen {
		return fmt.Errorf("register %q: %w", a.Name, ErrFrozen)
	}
	if a.Name == "" {
		return errors.New("register: action name is empty")
	}
	if a.Cost <= 0 {
		return fmt.Errorf("register %q: cost must be positive, got %v", a.Name, a.Cost)
	}
	if _, exists := c.actions[a.Name]; !exists {
		c.order = append(c.order, a.Name)
	}
	c.actions[a.Name] = a
	return nil
}

// Freeze makes the catalog immutable and returns it for chaining.
func (c *Catalog) Freeze() *Catalog {
	c.frozen = true
	return c
}

// Get returns an action by name.
func (c *Catalog) Get(name string) (Action, bool) {
	a, ok := c.actions[name]
	return a, ok
}

// All returns every action in registration order.
func (c *Catalog) All() []Action {
	out := make([]Action, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.actions[name])
	}
	return out
}

// ByCategory returns the actions of one category in registration order.
func (c *Catalog) ByCategory(category string) []Action {
	var out []Action
	for _, name := range c.order {
		if a := c.actions[name]; a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// Names returns action names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of registered actions.
func (c *Catalog) Len() int {
	return len(c.actions)
}

// registerDefaults installs the archetype actions. Possession facts
// (has_*) are counted inventory flats, so their preconditions are
// written as numeric minimums; situational flags (near_*, in_combat)
// stay boolean.
func (c *Catalog) registerDefaults() {
	reg := func(name, category string, pre, eff map[string]any, cost float64) {
		a := New(name, pre, eff, cost)
		a.Category = category
		if err := c.Register(a); err != nil {
			panic(err) // static table, never fails
		}
	}

	// Gathering
	reg("chop", "gathering",
		map[string]any{"has_axe": 1, "near_tree": true, "energy": 0.1},
		map[string]any{"has_wood": 1, "energy": -0.05}, 2.0)
	reg("mine", "gathering",
		map[string]any{"has_pickaxe": 1, "near_ore": true, "energy": 0.1},
		map[string]any{"has_ore": 1, "energy": -0.05}, 2.5)
	reg("gather", "gathering",
		map[string]any{"near_gatherable": true},
		map[string]any{"has_gatherable": 1}, 1.0)
	reg("hunt", "gathering",
		map[string]any{"has_weapon": 1, "near_animal": true, "energy": 0.2},
		map[string]any{"has_meat": 1, "has_hide": 1, "energy": -0.1}, 3.0)
	reg("farm", "gathering",
		map[string]any{"has_seeds": 1, "near_farm": true},
		map[string]any{"has_crops": 1}, 2.0)

	// Item management
	reg("pickup", "items",
		map[string]any{"near_item": true, "inventory_space": true},
		map[string]any{"has_item": 1}, 0.5)
	reg("drop", "items",
		map[string]any{"has_item": 1},
		map[string]any{"has_item": -1}, 0.3)
	reg("store", "items",
		map[string]any{"has_item": 1, "near_container": true},
		map[string]any{"has_item": -1, "container_has_item": 1}, 0.5)
	reg("transfer", "items",
		map[string]any{"has_item": 1, "near_target": true},
		map[string]any{"has_item": -1, "target_has_item": 1}, 0.5)

	// Crafting
	reg("craft", "crafting",
		map[string]any{"has_materials": 1, "near_workstation": true},
		map[string]any{"has_product": 1, "has_materials": -1}, 2.0)
	reg("process", "crafting",
		map[string]any{"has_raw_material": 1, "near_processor": true},
		map[string]any{"has_refined_material": 1, "has_raw_material": -1}, 1.5)
	reg("repair", "crafting",
		map[string]any{"has_damaged_item": 1, "has_repair_materials": 1},
		map[string]any{"item_durability": 1.0, "has_repair_materials": -1}, 1.0)

	// Trade
	reg("buy", "trade",
		map[string]any{"has_gold": 1, "near_merchant": true, "item_available": true},
		map[string]any{"has_item": 1, "gold": -1}, 1.0)
	reg("sell", "trade",
		map[string]any{"has_item": 1, "near_merchant": true},
		map[string]any{"has_item": -1, "gold": 1}, 1.0)
	reg("post_order", "trade",
		map[string]any{"has_gold": 1, "near_quest_board": true},
		map[string]any{"order_posted": true, "gold": -0.5}, 0.5)
	reg("accept_order", "trade",
		map[string]any{"near_quest_board": true, "order_available": true},
		map[string]any{"has_order": true}, 0.3)

	// Combat
	reg("attack", "combat",
		map[string]any{"has_weapon": 1, "near_enemy": true, "energy": 0.1},
		map[string]any{"enemy_health": -1, "energy": -0.05}, 1.5)
	reg("cast_spell", "combat",
		map[string]any{"has_mana": 1, "knows_spell": true, "near_target": true},
		map[string]any{"mana": -1, "spell_effect": true}, 2.0)
	reg("block", "combat",
		map[string]any{"has_shield": 1, "in_combat": true},
		map[string]any{"damage_reduction": 0.5}, 0.5)
	reg("dodge", "combat",
		map[string]any{"energy": 0.1, "in_combat": true},
		map[string]any{"energy": -0.05, "evaded": true}, 0.8)
	reg("flee", "combat",
		map[string]any{"in_combat": true},
		map[string]any{"in_combat": false}, 1.0)
	reg("heal", "combat",
		map[string]any{"has_healing_item": 1},
		map[string]any{"health": 1, "has_healing_item": -1}, 0.5)

	// Social and learning
	reg("talk", "social",
		map[string]any{"near_npc": true},
		map[string]any{"social": 0.1}, 0.3)
	reg("socialize", "social",
		map[string]any{"near_tavern": true},
		map[string]any{"social": 0.3, "gold": -0.1}, 1.0)
	reg("learn", "social",
		map[string]any{"near_teacher": true, "has_gold": 1},
		map[string]any{"skill_level": 1, "gold": -1}, 2.0)
	reg("teach", "social",
		map[string]any{"near_student": true, "skill_level": 50},
		map[string]any{"gold": 0.5, "social": 0.1}, 1.5)
	reg("recruit", "social",
		map[string]any{"near_npc": true, "has_gold": 1, "social": 0.5},
		map[string]any{"team_member": 1, "gold": -2}, 2.0)

	// Survival
	reg("eat", "survival",
		map[string]any{"has_food": 1},
		map[string]any{"hunger": -0.5, "has_food": -1}, 0.5)
	reg("drink", "survival",
		map[string]any{"has_water": 1},
		map[string]any{"thirst": -0.5, "has_water": -1}, 0.3)
	reg("sleep", "survival",
		map[string]any{"near_bed": true},
		map[string]any{"energy": 1.0}, 1.0)
}

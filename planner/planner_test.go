package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/pflow-xyz/go-goap/action"
	"github.com/pflow-xyz/go-goap/cache"
	"github.com/pflow-xyz/go-goap/state"
)

// Helper: build an operator from raw maps.
func op(name string, pre, eff map[string]any, cost float64) action.Action {
	return action.New(name, pre, eff, cost)
}

// Helper: the two-step wood-to-plank operator set.
func plankOps() []action.Action {
	return []action.Action{
		op("get_wood", nil, map[string]any{"has_wood": 1}, 2.0),
		op("craft_plank",
			map[string]any{"has_wood": 1},
			map[string]any{"has_plank": 1, "has_wood": -1}, 1.0),
	}
}

func samePlan(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlanSingleStep(t *testing.T) {
	start := state.New(map[string]any{
		"has_axe":   1,
		"near_tree": true,
		"energy":    0.8,
	})
	goal := GoalFromMap(map[string]any{"has_wood": 1})

	res := New().Plan(start, goal, action.NewCatalog().All())
	if res.Outcome != Found {
		t.Fatalf("outcome = %v, want found", res.Outcome)
	}
	if !samePlan(res.Plan, []string{"chop"}) {
		t.Fatalf("plan = %v, want [chop]", res.Plan)
	}
	if res.Cost != 2.0 {
		t.Errorf("cost = %v, want 2.0", res.Cost)
	}
	if res.Explored < 1 || res.Frontier < 1 {
		t.Errorf("stats not recorded: explored=%d frontier=%d", res.Explored, res.Frontier)
	}
}

func TestPlanAlreadySatisfied(t *testing.T) {
	start := state.New(map[string]any{"has_wood": 2})
	goal := GoalFromMap(map[string]any{"has_wood": 1})

	res := New().Plan(start, goal, action.NewCatalog().All())
	if res.Outcome != AlreadySatisfied {
		t.Fatalf("outcome = %v, want already_satisfied", res.Outcome)
	}
	if len(res.Plan) != 0 || res.Cost != 0 {
		t.Errorf("plan = %v cost = %v, want empty and 0", res.Plan, res.Cost)
	}
	if res.Explored != 1 {
		t.Errorf("explored = %d, want 1 (goal test happens at pop)", res.Explored)
	}
}

func TestPlanUnreachable(t *testing.T) {
	start := state.New(map[string]any{"energy": 1.0})
	goal := GoalFromMap(map[string]any{"has_dragon_scale": 1})

	res := New().Plan(start, goal, action.NewCatalog().All())
	if res.Outcome != Unreachable {
		t.Fatalf("outcome = %v, want unreachable", res.Outcome)
	}
	if res.Plan != nil {
		t.Errorf("plan = %v, want nil", res.Plan)
	}
}

func TestPlanNoOperators(t *testing.T) {
	start := state.New(map[string]any{"gold": 5})
	goal := GoalFromMap(map[string]any{"gold": 100})

	res := New().Plan(start, goal, nil)
	if res.Outcome != Unreachable {
		t.Fatalf("outcome = %v, want unreachable with no operators", res.Outcome)
	}
}

func TestPlanMultiStep(t *testing.T) {
	start := state.New(nil)
	goal := GoalFromMap(map[string]any{"has_plank": 1})
	ops := plankOps()

	res := New().Plan(start, goal, ops)
	if res.Outcome != Found {
		t.Fatalf("outcome = %v, want found", res.Outcome)
	}
	if !samePlan(res.Plan, []string{"get_wood", "craft_plank"}) {
		t.Fatalf("plan = %v, want [get_wood craft_plank]", res.Plan)
	}
	if res.Cost != 3.0 {
		t.Errorf("cost = %v, want 3.0", res.Cost)
	}

	// Every found plan must replay cleanly from its own start state.
	ok, err := Validate(res.Plan, start, goal, ops)
	if err != nil || !ok {
		t.Errorf("Validate(found plan) = %v, %v, want true, nil", ok, err)
	}
}

func TestPlanPrefersCheaperRoute(t *testing.T) {
	ops := []action.Action{
		op("direct", nil, map[string]any{"done": true}, 10.0),
		op("step_a", nil, map[string]any{"part": 1}, 1.0),
		op("step_b", map[string]any{"part": 1}, map[string]any{"done": true}, 1.0),
	}
	res := New().Plan(state.New(nil), GoalFromMap(map[string]any{"done": true}), ops)
	if res.Outcome != Found {
		t.Fatalf("outcome = %v, want found", res.Outcome)
	}
	if !samePlan(res.Plan, []string{"step_a", "step_b"}) {
		t.Fatalf("plan = %v, want the two-step route", res.Plan)
	}
	if res.Cost != 2.0 {
		t.Errorf("cost = %v, want 2.0", res.Cost)
	}
}

func TestPlanTieBreakIsInsertionOrder(t *testing.T) {
	alpha := op("alpha", nil, map[string]any{"done": true}, 1.0)
	beta := op("beta", nil, map[string]any{"done": true}, 1.0)
	goal := GoalFromMap(map[string]any{"done": true})

	res := New().Plan(state.New(nil), goal, []action.Action{alpha, beta})
	if !samePlan(res.Plan, []string{"alpha"}) {
		t.Errorf("plan = %v, want [alpha] (first queued wins ties)", res.Plan)
	}

	res = New().Plan(state.New(nil), goal, []action.Action{beta, alpha})
	if !samePlan(res.Plan, []string{"beta"}) {
		t.Errorf("plan = %v, want [beta] after reordering operators", res.Plan)
	}
}

func TestPlanDepthBound(t *testing.T) {
	// A single additive operator: reaching count >= 12 needs 12 steps.
	ops := []action.Action{op("inc", nil, map[string]any{"count": 1}, 1.0)}
	goal := GoalFromMap(map[string]any{"count": 12})

	res := New().Plan(state.New(nil), goal, ops)
	if res.Outcome != Unreachable {
		t.Fatalf("outcome = %v, want unreachable at default depth", res.Outcome)
	}

	res = New().WithMaxDepth(12).Plan(state.New(nil), goal, ops)
	if res.Outcome != Found {
		t.Fatalf("outcome = %v, want found with depth 12", res.Outcome)
	}
	if len(res.Plan) != 12 || res.Cost != 12.0 {
		t.Errorf("plan len = %d cost = %v, want 12 and 12.0", len(res.Plan), res.Cost)
	}
}

func TestPlanNodeBudget(t *testing.T) {
	ops := []action.Action{
		op("inc_a", nil, map[string]any{"a": 1}, 1.0),
		op("inc_b", nil, map[string]any{"b": 1}, 1.0),
		op("inc_c", nil, map[string]any{"c": 1}, 1.0),
	}
	goal := GoalFromMap(map[string]any{"impossible": true})

	res := New().WithMaxNodes(5).Plan(state.New(nil), goal, ops)
	if res.Outcome != Unreachable {
		t.Fatalf("outcome = %v, want unreachable", res.Outcome)
	}
	if !res.Budget {
		t.Error("budget flag not set after exhausting node budget")
	}
}

func TestPlanRevisitedStatesArePruned(t *testing.T) {
	// toggle_on/toggle_off oscillate between two states; only the depth
	// and visited checks keep this search finite.
	ops := []action.Action{
		op("toggle_on", nil, map[string]any{"lit": true}, 1.0),
		op("toggle_off", map[string]any{"lit": true}, map[string]any{"lit": false}, 1.0),
	}
	goal := GoalFromMap(map[string]any{"never": true})

	res := New().Plan(state.New(map[string]any{"lit": false}), goal, ops)
	if res.Outcome != Unreachable {
		t.Fatalf("outcome = %v, want unreachable", res.Outcome)
	}
	if res.Explored > 50 {
		t.Errorf("explored %d states in a two-state world", res.Explored)
	}
}

func TestPlanDoesNotMutateStart(t *testing.T) {
	start := state.New(map[string]any{"has_wood": 1})
	snapshot := start.Copy()

	New().Plan(start, GoalFromMap(map[string]any{"has_plank": 1}), plankOps())
	if !start.Equals(snapshot) {
		t.Errorf("start state mutated by planning: %v", start)
	}
}

func TestPlanCacheReplay(t *testing.T) {
	p := New().WithCache(cache.NewPlanCache(8))
	start := state.New(nil)
	goal := GoalFromMap(map[string]any{"has_plank": 1})

	first := p.Plan(start, goal, plankOps())
	if first.Cached {
		t.Fatal("first call reported cached")
	}
	second := p.Plan(start, goal, plankOps())
	if !second.Cached {
		t.Fatal("second call did not hit the cache")
	}
	if !samePlan(first.Plan, second.Plan) || first.Cost != second.Cost {
		t.Errorf("replay differs: %v/%v vs %v/%v", first.Plan, first.Cost, second.Plan, second.Cost)
	}
	if second.Outcome != Found {
		t.Errorf("replayed outcome = %v, want found", second.Outcome)
	}
}

func TestPlanCacheKeepsAlreadySatisfied(t *testing.T) {
	p := New().WithCache(cache.NewPlanCache(8))
	start := state.New(map[string]any{"done": true})
	goal := GoalFromMap(map[string]any{"done": true})

	p.Plan(start, goal, nil)
	res := p.Plan(start, goal, nil)
	if !res.Cached || res.Outcome != AlreadySatisfied {
		t.Errorf("replay = cached %v outcome %v, want cached already_satisfied", res.Cached, res.Outcome)
	}
}

func TestPlanFailuresAreNotCached(t *testing.T) {
	p := New().WithCache(cache.NewPlanCache(8))
	start := state.New(nil)
	goal := GoalFromMap(map[string]any{"unreachable": true})

	p.Plan(start, goal, nil)
	res := p.Plan(start, goal, nil)
	if res.Cached {
		t.Error("unreachable result was served from cache")
	}
	if n := p.Cache().Size(); n != 0 {
		t.Errorf("cache size = %d after failures, want 0", n)
	}
}

func TestPlanCachedResultIsIsolated(t *testing.T) {
	p := New().WithCache(cache.NewPlanCache(8))
	start := state.New(nil)
	goal := GoalFromMap(map[string]any{"has_plank": 1})

	first := p.Plan(start, goal, plankOps())
	first.Plan[0] = "tampered"

	second := p.Plan(start, goal, plankOps())
	if second.Plan[0] != "get_wood" {
		t.Errorf("cache entry shares memory with caller: %v", second.Plan)
	}
}

func TestValidateReplaysPlan(t *testing.T) {
	start := state.New(nil)
	goal := GoalFromMap(map[string]any{"has_plank": 1})
	ops := plankOps()

	ok, err := Validate([]string{"get_wood", "craft_plank"}, start, goal, ops)
	if err != nil || !ok {
		t.Errorf("valid plan = %v, %v, want true, nil", ok, err)
	}

	// Out of order: craft_plank's precondition fails at step 0.
	ok, err = Validate([]string{"craft_plank", "get_wood"}, start, goal, ops)
	if err != nil || ok {
		t.Errorf("reordered plan = %v, %v, want false, nil", ok, err)
	}

	// An incomplete plan replays cleanly but misses the goal.
	ok, err = Validate([]string{"get_wood"}, start, goal, ops)
	if err != nil || ok {
		t.Errorf("partial plan = %v, %v, want false, nil", ok, err)
	}
}

func TestValidateUnknownStep(t *testing.T) {
	_, err := Validate([]string{"get_wood", "summon_plank"}, state.New(nil),
		GoalFromMap(map[string]any{"has_plank": 1}), plankOps())
	if !errors.Is(err, ErrActionNotFound) {
		t.Fatalf("err = %v, want ErrActionNotFound", err)
	}
}

func TestCost(t *testing.T) {
	total, err := Cost([]string{"get_wood", "craft_plank", "get_wood"}, plankOps())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5.0 {
		t.Errorf("cost = %v, want 5.0", total)
	}

	if _, err := Cost([]string{"nope"}, plankOps()); !errors.Is(err, ErrActionNotFound) {
		t.Errorf("err = %v, want ErrActionNotFound", err)
	}
}

func TestOutcomeJSON(t *testing.T) {
	for _, o := range []Outcome{Unreachable, AlreadySatisfied, Found} {
		data, err := json.Marshal(o)
		if err != nil {
			t.Fatalf("marshal %v: %v", o, err)
		}
		if want := fmt.Sprintf("%q", o.String()); string(data) != want {
			t.Errorf("marshal %v = %s, want %s", o, data, want)
		}
		var back Outcome
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != o {
			t.Errorf("round trip %v -> %v", o, back)
		}
	}

	var o Outcome
	if err := json.Unmarshal([]byte(`"sideways"`), &o); err == nil {
		t.Error("unknown outcome string did not error")
	}
}

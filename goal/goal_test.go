package goal

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pflow-xyz/go-goap/state"
	"github.com/pflow-xyz/go-goap/world"
)

// Helper: float comparison for computed priorities.
func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Helper: an agent with calm needs and empty pockets.
func contentAgent() world.AgentState {
	return world.AgentState{
		ID:    "npc-1",
		Needs: world.Needs{Hunger: 0.2, Energy: 0.8, Social: 0.5},
	}
}

func TestAdvanceLifecycle(t *testing.T) {
	g := New("npc-1", ObtainItem, 0.5, nil)
	if g.Status != Pending {
		t.Fatalf("new goal status = %s, want pending", g.Status)
	}
	if err := g.Advance(Active); err != nil {
		t.Fatalf("pending -> active: %v", err)
	}
	if err := g.Advance(Completed); err != nil {
		t.Fatalf("active -> completed: %v", err)
	}
	if err := g.Advance(Active); !errors.Is(err, ErrBadTransition) {
		t.Errorf("completed -> active err = %v, want ErrBadTransition", err)
	}
}

func TestAdvanceRejectsSkippingActive(t *testing.T) {
	g := New("npc-1", ObtainItem, 0.5, nil)
	if err := g.Advance(Completed); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("pending -> completed err = %v, want ErrBadTransition", err)
	}
	if g.Status != Pending {
		t.Errorf("failed transition changed status to %s", g.Status)
	}
}

func TestGenerateHungry(t *testing.T) {
	agent := contentAgent()
	agent.Needs.Hunger = 0.9
	now := time.Unix(1700000000, 0)

	goals := Generate(agent, now)
	if len(goals) != 1 {
		t.Fatalf("generated %d goals, want 1", len(goals))
	}
	g := goals[0]
	if g.ID != "eat_food_1700000000" {
		t.Errorf("id = %s", g.ID)
	}
	if g.Type != MaintainNeed || g.AgentID != "npc-1" {
		t.Errorf("type = %s agent = %s", g.Type, g.AgentID)
	}
	if !near(g.Priority, 0.8) {
		t.Errorf("priority = %v, want 0.8", g.Priority)
	}
	if !g.Satisfied(state.New(map[string]any{"hunger": 0.03})) {
		t.Error("hunger 0.03 should satisfy the goal")
	}
	if g.Satisfied(state.New(map[string]any{"hunger": 0.5})) {
		t.Error("hunger 0.5 should not satisfy the goal")
	}
}

func TestGenerateExhausted(t *testing.T) {
	agent := contentAgent()
	agent.Needs.Energy = 0.1

	goals := Generate(agent, time.Unix(1700000000, 0))
	if len(goals) != 1 {
		t.Fatalf("generated %d goals, want 1", len(goals))
	}
	if goals[0].ID != "rest_1700000000" {
		t.Errorf("id = %s", goals[0].ID)
	}
	if !near(goals[0].Priority, 1.35) {
		t.Errorf("priority = %v, want 1.35", goals[0].Priority)
	}
	if !goals[0].Satisfied(state.New(map[string]any{"energy": 1.0})) {
		t.Error("full energy should satisfy the rest goal")
	}
}

func TestGenerateHomeless(t *testing.T) {
	agent := contentAgent()
	agent.Gold = 150

	goals := Generate(agent, time.Now())
	if len(goals) != 1 || goals[0].ID != "build_house" {
		t.Fatalf("goals = %v, want the house goal", goals)
	}
	if goals[0].Type != BuildStructure || !near(goals[0].Priority, 0.6) {
		t.Errorf("type = %s priority = %v", goals[0].Type, goals[0].Priority)
	}

	agent.HomeID = "house-7"
	if goals := Generate(agent, time.Now()); len(goals) != 0 {
		t.Errorf("homeowner generated %v", goals)
	}
}

func TestGenerateContent(t *testing.T) {
	if goals := Generate(contentAgent(), time.Now()); len(goals) != 0 {
		t.Errorf("content agent generated %v", goals)
	}
}

func TestGenerateStacksNeeds(t *testing.T) {
	agent := contentAgent()
	agent.Needs.Hunger = 0.8
	agent.Needs.Energy = 0.1
	agent.Gold = 200

	goals := Generate(agent, time.Now())
	if len(goals) != 3 {
		t.Fatalf("generated %d goals, want 3", len(goals))
	}
}

func TestExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	g := New("npc-1", CompleteOrder, 0.5, nil)
	if g.Expired(now) {
		t.Error("goal without deadline expired")
	}
	g.Deadline = &future
	if g.Expired(now) {
		t.Error("future deadline expired")
	}
	g.Deadline = &past
	if !g.Expired(now) {
		t.Error("past deadline not expired")
	}
}

func TestManagerOrdering(t *testing.T) {
	m := NewManager()
	for _, g := range []Goal{
		{ID: "low", AgentID: "npc-1", Priority: 0.2, Status: Pending},
		{ID: "high", AgentID: "npc-1", Priority: 0.9, Status: Pending},
		{ID: "mid", AgentID: "npc-1", Priority: 0.5, Status: Pending},
	} {
		if !m.Add(g) {
			t.Fatalf("Add(%s) rejected", g.ID)
		}
	}

	goals := m.Goals("npc-1")
	if len(goals) != 3 || goals[0].ID != "high" || goals[1].ID != "mid" || goals[2].ID != "low" {
		t.Fatalf("order = %v", goals)
	}

	next, ok := m.Next("npc-1")
	if !ok || next.ID != "high" {
		t.Fatalf("Next = %v, %v", next, ok)
	}
	if next.Status != Active {
		t.Errorf("Next status = %s, want active", next.Status)
	}
}

func TestManagerEqualPrioritiesKeepInsertionOrder(t *testing.T) {
	m := NewManager()
	m.Add(Goal{ID: "first", AgentID: "npc-1", Priority: 0.5, Status: Pending})
	m.Add(Goal{ID: "second", AgentID: "npc-1", Priority: 0.5, Status: Pending})

	goals := m.Goals("npc-1")
	if goals[0].ID != "first" || goals[1].ID != "second" {
		t.Errorf("order = %v, want insertion order on ties", goals)
	}
}

func TestManagerReplaceNeedsHigherPriority(t *testing.T) {
	m := NewManager()
	m.Add(Goal{ID: "eat", AgentID: "npc-1", Priority: 0.6, Status: Pending})

	if m.Add(Goal{ID: "eat", AgentID: "npc-1", Priority: 0.6, Status: Pending}) {
		t.Error("equal priority replaced the queued goal")
	}
	if m.Add(Goal{ID: "eat", AgentID: "npc-1", Priority: 0.4, Status: Pending}) {
		t.Error("lower priority replaced the queued goal")
	}
	if !m.Add(Goal{ID: "eat", AgentID: "npc-1", Priority: 0.9, Status: Pending}) {
		t.Error("higher priority was rejected")
	}

	goals := m.Goals("npc-1")
	if len(goals) != 1 || !near(goals[0].Priority, 0.9) {
		t.Errorf("queue = %v, want single goal at 0.9", goals)
	}
}

func TestManagerCompleteRemoves(t *testing.T) {
	m := NewManager()
	m.Add(Goal{ID: "eat", AgentID: "npc-1", Priority: 0.8, Status: Pending})

	// Completing a goal that never went active is a lifecycle error.
	if err := m.Complete("npc-1", "eat"); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("complete pending err = %v, want ErrBadTransition", err)
	}

	m.Next("npc-1")
	if err := m.Complete("npc-1", "eat"); err != nil {
		t.Fatalf("complete active: %v", err)
	}
	if m.Len("npc-1") != 0 {
		t.Errorf("queue len = %d after complete, want 0", m.Len("npc-1"))
	}
	if err := m.Complete("npc-1", "eat"); !errors.Is(err, ErrNoGoal) {
		t.Errorf("complete missing err = %v, want ErrNoGoal", err)
	}
}

func TestManagerAbandon(t *testing.T) {
	m := NewManager()
	m.Add(Goal{ID: "rest", AgentID: "npc-1", Priority: 0.8, Status: Pending})

	// Pending goals can be abandoned without ever going active.
	if err := m.Abandon("npc-1", "rest", "no bed nearby"); err != nil {
		t.Fatalf("abandon pending: %v", err)
	}
	if m.Len("npc-1") != 0 {
		t.Errorf("queue len = %d after abandon, want 0", m.Len("npc-1"))
	}
}

func TestManagerIsolatesAgents(t *testing.T) {
	m := NewManager()
	m.Add(Goal{ID: "eat", AgentID: "npc-1", Priority: 0.8, Status: Pending})
	m.Add(Goal{ID: "eat", AgentID: "npc-2", Priority: 0.3, Status: Pending})

	if m.Len("npc-1") != 1 || m.Len("npc-2") != 1 {
		t.Fatalf("queues = %d/%d, want 1/1", m.Len("npc-1"), m.Len("npc-2"))
	}
	if err := m.Abandon("npc-1", "eat", "test"); err != nil {
		t.Fatal(err)
	}
	if m.Len("npc-2") != 1 {
		t.Error("abandoning one agent's goal touched another agent's queue")
	}

	if _, ok := m.Next("npc-3"); ok {
		t.Error("unknown agent returned a goal")
	}
}

func TestNewAssignsIdentity(t *testing.T) {
	a := New("npc-1", Socialize, 0.4, nil)
	b := New("npc-1", Socialize, 0.4, nil)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids = %q, %q, want distinct non-empty", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

package goal

import (
	"errors"
	"sort"
	"sync"
)

// ErrNoGoal is returned when an agent has no goal with the given ID.
var ErrNoGoal = errors.New("goal not found")

// Manager keeps one priority-ordered goal queue per agent. All methods
// are safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	agents map[string][]*Goal
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{agents: make(map[string][]*Goal)}
}

// Add queues a goal for its agent. A goal whose ID is already queued
// replaces the existing one only at strictly higher priority, and the
// replacement restarts the lifecycle. Returns whether the goal was
// accepted.
func (m *Manager) Add(g Goal) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue := m.agents[g.AgentID]
	for i, existing := range queue {
		if existing.ID != g.ID {
			continue
		}
		if g.Priority <= existing.Priority {
			return false
		}
		fresh := g
		queue[i] = &fresh
		m.resort(g.AgentID)
		return true
	}

	fresh := g
	m.agents[g.AgentID] = append(queue, &fresh)
	m.resort(g.AgentID)
	return true
}

// Next returns the highest-priority goal and marks it active. The
// second result is false when the agent has no goals.
func (m *Manager) Next(agentID string) (Goal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue := m.agents[agentID]
	if len(queue) == 0 {
		return Goal{}, false
	}
	head := queue[0]
	if head.Status == Pending {
		head.Status = Active
	}
	return *head, true
}

// Complete marks a goal completed and removes it from the queue. Only
// active goals can complete.
func (m *Manager) Complete(agentID, goalID string) error {
	return m.finish(agentID, goalID, Completed, "")
}

// Abandon marks a goal abandoned with a reason and removes it.
func (m *Manager) Abandon(agentID, goalID, reason string) error {
	return m.finish(agentID, goalID, Abandoned, reason)
}

func (m *Manager) finish(agentID, goalID string, to Status, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue := m.agents[agentID]
	for i, g := range queue {
		if g.ID != goalID {
			continue
		}
		if err := g.Advance(to); err != nil {
			return err
		}
		if reason != "" {
			g.Reason = reason
		}
		m.agents[agentID] = append(queue[:i], queue[i+1:]...)
		return nil
	}
	return ErrNoGoal
}

// Goals returns a copy of an agent's queue in priority order.
func (m *Manager) Goals(agentID string) []Goal {
	m.mu.Lock()
	defer m.mu.Unlock()

	queue := m.agents[agentID]
	out := make([]Goal, len(queue))
	for i, g := range queue {
		out[i] = *g
	}
	return out
}

// Len returns the number of queued goals for an agent.
func (m *Manager) Len(agentID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.agents[agentID])
}

// resort restores priority order. The sort is stable so equal-priority
// goals keep their insertion order. Callers hold the lock.
func (m *Manager) resort(agentID string) {
	queue := m.agents[agentID]
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].Priority > queue[j].Priority
	})
}

// Package planner implements best-first forward search over symbolic
// world states. Given a start state, a goal, and a set of operators it
// returns an ordered action sequence reaching the goal, with explicit
// outcomes for "already satisfied" and "unreachable".
package planner

import (
	"container/heap"

	"github.com/pflow-xyz/go-goap/action"
	"github.com/pflow-xyz/go-goap/cache"
	"github.com/pflow-xyz/go-goap/state"
)

// Goal is the set of conditions a plan must establish.
type Goal = state.ConditionSet

// GoalFromMap builds a goal from a raw target map using the goal
// satisfaction rule (zero targets mean "driven below tolerance",
// positive numeric targets are minimum thresholds).
func GoalFromMap(target map[string]any) Goal {
	return state.GoalConditions(target)
}

const (
	// DefaultMaxDepth bounds plan length. The depth bound is what
	// guarantees termination: operator pairs that consume and re-add
	// the same fact would otherwise branch forever.
	DefaultMaxDepth = 10
	// DefaultMaxNodes bounds total frontier insertions per search, so
	// worst-case latency stays bounded in the number of operators.
	DefaultMaxNodes = 20000
)

// Planner runs searches with a fixed configuration. A Planner is safe
// for concurrent use: each search keeps its own frontier and visited
// set, and the attached cache carries its own lock.
type Planner struct {
	maxDepth int
	maxNodes int
	cache    *cache.PlanCache
}

// New creates a planner with default bounds and no cache.
func New() *Planner {
	return &Planner{maxDepth: DefaultMaxDepth, maxNodes: DefaultMaxNodes}
}

// WithMaxDepth sets the maximum plan length.
func (p *Planner) WithMaxDepth(depth int) *Planner {
	if depth > 0 {
		p.maxDepth = depth
	}
	return p
}

// WithMaxNodes sets the search node budget. Zero disables the budget.
func (p *Planner) WithMaxNodes(n int) *Planner {
	p.maxNodes = n
	return p
}

// WithCache attaches a plan cache.
func (p *Planner) WithCache(c *cache.PlanCache) *Planner {
	p.cache = c
	return p
}

// Cache returns the attached cache, nil when none is set.
func (p *Planner) Cache() *cache.PlanCache {
	return p.cache
}

// MaxDepth returns the configured depth bound.
func (p *Planner) MaxDepth() int {
	return p.maxDepth
}

// Plan searches for an action sequence from start to a state satisfying
// the goal. Successful results are cached under the (start, goal) pair;
// an identical later call returns the identical sequence without
// searching. Failure is a normal outcome, not an error.
func (p *Planner) Plan(start state.State, goal Goal, ops []action.Action) Result {
	goalKey := goal.Snapshot()

	if p.cache != nil {
		if e, ok := p.cache.Get(start, goalKey); ok {
			outcome := Found
			if e.AlreadySatisfied {
				outcome = AlreadySatisfied
			}
			return Result{
				Outcome: outcome,
				Plan:    clonePlan(e.Plan),
				Cost:    e.Cost,
				Cached:  true,
			}
		}
	}

	res := p.search(start, goal, ops)

	if p.cache != nil && res.Outcome != Unreachable {
		p.cache.Put(start, goalKey, cache.Entry{
			Plan:             clonePlan(res.Plan),
			Cost:             res.Cost,
			AlreadySatisfied: res.Outcome == AlreadySatisfied,
		})
	}
	return res
}

// search runs the best-first loop. Nodes are ordered by f = g + h with
// a monotonic insertion counter as the only tie-break; states are never
// compared. h counts unmet goal conditions, which is not admissible, so
// the first plan found is good rather than provably optimal.
func (p *Planner) search(start state.State, goal Goal, ops []action.Action) Result {
	var seq int64
	fr := &frontier{}
	heap.Init(fr)
	heap.Push(fr, &node{
		state: start.Copy(),
		f:     float64(goal.Unmet(start)),
	})

	visited := make(map[string]bool)
	pushed := 1
	popped := 0
	maxFrontier := 1

	for fr.Len() > 0 {
		n := heap.Pop(fr).(*node)
		popped++

		if goal.Satisfied(n.state) {
			outcome := Found
			if len(n.plan) == 0 {
				outcome = AlreadySatisfied
			}
			return Result{
				Outcome:  outcome,
				Plan:     n.plan,
				Cost:     n.g,
				Explored: popped,
				Frontier: maxFrontier,
			}
		}

		if n.depth >= p.maxDepth {
			continue
		}

		key := n.state.Hash()
		if visited[key] {
			continue
		}
		visited[key] = true

		for _, a := range ops {
			if !a.IsValid(n.state) {
				continue
			}

			pushed++
			if p.maxNodes > 0 && pushed > p.maxNodes {
				return Result{
					Outcome:  Unreachable,
					Explored: popped,
					Frontier: maxFrontier,
					Budget:   true,
				}
			}

			next := a.Apply(n.state)
			g := n.g + a.Cost
			seq++

			child := &node{
				state: next,
				f:     g + float64(goal.Unmet(next)),
				g:     g,
				depth: n.depth + 1,
				seq:   seq,
				plan:  appendStep(n.plan, a.Name),
			}
			heap.Push(fr, child)
			if fr.Len() > maxFrontier {
				maxFrontier = fr.Len()
			}
		}
	}

	return Result{Outcome: Unreachable, Explored: popped, Frontier: maxFrontier}
}

// appendStep copies the parent plan and appends one action name.
// Plans share no backing arrays between nodes.
func appendStep(plan []string, name string) []string {
	out := make([]string, len(plan)+1)
	copy(out, plan)
	out[len(plan)] = name
	return out
}

func clonePlan(plan []string) []string {
	if plan == nil {
		return nil
	}
	out := make([]string, len(plan))
	copy(out, plan)
	return out
}

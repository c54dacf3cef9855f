package planner

import "github.com/pflow-xyz/go-goap/state"

// node is one entry in the search frontier. plan is the full action
// sequence from the start state; nodes never share backing arrays.
type node struct {
	state state.State
	f     float64
	g     float64
	depth int
	seq   int64
	plan  []string
}

// frontier is a min-heap ordered by (f, seq). The insertion counter is
// the only tie-break: among equal f the earliest-queued node wins, and
// no other node field ever participates in the comparison.
type frontier []*node

func (fr frontier) Len() int { return len(fr) }

func (fr frontier) Less(i, j int) bool {
	if fr[i].f != fr[j].f {
		return fr[i].f < fr[j].f
	}
	return fr[i].seq < fr[j].seq
}

func (fr frontier) Swap(i, j int) { fr[i], fr[j] = fr[j], fr[i] }

func (fr *frontier) Push(x any) {
	*fr = append(*fr, x.(*node))
}

func (fr *frontier) Pop() any {
	old := *fr
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*fr = old[:n-1]
	return item
}

// Package cache provides memoization for planning results keyed by the
// (start state, goal) pair. Repeated planning over identical positions
// is common in game AI; the cache returns the prior plan without
// re-searching.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/pflow-xyz/go-goap/state"
)

// Entry is one cached planning result. AlreadySatisfied marks goals
// that held in the start state, where the empty plan is the answer
// rather than a failure.
type Entry struct {
	Plan             []string
	Cost             float64
	AlreadySatisfied bool
}

// PlanCache is a bounded, mutex-guarded plan cache. Entries are valid
// only for the owning process lifetime and are evicted FIFO when the
// cache is full. Clearing is an explicit operation, observable in the
// stats; nothing is ever invalidated implicitly.
type PlanCache struct {
	mu        sync.Mutex
	cache     map[string]Entry
	order     []string
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
	clears    int64
}

// NewPlanCache creates a cache with the specified maximum size.
// Set maxSize to 0 for an unbounded cache.
func NewPlanCache(maxSize int) *PlanCache {
	return &PlanCache{
		cache:   make(map[string]Entry),
		maxSize: maxSize,
	}
}

// hashKey builds a deterministic key from the canonical start-state and
// goal snapshots. Key order inside either snapshot does not matter.
func hashKey(start state.State, goal string) string {
	h := sha256.New()
	h.Write([]byte(start.String()))
	h.Write([]byte{0})
	h.Write([]byte(goal))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get retrieves the cached entry for a (start, goal) pair.
func (c *PlanCache) Get(start state.State, goal string) (Entry, bool) {
	key := hashKey(start, goal)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.cache[key]; ok {
		c.hits++
		return e, true
	}
	c.misses++
	return Entry{}, false
}

// Put stores an entry, evicting the oldest entry when full.
func (c *PlanCache) Put(start state.State, goal string, e Entry) {
	key := hashKey(start, goal)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[key]; exists {
		c.cache[key] = e
		return
	}

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.cache, oldest)
		c.evictions++
	}

	c.cache[key] = e
	c.order = append(c.order, key)
}

// GetOrCompute retrieves from the cache, or runs compute and caches its
// result. When compute reports false the result is returned but not
// cached (failed searches are recomputed, as a later call may see a
// different operator set).
func (c *PlanCache) GetOrCompute(start state.State, goal string, compute func() (Entry, bool)) (Entry, bool) {
	if e, ok := c.Get(start, goal); ok {
		return e, true
	}

	e, cacheable := compute()
	if cacheable {
		c.Put(start, goal, e)
	}
	return e, false
}

// Clear removes all entries. The wipe is counted in the stats.
func (c *PlanCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]Entry)
	c.order = nil
	c.clears++
}

// Size returns the current number of cached entries.
func (c *PlanCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Stats holds cache statistics.
type Stats struct {
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Clears    int64   `json:"clears"`
	HitRate   float64 `json:"hit_rate"`
}

// Stats returns a snapshot of the cache statistics.
func (c *PlanCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Clears:    c.clears,
		HitRate:   hitRate,
	}
}

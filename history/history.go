// Package history records planning outcomes: an in-memory ring per
// agent with aggregate metrics, plus optional sinks for durable
// storage (SQLite) and compressed JSONL logs.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RingSize is how many records are kept in memory per agent.
const RingSize = 20

// ewmaAlpha weights the newest sample in the planning-time average.
const ewmaAlpha = 0.1

// Record is one planning attempt.
type Record struct {
	ID       string        `json:"id"`
	AgentID  string        `json:"agent_id"`
	GoalType string        `json:"goal_type,omitempty"`
	Outcome  string        `json:"outcome"`
	Steps    []string      `json:"steps,omitempty"`
	Cost     float64       `json:"cost"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Err      string        `json:"err,omitempty"`
	At       time.Time     `json:"at"`
}

// Succeeded reports whether the attempt produced a usable plan.
func (r Record) Succeeded() bool {
	return r.Err == "" && (r.Outcome == "found" || r.Outcome == "already_satisfied")
}

// Metrics aggregates every record seen by a recorder.
type Metrics struct {
	Total        int            `json:"total"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	ByGoalType   map[string]int `json:"by_goal_type,omitempty"`
	EWMAPlanMs   float64        `json:"ewma_plan_ms"`
	LastRecorded time.Time      `json:"last_recorded,omitempty"`
}

// Sink receives every record passed to a recorder.
type Sink interface {
	Write(Record) error
}

// Recorder keeps the last RingSize records per agent and running
// metrics. Sinks are attached at construction and called outside the
// recorder's lock.
type Recorder struct {
	mu      sync.Mutex
	rings   map[string][]Record
	metrics Metrics
	sinks   []Sink
}

// NewRecorder creates a recorder forwarding to the given sinks.
func NewRecorder(sinks ...Sink) *Recorder {
	return &Recorder{
		rings: make(map[string][]Record),
		metrics: Metrics{
			ByGoalType: make(map[string]int),
		},
		sinks: sinks,
	}
}

// Record stores one attempt, filling in ID and timestamp when the
// caller left them empty, and forwards it to every sink. The first
// sink error is returned; the in-memory record is kept regardless.
func (r *Recorder) Record(rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}

	r.mu.Lock()
	ring := append(r.rings[rec.AgentID], rec)
	if len(ring) > RingSize {
		ring = ring[len(ring)-RingSize:]
	}
	r.rings[rec.AgentID] = ring

	r.metrics.Total++
	if rec.Succeeded() {
		r.metrics.Succeeded++
	} else {
		r.metrics.Failed++
	}
	if rec.GoalType != "" {
		r.metrics.ByGoalType[rec.GoalType]++
	}
	ms := float64(rec.Elapsed) / float64(time.Millisecond)
	if r.metrics.Total == 1 {
		r.metrics.EWMAPlanMs = ms
	} else {
		r.metrics.EWMAPlanMs = ewmaAlpha*ms + (1-ewmaAlpha)*r.metrics.EWMAPlanMs
	}
	r.metrics.LastRecorded = rec.At
	r.mu.Unlock()

	var firstErr error
	for _, sink := range r.sinks {
		if err := sink.Write(rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Recent returns an agent's records, most recent first.
func (r *Recorder) Recent(agentID string) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	ring := r.rings[agentID]
	out := make([]Record, len(ring))
	for i, rec := range ring {
		out[len(ring)-1-i] = rec
	}
	return out
}

// Metrics returns a copy of the aggregate metrics.
func (r *Recorder) Metrics() Metrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.metrics
	m.ByGoalType = make(map[string]int, len(r.metrics.ByGoalType))
	for k, v := range r.metrics.ByGoalType {
		m.ByGoalType[k] = v
	}
	return m
}

package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pflow-xyz/go-goap/action"
	"github.com/pflow-xyz/go-goap/cache"
	"github.com/pflow-xyz/go-goap/goal"
	"github.com/pflow-xyz/go-goap/history"
	"github.com/pflow-xyz/go-goap/planner"
	"github.com/pflow-xyz/go-goap/state"
	"github.com/pflow-xyz/go-goap/strategy"
	"github.com/pflow-xyz/go-goap/utility"
	"github.com/pflow-xyz/go-goap/world"
)

// PlanGoal is the goal clause of a plan request: an explicit target
// condition map, or an item to acquire. Item goals are resolved
// through the strategist when the agent is known.
type PlanGoal struct {
	Type       string         `json:"type,omitempty"`
	Conditions map[string]any `json:"conditions,omitempty"`
	Item       string         `json:"item,omitempty"`
	Quantity   int            `json:"quantity,omitempty"`
}

// ActionDef is an inline operator supplied by the caller, merged into
// the operator set for this call only.
type ActionDef struct {
	Name          string         `json:"name"`
	Preconditions map[string]any `json:"preconditions,omitempty"`
	Effects       map[string]any `json:"effects"`
	Cost          float64        `json:"cost,omitempty"`
}

// PlanRequest asks for one plan. Agent and StartState are
// alternatives; an explicit StartState wins when both are present, and
// the world expansion only runs when the agent is known.
type PlanRequest struct {
	AgentID    string            `json:"agent_id,omitempty"`
	Agent      *world.AgentState `json:"agent,omitempty"`
	StartState map[string]any    `json:"start_state,omitempty"`
	World      world.Snapshot    `json:"world,omitempty"`
	Goal       PlanGoal          `json:"goal"`
	Actions    []ActionDef       `json:"actions,omitempty"`
}

// PlanResponse is the search result plus the strategist's decision
// when an item goal consulted it.
type PlanResponse struct {
	AgentID string `json:"agent_id,omitempty"`
	planner.Result
	Strategy  *strategy.Decision `json:"strategy,omitempty"`
	ElapsedMs float64            `json:"elapsed_ms"`
}

// AcquireRequest asks which acquisition path to take for an item.
type AcquireRequest struct {
	Item  string           `json:"item"`
	Agent world.AgentState `json:"agent"`
	World world.Snapshot   `json:"world,omitempty"`
}

// AcquireResponse echoes the item with the full decision.
type AcquireResponse struct {
	Item string `json:"item"`
	strategy.Decision
}

// UtilityRequest scores candidate options for an agent.
type UtilityRequest struct {
	Agent   world.AgentState `json:"agent"`
	Options []utility.Option `json:"options"`
}

// UtilityResponse carries the winner and the full breakdown.
type UtilityResponse struct {
	Best    *utility.Option  `json:"best,omitempty"`
	Utility float64          `json:"utility"`
	Found   bool             `json:"found"`
	Scored  []utility.Scored `json:"scored"`
}

// GoalsRequest generates goals from an agent's needs.
type GoalsRequest struct {
	Agent world.AgentState `json:"agent"`
}

// GoalsResponse lists the generated goals and how many were new to
// the manager.
type GoalsResponse struct {
	AgentID  string      `json:"agent_id"`
	Goals    []goal.Goal `json:"goals"`
	Enqueued int         `json:"enqueued"`
}

// HistoryResponse lists an agent's recent planning attempts. Source
// is "store" when SQLite answered, "ring" for the in-memory recorder.
type HistoryResponse struct {
	AgentID string           `json:"agent_id"`
	Source  string           `json:"source"`
	Records []history.Record `json:"records"`
}

// StatsResponse aggregates cache statistics and recorder metrics.
type StatsResponse struct {
	UptimeSeconds float64          `json:"uptime_seconds"`
	Actions       int              `json:"actions"`
	Clients       int              `json:"clients"`
	Cache         *cache.Stats     `json:"cache,omitempty"`
	History       *history.Metrics `json:"history,omitempty"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read_error", err.Error())
		return
	}

	var req PlanRequest
	if err := s.decodeValid(schemaPlanRequest, raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, "schema_violation", err.Error())
		return
	}

	resp, err := s.plan(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// plan assembles the operator set and runs one planning call. Shared
// by the HTTP handler and the WebSocket dispatcher.
func (s *Server) plan(req PlanRequest) (PlanResponse, error) {
	agentID := req.AgentID
	if agentID == "" && req.Agent != nil {
		agentID = req.Agent.ID
	}

	var start state.State
	switch {
	case req.StartState != nil:
		start = state.New(req.StartState)
	case req.Agent != nil:
		start = req.Agent.PlanningState()
	default:
		return PlanResponse{}, errors.New("one of agent or start_state is required")
	}

	ops := s.catalog.All()
	if req.Agent != nil {
		ops = append(ops, action.Expand(*req.Agent, req.World)...)
	}
	for _, def := range req.Actions {
		cost := def.Cost
		if cost <= 0 {
			cost = 1.0
		}
		ops = append(ops, action.New(def.Name, def.Preconditions, def.Effects, cost))
	}

	var (
		target   planner.Goal
		decision *strategy.Decision
	)
	switch {
	case len(req.Goal.Conditions) > 0:
		target = planner.GoalFromMap(req.Goal.Conditions)
	case req.Goal.Item != "":
		qty := req.Goal.Quantity
		if qty <= 0 {
			qty = 1
		}
		if req.Agent != nil {
			d := strategy.Decide(req.Goal.Item, *req.Agent, req.World)
			decision = &d
		}
		target = planner.GoalFromMap(map[string]any{
			"has_" + req.Goal.Item: float64(qty),
		})
	default:
		return PlanResponse{}, errors.New("goal needs conditions or an item")
	}

	startedAt := time.Now()
	res := s.planner.Plan(start, target, ops)
	elapsed := time.Since(startedAt)

	goalType := req.Goal.Type
	if goalType == "" && req.Goal.Item != "" {
		goalType = string(goal.ObtainItem)
	}

	if s.recorder != nil {
		if err := s.recorder.Record(history.Record{
			AgentID:  agentID,
			GoalType: goalType,
			Outcome:  res.Outcome.String(),
			Steps:    res.Plan,
			Cost:     res.Cost,
			Elapsed:  elapsed,
		}); err != nil {
			log.Printf("Failed to record plan history: %v", err)
		}
	}

	log.Printf("Plan agent=%s outcome=%s steps=%d cost=%.1f explored=%d elapsed=%s",
		agentID, res.Outcome, len(res.Plan), res.Cost, res.Explored,
		elapsed.Round(time.Microsecond))

	return PlanResponse{
		AgentID:   agentID,
		Result:    res,
		Strategy:  decision,
		ElapsedMs: float64(elapsed.Microseconds()) / 1000.0,
	}, nil
}

func (s *Server) handleAcquire(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read_error", err.Error())
		return
	}

	var req AcquireRequest
	if err := s.decodeValid(schemaAcquireRequest, raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, "schema_violation", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.acquire(req))
}

// acquire runs the strategist. Shared by HTTP and WebSocket.
func (s *Server) acquire(req AcquireRequest) AcquireResponse {
	d := strategy.Decide(req.Item, req.Agent, req.World)
	log.Printf("Acquire agent=%s item=%s choice=%s reason=%q",
		req.Agent.ID, req.Item, d.Choice, d.Reason)
	return AcquireResponse{Item: req.Item, Decision: d}
}

func (s *Server) handleUtility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read_error", err.Error())
		return
	}

	var req UtilityRequest
	if err := s.decodeValid(schemaUtilityRequest, raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, "schema_violation", err.Error())
		return
	}

	scored := utility.Score(req.Agent, req.Options)
	best, u, found := utility.Best(req.Agent, req.Options)

	resp := UtilityResponse{Utility: u, Found: found, Scored: scored}
	if found {
		resp.Best = &best
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateGoals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read_error", err.Error())
		return
	}

	var req GoalsRequest
	if err := s.decodeValid(schemaGoalsRequest, raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, "schema_violation", err.Error())
		return
	}

	goals := goal.Generate(req.Agent, time.Now())
	enqueued := 0
	for _, g := range goals {
		if s.goals.Add(g) {
			enqueued++
		}
	}
	log.Printf("Goals agent=%s generated=%d enqueued=%d", req.Agent.ID, len(goals), enqueued)

	writeJSON(w, http.StatusOK, GoalsResponse{
		AgentID:  req.Agent.ID,
		Goals:    goals,
		Enqueued: enqueued,
	})
}

// handleAgentHistory serves /api/v1/agents/{id}/history.
func (s *Server) handleAgentHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/agents/")
	agentID, op, ok := strings.Cut(rest, "/")
	if !ok || op != "history" || agentID == "" {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_limit", "limit must be an integer")
			return
		}
		limit = n
	}

	records := []history.Record{}
	source := "ring"
	switch {
	case s.store != nil:
		recs, err := s.store.RecentByAgent(agentID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "store_error", err.Error())
			return
		}
		records = append(records, recs...)
		source = "store"
	case s.recorder != nil:
		records = append(records, s.recorder.Recent(agentID)...)
		if limit > 0 && limit < len(records) {
			records = records[:limit]
		}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		AgentID: agentID,
		Source:  source,
		Records: records,
	})
}

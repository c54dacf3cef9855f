// Package server exposes the planner, strategist, scorer, and goal
// pipeline over HTTP and WebSocket. Request bodies are validated
// against embedded JSON Schemas before they reach the library
// packages; the library packages never log, so every request outcome
// is logged here at the edge.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pflow-xyz/go-goap/action"
	"github.com/pflow-xyz/go-goap/goal"
	"github.com/pflow-xyz/go-goap/history"
	"github.com/pflow-xyz/go-goap/planner"
)

// Server handles HTTP and WebSocket planning requests.
type Server struct {
	mu sync.RWMutex

	// All connected WebSocket clients
	clients map[*Client]bool

	catalog *action.Catalog
	planner *planner.Planner
	goals   *goal.Manager

	// Optional plan history recorder (nil disables recording)
	recorder *history.Recorder

	// Optional SQLite storage backing the history endpoint
	store *history.Store

	// Compiled request schemas, keyed by file name
	schemas map[string]*jsonschema.Schema

	upgrader websocket.Upgrader
	started  time.Time
}

// New creates a server around a frozen catalog and a configured
// planner. The embedded request schemas are compiled here, once; a
// schema that fails to compile surfaces immediately.
func New(catalog *action.Catalog, pl *planner.Planner) (*Server, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}

	return &Server{
		clients: make(map[*Client]bool),
		catalog: catalog,
		planner: pl,
		goals:   goal.NewManager(),
		schemas: schemas,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		started: time.Now(),
	}, nil
}

// SetRecorder attaches a plan history recorder.
func (s *Server) SetRecorder(rec *history.Recorder) {
	s.recorder = rec
	if rec != nil {
		log.Println("Plan history recording enabled")
	}
}

// SetStore sets the SQLite storage backing the history endpoint.
func (s *Server) SetStore(store *history.Store) {
	s.store = store
	if store != nil {
		log.Println("SQLite history storage enabled")
	}
}

// Goals returns the server's goal manager.
func (s *Server) Goals() *goal.Manager {
	return s.goals
}

// Handler returns the route table. Method checks happen inside the
// handlers so an unsupported method answers 405 rather than 404.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/plan", s.handlePlan)
	mux.HandleFunc("/api/v1/acquire", s.handleAcquire)
	mux.HandleFunc("/api/v1/utility", s.handleUtility)
	mux.HandleFunc("/api/v1/goals/generate", s.handleGenerateGoals)
	mux.HandleFunc("/api/v1/agents/", s.handleAgentHistory)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/cache/clear", s.handleCacheClear)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	clients := len(s.clients)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "goap",
		"actions": s.catalog.Len(),
		"clients": clients,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use GET")
		return
	}

	resp := StatsResponse{
		UptimeSeconds: time.Since(s.started).Seconds(),
		Actions:       s.catalog.Len(),
	}
	if c := s.planner.Cache(); c != nil {
		st := c.Stats()
		resp.Cache = &st
	}
	if s.recorder != nil {
		m := s.recorder.Metrics()
		resp.History = &m
	}
	s.mu.RLock()
	resp.Clients = len(s.clients)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST")
		return
	}

	c := s.planner.Cache()
	if c == nil {
		writeError(w, http.StatusConflict, "no_cache", "planner has no cache attached")
		return
	}

	n := c.Size()
	c.Clear()
	log.Printf("Plan cache cleared (%d entries)", n)
	writeJSON(w, http.StatusOK, map[string]any{"cleared": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": ErrorPayload{Code: code, Message: message},
	})
}

package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists planning records to SQLite. It implements Sink, so a
// recorder can forward to it directly.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path and ensures the
// schema. The connection is single-writer: modernc's driver serializes
// anyway and one connection keeps WAL checkpointing simple.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty history db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}
	return s, nil
}

func (s *Store) init() error {
	// WAL suits the append-only write pattern.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return err
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS plan_history (
		id TEXT PRIMARY KEY,
		agent_id TEXT NOT NULL,
		goal_type TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		steps TEXT NOT NULL DEFAULT '[]',
		cost REAL NOT NULL DEFAULT 0,
		elapsed_ms REAL NOT NULL DEFAULT 0,
		err TEXT,
		at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plan_history_agent ON plan_history(agent_id, at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// timeLayout is fixed width so lexicographic order on the at column
// matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Write inserts one record.
func (s *Store) Write(rec Record) error {
	steps, err := json.Marshal(rec.Steps)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO plan_history (id, agent_id, goal_type, outcome, steps, cost, elapsed_ms, err, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.AgentID, rec.GoalType, rec.Outcome, string(steps),
		rec.Cost, float64(rec.Elapsed)/float64(time.Millisecond), rec.Err,
		rec.At.UTC().Format(timeLayout),
	)
	return err
}

// RecentByAgent returns an agent's records, most recent first.
func (s *Store) RecentByAgent(agentID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = RingSize
	}
	rows, err := s.db.Query(
		`SELECT id, agent_id, goal_type, outcome, steps, cost, elapsed_ms, err, at
		 FROM plan_history WHERE agent_id = ?
		 ORDER BY at DESC, rowid DESC LIMIT ?`, agentID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var steps, at string
		var errText sql.NullString
		var elapsedMs float64
		if err := rows.Scan(&rec.ID, &rec.AgentID, &rec.GoalType, &rec.Outcome,
			&steps, &rec.Cost, &elapsedMs, &errText, &at); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(steps), &rec.Steps); err != nil {
			return nil, fmt.Errorf("decode steps for %s: %w", rec.ID, err)
		}
		if rec.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("parse timestamp for %s: %w", rec.ID, err)
		}
		if errText.Valid {
			rec.Err = errText.String
		}
		rec.Elapsed = time.Duration(elapsedMs * float64(time.Millisecond))
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM plan_history`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := Record{
		ID: "rec-1", AgentID: "npc-1", GoalType: "obtain_item", Outcome: "found",
		Steps: []string{"get_wood", "craft_plank"}, Cost: 3.0,
		Elapsed: 150 * time.Millisecond, At: base,
	}
	second := Record{
		ID: "rec-2", AgentID: "npc-1", Outcome: "unreachable",
		Err: "node budget exhausted", At: base.Add(time.Minute),
	}
	for _, rec := range []Record{first, second} {
		if err := store.Write(rec); err != nil {
			t.Fatalf("write %s: %v", rec.ID, err)
		}
	}

	got, err := store.RecentByAgent("npc-1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].ID != "rec-2" || got[1].ID != "rec-1" {
		t.Errorf("order = %s, %s, want newest first", got[0].ID, got[1].ID)
	}
	if got[1].Cost != 3.0 || got[1].Elapsed != 150*time.Millisecond {
		t.Errorf("cost = %v elapsed = %v", got[1].Cost, got[1].Elapsed)
	}
	if len(got[1].Steps) != 2 || got[1].Steps[0] != "get_wood" {
		t.Errorf("steps = %v", got[1].Steps)
	}
	if !got[1].At.Equal(base) {
		t.Errorf("at = %v, want %v", got[1].At, base)
	}
	if got[0].Err != "node budget exhausted" {
		t.Errorf("err = %q", got[0].Err)
	}

	if n, err := store.Count(); err != nil || n != 2 {
		t.Errorf("count = %d, %v, want 2", n, err)
	}
}

func TestStoreLimitsAndFilters(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		store.Write(Record{
			ID: string(rune('a' + i)), AgentID: "npc-1", Outcome: "found",
			At: base.Add(time.Duration(i) * time.Second),
		})
	}
	store.Write(Record{ID: "other", AgentID: "npc-2", Outcome: "found", At: base})

	got, err := store.RecentByAgent("npc-1", 2)
	if err != nil || len(got) != 2 {
		t.Fatalf("recent = %d records, %v, want 2", len(got), err)
	}
	if got[0].ID != "e" || got[1].ID != "d" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}

	if got, _ := store.RecentByAgent("npc-3", 10); len(got) != 0 {
		t.Errorf("unknown agent returned %d records", len(got))
	}
}

func TestStoreAsRecorderSink(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	r := NewRecorder(store)
	if err := r.Record(Record{AgentID: "npc-1", Outcome: "found"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := store.RecentByAgent("npc-1", 1)
	if err != nil || len(got) != 1 {
		t.Fatalf("recent = %d, %v, want the forwarded record", len(got), err)
	}
}

func TestLogWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewLogWriter(dir, "plans")

	recs := []Record{
		{ID: "rec-1", AgentID: "npc-1", Outcome: "found", Steps: []string{"chop"}},
		{ID: "rec-2", AgentID: "npc-1", Outcome: "unreachable"},
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "plans-*.jsonl.zst"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("log files = %v, %v, want exactly one", matches, err)
	}

	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	var got []Record
	scanner := bufio.NewScanner(dec)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		got = append(got, rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 || got[0].ID != "rec-1" || got[1].ID != "rec-2" {
		t.Fatalf("replayed %v, want both records in order", got)
	}
	if len(got[0].Steps) != 1 || got[0].Steps[0] != "chop" {
		t.Errorf("steps = %v", got[0].Steps)
	}
}

package upload

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/server"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/workout"
)

const pushCSV = `"Push · Day 1";"2024-05-20 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 8 reps"
#;KG;REPS;RIR
1;60;10;2
2;62,5;8;1
`

const legsCSV = `"Legs · Day 2";"2024-05-22 6:10 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps"
#;KG;REPS;RIR
1;115;8;1
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
}

// newGymlogServer runs the real HTTP API over an in-memory store.
func newGymlogServer(t *testing.T, apiKey string) (*httptest.Server, *storage.Store) {
	t.Helper()
	log := testLogger()
	store := storage.New(nil, log)
	tracker := workout.New(store, log, workout.WithManualTicks())
	srv := server.New(store, tracker, alpha.NewProvider(store, log, models.MuscleChest), apiKey, log)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, store
}

// TestRunUploadsOnce verifies new exports are imported on the server and a
// second run skips unchanged files.
func TestRunUploadsOnce(t *testing.T) {
	ts, store := newGymlogServer(t, "secret")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "2024-05-20.csv"), pushCSV)
	writeFile(t, filepath.Join(dir, "nested", "2024-05-22.CSV"), legsCSV)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	client := NewClient(ts.URL+"/", "secret")
	stats, err := New(client, state, dir, false, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesTotal != 2 || stats.FilesUploaded != 2 || stats.SessionsImported != 2 {
		t.Errorf("first run = %+v, want 2 files and 2 sessions uploaded", stats)
	}
	if n := len(store.Sessions()); n != 2 {
		t.Errorf("server sessions = %d, want 2", n)
	}
	sent, err := state.History()
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 2 || sent[0].Path != "2024-05-20.csv" || sent[1].Path != "nested/2024-05-22.CSV" || sent[0].Sessions != 1 {
		t.Errorf("history = %+v", sent)
	}

	stats, err = New(client, state, dir, false, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 2 || stats.FilesUploaded != 0 {
		t.Errorf("second run = %+v, want both files skipped", stats)
	}
}

// TestRunDryRun verifies dry runs parse but neither send nor record.
func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), pushCSV)
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	stats, err := New(nil, state, dir, true, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.SessionsParsed != 1 || stats.FilesUploaded != 0 {
		t.Errorf("dry run = %+v, want 1 parsed and nothing uploaded", stats)
	}
	if sent, _ := state.History(); len(sent) != 0 {
		t.Errorf("history = %+v, want nothing recorded after a dry run", sent)
	}
}

// TestRunRejectedKey verifies a wrong API key counts as a failed file
// without aborting the run.
func TestRunRejectedKey(t *testing.T) {
	ts, _ := newGymlogServer(t, "secret")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"), pushCSV)
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	stats, err := New(NewClient(ts.URL, "wrong"), state, dir, false, testLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 {
		t.Errorf("stats = %+v, want 1 errored file", stats)
	}
}

// TestSendAlphaRetries verifies 5xx responses are retried and 4xx are not.
func TestSendAlphaRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"sessions_received":1,"sessions_imported":1}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")
	c.backoff = time.Millisecond
	res, err := c.SendAlpha(context.Background(), []byte(pushCSV))
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionsImported != 1 || calls.Load() != 3 {
		t.Errorf("imported = %d after %d calls, want 1 after 3", res.SessionsImported, calls.Load())
	}

	calls.Store(0)
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"bad csv"}`, http.StatusBadRequest)
	}))
	defer bad.Close()

	c = NewClient(bad.URL, "")
	c.backoff = time.Millisecond
	if _, err := c.SendAlpha(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 4xx)", calls.Load())
	}
}

// TestSeenTracksVersions verifies a changed file under the same path is sent
// again.
func TestSeenTracksVersions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	writeFile(t, path, pushCSV)
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	k1, err := keyFor(dir, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := state.Record(k1, 1, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if seen, err := state.Seen(k1); err != nil || !seen {
		t.Errorf("Seen(k1) = %v, %v, want true", seen, err)
	}

	writeFile(t, path, pushCSV+legsCSV)
	k2, err := keyFor(dir, path)
	if err != nil {
		t.Fatal(err)
	}
	if k2.Path != k1.Path || k2.Hash == k1.Hash {
		t.Fatalf("keys = %+v %+v, want same path and different hash", k1, k2)
	}
	if seen, _ := state.Seen(k2); seen {
		t.Error("changed file reported as seen")
	}
}

package main

import (
	"bytes"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
)

// run executes the CLI against dataPath and returns stdout.
func run(t *testing.T, dataPath string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(append([]string{"--data", dataPath}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func mustRun(t *testing.T, dataPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dataPath, args...)
	if err != nil {
		t.Fatalf("gymlog %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func loadDoc(t *testing.T, path string) *models.Document {
	t.Helper()
	doc, err := storage.Load(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// seed writes a document with one plan and one logged session.
func seed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	doc := &models.Document{
		Plans: []models.Plan{{
			ID:   "p1",
			Name: "Push Day",
			Exercises: []models.Exercise{
				{ID: "e1", Name: "Bench Press", PrimaryMuscle: models.MuscleChest, SecondaryMuscle: models.MuscleNone, RestTime: 90},
			},
		}},
		MuscleGroups: models.MuscleGroupNames(),
		WorkoutSessions: []models.WorkoutSession{{
			SessionID: "s1",
			Date:      models.Date{Year: 2024, Month: 5, Day: 20},
			PlanID:    "p1",
			Exercises: []models.ExerciseLog{{ExerciseID: "e1", Name: "Bench Press", Sets: models.Sets{{Weight: 60, Reps: 10}, {Weight: 60, Reps: 8}}}},
		}},
	}
	if err := storage.Save(path, doc); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestPlanLifecycle creates, renames, extends and deletes a plan through the
// CLI and checks the data file after each step.
func TestPlanLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	mustRun(t, path, "plan", "create", "Leg Day")
	mustRun(t, path, "plan", "create")
	doc := loadDoc(t, path)
	if len(doc.Plans) != 2 || doc.Plans[0].Name != "Leg Day" || doc.Plans[1].Name != "New Plan" {
		t.Fatalf("plans = %+v, want Leg Day and New Plan", doc.Plans)
	}

	mustRun(t, path, "plan", "rename", "new plan", "Pull Day")
	mustRun(t, path, "plan", "move", "Pull Day", "up")
	mustRun(t, path, "exercise", "add", "Leg Day", "--name", "Squat", "--primary", "Quads", "--rest", "120")
	mustRun(t, path, "exercise", "update", "Leg Day", "squat", "--secondary", "Glutes")

	doc = loadDoc(t, path)
	if doc.Plans[0].Name != "Pull Day" {
		t.Errorf("first plan = %q, want Pull Day", doc.Plans[0].Name)
	}
	legs := doc.Plans[1]
	if len(legs.Exercises) != 1 {
		t.Fatalf("leg exercises = %d, want 1", len(legs.Exercises))
	}
	sq := legs.Exercises[0]
	if sq.Name != "Squat" || sq.PrimaryMuscle != models.MuscleQuads || sq.SecondaryMuscle != models.MuscleGlutes || sq.RestTime != 120 {
		t.Errorf("squat = %+v", sq)
	}

	out := mustRun(t, path, "plan", "list", "Leg Day")
	if !strings.Contains(out, "Squat") || !strings.Contains(out, "120s") {
		t.Errorf("plan list output:\n%s", out)
	}

	mustRun(t, path, "plan", "delete", "Pull Day")
	if doc := loadDoc(t, path); len(doc.Plans) != 1 {
		t.Errorf("plans after delete = %d, want 1", len(doc.Plans))
	}
}

// TestExerciseAddInvalid verifies a missing primary muscle is rejected and
// nothing is written.
func TestExerciseAddInvalid(t *testing.T) {
	path := seed(t)
	if _, err := run(t, path, "exercise", "add", "Push Day", "--name", "Dips"); err == nil {
		t.Fatal("expected error for missing primary muscle")
	}
	if doc := loadDoc(t, path); len(doc.Plans[0].Exercises) != 1 {
		t.Errorf("exercises = %d, want 1", len(doc.Plans[0].Exercises))
	}
}

// TestMoveRejectsBadDirection verifies only up and down are accepted.
func TestMoveRejectsBadDirection(t *testing.T) {
	path := seed(t)
	if _, err := run(t, path, "plan", "move", "Push Day", "sideways"); err == nil {
		t.Error("expected error for bad direction")
	}
}

// TestHistoryAndStats verifies the read-only reports resolve exercises by
// name and print volumes.
func TestHistoryAndStats(t *testing.T) {
	path := seed(t)

	out := mustRun(t, path, "history", "bench press")
	if !strings.Contains(out, "2024-05-20") || !strings.Contains(out, "1080") {
		t.Errorf("history output:\n%s", out)
	}

	out = mustRun(t, path, "stats", "e1")
	if !strings.Contains(out, "Last sets: 60x10  60x8") {
		t.Errorf("stats output:\n%s", out)
	}

	out = mustRun(t, path, "sessions")
	if !strings.Contains(out, "Push Day") || !strings.Contains(out, "Days since last workout") {
		t.Errorf("sessions output:\n%s", out)
	}

	if _, err := run(t, path, "history", "Deadlift"); err == nil {
		t.Error("expected error for unknown exercise")
	}
}

// TestImportAlpha verifies a CSV export is imported into the data file.
func TestImportAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	csv := filepath.Join(t.TempDir(), "export.csv")
	data := strings.Join([]string{
		`"Push · Day 1";"2024-05-20 5:04 h";"1:12 hr"`,
		`"1. Bench Press · Barbell · 8 reps"`,
		`#;KG;REPS;RIR`,
		`1;60;10;2`,
		`2;62,5;8;1`,
		``,
	}, "\n")
	if err := os.WriteFile(csv, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, path, "import", "alpha", csv)
	if !strings.Contains(out, "Sessions imported") {
		t.Errorf("import output:\n%s", out)
	}
	doc := loadDoc(t, path)
	if len(doc.WorkoutSessions) != 1 || len(doc.Plans) != 1 || doc.Plans[0].Name != "Push" {
		t.Errorf("doc = %d sessions, plans %+v", len(doc.WorkoutSessions), doc.Plans)
	}
}

// TestBackupAndArchive verifies the one-shot backup copy and the SQLite
// archive export.
func TestBackupAndArchive(t *testing.T) {
	path := seed(t)
	dir := t.TempDir()

	out := mustRun(t, path, "backup", "--dir", dir, "--keep", "3")
	backups, err := storage.ListBackups(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 || strings.TrimSpace(out) != backups[0] {
		t.Errorf("backup printed %q, files %v", out, backups)
	}

	dbPath := filepath.Join(t.TempDir(), "archive.db")
	mustRun(t, path, "archive", "--dsn", "sqlite://"+dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sets`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("archived sets = %d, want 2", n)
	}
}

// TestUploadDryRunAndList parses an export without sending it and lists an
// empty upload history.
func TestUploadDryRunAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	exports := t.TempDir()
	csv := "\"Push · Day 1\";\"2024-05-20 5:04 h\";\"1:12 hr\"\n\"1. Bench Press · Barbell · 8 reps\"\n#;KG;REPS;RIR\n1;60;10;2\n"
	if err := os.WriteFile(filepath.Join(exports, "a.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	stateDir := t.TempDir()

	if _, err := run(t, path, "upload", exports); err == nil {
		t.Error("upload without --server should fail")
	}
	out := mustRun(t, path, "upload", exports, "--dry-run", "--state-dir", stateDir)
	if !strings.Contains(out, "Sessions parsed") {
		t.Errorf("dry run output missing stats:\n%s", out)
	}
	out = mustRun(t, path, "upload", "--list", "--state-dir", stateDir)
	if strings.Contains(out, "a.csv") {
		t.Errorf("dry run recorded an upload:\n%s", out)
	}
}

package storage

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/gymlog/internal/models"
	"github.com/google/go-cmp/cmp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const legacyJSON = `{
  "plans": [
    {"id": "plan_a", "name": "Push Day", "exercises": [
      {"id": "ex_bench", "name": "Bench Press", "primary_muscle": "Chest", "secondary_muscle": "Triceps"},
      {"id": "ex_ohp", "name": "Overhead Press", "primary_muscle": "Shoulders", "secondary_muscle": "None", "rest_time": 120}
    ]}
  ],
  "muscle_groups": ["None", "Chest", "Back"],
  "workout_sessions": [
    {"session_id": "sess_1", "date": "2024-01-02", "plan_id": "plan_a", "exercises": [
      {"id": "ex_bench", "name": "Bench Press", "sets": [{"weight": 60, "reps": 10}], "notes": ""}
    ]}
  ],
  "theme": "dark"
}`

// TestLoadMissingFile verifies a missing file yields the default document
// without error.
func TestLoadMissingFile(t *testing.T) {
	doc, err := Load(filepath.Join(t.TempDir(), "nope.json"), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(DefaultDocument(), doc); diff != "" {
		t.Errorf("default document mismatch (-want +got):\n%s", diff)
	}
}

// TestLoadCorruptFile verifies a corrupt file is treated as non-fatal.
func TestLoadCorruptFile(t *testing.T) {
	doc, err := Load(writeFile(t, `{"plans": [`), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Plans) != 0 || len(doc.WorkoutSessions) != 0 {
		t.Errorf("corrupt load = %+v, want empty default", doc)
	}
	if len(doc.MuscleGroups) != 11 {
		t.Errorf("muscle_groups = %d entries, want 11", len(doc.MuscleGroups))
	}
}

// TestLoadMigratesLegacyDocument verifies rest_time defaulting, the "id" key
// on exercise logs and tolerance of unknown top-level keys.
func TestLoadMigratesLegacyDocument(t *testing.T) {
	doc, err := Load(writeFile(t, legacyJSON), testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exs := doc.Plans[0].Exercises
	if exs[0].RestTime != 60 {
		t.Errorf("bench rest_time = %d, want 60", exs[0].RestTime)
	}
	if exs[1].RestTime != 120 {
		t.Errorf("ohp rest_time = %d, want 120", exs[1].RestTime)
	}
	if got := doc.WorkoutSessions[0].Exercises[0].ExerciseID; got != "ex_bench" {
		t.Errorf("log exercise_id = %q, want ex_bench", got)
	}
	if len(doc.MuscleGroups) != 3 {
		t.Errorf("stored muscle_groups should be kept, got %v", doc.MuscleGroups)
	}
}

// TestLoadMissingSessionsKey verifies an absent workout_sessions key is
// initialized to an empty list.
func TestLoadMissingSessionsKey(t *testing.T) {
	doc, err := Load(writeFile(t, `{"plans": [], "muscle_groups": ["None"]}`), testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if doc.WorkoutSessions == nil {
		t.Error("workout_sessions = nil, want empty slice")
	}
}

// TestSaveLoadRoundTripIsIdempotent verifies save(load()) twice produces the
// same bytes as once.
func TestSaveLoadRoundTripIsIdempotent(t *testing.T) {
	log := testLogger()
	path := writeFile(t, legacyJSON)

	doc, err := Load(path, log)
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(path, doc); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)

	doc2, err := Load(path, log)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(doc, doc2); diff != "" {
		t.Errorf("document drifted after round trip (-first +second):\n%s", diff)
	}
	if err := Save(path, doc2); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)

	if !bytes.Equal(first, second) {
		t.Errorf("second save differs:\n%s\n---\n%s", first, second)
	}
}

// TestSaveCreatesDirAndLeavesNoTemp verifies the parent directory is created
// and the temp file is cleaned up after rename.
func TestSaveCreatesDirAndLeavesNoTemp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "gymlog")
	path := filepath.Join(dir, "data.json")
	if err := Save(path, DefaultDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "data.json" {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want [data.json]", names)
	}
}

// TestSaveNil verifies a nil document is rejected.
func TestSaveNil(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "x.json"), nil); err == nil {
		t.Error("expected error for nil document")
	}
}

// TestMigrateIsIdempotent verifies a second migration changes nothing.
func TestMigrateIsIdempotent(t *testing.T) {
	doc := &models.Document{
		Plans: []models.Plan{{ID: "p", Name: "P", Exercises: []models.Exercise{{ID: "e", Name: "E", PrimaryMuscle: models.MuscleBack}}}},
	}
	Migrate(doc)
	once := doc.Clone()
	Migrate(doc)
	if diff := cmp.Diff(once, doc.Clone()); diff != "" {
		t.Errorf("second migrate changed document:\n%s", diff)
	}
	if doc.Plans[0].Exercises[0].SecondaryMuscle != models.MuscleNone {
		t.Errorf("secondary = %q, want None", doc.Plans[0].Exercises[0].SecondaryMuscle)
	}
}

package alpha

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
)

func newTestProvider(t *testing.T) (*Provider, *storage.Store) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := storage.New(nil, log)
	return NewProvider(s, log, models.MuscleNone), s
}

// TestIngestCreatesPlansAndExercises verifies plans come from the first
// title segment and only working sets with load are kept.
func TestIngestCreatesPlansAndExercises(t *testing.T) {
	p, s := newTestProvider(t)
	res, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.SessionsReceived != 2 || res.SessionsImported != 2 {
		t.Errorf("sessions = %d received / %d imported, want 2/2", res.SessionsReceived, res.SessionsImported)
	}
	if res.PlansCreated != 2 {
		t.Errorf("plans created = %d, want 2", res.PlansCreated)
	}
	// Hanging Leg Raises is bodyweight only (+0), so it never gets an exercise.
	if res.ExercisesCreated != 6 {
		t.Errorf("exercises created = %d, want 6", res.ExercisesCreated)
	}
	if res.SetsImported+res.SetsDropped != res.SetsReceived {
		t.Errorf("sets: %d imported + %d dropped != %d received", res.SetsImported, res.SetsDropped, res.SetsReceived)
	}

	plans := s.Plans()
	if plans[0].Name != "Legs" || plans[1].Name != "Push" {
		t.Fatalf("plans = %q, %q", plans[0].Name, plans[1].Name)
	}
	legs := plans[0]
	if len(legs.Exercises) != 5 {
		t.Errorf("legs exercises = %d, want 5", len(legs.Exercises))
	}
	for _, ex := range legs.Exercises {
		if !ex.PrimaryMuscle.IsTrained() {
			t.Errorf("%s has no primary muscle", ex.Name)
		}
	}

	sessions := s.SessionsByDate("")
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	push := sessions[0]
	if push.Date != (models.Date{Year: 2026, Month: 2, Day: 17}) {
		t.Errorf("push date = %v", push.Date)
	}
	if got := push.TotalVolume(); got != 102.5*6+102.5*6+100*6 {
		t.Errorf("push volume = %v", got)
	}
}

// TestIngestIsIdempotent verifies a second import of the same file adds
// nothing.
func TestIngestIsIdempotent(t *testing.T) {
	p, s := newTestProvider(t)
	if _, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV)); err != nil {
		t.Fatal(err)
	}
	res, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if res.SessionsImported != 0 || res.SessionsSkipped != 2 {
		t.Errorf("second import = %+v", res)
	}
	if res.PlansCreated != 0 || res.ExercisesCreated != 0 {
		t.Errorf("second import created %d plans, %d exercises", res.PlansCreated, res.ExercisesCreated)
	}
	if n := len(s.Sessions()); n != 2 {
		t.Errorf("sessions = %d, want 2", n)
	}
}

// TestIngestReusesExistingExercise verifies name matching ignores case.
func TestIngestReusesExistingExercise(t *testing.T) {
	p, s := newTestProvider(t)
	plan, _ := s.CreatePlan("push")
	bench, err := s.AddExercise(plan.ID, storage.ExerciseInput{Name: "bench press", PrimaryMuscle: models.MuscleChest})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV)); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Plan(plan.ID)
	if len(got.Exercises) != 1 {
		t.Errorf("push exercises = %d, want 1", len(got.Exercises))
	}
	sessions := s.SessionsByDate(plan.ID)
	if len(sessions) != 1 || sessions[0].Exercises[0].ExerciseID != bench.ID {
		t.Errorf("sessions = %+v, want one logged against %s", sessions, bench.ID)
	}
}

func TestIngestCancelled(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Ingest(ctx, strings.NewReader(sampleCSV)); err == nil {
		t.Error("expected context error")
	}
}

func TestGuessMuscle(t *testing.T) {
	tests := []struct {
		name string
		want models.MuscleGroup
	}{
		{"Hack Squats", models.MuscleQuads},
		{"Hyperextensions on Roman Chair", models.MuscleBack},
		{"Standing Calf Raises", models.MuscleCalves},
		{"Lying Leg Curl", models.MuscleHamstrings},
		{"Hammer Curl", models.MuscleBiceps},
		{"Bench Press", models.MuscleChest},
		{"Seated Shoulder Press", models.MuscleShoulders},
		{"Barbell Row", models.MuscleBack},
		{"Hanging Leg Raises", models.MuscleAbs},
		{"Farmer Walk", models.MuscleGlutes},
	}
	for _, tt := range tests {
		if got := GuessMuscle(tt.name, models.MuscleGlutes); got != tt.want {
			t.Errorf("GuessMuscle(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

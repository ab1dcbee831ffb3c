package workout

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/timer"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	store   *storage.Store
	tracker *Tracker
	clock   *fakeClock
	plan    models.Plan
	bench   models.Exercise
	fly     models.Exercise
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := storage.New(nil, log)
	plan, err := s.CreatePlan("Push Day")
	if err != nil {
		t.Fatal(err)
	}
	bench, err := s.AddExercise(plan.ID, storage.ExerciseInput{Name: "Bench Press", PrimaryMuscle: models.MuscleChest, RestTime: 90})
	if err != nil {
		t.Fatal(err)
	}
	fly, err := s.AddExercise(plan.ID, storage.ExerciseInput{Name: "Cable Fly", PrimaryMuscle: models.MuscleChest})
	if err != nil {
		t.Fatal(err)
	}
	clock := &fakeClock{t: time.Date(2024, 5, 20, 18, 0, 0, 0, time.Local)}
	tr := New(s, log, WithClock(clock.Now), WithManualTicks())
	return &fixture{store: s, tracker: tr, clock: clock, plan: plan, bench: bench, fly: fly}
}

// TestPushDayScenario walks the create, start, log, finish flow: the
// zero-weight set is dropped and the session volume is 1080.
func TestPushDayScenario(t *testing.T) {
	f := newFixture(t)
	if _, err := f.tracker.Start(f.plan.ID); err != nil {
		t.Fatal(err)
	}
	res, err := f.tracker.LogExercise(ExerciseEntry{
		ExerciseID: f.bench.ID,
		Sets:       models.Sets{{Weight: 60, Reps: 10}, {Weight: 60, Reps: 8}, {Weight: 0, Reps: 5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Complete {
		t.Error("exercise not marked complete")
	}
	if !res.PersonalBest {
		t.Error("first log not reported as personal best")
	}

	sess, err := f.tracker.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if sess == nil {
		t.Fatal("session not saved")
	}
	want := []models.ExerciseLog{{
		ExerciseID: f.bench.ID,
		Name:       "Bench Press",
		Sets:       models.Sets{{Weight: 60, Reps: 10}, {Weight: 60, Reps: 8}},
	}}
	if diff := cmp.Diff(want, sess.Exercises); diff != "" {
		t.Errorf("logged exercises (-want +got):\n%s", diff)
	}
	if got := sess.TotalVolume(); got != 1080 {
		t.Errorf("total volume = %v, want 1080", got)
	}
	if sess.Date != (models.Date{Year: 2024, Month: time.May, Day: 20}) {
		t.Errorf("date = %v", sess.Date)
	}

	stored := f.store.Sessions()
	if len(stored) != 1 || stored[0].SessionID != sess.SessionID {
		t.Errorf("store sessions = %+v", stored)
	}
	ex, _ := f.store.Exercise(f.plan.ID, f.bench.ID)
	if ex.PBTotalVolume != 1080 {
		t.Errorf("pb = %v, want 1080", ex.PBTotalVolume)
	}
	if f.tracker.Active() {
		t.Error("tracker still active after Finish")
	}
}

// TestFinishWithoutSetsSavesNothing verifies an all-invalid workout is not
// persisted.
func TestFinishWithoutSetsSavesNothing(t *testing.T) {
	f := newFixture(t)
	f.tracker.Start(f.plan.ID)
	res, err := f.tracker.LogExercise(ExerciseEntry{ExerciseID: f.bench.ID, Sets: models.Sets{{Weight: 0, Reps: 10}, {Weight: 50, Reps: 0}}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Complete {
		t.Error("exercise without valid sets marked complete")
	}
	sess, err := f.tracker.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if sess != nil {
		t.Errorf("session = %+v, want nil", sess)
	}
	if n := len(f.store.Sessions()); n != 0 {
		t.Errorf("sessions = %d, want 0", n)
	}
}

func TestCancelDiscards(t *testing.T) {
	f := newFixture(t)
	f.tracker.Start(f.plan.ID)
	f.tracker.LogExercise(ExerciseEntry{ExerciseID: f.bench.ID, Sets: models.Sets{{Weight: 60, Reps: 10}}})
	if err := f.tracker.Cancel(); err != nil {
		t.Fatal(err)
	}
	if n := len(f.store.Sessions()); n != 0 {
		t.Errorf("sessions = %d after cancel, want 0", n)
	}
	if err := f.tracker.Cancel(); !errors.Is(err, ErrNoActiveWorkout) {
		t.Errorf("second cancel err = %v", err)
	}
}

// TestStateErrors covers the Idle/Active guards.
func TestStateErrors(t *testing.T) {
	f := newFixture(t)
	if _, err := f.tracker.Finish(); !errors.Is(err, ErrNoActiveWorkout) {
		t.Errorf("finish idle err = %v", err)
	}
	if _, err := f.tracker.LogExercise(ExerciseEntry{ExerciseID: f.bench.ID}); !errors.Is(err, ErrNoActiveWorkout) {
		t.Errorf("log idle err = %v", err)
	}
	if _, err := f.tracker.Start("plan_missing"); !errors.Is(err, storage.ErrPlanNotFound) {
		t.Errorf("start missing plan err = %v", err)
	}
	if _, err := f.tracker.Start(f.plan.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.tracker.Start(f.plan.ID); !errors.Is(err, ErrWorkoutActive) {
		t.Errorf("second start err = %v", err)
	}
	if _, err := f.tracker.LogExercise(ExerciseEntry{ExerciseID: "ex_other"}); !errors.Is(err, ErrExerciseNotInPlan) {
		t.Errorf("foreign exercise err = %v", err)
	}
	if _, err := f.tracker.ControlRest("snooze", 0); !errors.Is(err, ErrUnknownRestAction) {
		t.Errorf("unknown action err = %v", err)
	}
}

// TestLogReplacesEarlierLog verifies one log per exercise, first-logged order.
func TestLogReplacesEarlierLog(t *testing.T) {
	f := newFixture(t)
	f.tracker.Start(f.plan.ID)
	f.tracker.LogExercise(ExerciseEntry{ExerciseID: f.bench.ID, Sets: models.Sets{{Weight: 50, Reps: 10}}})
	f.tracker.LogExercise(ExerciseEntry{ExerciseID: f.fly.ID, Sets: models.Sets{{Weight: 15, Reps: 12}}})
	f.tracker.LogExercise(ExerciseEntry{ExerciseID: f.bench.ID, Sets: models.Sets{{Weight: 55, Reps: 10}}, Notes: "felt good"})

	logs, err := f.tracker.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 || logs[0].ExerciseID != f.bench.ID || logs[1].ExerciseID != f.fly.ID {
		t.Fatalf("summary = %+v", logs)
	}
	if logs[0].Sets[0].Weight != 55 || logs[0].Notes != "felt good" {
		t.Errorf("bench log = %+v, want the replacement", logs[0])
	}
	if st := f.tracker.Status(); len(st.Completed) != 2 {
		t.Errorf("completed = %v", st.Completed)
	}
}

// TestDraftSources verifies the prefill order: logged, then last session,
// then three blank sets.
func TestDraftSources(t *testing.T) {
	f := newFixture(t)
	f.store.AppendSession(models.WorkoutSession{
		Date:   models.Date{Year: 2024, Month: time.May, Day: 13},
		PlanID: f.plan.ID,
		Exercises: []models.ExerciseLog{
			{ExerciseID: f.bench.ID, Name: "Bench Press", Sets: models.Sets{{Weight: 50, Reps: 10}, {Weight: 50, Reps: 10}}},
		},
	})
	f.tracker.Start(f.plan.ID)

	d, err := f.tracker.Draft(f.bench.ID)
	if err != nil {
		t.Fatal(err)
	}
	if d.Source != SourceLast || len(d.Sets) != 2 {
		t.Errorf("bench draft = %+v, want last sets", d)
	}
	if math.Abs(d.TargetVolume-1100) > 1e-9 {
		t.Errorf("target = %v, want 1100", d.TargetVolume)
	}
	if d.CurrentVolume != 1000 {
		t.Errorf("current = %v, want 1000", d.CurrentVolume)
	}

	d, _ = f.tracker.Draft(f.fly.ID)
	if d.Source != SourceBlank || len(d.Sets) != 3 || d.TargetVolume != 1 {
		t.Errorf("fly draft = %+v, want three blank sets and target 1", d)
	}

	f.tracker.LogExercise(ExerciseEntry{ExerciseID: f.bench.ID, Sets: models.Sets{{Weight: 52.5, Reps: 8}}, Notes: "n"})
	d, _ = f.tracker.Draft(f.bench.ID)
	if d.Source != SourceLogged || len(d.Sets) != 1 || d.Notes != "n" {
		t.Errorf("bench draft after log = %+v", d)
	}
}

// TestRestPolicy verifies switching exercise and finishing an exercise both
// stop the countdown, and the countdown uses the exercise's rest time.
func TestRestPolicy(t *testing.T) {
	f := newFixture(t)
	f.tracker.Start(f.plan.ID)
	if _, err := f.tracker.StartRest(); !errors.Is(err, ErrNoExerciseSelected) {
		t.Errorf("rest without selection err = %v", err)
	}

	if _, err := f.tracker.Select(f.bench.ID); err != nil {
		t.Fatal(err)
	}
	snap, err := f.tracker.StartRest()
	if err != nil {
		t.Fatal(err)
	}
	if snap.State != timer.Running || snap.Remaining != 90 {
		t.Errorf("rest = %+v, want running at 90", snap)
	}

	f.tracker.Select(f.bench.ID)
	if f.tracker.Rest().Snapshot().State != timer.Running {
		t.Error("reselecting the same exercise stopped the countdown")
	}

	f.tracker.Select(f.fly.ID)
	if s := f.tracker.Rest().Snapshot(); s.State != timer.Stopped {
		t.Errorf("after switch rest = %+v, want stopped", s)
	}

	snap, _ = f.tracker.StartRest()
	if snap.Remaining != models.DefaultRestSeconds {
		t.Errorf("fly rest = %d, want default", snap.Remaining)
	}
	f.tracker.Rest().Tick()
	snap, _ = f.tracker.ControlRest("add", 15)
	if snap.Remaining != 74 {
		t.Errorf("after add = %d, want 74", snap.Remaining)
	}

	f.tracker.LogExercise(ExerciseEntry{ExerciseID: f.fly.ID, Sets: models.Sets{{Weight: 10, Reps: 10}}})
	if s := f.tracker.Rest().Snapshot(); s.State != timer.Stopped {
		t.Errorf("after log rest = %+v, want stopped", s)
	}
}

func TestElapsed(t *testing.T) {
	f := newFixture(t)
	if got := f.tracker.ElapsedLabel(); got != "00:00" {
		t.Errorf("idle label = %q", got)
	}
	f.tracker.Start(f.plan.ID)
	f.clock.Advance(61*time.Minute + 5*time.Second)
	if got := f.tracker.Elapsed(); got != 61*time.Minute+5*time.Second {
		t.Errorf("elapsed = %v", got)
	}
	if got := f.tracker.ElapsedLabel(); got != "61:05" {
		t.Errorf("label = %q, want 61:05", got)
	}
	st := f.tracker.Status()
	if !st.Active || st.PlanName != "Push Day" || st.ElapsedSec != 3665 {
		t.Errorf("status = %+v", st)
	}
}

// TestPersonalBestOnlyWhenHigher verifies a lower volume leaves the best alone.
func TestPersonalBestOnlyWhenHigher(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.RecordPersonalBest(f.bench.ID, 2000); err != nil {
		t.Fatal(err)
	}
	f.tracker.Start(f.plan.ID)
	res, err := f.tracker.LogExercise(ExerciseEntry{ExerciseID: f.bench.ID, Sets: models.Sets{{Weight: 60, Reps: 10}}})
	if err != nil {
		t.Fatal(err)
	}
	if res.PersonalBest {
		t.Error("lower volume reported as personal best")
	}
	ex, _ := f.store.Exercise(f.plan.ID, f.bench.ID)
	if ex.PBTotalVolume != 2000 {
		t.Errorf("pb = %v, want 2000", ex.PBTotalVolume)
	}
}

// TestBackgroundClocksStop verifies Finish returns with real tickers running.
func TestBackgroundClocksStop(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := storage.New(nil, log)
	plan, _ := s.CreatePlan("A")
	tr := New(s, log)
	ticks := make(chan Status, 8)
	tr.OnTick(func(st Status) {
		select {
		case ticks <- st:
		default:
		}
	})
	if _, err := tr.Start(plan.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Finish(); err != nil {
		t.Fatal(err)
	}
	if tr.Active() {
		t.Error("tracker active after finish")
	}
}

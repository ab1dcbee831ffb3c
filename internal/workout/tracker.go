// Package workout runs the active workout: at most one plan being trained,
// the per-exercise logs collected while training it, the elapsed clock and
// the rest countdown.
package workout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/stats"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/timer"
)

// Tracker owns the active workout. It is safe for concurrent use.
type Tracker struct {
	store       *storage.Store
	log         *slog.Logger
	now         func() time.Time
	window      int
	defaultRest int
	manual      bool

	rest *timer.Rest

	mu     sync.Mutex
	active *activeWorkout
	onTick func(Status)
}

type activeWorkout struct {
	planID   string
	planName string
	date     models.Date
	started  time.Time
	current  string

	// logs holds one entry per exercise; order keeps first-logged order.
	logs  map[string]models.ExerciseLog
	order []string

	elapsed    *timer.Ticker
	stopRest   context.CancelFunc
	restClosed chan struct{}
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, e.g. for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithWindow sets how many past entries the target volume is averaged over.
func WithWindow(n int) Option {
	return func(t *Tracker) { t.window = n }
}

// WithDefaultRest sets the countdown used for exercises without a rest time.
func WithDefaultRest(seconds int) Option {
	return func(t *Tracker) { t.defaultRest = seconds }
}

// WithManualTicks disables the background clocks. The elapsed time is still
// derived from the clock; the rest timer only advances via Rest().Tick().
func WithManualTicks() Option {
	return func(t *Tracker) { t.manual = true }
}

// New returns an idle tracker writing finished workouts to store.
func New(store *storage.Store, log *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:       store,
		log:         log,
		now:         time.Now,
		window:      stats.DefaultWindow,
		defaultRest: models.DefaultRestSeconds,
		rest:        timer.NewRest(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// OnTick registers fn to receive a status snapshot every second while a
// workout is active.
func (t *Tracker) OnTick(fn func(Status)) {
	t.mu.Lock()
	t.onTick = fn
	t.mu.Unlock()
}

// Window returns how many past entries targets are averaged over.
func (t *Tracker) Window() int {
	return t.window
}

// Today returns the tracker's current calendar day.
func (t *Tracker) Today() models.Date {
	return models.DateOf(t.now())
}

// Rest returns the rest countdown shared by every exercise of the workout.
func (t *Tracker) Rest() *timer.Rest {
	return t.rest
}

// Active reports whether a workout is in progress.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != nil
}

// Start begins a workout of the plan dated today.
func (t *Tracker) Start(planID string) (Status, error) {
	plan, err := t.store.Plan(planID)
	if err != nil {
		return Status{}, err
	}

	t.mu.Lock()
	if t.active != nil {
		t.mu.Unlock()
		return Status{}, ErrWorkoutActive
	}
	now := t.now()
	a := &activeWorkout{
		planID:   plan.ID,
		planName: plan.Name,
		date:     models.DateOf(now),
		started:  now,
		logs:     map[string]models.ExerciseLog{},
	}
	t.active = a
	if !t.manual {
		a.elapsed = timer.Every(time.Second, func(time.Time) { t.tick() })
		ctx, cancel := context.WithCancel(context.Background())
		a.stopRest = cancel
		a.restClosed = make(chan struct{})
		go func() {
			defer close(a.restClosed)
			t.rest.Run(ctx)
		}()
	}
	st := t.statusLocked()
	t.mu.Unlock()

	t.log.Info("workout started", "plan_id", plan.ID, "plan", plan.Name, "date", a.date.String())
	return st, nil
}

func (t *Tracker) tick() {
	t.mu.Lock()
	if t.active == nil || t.onTick == nil {
		t.mu.Unlock()
		return
	}
	st := t.statusLocked()
	fn := t.onTick
	t.mu.Unlock()
	fn(st)
}

// Elapsed returns the time since the workout started, zero when idle.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return 0
	}
	return t.now().Sub(t.active.started)
}

// ElapsedLabel formats the elapsed time as MM:SS.
func (t *Tracker) ElapsedLabel() string {
	return FormatElapsed(t.Elapsed())
}

// FormatElapsed formats d as zero-padded minutes and seconds. Minutes keep
// counting past 59.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// planExercise looks exerciseID up in the active plan.
func (t *Tracker) planExercise(a *activeWorkout, exerciseID string) (models.Exercise, error) {
	ex, err := t.store.Exercise(a.planID, exerciseID)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("%w: %s", ErrExerciseNotInPlan, exerciseID)
	}
	return ex, nil
}

// Select makes exerciseID the current exercise and returns its draft.
// Switching to a different exercise stops any rest countdown.
func (t *Tracker) Select(exerciseID string) (Draft, error) {
	t.mu.Lock()
	a := t.active
	if a == nil {
		t.mu.Unlock()
		return Draft{}, ErrNoActiveWorkout
	}
	if _, err := t.planExercise(a, exerciseID); err != nil {
		t.mu.Unlock()
		return Draft{}, err
	}
	switched := a.current != exerciseID
	a.current = exerciseID
	t.mu.Unlock()

	if switched {
		t.rest.Stop()
	}
	return t.Draft(exerciseID)
}

// ExerciseEntry is the user's input when finishing an exercise.
type ExerciseEntry struct {
	ExerciseID string      `json:"exercise_id"`
	Sets       models.Sets `json:"sets"`
	Notes      string      `json:"notes"`
}

// LogResult reports what LogExercise recorded.
type LogResult struct {
	Log          models.ExerciseLog `json:"log"`
	Complete     bool               `json:"complete"`
	PersonalBest bool               `json:"personal_best"`
}

// LogExercise records the sets performed for an exercise, replacing any
// earlier log of the same exercise in this workout. Sets without positive
// weight and reps are dropped. The exercise is complete when at least one set
// remains. Finishing an exercise ends the rest countdown.
func (t *Tracker) LogExercise(in ExerciseEntry) (LogResult, error) {
	t.mu.Lock()
	a := t.active
	if a == nil {
		t.mu.Unlock()
		return LogResult{}, ErrNoActiveWorkout
	}
	ex, err := t.planExercise(a, in.ExerciseID)
	if err != nil {
		t.mu.Unlock()
		return LogResult{}, err
	}
	l := models.ExerciseLog{
		ExerciseID: ex.ID,
		Name:       ex.Name,
		Sets:       in.Sets.FilterValid(),
		Notes:      in.Notes,
	}
	if _, seen := a.logs[ex.ID]; !seen {
		a.order = append(a.order, ex.ID)
	}
	a.logs[ex.ID] = l
	planID := a.planID
	t.mu.Unlock()

	t.rest.Stop()

	res := LogResult{Log: l.Clone(), Complete: len(l.Sets) > 0}
	if vol := l.Sets.TotalVolume(); vol > ex.PBTotalVolume {
		res.PersonalBest, err = t.store.RecordPersonalBest(ex.ID, vol)
		if err != nil {
			return res, fmt.Errorf("recording personal best: %w", err)
		}
	}
	t.log.Debug("exercise logged", "plan_id", planID, "exercise_id", ex.ID,
		"sets", len(l.Sets), "volume", l.Sets.TotalVolume(), "personal_best", res.PersonalBest)
	return res, nil
}

// StartRest starts the countdown with the current exercise's rest time.
func (t *Tracker) StartRest() (timer.Snapshot, error) {
	t.mu.Lock()
	a := t.active
	if a == nil {
		t.mu.Unlock()
		return timer.Snapshot{}, ErrNoActiveWorkout
	}
	if a.current == "" {
		t.mu.Unlock()
		return timer.Snapshot{}, ErrNoExerciseSelected
	}
	ex, err := t.planExercise(a, a.current)
	t.mu.Unlock()
	if err != nil {
		return timer.Snapshot{}, err
	}
	secs := ex.RestTime
	if secs <= 0 {
		secs = t.defaultRest
	}
	t.rest.Start(secs)
	return t.rest.Snapshot(), nil
}

// ControlRest applies a named action to the rest countdown: start, pause,
// resume, add (seconds), restart or skip.
func (t *Tracker) ControlRest(action string, seconds int) (timer.Snapshot, error) {
	if action == "start" {
		return t.StartRest()
	}
	if !t.Active() {
		return timer.Snapshot{}, ErrNoActiveWorkout
	}
	switch action {
	case "pause":
		t.rest.Pause()
	case "resume":
		t.rest.Resume()
	case "add":
		t.rest.AddTime(seconds)
	case "restart":
		t.rest.Restart()
	case "skip", "stop":
		t.rest.Skip()
	default:
		return timer.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownRestAction, action)
	}
	return t.rest.Snapshot(), nil
}

// Summary returns the exercises logged with sets so far, in the order they
// were first logged.
func (t *Tracker) Summary() ([]models.ExerciseLog, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return nil, ErrNoActiveWorkout
	}
	return t.active.loggedLocked(), nil
}

func (a *activeWorkout) loggedLocked() []models.ExerciseLog {
	out := make([]models.ExerciseLog, 0, len(a.order))
	for _, id := range a.order {
		if l := a.logs[id]; len(l.Sets) > 0 {
			out = append(out, l.Clone())
		}
	}
	return out
}

// Finish ends the workout and saves it as a session when at least one
// exercise was logged with sets. The saved session is returned; nil means
// nothing was saved.
func (t *Tracker) Finish() (*models.WorkoutSession, error) {
	a, err := t.end()
	if err != nil {
		return nil, err
	}
	sess := models.WorkoutSession{
		SessionID: models.NewSessionID(),
		Date:      a.date,
		PlanID:    a.planID,
		Exercises: a.loggedLocked(),
	}
	saved, ok, err := t.store.AppendSession(sess)
	if err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	elapsed := t.now().Sub(a.started)
	if !ok {
		t.log.Info("workout finished without sets, nothing saved", "plan_id", a.planID, "elapsed", FormatElapsed(elapsed))
		return nil, nil
	}
	t.log.Info("workout finished", "plan_id", a.planID, "session_id", saved.SessionID,
		"exercises", len(saved.Exercises), "volume", saved.TotalVolume(), "elapsed", FormatElapsed(elapsed))
	return &saved, nil
}

// Cancel discards the workout without saving.
func (t *Tracker) Cancel() error {
	a, err := t.end()
	if err != nil {
		return err
	}
	t.log.Info("workout cancelled", "plan_id", a.planID, "exercises_logged", len(a.order))
	return nil
}

// end clears the active workout and stops its clocks.
func (t *Tracker) end() (*activeWorkout, error) {
	t.mu.Lock()
	a := t.active
	t.active = nil
	t.mu.Unlock()
	if a == nil {
		return nil, ErrNoActiveWorkout
	}
	a.elapsed.Stop()
	if a.stopRest != nil {
		a.stopRest()
		<-a.restClosed
	}
	t.rest.Stop()
	return a, nil
}

package workout

import (
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/stats"
	"github.com/claude/gymlog/internal/timer"
)

// Status is a snapshot of the tracker for presentation.
type Status struct {
	Active       bool           `json:"active"`
	PlanID       string         `json:"plan_id,omitempty"`
	PlanName     string         `json:"plan_name,omitempty"`
	Date         models.Date    `json:"date"`
	StartedAt    time.Time      `json:"started_at,omitzero"`
	ElapsedSec   int            `json:"elapsed_sec"`
	ElapsedLabel string         `json:"elapsed_label"`
	Current      string         `json:"current_exercise_id,omitempty"`
	Completed    []string       `json:"completed"`
	Rest         timer.Snapshot `json:"rest"`
}

// Status returns the current snapshot. An idle tracker reports Active false.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

func (t *Tracker) statusLocked() Status {
	st := Status{Completed: []string{}, Rest: t.rest.Snapshot(), ElapsedLabel: FormatElapsed(0)}
	a := t.active
	if a == nil {
		return st
	}
	elapsed := t.now().Sub(a.started)
	st.Active = true
	st.PlanID = a.planID
	st.PlanName = a.planName
	st.Date = a.date
	st.StartedAt = a.started
	st.ElapsedSec = int(elapsed / time.Second)
	st.ElapsedLabel = FormatElapsed(elapsed)
	st.Current = a.current
	for _, id := range a.order {
		if len(a.logs[id].Sets) > 0 {
			st.Completed = append(st.Completed, id)
		}
	}
	return st
}

// DraftSource says where a draft's sets came from.
type DraftSource string

const (
	SourceLogged DraftSource = "logged"
	SourceLast   DraftSource = "last"
	SourceBlank  DraftSource = "blank"
)

// blankSets is how many empty rows a never-trained exercise starts with.
const blankSets = 3

// Draft is the prefilled input for an exercise: what was already logged in
// this workout, else the sets of the last session, else blank rows.
type Draft struct {
	Exercise      models.Exercise `json:"exercise"`
	Sets          models.Sets     `json:"sets"`
	Notes         string          `json:"notes"`
	Source        DraftSource     `json:"source"`
	TargetVolume  float64         `json:"target_volume"`
	CurrentVolume float64         `json:"current_volume"`
	Progress      float64         `json:"progress"`
}

// Draft builds the input for exerciseID in the active workout.
func (t *Tracker) Draft(exerciseID string) (Draft, error) {
	t.mu.Lock()
	a := t.active
	if a == nil {
		t.mu.Unlock()
		return Draft{}, ErrNoActiveWorkout
	}
	ex, err := t.planExercise(a, exerciseID)
	if err != nil {
		t.mu.Unlock()
		return Draft{}, err
	}
	logged, hasLog := a.logs[exerciseID]
	t.mu.Unlock()

	sessions := t.store.Sessions()
	d := Draft{Exercise: ex}
	switch {
	case hasLog:
		d.Sets = logged.Clone().Sets
		d.Notes = logged.Notes
		d.Source = SourceLogged
	default:
		if last := stats.LastSets(sessions, exerciseID); len(last) > 0 {
			d.Sets = last
			d.Source = SourceLast
		} else {
			d.Sets = make(models.Sets, blankSets)
			d.Source = SourceBlank
		}
	}
	d.TargetVolume = stats.RecentSeries(sessions, exerciseID, t.window).Target()
	d.CurrentVolume = d.Sets.TotalVolume()
	d.Progress = stats.Progress(d.CurrentVolume, d.TargetVolume)
	return d, nil
}

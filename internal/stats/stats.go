// Package stats derives progress figures from the workout history: per
// exercise volume history, the recent series used for charts and the target
// volume for the next session.
package stats

import (
	"fmt"
	"sort"

	"github.com/claude/gymlog/internal/models"
)

// DefaultWindow is the number of most recent entries charts and targets use.
const DefaultWindow = 5

// targetFactor scales the recent mean volume into the next session's target.
const targetFactor = 1.1

// Entry is one logged occurrence of an exercise in the history.
type Entry struct {
	Date      models.Date `json:"date"`
	SessionID string      `json:"session_id"`
	Name      string      `json:"name"`
	Sets      models.Sets `json:"sets"`
}

// Point is one (date, total volume) sample.
type Point struct {
	Date   models.Date `json:"date"`
	Volume float64     `json:"volume"`
}

// Entries returns every log of exerciseID that has sets, ordered ascending by
// session date. Sessions on the same date keep their log order.
func Entries(sessions []models.WorkoutSession, exerciseID string) []Entry {
	sorted := make([]models.WorkoutSession, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var out []Entry
	for _, sess := range sorted {
		for _, l := range sess.Exercises {
			if l.ExerciseID != exerciseID || len(l.Sets) == 0 {
				continue
			}
			out = append(out, Entry{Date: sess.Date, SessionID: sess.SessionID, Name: l.Name, Sets: l.Sets})
		}
	}
	return out
}

// History returns the total volume of every logged occurrence of the
// exercise, oldest first.
func History(sessions []models.WorkoutSession, exerciseID string) []Point {
	entries := Entries(sessions, exerciseID)
	out := make([]Point, len(entries))
	for i, e := range entries {
		out[i] = Point{Date: e.Date, Volume: e.Sets.TotalVolume()}
	}
	return out
}

// Series holds per-entry averages and totals for the most recent entries of
// one exercise. Index 0 is the oldest entry in the window.
type Series struct {
	Dates   []models.Date `json:"dates"`
	Weights []float64     `json:"weights"`
	Reps    []float64     `json:"reps"`
	Volumes []float64     `json:"volumes"`
}

// Len returns the number of entries in the series.
func (s Series) Len() int {
	return len(s.Volumes)
}

// Target returns the suggested volume for the next session.
func (s Series) Target() float64 {
	return TargetVolume(s.Volumes)
}

// RecentSeries returns the last window entries of the exercise in
// chronological order. A window <= 0 uses DefaultWindow.
func RecentSeries(sessions []models.WorkoutSession, exerciseID string, window int) Series {
	if window <= 0 {
		window = DefaultWindow
	}
	entries := Entries(sessions, exerciseID)
	if len(entries) > window {
		entries = entries[len(entries)-window:]
	}

	s := Series{
		Dates:   make([]models.Date, len(entries)),
		Weights: make([]float64, len(entries)),
		Reps:    make([]float64, len(entries)),
		Volumes: make([]float64, len(entries)),
	}
	for i, e := range entries {
		s.Dates[i] = e.Date
		s.Weights[i] = e.Sets.AverageWeight()
		s.Reps[i] = e.Sets.AverageReps()
		s.Volumes[i] = e.Sets.TotalVolume()
	}
	return s
}

// TargetVolume returns the mean of volumes scaled by 1.1. With no history it
// returns 1 so that progress ratios never divide by zero.
func TargetVolume(volumes []float64) float64 {
	if len(volumes) == 0 {
		return 1
	}
	var sum float64
	for _, v := range volumes {
		sum += v
	}
	return sum / float64(len(volumes)) * targetFactor
}

// Progress returns current as a fraction of target, clamped to [0, 1].
func Progress(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	p := current / target
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// LastSets returns the sets of the exercise from the most recent session that
// logged it, or nil when it has never been logged. Of several sessions on the
// latest date, the one added last wins.
func LastSets(sessions []models.WorkoutSession, exerciseID string) models.Sets {
	entries := Entries(sessions, exerciseID)
	if len(entries) == 0 {
		return nil
	}
	last := entries[len(entries)-1].Sets
	out := make(models.Sets, len(last))
	copy(out, last)
	return out
}

// PersonalBest returns the highest total volume ever logged for the exercise.
func PersonalBest(sessions []models.WorkoutSession, exerciseID string) float64 {
	var best float64
	for _, p := range History(sessions, exerciseID) {
		if p.Volume > best {
			best = p.Volume
		}
	}
	return best
}

// DaysSinceLastWorkout returns the whole days between the latest session and
// today, or -1 when nothing has been logged.
func DaysSinceLastWorkout(sessions []models.WorkoutSession, today models.Date) int {
	var latest models.Date
	for _, sess := range sessions {
		if sess.Date.IsZero() {
			continue
		}
		if latest.IsZero() || latest.Before(sess.Date) {
			latest = sess.Date
		}
	}
	if latest.IsZero() {
		return -1
	}
	return latest.DaysUntil(today)
}

// LastWorkoutLabel renders the result of DaysSinceLastWorkout for display.
func LastWorkoutLabel(days int) string {
	switch {
	case days < 0:
		return "No workouts logged yet"
	case days == 0:
		return "Last workout: Today"
	case days == 1:
		return "Last workout: Yesterday"
	}
	return fmt.Sprintf("Days since last workout: %d", days)
}

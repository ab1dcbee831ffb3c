package models

import (
	"encoding/json"
	"math"
)

// DefaultRestSeconds is the rest time given to exercises that never had one.
const DefaultRestSeconds = 60

// Document is the whole persisted application state.
type Document struct {
	Plans           []Plan           `json:"plans"`
	MuscleGroups    []string         `json:"muscle_groups"`
	WorkoutSessions []WorkoutSession `json:"workout_sessions"`
}

// Plan is a named, ordered list of exercises.
type Plan struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// Exercise is a movement owned by exactly one plan.
type Exercise struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	PrimaryMuscle   MuscleGroup `json:"primary_muscle"`
	SecondaryMuscle MuscleGroup `json:"secondary_muscle"`
	RestTime        int         `json:"rest_time"`
	PBTotalVolume   float64     `json:"pb_total_volume,omitempty"`
}

// ExerciseIndex returns the position of the exercise with the given id, or -1.
func (p *Plan) ExerciseIndex(id string) int {
	for i := range p.Exercises {
		if p.Exercises[i].ID == id {
			return i
		}
	}
	return -1
}

// Set is one block of repetitions at a weight.
type Set struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// Volume returns weight × reps.
func (s Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// Valid reports whether both weight and reps are strictly positive. Only
// valid sets are kept when an exercise is finished.
func (s Set) Valid() bool {
	return s.Weight > 0 && s.Reps > 0
}

// UnmarshalJSON accepts reps written as a JSON float (e.g. 8.0), which some
// older documents contain.
func (s *Set) UnmarshalJSON(b []byte) error {
	var raw struct {
		Weight float64 `json:"weight"`
		Reps   float64 `json:"reps"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.Weight = raw.Weight
	s.Reps = int(math.Round(raw.Reps))
	return nil
}

// Sets is an ordered collection of sets.
type Sets []Set

// TotalVolume returns Σ weight × reps.
func (ss Sets) TotalVolume() float64 {
	var total float64
	for _, s := range ss {
		total += s.Volume()
	}
	return total
}

// AverageWeight returns the arithmetic mean weight, 0 for no sets.
func (ss Sets) AverageWeight() float64 {
	if len(ss) == 0 {
		return 0
	}
	var sum float64
	for _, s := range ss {
		sum += s.Weight
	}
	return sum / float64(len(ss))
}

// AverageReps returns the arithmetic mean rep count, 0 for no sets.
func (ss Sets) AverageReps() float64 {
	if len(ss) == 0 {
		return 0
	}
	var sum int
	for _, s := range ss {
		sum += s.Reps
	}
	return float64(sum) / float64(len(ss))
}

// FilterValid returns the sets with strictly positive weight and reps, in order.
// The result is never nil.
func (ss Sets) FilterValid() Sets {
	out := make(Sets, 0, len(ss))
	for _, s := range ss {
		if s.Valid() {
			out = append(out, s)
		}
	}
	return out
}

// ExerciseLog is what was performed for one exercise in one session. Name is a
// snapshot taken at log time so history survives exercise deletion.
type ExerciseLog struct {
	ExerciseID string `json:"exercise_id"`
	Name       string `json:"name"`
	Sets       Sets   `json:"sets"`
	Notes      string `json:"notes"`
}

// UnmarshalJSON accepts the exercise reference under either "exercise_id" or
// the older "id" key.
func (l *ExerciseLog) UnmarshalJSON(b []byte) error {
	var raw struct {
		ExerciseID *string `json:"exercise_id"`
		ID         *string `json:"id"`
		Name       string  `json:"name"`
		Sets       Sets    `json:"sets"`
		Notes      string  `json:"notes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*l = ExerciseLog{Name: raw.Name, Sets: raw.Sets, Notes: raw.Notes}
	switch {
	case raw.ID != nil:
		l.ExerciseID = *raw.ID
	case raw.ExerciseID != nil:
		l.ExerciseID = *raw.ExerciseID
	}
	return nil
}

// WorkoutSession is one completed workout.
type WorkoutSession struct {
	SessionID string        `json:"session_id"`
	Date      Date          `json:"date"`
	PlanID    string        `json:"plan_id"`
	Exercises []ExerciseLog `json:"exercises"`
}

// HasSets reports whether any exercise log in the session has at least one set.
func (s *WorkoutSession) HasSets() bool {
	for _, ex := range s.Exercises {
		if len(ex.Sets) > 0 {
			return true
		}
	}
	return false
}

// Log returns the log for the given exercise, if the session contains one
// with sets.
func (s *WorkoutSession) Log(exerciseID string) (ExerciseLog, bool) {
	for _, ex := range s.Exercises {
		if ex.ExerciseID == exerciseID && len(ex.Sets) > 0 {
			return ex, true
		}
	}
	return ExerciseLog{}, false
}

// TotalVolume sums the volume of every log in the session.
func (s *WorkoutSession) TotalVolume() float64 {
	var total float64
	for _, ex := range s.Exercises {
		total += ex.Sets.TotalVolume()
	}
	return total
}

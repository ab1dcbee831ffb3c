package storage

import (
	"fmt"
	"strings"

	"github.com/claude/gymlog/internal/models"
)

// ExerciseInput carries the editable fields of an exercise.
type ExerciseInput struct {
	Name            string             `json:"name"`
	PrimaryMuscle   models.MuscleGroup `json:"primary_muscle"`
	SecondaryMuscle models.MuscleGroup `json:"secondary_muscle"`
	RestTime        int                `json:"rest_time"`
}

// Validate checks that the exercise has a name and a real primary muscle, and
// returns the input normalized: trimmed name, canonical muscle names, a blank
// secondary muscle as None and a non-positive rest time as the default.
func (in ExerciseInput) Validate() (ExerciseInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalidExercise)
	}
	primary, err := models.ParseMuscleGroup(string(in.PrimaryMuscle))
	if err != nil || primary == models.MuscleNone {
		return in, fmt.Errorf("%w: primary muscle is required", ErrInvalidExercise)
	}
	in.PrimaryMuscle = primary

	secondary, err := models.ParseMuscleGroup(string(in.SecondaryMuscle))
	if err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalidExercise, err)
	}
	in.SecondaryMuscle = secondary

	if in.RestTime <= 0 {
		in.RestTime = models.DefaultRestSeconds
	}
	return in, nil
}

// Exercise returns one exercise of a plan.
func (s *Store) Exercise(planID, exerciseID string) (models.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, idx, err := findExercise(s.doc, planID, exerciseID)
	if err != nil {
		return models.Exercise{}, err
	}
	return p.Exercises[idx], nil
}

// FindExercise looks an exercise up in every plan and returns it together
// with the id of the owning plan.
func (s *Store) FindExercise(exerciseID string) (models.Exercise, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.doc.Plans {
		if idx := p.ExerciseIndex(exerciseID); idx >= 0 {
			return p.Exercises[idx], p.ID, nil
		}
	}
	return models.Exercise{}, "", fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
}

// AddExercise appends a new exercise to a plan. Invalid input is rejected
// with ErrInvalidExercise and the plan is left untouched.
func (s *Store) AddExercise(planID string, in ExerciseInput) (models.Exercise, error) {
	in, err := in.Validate()
	if err != nil {
		return models.Exercise{}, err
	}
	ex := models.Exercise{
		ID:              models.NewExerciseID(),
		Name:            in.Name,
		PrimaryMuscle:   in.PrimaryMuscle,
		SecondaryMuscle: in.SecondaryMuscle,
		RestTime:        in.RestTime,
	}
	err = s.mutate(Event{Kind: EventExerciseAdded, PlanID: planID, ID: ex.ID}, func(d *models.Document) error {
		idx := planIndex(d, planID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
		}
		d.Plans[idx].Exercises = append(d.Plans[idx].Exercises, ex)
		return nil
	})
	if err != nil {
		return models.Exercise{}, err
	}
	return ex, nil
}

// UpdateExercise overwrites name, muscles and rest time. The personal best is
// kept. Invalid input drops the edit and returns ErrInvalidExercise.
func (s *Store) UpdateExercise(planID, exerciseID string, in ExerciseInput) (models.Exercise, error) {
	in, err := in.Validate()
	if err != nil {
		return models.Exercise{}, err
	}
	var out models.Exercise
	err = s.mutate(Event{Kind: EventExerciseUpdated, PlanID: planID, ID: exerciseID}, func(d *models.Document) error {
		p, idx, err := findExercise(d, planID, exerciseID)
		if err != nil {
			return err
		}
		ex := &p.Exercises[idx]
		ex.Name = in.Name
		ex.PrimaryMuscle = in.PrimaryMuscle
		ex.SecondaryMuscle = in.SecondaryMuscle
		ex.RestTime = in.RestTime
		out = *ex
		return nil
	})
	return out, err
}

// DeleteExercise removes an exercise from its plan. Historical sessions keep
// their logs, which carry a name snapshot.
func (s *Store) DeleteExercise(planID, exerciseID string) error {
	return s.mutate(Event{Kind: EventExerciseDeleted, PlanID: planID, ID: exerciseID}, func(d *models.Document) error {
		p, idx, err := findExercise(d, planID, exerciseID)
		if err != nil {
			return err
		}
		p.Exercises = append(p.Exercises[:idx], p.Exercises[idx+1:]...)
		return nil
	})
}

// MoveExercise swaps the exercise with its neighbour in direction dir. Moving
// past either end is a no-op.
func (s *Store) MoveExercise(planID, exerciseID string, dir int) error {
	return s.mutate(Event{Kind: EventExerciseMoved, PlanID: planID, ID: exerciseID}, func(d *models.Document) error {
		p, idx, err := findExercise(d, planID, exerciseID)
		if err != nil {
			return err
		}
		to, ok, err := moveIndex(idx, dir, len(p.Exercises))
		if err != nil {
			return err
		}
		if !ok {
			return errNoChange
		}
		p.Exercises[idx], p.Exercises[to] = p.Exercises[to], p.Exercises[idx]
		return nil
	})
}

// RecordPersonalBest raises the exercise's stored best total volume if volume
// exceeds it. It reports whether a new best was recorded. Exercises that no
// longer exist are ignored.
func (s *Store) RecordPersonalBest(exerciseID string, volume float64) (bool, error) {
	var improved bool
	err := s.mutate(Event{Kind: EventPersonalBest, ID: exerciseID}, func(d *models.Document) error {
		for pi := range d.Plans {
			idx := d.Plans[pi].ExerciseIndex(exerciseID)
			if idx < 0 {
				continue
			}
			ex := &d.Plans[pi].Exercises[idx]
			if volume <= ex.PBTotalVolume {
				return errNoChange
			}
			ex.PBTotalVolume = volume
			improved = true
			return nil
		}
		return errNoChange
	})
	return improved, err
}

func findExercise(d *models.Document, planID, exerciseID string) (*models.Plan, int, error) {
	pi := planIndex(d, planID)
	if pi < 0 {
		return nil, -1, fmt.Errorf("%w: %s", ErrPlanNotFound, planID)
	}
	p := &d.Plans[pi]
	idx := p.ExerciseIndex(exerciseID)
	if idx < 0 {
		return nil, -1, fmt.Errorf("%w: %s", ErrExerciseNotFound, exerciseID)
	}
	return p, idx, nil
}

package workout

import "errors"

var (
	ErrWorkoutActive      = errors.New("a workout is already in progress")
	ErrNoActiveWorkout    = errors.New("no workout in progress")
	ErrExerciseNotInPlan  = errors.New("exercise is not part of the active plan")
	ErrNoExerciseSelected = errors.New("no exercise selected")
	ErrUnknownRestAction  = errors.New("unknown rest timer action")
)

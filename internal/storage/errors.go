package storage

import "errors"

var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidExercise  = errors.New("invalid exercise")
	ErrInvalidDirection = errors.New("direction must be -1 or +1")

	// errNoChange aborts a mutation without saving or notifying.
	errNoChange = errors.New("no change")
)

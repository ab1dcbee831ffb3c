package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewPlanID returns a fresh plan identifier ("plan_" + 16 hex digits).
func NewPlanID() string { return newID("plan_") }

// NewExerciseID returns a fresh exercise identifier ("ex_" + 16 hex digits).
func NewExerciseID() string { return newID("ex_") }

// NewSessionID returns a fresh session identifier ("sess_" + 16 hex digits).
func NewSessionID() string { return newID("sess_") }

func newID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + hex[:16]
}

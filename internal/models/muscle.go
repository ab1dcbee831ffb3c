package models

import (
	"fmt"
	"strings"
)

// MuscleGroup is one entry of the fixed muscle vocabulary.
type MuscleGroup string

// Canonical muscle group names, in display order.
const (
	MuscleNone       MuscleGroup = "None"
	MuscleChest      MuscleGroup = "Chest"
	MuscleBack       MuscleGroup = "Back"
	MuscleShoulders  MuscleGroup = "Shoulders"
	MuscleBiceps     MuscleGroup = "Biceps"
	MuscleTriceps    MuscleGroup = "Triceps"
	MuscleQuads      MuscleGroup = "Quads"
	MuscleHamstrings MuscleGroup = "Hamstrings"
	MuscleGlutes     MuscleGroup = "Glutes"
	MuscleCalves     MuscleGroup = "Calves"
	MuscleAbs        MuscleGroup = "Abs"
)

var muscleGroups = []MuscleGroup{
	MuscleNone, MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps,
	MuscleQuads, MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleAbs,
}

// muscleAliases maps lowercased names and common synonyms to canonical groups.
var muscleAliases = map[string]MuscleGroup{
	"none":       MuscleNone,
	"":           MuscleNone,
	"chest":      MuscleChest,
	"pecs":       MuscleChest,
	"pectorals":  MuscleChest,
	"back":       MuscleBack,
	"lats":       MuscleBack,
	"traps":      MuscleBack,
	"shoulders":  MuscleShoulders,
	"delts":      MuscleShoulders,
	"deltoids":   MuscleShoulders,
	"biceps":     MuscleBiceps,
	"triceps":    MuscleTriceps,
	"quads":      MuscleQuads,
	"quadriceps": MuscleQuads,
	"hamstrings": MuscleHamstrings,
	"hams":       MuscleHamstrings,
	"glutes":     MuscleGlutes,
	"calves":     MuscleCalves,
	"abs":        MuscleAbs,
	"core":       MuscleAbs,
}

// MuscleGroups returns the fixed vocabulary, starting with None.
func MuscleGroups() []MuscleGroup {
	out := make([]MuscleGroup, len(muscleGroups))
	copy(out, muscleGroups)
	return out
}

// MuscleGroupNames returns the vocabulary as plain strings, the shape stored
// under muscle_groups in the document.
func MuscleGroupNames() []string {
	out := make([]string, len(muscleGroups))
	for i, m := range muscleGroups {
		out[i] = string(m)
	}
	return out
}

// ParseMuscleGroup resolves a name (any case, common synonyms accepted) to its
// canonical group. Unknown names return an error.
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	if m, ok := muscleAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return MuscleNone, fmt.Errorf("unknown muscle group %q", s)
}

// IsTrained reports whether m names an actual muscle (not None and known).
func (m MuscleGroup) IsTrained() bool {
	if m == MuscleNone {
		return false
	}
	_, err := ParseMuscleGroup(string(m))
	return err == nil
}

package alpha

import (
	"strings"

	"github.com/claude/gymlog/internal/models"
)

// muscleHints maps name fragments to the muscle they train. Earlier entries
// win, so specific fragments ("leg curl") precede generic ones ("curl").
var muscleHints = []struct {
	fragment string
	muscle   models.MuscleGroup
}{
	{"hyperextension", models.MuscleBack},
	{"leg curl", models.MuscleHamstrings},
	{"romanian", models.MuscleHamstrings},
	{"stiff leg", models.MuscleHamstrings},
	{"leg raise", models.MuscleAbs},
	{"leg extension", models.MuscleQuads},
	{"leg press", models.MuscleQuads},
	{"calf", models.MuscleCalves},
	{"hip thrust", models.MuscleGlutes},
	{"glute", models.MuscleGlutes},
	{"squat", models.MuscleQuads},
	{"lunge", models.MuscleQuads},
	{"triceps", models.MuscleTriceps},
	{"pushdown", models.MuscleTriceps},
	{"skull", models.MuscleTriceps},
	{"dip", models.MuscleTriceps},
	{"curl", models.MuscleBiceps},
	{"shoulder", models.MuscleShoulders},
	{"overhead", models.MuscleShoulders},
	{"military", models.MuscleShoulders},
	{"lateral", models.MuscleShoulders},
	{"face pull", models.MuscleShoulders},
	{"bench", models.MuscleChest},
	{"chest", models.MuscleChest},
	{"fly", models.MuscleChest},
	{"flye", models.MuscleChest},
	{"push-up", models.MuscleChest},
	{"row", models.MuscleBack},
	{"pull", models.MuscleBack},
	{"lat ", models.MuscleBack},
	{"chin", models.MuscleBack},
	{"deadlift", models.MuscleBack},
	{"crunch", models.MuscleAbs},
	{"plank", models.MuscleAbs},
	{"sit-up", models.MuscleAbs},
}

// GuessMuscle picks a primary muscle from an exercise name, or fallback when
// nothing matches.
func GuessMuscle(name string, fallback models.MuscleGroup) models.MuscleGroup {
	lower := strings.ToLower(name) + " "
	for _, h := range muscleHints {
		if strings.Contains(lower, h.fragment) {
			return h.muscle
		}
	}
	return fallback
}

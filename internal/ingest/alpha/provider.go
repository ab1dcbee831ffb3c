package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/claude/gymlog/internal/ingest"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
)

// Provider imports Alpha Progression exports into the store.
type Provider struct {
	store         *storage.Store
	log           *slog.Logger
	defaultMuscle models.MuscleGroup
}

// NewProvider creates an importer. Exercises whose name gives no hint about
// the muscle trained get defaultMuscle (Chest when it is not a real muscle).
func NewProvider(store *storage.Store, log *slog.Logger, defaultMuscle models.MuscleGroup) *Provider {
	if !defaultMuscle.IsTrained() {
		defaultMuscle = models.MuscleChest
	}
	return &Provider{store: store, log: log, defaultMuscle: defaultMuscle}
}

// Ingest parses an export and appends its sessions to the history. Each
// session goes to the plan named after the first segment of its title, and
// each exercise to the plan exercise with the same name; both are created
// when missing. Sessions already logged for that plan on that date are
// skipped, so importing the same file twice is harmless.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := p.importSession(s, result); err != nil {
			return result, fmt.Errorf("importing session %q (%s): %w", s.Name, s.Date.Format("2006-01-02"), err)
		}
	}

	p.log.Info("alpha import finished",
		"sessions", result.SessionsReceived,
		"imported", result.SessionsImported,
		"skipped", result.SessionsSkipped,
		"sets", result.SetsImported)
	return result, nil
}

func (p *Provider) importSession(s Session, result *ingest.Result) error {
	date := models.DateOf(s.Date)
	for _, ex := range s.Exercises {
		result.SetsReceived += len(ex.Sets)
	}

	plan, err := p.planFor(s, result)
	if err != nil {
		return err
	}
	if p.store.HasSessionOn(plan.ID, date) {
		result.SessionsSkipped++
		for _, ex := range s.Exercises {
			result.SetsDropped += len(ex.Sets)
		}
		p.log.Debug("session already imported", "plan", plan.Name, "date", date.String())
		return nil
	}

	sess := models.WorkoutSession{Date: date, PlanID: plan.ID}
	for _, ax := range s.Exercises {
		var sets models.Sets
		for _, set := range ax.WorkingSets() {
			sets = append(sets, models.Set{Weight: set.WeightKg, Reps: set.Reps})
		}
		sets = sets.FilterValid()
		result.SetsDropped += len(ax.Sets) - len(sets)
		if len(sets) == 0 {
			continue
		}

		ex, err := p.exerciseFor(plan.ID, ax, result)
		if err != nil {
			return err
		}
		sess.Exercises = append(sess.Exercises, models.ExerciseLog{
			ExerciseID: ex.ID,
			Name:       ex.Name,
			Sets:       sets,
			Notes:      ax.Equipment,
		})
		result.SetsImported += len(sets)
	}

	_, saved, err := p.store.AppendSession(sess)
	if err != nil {
		return err
	}
	if saved {
		result.SessionsImported++
	} else {
		result.SessionsSkipped++
	}
	return nil
}

// planFor finds or creates the plan a session belongs to.
func (p *Provider) planFor(s Session, result *ingest.Result) (models.Plan, error) {
	name := s.Segments()[0]
	for _, plan := range p.store.Plans() {
		if strings.EqualFold(plan.Name, name) {
			return plan, nil
		}
	}
	plan, err := p.store.CreatePlan(name)
	if err != nil {
		return models.Plan{}, err
	}
	result.PlansCreated++
	p.log.Info("plan created from import", "plan_id", plan.ID, "name", plan.Name)
	return plan, nil
}

// exerciseFor finds or creates the plan exercise matching ax by name.
func (p *Provider) exerciseFor(planID string, ax Exercise, result *ingest.Result) (models.Exercise, error) {
	plan, err := p.store.Plan(planID)
	if err != nil {
		return models.Exercise{}, err
	}
	for _, ex := range plan.Exercises {
		if strings.EqualFold(ex.Name, ax.Name) {
			return ex, nil
		}
	}
	ex, err := p.store.AddExercise(planID, storage.ExerciseInput{
		Name:          ax.Name,
		PrimaryMuscle: GuessMuscle(ax.Name, p.defaultMuscle),
	})
	if err != nil {
		return models.Exercise{}, err
	}
	result.ExercisesCreated++
	return ex, nil
}

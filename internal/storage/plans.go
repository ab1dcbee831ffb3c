package storage

import (
	"fmt"
	"strings"

	"github.com/claude/gymlog/internal/models"
)

// DefaultPlanName is used when a plan is created without a name.
const DefaultPlanName = "New Plan"

// Plans returns all plans in display order.
func (s *Store) Plans() []models.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Plan, len(s.doc.Plans))
	for i := range s.doc.Plans {
		out[i] = s.doc.Plans[i].Clone()
	}
	return out
}

// Plan returns the plan with the given id.
func (s *Store) Plan(id string) (models.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := planIndex(s.doc, id)
	if idx < 0 {
		return models.Plan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return s.doc.Plans[idx].Clone(), nil
}

// PlanName returns the plan's name, or "" if it does not exist.
func (s *Store) PlanName(id string) string {
	p, err := s.Plan(id)
	if err != nil {
		return ""
	}
	return p.Name
}

// CreatePlan appends a new plan with no exercises.
func (s *Store) CreatePlan(name string) (models.Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPlanName
	}
	p := models.Plan{ID: models.NewPlanID(), Name: name, Exercises: []models.Exercise{}}
	err := s.mutate(Event{Kind: EventPlanCreated, PlanID: p.ID}, func(d *models.Document) error {
		d.Plans = append(d.Plans, p)
		return nil
	})
	return p.Clone(), err
}

// RenamePlan changes a plan's name. A blank name leaves the plan unchanged.
func (s *Store) RenamePlan(id, name string) (models.Plan, error) {
	name = strings.TrimSpace(name)
	var out models.Plan
	err := s.mutate(Event{Kind: EventPlanRenamed, PlanID: id}, func(d *models.Document) error {
		idx := planIndex(d, id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrPlanNotFound, id)
		}
		out = d.Plans[idx].Clone()
		if name == "" || name == d.Plans[idx].Name {
			return errNoChange
		}
		d.Plans[idx].Name = name
		out.Name = name
		return nil
	})
	return out, err
}

// DeletePlan removes the plan and every session logged against it. It returns
// the number of sessions removed.
func (s *Store) DeletePlan(id string) (int, error) {
	var removed int
	err := s.mutate(Event{Kind: EventPlanDeleted, PlanID: id}, func(d *models.Document) error {
		idx := planIndex(d, id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrPlanNotFound, id)
		}
		d.Plans = append(d.Plans[:idx], d.Plans[idx+1:]...)

		kept := d.WorkoutSessions[:0]
		for _, sess := range d.WorkoutSessions {
			if sess.PlanID == id {
				removed++
				continue
			}
			kept = append(kept, sess)
		}
		d.WorkoutSessions = kept
		return nil
	})
	if err == nil {
		s.log.Info("plan deleted", "plan_id", id, "sessions_removed", removed)
	}
	return removed, err
}

// MovePlan swaps the plan with its neighbour in direction dir (-1 up, +1
// down). Moving past either end is a no-op.
func (s *Store) MovePlan(id string, dir int) error {
	return s.mutate(Event{Kind: EventPlanMoved, PlanID: id}, func(d *models.Document) error {
		idx := planIndex(d, id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrPlanNotFound, id)
		}
		to, ok, err := moveIndex(idx, dir, len(d.Plans))
		if err != nil {
			return err
		}
		if !ok {
			return errNoChange
		}
		d.Plans[idx], d.Plans[to] = d.Plans[to], d.Plans[idx]
		return nil
	})
}

func planIndex(d *models.Document, id string) int {
	for i := range d.Plans {
		if d.Plans[i].ID == id {
			return i
		}
	}
	return -1
}

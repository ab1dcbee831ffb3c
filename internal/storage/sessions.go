package storage

import (
	"fmt"
	"sort"

	"github.com/claude/gymlog/internal/models"
)

// AppendSession adds a finished workout to the history. Logs without sets
// are dropped first; if nothing remains the session is discarded and
// AppendSession reports false. A missing session id is generated.
func (s *Store) AppendSession(sess models.WorkoutSession) (models.WorkoutSession, bool, error) {
	sess = sess.Clone()
	logs := make([]models.ExerciseLog, 0, len(sess.Exercises))
	for _, l := range sess.Exercises {
		if len(l.Sets) > 0 {
			logs = append(logs, l)
		}
	}
	sess.Exercises = logs
	if len(logs) == 0 {
		return models.WorkoutSession{}, false, nil
	}
	if sess.SessionID == "" {
		sess.SessionID = models.NewSessionID()
	}

	err := s.mutate(Event{Kind: EventSessionAppended, PlanID: sess.PlanID, ID: sess.SessionID}, func(d *models.Document) error {
		d.WorkoutSessions = append(d.WorkoutSessions, sess)
		return nil
	})
	if err != nil {
		return models.WorkoutSession{}, false, err
	}
	s.log.Info("session saved", "session_id", sess.SessionID, "plan_id", sess.PlanID,
		"date", sess.Date.String(), "exercises", len(sess.Exercises))
	return sess.Clone(), true, nil
}

// Sessions returns the session log in insertion order.
func (s *Store) Sessions() []models.WorkoutSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WorkoutSession, len(s.doc.WorkoutSessions))
	for i := range s.doc.WorkoutSessions {
		out[i] = s.doc.WorkoutSessions[i].Clone()
	}
	return out
}

// SessionsByDate returns sessions sorted ascending by date, ties kept in
// insertion order. A non-empty planID restricts the result to that plan.
func (s *Store) SessionsByDate(planID string) []models.WorkoutSession {
	all := s.Sessions()
	out := all[:0]
	for _, sess := range all {
		if planID == "" || sess.PlanID == planID {
			out = append(out, sess)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Session returns one session by id.
func (s *Store) Session(id string) (models.WorkoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.doc.WorkoutSessions {
		if sess.SessionID == id {
			return sess.Clone(), nil
		}
	}
	return models.WorkoutSession{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
}

// HasSessionOn reports whether a session for the plan was logged on date.
func (s *Store) HasSessionOn(planID string, date models.Date) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.doc.WorkoutSessions {
		if sess.PlanID == planID && sess.Date == date {
			return true
		}
	}
	return false
}

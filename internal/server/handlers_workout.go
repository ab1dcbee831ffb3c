package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/workout"
)

type startRequest struct {
	PlanID string `json:"plan_id"`
}

type finishResponse struct {
	Saved   bool                   `json:"saved"`
	Session *models.WorkoutSession `json:"session,omitempty"`
	Volume  float64                `json:"total_volume"`
}

func (s *Server) handleWorkoutStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Status())
}

func (s *Server) handleWorkoutStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := s.tracker.Start(req.PlanID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleWorkoutDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.tracker.Draft(chi.URLParam(r, "exID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleWorkoutSelect(w http.ResponseWriter, r *http.Request) {
	d, err := s.tracker.Select(chi.URLParam(r, "exID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleWorkoutLog(w http.ResponseWriter, r *http.Request) {
	var entry workout.ExerciseEntry
	if !decodeJSON(w, r, &entry) {
		return
	}
	res, err := s.tracker.LogExercise(entry)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWorkoutSummary(w http.ResponseWriter, r *http.Request) {
	logs, err := s.tracker.Summary()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleWorkoutFinish(w http.ResponseWriter, r *http.Request) {
	sess, err := s.tracker.Finish()
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := finishResponse{Saved: sess != nil}
	if sess != nil {
		resp.Session = sess
		resp.Volume = sess.TotalVolume()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWorkoutCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Cancel(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRest drives the rest countdown. "add" takes ?seconds=N (default 15).
func (s *Server) handleRest(w http.ResponseWriter, r *http.Request) {
	snap, err := s.tracker.ControlRest(chi.URLParam(r, "action"), queryInt(r, "seconds", 15))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

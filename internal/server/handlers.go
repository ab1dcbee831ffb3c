package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/workout"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrPlanNotFound),
		errors.Is(err, storage.ErrExerciseNotFound),
		errors.Is(err, storage.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidExercise),
		errors.Is(err, storage.ErrInvalidDirection),
		errors.Is(err, workout.ErrExerciseNotInPlan),
		errors.Is(err, workout.ErrNoExerciseSelected),
		errors.Is(err, workout.ErrUnknownRestAction):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, workout.ErrWorkoutActive),
		errors.Is(err, workout.ErrNoActiveWorkout):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

type nameRequest struct {
	Name string `json:"name"`
}

type moveRequest struct {
	Direction int `json:"direction"`
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Document())
}

func (s *Server) handleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.MuscleGroupNames())
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Plans())
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.store.Plan(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	plan, err := s.store.CreatePlan(req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleRenamePlan(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	plan, err := s.store.RenamePlan(chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	removed, err := s.store.DeletePlan(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"sessions_removed": removed})
}

func (s *Server) handleMovePlan(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.store.MovePlan(chi.URLParam(r, "id"), req.Direction); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Plans())
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var in storage.ExerciseInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ex, err := s.store.AddExercise(chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	var in storage.ExerciseInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ex, err := s.store.UpdateExercise(chi.URLParam(r, "id"), chi.URLParam(r, "exID"), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExercise(chi.URLParam(r, "id"), chi.URLParam(r, "exID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveExercise(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	planID := chi.URLParam(r, "id")
	if err := s.store.MoveExercise(planID, chi.URLParam(r, "exID"), req.Direction); err != nil {
		s.writeError(w, err)
		return
	}
	plan, err := s.store.Plan(planID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.SessionsByDate(r.URL.Query().Get("plan_id")))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Session(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	if s.alpha == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "alpha import not configured"})
		return
	}
	result, err := s.alpha.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, 32*maxBodyBytes))
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result.Message = fmt.Sprintf("imported %d of %d sessions", result.SessionsImported, result.SessionsReceived)
	writeJSON(w, http.StatusOK, result)
}

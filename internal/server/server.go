package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   *storage.Store
	tracker *workout.Tracker
	alpha   *alpha.Provider
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey leaves
// mutating routes unauthenticated.
func New(store *storage.Store, tracker *workout.Tracker, alphaProvider *alpha.Provider, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		tracker: tracker,
		alpha:   alphaProvider,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(RequireKeyForWrites(s.apiKey))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/document", s.handleDocument)
		r.Get("/muscle-groups", s.handleMuscleGroups)
		r.Get("/plans", s.handleListPlans)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/last-workout", s.handleLastWorkout)
		r.Get("/exercises/{exID}/history", s.handleExerciseHistory)
		r.Get("/exercises/{exID}/series", s.handleExerciseSeries)
		r.Get("/exercises/{exID}/last-sets", s.handleLastSets)
		r.Get("/exercises/{exID}/chart", s.handleExerciseChart)
		r.Get("/workout", s.handleWorkoutStatus)
		r.Get("/workout/summary", s.handleWorkoutSummary)
		r.Get("/workout/exercises/{exID}/draft", s.handleWorkoutDraft)

		r.Post("/plans", s.handleCreatePlan)
		r.Patch("/plans/{id}", s.handleRenamePlan)
		r.Delete("/plans/{id}", s.handleDeletePlan)
		r.Post("/plans/{id}/move", s.handleMovePlan)
		r.Post("/plans/{id}/exercises", s.handleAddExercise)
		r.Put("/plans/{id}/exercises/{exID}", s.handleUpdateExercise)
		r.Delete("/plans/{id}/exercises/{exID}", s.handleDeleteExercise)
		r.Post("/plans/{id}/exercises/{exID}/move", s.handleMoveExercise)

		r.Post("/workout/start", s.handleWorkoutStart)
		r.Post("/workout/exercises/{exID}/select", s.handleWorkoutSelect)
		r.Post("/workout/log", s.handleWorkoutLog)
		r.Post("/workout/finish", s.handleWorkoutFinish)
		r.Post("/workout/cancel", s.handleWorkoutCancel)
		r.Post("/workout/rest/{action}", s.handleRest)

		r.Post("/import/alpha", s.handleAlphaImport)
	})
}

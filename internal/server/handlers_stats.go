package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/stats"
)

type seriesResponse struct {
	stats.Series
	Target float64 `json:"target_volume"`
}

type chartResponse struct {
	stats.Chart
	Points          []stats.Pixel `json:"points,omitempty"`
	SecondaryPoints []stats.Pixel `json:"secondary_points,omitempty"`
}

func (s *Server) handleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stats.History(s.store.Sessions(), chi.URLParam(r, "exID")))
}

func (s *Server) handleExerciseSeries(w http.ResponseWriter, r *http.Request) {
	window := queryInt(r, "window", s.tracker.Window())
	series := stats.RecentSeries(s.store.Sessions(), chi.URLParam(r, "exID"), window)
	writeJSON(w, http.StatusOK, seriesResponse{Series: series, Target: series.Target()})
}

func (s *Server) handleLastSets(w http.ResponseWriter, r *http.Request) {
	sets := stats.LastSets(s.store.Sessions(), chi.URLParam(r, "exID"))
	if sets == nil {
		sets = []models.Set{}
	}
	writeJSON(w, http.StatusOK, sets)
}

// handleExerciseChart returns chart axes for the weight/reps (kind=dual, the
// default) or volume (kind=volume) graph. With width and height it also
// projects the points into that pixel area.
func (s *Server) handleExerciseChart(w http.ResponseWriter, r *http.Request) {
	window := queryInt(r, "window", s.tracker.Window())
	series := stats.RecentSeries(s.store.Sessions(), chi.URLParam(r, "exID"), window)

	var chart stats.Chart
	switch kind := r.URL.Query().Get("kind"); kind {
	case "", "dual":
		chart = stats.DualAxis(series, window)
	case "volume":
		chart = stats.Single(series, window)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind must be dual or volume"})
		return
	}

	resp := chartResponse{Chart: chart}
	width, height := queryInt(r, "width", 0), queryInt(r, "height", 0)
	if width > 0 && height > 0 {
		resp.Points, resp.SecondaryPoints = chart.Project(stats.Rect{W: float64(width), H: float64(height)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLastWorkout(w http.ResponseWriter, r *http.Request) {
	days := stats.DaysSinceLastWorkout(s.store.Sessions(), s.tracker.Today())
	writeJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"label": stats.LastWorkoutLabel(days),
	})
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

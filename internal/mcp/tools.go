package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/stats"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultSessionLimit = 20

// dateRange returns start/end dates, defaulting to the 30 days up to today.
func dateRange(startStr, endStr string, today models.Date) (models.Date, models.Date, error) {
	end := today
	if endStr != "" {
		t, err := parseFlexTime(endStr)
		if err != nil {
			return models.Date{}, models.Date{}, err
		}
		end = models.DateOf(t)
	}

	start := models.DateOf(end.Time().AddDate(0, 0, -30))
	if startStr != "" {
		t, err := parseFlexTime(startStr)
		if err != nil {
			return models.Date{}, models.Date{}, err
		}
		start = models.DateOf(t)
	}
	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// resolveExercise maps an id or a case-insensitive name to an exercise id.
// An unknown reference is returned as-is so history of deleted exercises
// stays reachable by id.
func resolveExercise(plans []models.Plan, ref string) (id, name, plan string) {
	for _, p := range plans {
		for _, ex := range p.Exercises {
			if ex.ID == ref {
				return ex.ID, ex.Name, p.Name
			}
		}
	}
	for _, p := range plans {
		for _, ex := range p.Exercises {
			if strings.EqualFold(ex.Name, ref) {
				return ex.ID, ex.Name, p.Name
			}
		}
	}
	return ref, "", ""
}

// --- Tool definitions ---

var toolListPlans = mcp.NewTool("list_plans",
	mcp.WithDescription("List workout plans in display order with their exercises (id, name, muscles, rest time, personal best volume)."),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Per-session total volume (weight x reps) for one exercise, oldest first, plus the personal best."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise id or name (case-insensitive)")),
)

var toolGetRecentSeries = mcp.NewTool("get_recent_series",
	mcp.WithDescription("Average weight, average reps and total volume for the most recent sessions of an exercise, with the suggested target volume for the next session."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise id or name (case-insensitive)")),
	mcp.WithNumber("window", mcp.Description("Number of recent sessions to include. Defaults to the server setting.")),
)

var toolGetLastSets = mcp.NewTool("get_last_sets",
	mcp.WithDescription("The sets performed for an exercise in its most recent session."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise id or name (case-insensitive)")),
)

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List completed workout sessions with per-session totals, newest first."),
	mcp.WithString("plan_id", mcp.Description("Only sessions of this plan")),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD or ISO 8601). Defaults to 30 days before end.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD or ISO 8601). Defaults to today.")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions returned. Defaults to 20.")),
)

// --- Handlers ---

func (h *handlers) listPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := h.ds.Plans(ctx)
	if err != nil {
		h.log.Error("mcp list_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plans)
}

// exerciseData loads plans and sessions and resolves the "exercise" argument.
func (h *handlers) exerciseData(ctx context.Context, req mcp.CallToolRequest) (exerciseRef, []models.WorkoutSession, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return exerciseRef{}, nil, fmt.Errorf("exercise parameter is required")
	}
	plans, err := h.ds.Plans(ctx)
	if err != nil {
		return exerciseRef{}, nil, fmt.Errorf("query failed: %w", err)
	}
	sessions, err := h.ds.Sessions(ctx, "")
	if err != nil {
		return exerciseRef{}, nil, fmt.Errorf("query failed: %w", err)
	}

	var ex exerciseRef
	ex.ID, ex.Name, ex.Plan = resolveExercise(plans, ref)
	if ex.Name == "" {
		entries := stats.Entries(sessions, ex.ID)
		if len(entries) == 0 {
			return exerciseRef{}, nil, fmt.Errorf("unknown exercise %q", ref)
		}
		ex.Name = entries[len(entries)-1].Name
	}
	return ex, sessions, nil
}

type exerciseRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Plan string `json:"plan,omitempty"`
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ex, sessions, err := h.exerciseData(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"exercise":      ex,
		"history":       stats.History(sessions, ex.ID),
		"personal_best": stats.PersonalBest(sessions, ex.ID),
	})
}

func (h *handlers) getRecentSeries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ex, sessions, err := h.exerciseData(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	series := stats.RecentSeries(sessions, ex.ID, req.GetInt("window", h.window))
	return jsonResult(map[string]any{
		"exercise":      ex,
		"series":        series,
		"target_volume": series.Target(),
	})
}

func (h *handlers) getLastSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ex, sessions, err := h.exerciseData(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sets := stats.LastSets(sessions, ex.ID)
	if sets == nil {
		sets = models.Sets{}
	}
	return jsonResult(map[string]any{
		"exercise": ex,
		"sets":     sets,
		"volume":   sets.TotalVolume(),
	})
}

// sessionSummary is one row of list_sessions and the recent_sessions resource.
type sessionSummary struct {
	SessionID string      `json:"session_id"`
	Date      models.Date `json:"date"`
	PlanID    string      `json:"plan_id"`
	PlanName  string      `json:"plan_name,omitempty"`
	Exercises []string    `json:"exercises"`
	Sets      int         `json:"sets"`
	Volume    float64     `json:"volume"`
}

// summarize returns sessions within [start, end], newest first, capped at limit.
func summarize(plans []models.Plan, sessions []models.WorkoutSession, start, end models.Date, limit int) []sessionSummary {
	names := make(map[string]string, len(plans))
	for _, p := range plans {
		names[p.ID] = p.Name
	}

	out := []sessionSummary{}
	for i := len(sessions) - 1; i >= 0 && len(out) < limit; i-- {
		sess := sessions[i]
		if sess.Date.Before(start) || end.Before(sess.Date) {
			continue
		}
		row := sessionSummary{
			SessionID: sess.SessionID,
			Date:      sess.Date,
			PlanID:    sess.PlanID,
			PlanName:  names[sess.PlanID],
			Exercises: []string{},
			Volume:    sess.TotalVolume(),
		}
		for _, l := range sess.Exercises {
			row.Exercises = append(row.Exercises, l.Name)
			row.Sets += len(l.Sets)
		}
		out = append(out, row)
	}
	return out
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := dateRange(req.GetString("start", ""), req.GetString("end", ""), models.DateOf(h.now()))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	limit := req.GetInt("limit", defaultSessionLimit)
	if limit <= 0 {
		limit = defaultSessionLimit
	}

	plans, err := h.ds.Plans(ctx)
	if err != nil {
		h.log.Error("mcp list_sessions plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	sessions, err := h.ds.Sessions(ctx, req.GetString("plan_id", ""))
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	return jsonResult(summarize(plans, sessions, start, end, limit))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

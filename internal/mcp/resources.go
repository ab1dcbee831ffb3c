package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/stats"
	"github.com/mark3labs/mcp-go/mcp"
)

var resPlans = mcp.NewResource("gymlog://plans", "Workout plans",
	mcp.WithResourceDescription("All plans with their exercises in display order"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource("gymlog://recent_sessions", "Recent sessions",
	mcp.WithResourceDescription("Sessions of the last 14 days and days since the last workout"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) plans(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plans, err := h.ds.Plans(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, plans)
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plans, err := h.ds.Plans(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := h.ds.Sessions(ctx, "")
	if err != nil {
		return nil, err
	}

	today := models.DateOf(h.now())
	start := models.DateOf(today.Time().AddDate(0, 0, -14))
	days := stats.DaysSinceLastWorkout(sessions, today)

	return jsonContents(req.Params.URI, map[string]any{
		"date":               today,
		"days_since_workout": days,
		"last_workout":       stats.LastWorkoutLabel(days),
		"sessions":           summarize(plans, sessions, start, today, len(sessions)),
	})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

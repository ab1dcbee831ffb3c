package mcp

import (
	"log/slog"
	"time"

	"github.com/claude/gymlog/internal/stats"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered. window
// is the number of sessions used for series and target volume.
func New(ds DataSource, window int, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("gymlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("gymlog training log. Query workout plans, logged sessions, per-exercise volume history and suggested target volumes. Exercises can be referenced by id or by name."),
	)

	if window <= 0 {
		window = stats.DefaultWindow
	}
	h := &handlers{ds: ds, window: window, now: time.Now, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListPlans, Handler: h.listPlans},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetRecentSeries, Handler: h.getRecentSeries},
		server.ServerTool{Tool: toolGetLastSets, Handler: h.getLastSets},
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
	)

	s.AddResources(
		server.ServerResource{Resource: resPlans, Handler: h.plans},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

type handlers struct {
	ds     DataSource
	window int
	now    func() time.Time
	log    *slog.Logger
}

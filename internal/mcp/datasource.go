package mcp

import (
	"context"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both Local (in-process
// store) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Plans(ctx context.Context) ([]models.Plan, error)
	// Sessions returns sessions in ascending date order. An empty planID
	// returns every session.
	Sessions(ctx context.Context, planID string) ([]models.WorkoutSession, error)
}

// Local reads straight from an open store.
type Local struct {
	store *storage.Store
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal wraps store as a DataSource.
func NewLocal(store *storage.Store) *Local {
	return &Local{store: store}
}

func (l *Local) Plans(ctx context.Context) ([]models.Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.store.Plans(), nil
}

func (l *Local) Sessions(ctx context.Context, planID string) ([]models.WorkoutSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.store.SessionsByDate(planID), nil
}

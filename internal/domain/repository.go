package domain

import (
	"context"
	"time"
)

// QueryLog is an operator-facing record of one successful check.
// It is never read back into a user session.
type QueryLog struct {
	SessionID  string
	City       string
	Features   FeatureRecord
	Prediction int
	Category   Category
	CreatedAt  time.Time
}

// QueryLogRepository defines the interface for query log persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type QueryLogRepository interface {
	// SaveQueryLog persists one completed check
	SaveQueryLog(ctx context.Context, entry QueryLog) error

	// CountQueries returns how many checks were logged since the given time
	CountQueries(ctx context.Context, since time.Time) (int, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}

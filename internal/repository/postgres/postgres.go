package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/breathify/backend/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS query_logs (
		id          BIGSERIAL PRIMARY KEY,
		session_id  TEXT NOT NULL,
		city        TEXT NOT NULL,
		features    JSONB NOT NULL,
		prediction  INTEGER NOT NULL,
		category    TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_query_logs_created_at ON query_logs (created_at);
`

// PostgresRepository implements domain.QueryLogRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the query log table if it does not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to migrate: %w", err)
	}
	return nil
}

// SaveQueryLog persists one completed check
func (r *PostgresRepository) SaveQueryLog(ctx context.Context, entry domain.QueryLog) error {
	query := `
		INSERT INTO query_logs (
			session_id, city, features, prediction, category, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	features, err := json.Marshal(entry.Features)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode features: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		entry.SessionID, entry.City, string(features), entry.Prediction, entry.Category.String(), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save query log: %w", err)
	}

	return nil
}

// CountQueries returns how many checks were logged since the given time
func (r *PostgresRepository) CountQueries(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM query_logs WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to count query logs: %w", err)
	}
	return count, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

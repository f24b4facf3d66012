package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/breathify/backend/internal/domain"
)

// MockRepository implements domain.QueryLogRepository when no database is
// configured. Entries are kept in memory only for the health counters.
type MockRepository struct {
	mu    sync.Mutex
	times []time.Time
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SaveQueryLog records only the timestamp in mock mode
func (r *MockRepository) SaveQueryLog(ctx context.Context, entry domain.QueryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.times = append(r.times, entry.CreatedAt)
	return nil
}

// CountQueries counts in-memory entries since the given time
func (r *MockRepository) CountQueries(ctx context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, t := range r.times {
		if !t.Before(since) {
			count++
		}
	}
	return count, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}

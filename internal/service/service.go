package service

import (
	"context"

	"github.com/breathify/backend/internal/domain"
)

// QueryLogRepository is re-exported from domain for convenience
type QueryLogRepository = domain.QueryLogRepository

// EnvironmentFetcher turns a city name into model inputs
type EnvironmentFetcher interface {
	FetchEnvironment(ctx context.Context, city string) (domain.FeatureRecord, error)
}

// Predictor is the AQI classifier. Implementations must be safe for
// concurrent use.
type Predictor interface {
	Predict(ctx context.Context, features domain.FeatureRecord) (int, error)
	Name() string
}

// Synthesizer turns text into playable audio for a language code
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
	Provider() string
}

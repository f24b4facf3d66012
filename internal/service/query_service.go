package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/breathify/backend/internal/advisory"
	"github.com/breathify/backend/internal/domain"
	"github.com/breathify/backend/internal/metrics"
)

// QueryService runs one air quality check: fetch, predict, advise
type QueryService struct {
	env       EnvironmentFetcher
	predictor Predictor
	speech    Synthesizer
	repo      QueryLogRepository
	now       func() time.Time

	wgBg sync.WaitGroup // tracks background goroutines for graceful shutdown
}

// NewQueryService creates a new query service
func NewQueryService(
	env EnvironmentFetcher,
	predictor Predictor,
	speech Synthesizer,
	repo QueryLogRepository,
) *QueryService {
	return &QueryService{
		env:       env,
		predictor: predictor,
		speech:    speech,
		repo:      repo,
		now:       time.Now,
	}
}

// WaitBackground blocks until all background save goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *QueryService) WaitBackground() {
	s.wgBg.Wait()
}

// Check fetches live readings for the city, classifies them and builds the
// advisory. The caller owns the returned result; nothing is kept here.
func (s *QueryService) Check(ctx context.Context, sessionID, city string) (domain.Result, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		metrics.ChecksTotal.WithLabelValues("empty_city").Inc()
		return domain.Result{}, domain.ErrEmptyCity
	}

	features, err := s.env.FetchEnvironment(ctx, city)
	if err != nil {
		metrics.ChecksTotal.WithLabelValues(outcomeFor(err)).Inc()
		return domain.Result{}, err
	}

	prediction, err := s.predictor.Predict(ctx, features)
	if err != nil {
		metrics.ChecksTotal.WithLabelValues("predict_error").Inc()
		return domain.Result{}, fmt.Errorf("predict: %w", err)
	}

	temperature := features.Temperature
	humidity := features.RelativeHumidity
	adv := advisory.Advise(prediction, &temperature, &humidity)

	result := domain.Result{
		City:        city,
		Features:    features,
		Prediction:  prediction,
		Advisory:    adv,
		Temperature: &temperature,
		Humidity:    &humidity,
		CheckedAt:   s.now(),
	}

	metrics.ChecksTotal.WithLabelValues("ok").Inc()
	metrics.PredictionsTotal.WithLabelValues(adv.Category.String()).Inc()

	// Persist query log asynchronously (tracked for graceful shutdown)
	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entry := domain.QueryLog{
			SessionID:  sessionID,
			City:       result.City,
			Features:   result.Features,
			Prediction: result.Prediction,
			Category:   result.Advisory.Category,
			CreatedAt:  result.CheckedAt,
		}
		if err := s.repo.SaveQueryLog(bgCtx, entry); err != nil {
			log.Printf("Failed to save query log: %v", err)
		}
	}()

	return result, nil
}

// Speak synthesizes the advisory text of a stored result in the given language
func (s *QueryService) Speak(ctx context.Context, result *domain.Result, lang string) ([]byte, error) {
	if result == nil {
		return nil, domain.ErrNoResult
	}
	text, err := result.Advisory.Text(lang)
	if err != nil {
		return nil, err
	}
	return s.speech.Synthesize(ctx, text, lang)
}

// Preview returns the advisory for a class without touching upstream APIs
func (s *QueryService) Preview(prediction int, temperature, humidity *float64) domain.Advisory {
	return advisory.Advise(prediction, temperature, humidity)
}

// PredictorName describes the loaded model
func (s *QueryService) PredictorName() string {
	return s.predictor.Name()
}

// SpeechProvider names the configured synthesizer
func (s *QueryService) SpeechProvider() string {
	return s.speech.Provider()
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrCityNotFound):
		return "city_not_found"
	case errors.Is(err, domain.ErrIncompleteData):
		return "incomplete_data"
	case errors.Is(err, domain.ErrEmptyCity):
		return "empty_city"
	default:
		return "upstream_error"
	}
}

package service

import (
	"context"
	"fmt"
	"math"

	"github.com/dmitryikh/leaves"

	"github.com/breathify/backend/internal/domain"
)

// LightGBMPredictor runs a LightGBM text model in process.
// The ensemble is read-only after loading and safe for concurrent use.
type LightGBMPredictor struct {
	ensemble    *leaves.Ensemble
	classOffset int
	path        string
}

// LoadLightGBM loads a model saved with LightGBM's save_model. classOffset
// is added to the winning class index (or the rounded score of a regression
// model), since models trained on AQI labels 1..5 number them from 0.
func LoadLightGBM(path string, classOffset int) (*LightGBMPredictor, error) {
	ensemble, err := leaves.LGEnsembleFromFile(path, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrModelLoad, path, err)
	}
	if n := ensemble.NFeatures(); n != len(domain.FeatureNames) {
		return nil, fmt.Errorf("%w: %s expects %d features, have %d", domain.ErrModelLoad, path, n, len(domain.FeatureNames))
	}

	return &LightGBMPredictor{
		ensemble:    ensemble,
		classOffset: classOffset,
		path:        path,
	}, nil
}

// Predict returns the most probable AQI class for the record
func (p *LightGBMPredictor) Predict(ctx context.Context, features domain.FeatureRecord) (int, error) {
	groups := p.ensemble.NOutputGroups()
	if groups <= 1 {
		// regression on the encoded AQI label
		return int(math.Round(p.ensemble.PredictSingle(features.Vector(), 0))) + p.classOffset, nil
	}

	scores := make([]float64, groups)
	if err := p.ensemble.Predict(features.Vector(), 0, scores); err != nil {
		return 0, fmt.Errorf("lightgbm: predict failed: %w", err)
	}
	return argmax(scores) + p.classOffset, nil
}

// Name describes the loaded model
func (p *LightGBMPredictor) Name() string {
	return fmt.Sprintf("lightgbm %s (%d trees, %d classes)", p.path, p.ensemble.NEstimators(), p.ensemble.NOutputGroups())
}

func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

package forecast

import (
	"context"

	"github.com/opscart/health-monitor/pkg/models"
	"github.com/opscart/health-monitor/pkg/source"
)

// Forecaster projects metrics for the predictive window.
//
// The simulated forecaster shares no data with the current HealthSample and
// keeps no history. It is a placeholder until a model fed by a retained
// time series exists.
type Forecaster interface {
	Forecast(ctx context.Context) (models.ForecastSample, error)
}

const (
	maxTraffic       = 1000
	minConfidence    = 70
	confidenceSpread = 30
)

// SimulatedForecaster draws an independent ForecastSample per call
type SimulatedForecaster struct {
	rng source.Rand
}

// NewSimulatedForecaster creates a simulated forecaster. A nil rng uses source.DefaultRand.
func NewSimulatedForecaster(rng source.Rand) *SimulatedForecaster {
	if rng == nil {
		rng = source.DefaultRand()
	}
	return &SimulatedForecaster{rng: rng}
}

// Forecast returns cpu and memory in [0, 100), traffic in [0, 1000) req/s and
// a confidence in [70, 100)
func (f *SimulatedForecaster) Forecast(ctx context.Context) (models.ForecastSample, error) {
	if err := ctx.Err(); err != nil {
		return models.ForecastSample{}, err
	}

	return models.ForecastSample{
		CPU:        f.rng.Float64() * 100,
		Memory:     f.rng.Float64() * 100,
		Traffic:    f.rng.Float64() * maxTraffic,
		Confidence: f.rng.Float64()*confidenceSpread + minConfidence,
	}, nil
}

// PredictiveAlert reports whether the projected cpu exceeds threshold.
// It ignores the current readings entirely.
func PredictiveAlert(sample models.ForecastSample, threshold float64) bool {
	return sample.CPU > threshold
}

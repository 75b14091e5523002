package source

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/opscart/health-monitor/pkg/models"
)

// MetricsSource produces the current health readings
type MetricsSource interface {
	Sample(ctx context.Context) (models.HealthSample, error)
	Name() string
}

// CollectionError reports a transient failure to collect a sample
type CollectionError struct {
	Source string
	Err    error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collection from %s failed: %v", e.Source, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// Rand is the randomness used by simulated generators
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 {
	return rand.Float64()
}

// DefaultRand returns a Rand backed by the global math/rand/v2 generator
func DefaultRand() Rand {
	return globalRand{}
}

// SimulatedSource draws three independent uniform percentages per sample
type SimulatedSource struct {
	rng Rand
}

// NewSimulatedSource creates a simulated source. A nil rng uses DefaultRand.
func NewSimulatedSource(rng Rand) *SimulatedSource {
	if rng == nil {
		rng = DefaultRand()
	}
	return &SimulatedSource{rng: rng}
}

func (s *SimulatedSource) Name() string {
	return "simulated"
}

// Sample returns a new HealthSample. It fails only if ctx is already done.
func (s *SimulatedSource) Sample(ctx context.Context) (models.HealthSample, error) {
	if err := ctx.Err(); err != nil {
		return models.HealthSample{}, &CollectionError{Source: s.Name(), Err: err}
	}

	return models.HealthSample{
		CPU:    s.rng.Float64() * 100,
		Memory: s.rng.Float64() * 100,
		Disk:   s.rng.Float64() * 100,
	}, nil
}

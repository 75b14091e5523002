package provider

import (
	"context"
	"fmt"
	"math"

	"github.com/opscart/health-monitor/pkg/models"
	"github.com/opscart/health-monitor/pkg/source"
	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	minInstances      = 5
	instanceSpread    = 10
	degradedThreshold = 0.1 // draws at or below are DEGRADED, so 90% are HEALTHY
)

// SimulatedProvider fabricates a fresh status on every call.
// Nothing carries over between calls.
type SimulatedProvider struct {
	name   string
	region string
	rng    source.Rand
}

// NewSimulatedProvider creates a simulated provider. A nil rng uses source.DefaultRand.
func NewSimulatedProvider(name string, rng source.Rand) *SimulatedProvider {
	if rng == nil {
		rng = source.DefaultRand()
	}
	return &SimulatedProvider{
		name:   name,
		region: DefaultRegion(name),
		rng:    rng,
	}
}

func (p *SimulatedProvider) Name() string {
	return p.name
}

func (p *SimulatedProvider) Region() string {
	return p.region
}

// Status draws an instance count in [5, 14], a load percentage and a verdict
func (p *SimulatedProvider) Status(ctx context.Context) (*models.ProviderStatus, error) {
	instances := int(math.Floor(p.rng.Float64()*instanceSpread + minInstances))
	load := p.rng.Float64() * 100

	verdict := models.VerdictDegraded
	if p.rng.Float64() > degradedThreshold {
		verdict = models.VerdictHealthy
	}

	return &models.ProviderStatus{
		Name:      p.name,
		Region:    p.region,
		Instances: instances,
		Load:      load,
		Verdict:   verdict,
	}, nil
}

// NewProviders creates one simulated provider per identifier, keeping order
func NewProviders(names []string, rng source.Rand) ([]Provider, error) {
	seen := sets.New[string]()
	providers := make([]Provider, 0, len(names))

	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("provider identifier must not be empty")
		}
		if seen.Has(name) {
			return nil, fmt.Errorf("duplicate provider: %s", name)
		}
		seen.Insert(name)
		providers = append(providers, NewSimulatedProvider(name, rng))
	}

	return providers, nil
}

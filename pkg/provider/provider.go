package provider

import (
	"context"

	"github.com/opscart/health-monitor/pkg/models"
)

// Provider reports the status of one cloud provider
type Provider interface {
	Status(ctx context.Context) (*models.ProviderStatus, error)
	Name() string
	Region() string
}

// Default regions for well-known providers
var defaultRegions = map[string]string{
	"aws":   "us-east-1",
	"azure": "eastus",
	"gcp":   "us-central1",
}

// DefaultRegion returns the region reported for a provider identifier
func DefaultRegion(name string) string {
	if region, exists := defaultRegions[name]; exists {
		return region
	}
	return "unknown"
}

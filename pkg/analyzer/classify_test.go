package analyzer

import (
	"testing"

	"github.com/opscart/health-monitor/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		cpu       float64
		memory    float64
		disk      float64
		threshold float64
		want      models.Status
	}{
		{"all below", 10, 20, 30, 80, models.StatusOptimal},
		{"cpu above", 80.5, 20, 30, 80, models.StatusWarning},
		{"memory above", 10, 95, 30, 90, models.StatusWarning},
		{"disk above", 10, 20, 75.01, 75, models.StatusWarning},
		{"max equals threshold", 80, 79.99, 12, 80, models.StatusOptimal},
		{"all equal threshold", 90, 90, 90, 90, models.StatusOptimal},
		{"zero threshold zero readings", 0, 0, 0, 0, models.StatusOptimal},
		{"zero threshold any reading", 0, 0.001, 0, 0, models.StatusWarning},
		{"threshold 100 never warns", 99.999, 99.999, 99.999, 100, models.StatusOptimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.cpu, tt.memory, tt.disk, tt.threshold))
		})
	}
}

func TestClassify_MatchesMaxRule(t *testing.T) {
	// Sweep a coarse grid so any divergence from max(...) > threshold shows up
	values := []float64{0, 0.5, 25, 74.99, 75, 75.01, 80, 89.99, 90, 99.99}
	thresholds := []float64{0, 50, 75, 80, 90, 100}

	for _, threshold := range thresholds {
		for _, cpu := range values {
			for _, mem := range values {
				for _, disk := range values {
					sample := models.HealthSample{CPU: cpu, Memory: mem, Disk: disk}
					want := models.StatusOptimal
					if sample.Max() > threshold {
						want = models.StatusWarning
					}
					assert.Equal(t, want, ClassifySample(sample, threshold))
				}
			}
		}
	}
}

func TestAnalysis(t *testing.T) {
	lines := Analysis()
	assert.Len(t, lines, 3)
	assert.Contains(t, lines, "Anomaly detection: NO ANOMALIES")

	// Callers may mutate the returned slice
	lines[0] = "changed"
	assert.Equal(t, "Pattern recognition: ACTIVE", Analysis()[0])
}

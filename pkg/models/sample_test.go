package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthSampleMax(t *testing.T) {
	tests := []struct {
		name   string
		sample HealthSample
		want   float64
	}{
		{"cpu highest", HealthSample{CPU: 91.5, Memory: 10, Disk: 20}, 91.5},
		{"memory highest", HealthSample{CPU: 1, Memory: 77.25, Disk: 20}, 77.25},
		{"disk highest", HealthSample{CPU: 1, Memory: 2, Disk: 99.99}, 99.99},
		{"all zero", HealthSample{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sample.Max())
		})
	}
}

func TestRoundPercent(t *testing.T) {
	assert.Equal(t, 12.35, RoundPercent(12.3456))
	assert.Equal(t, 80.0, RoundPercent(80.004))
	assert.Equal(t, 0.0, RoundPercent(0))
	assert.Equal(t, 99.99, RoundPercent(99.99))
}

func TestSamplesRounded(t *testing.T) {
	health := HealthSample{CPU: 50.60698204880174, Memory: 1.005001, Disk: 33.333333}.Rounded()
	assert.Equal(t, HealthSample{CPU: 50.61, Memory: 1.01, Disk: 33.33}, health)

	forecast := ForecastSample{CPU: 91.239, Memory: 4.444, Traffic: 640.126, Confidence: 70.001}.Rounded()
	assert.Equal(t, ForecastSample{CPU: 91.24, Memory: 4.44, Traffic: 640.13, Confidence: 70}, forecast)
}

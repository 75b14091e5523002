package analyzer

import (
	"math"

	"github.com/opscart/health-monitor/pkg/models"
)

// Classify compares the highest reading to threshold.
// A maximum equal to the threshold is still OPTIMAL.
func Classify(cpu, memory, disk, threshold float64) models.Status {
	if math.Max(cpu, math.Max(memory, disk)) > threshold {
		return models.StatusWarning
	}
	return models.StatusOptimal
}

// ClassifySample classifies a HealthSample against threshold
func ClassifySample(sample models.HealthSample, threshold float64) models.Status {
	return Classify(sample.CPU, sample.Memory, sample.Disk, threshold)
}

// Analysis returns the summary lines attached to reports when AI is enabled.
// They are fixed: no anomaly detection runs behind them.
func Analysis() []string {
	return []string{
		"Pattern recognition: ACTIVE",
		"Anomaly detection: NO ANOMALIES",
		"Predictive scaling: ENABLED",
	}
}

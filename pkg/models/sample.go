package models

import "math"

// HealthSample is one set of current resource readings, each a percentage in [0, 100)
type HealthSample struct {
	CPU    float64 `json:"cpu_percent" yaml:"cpu_percent"`
	Memory float64 `json:"memory_percent" yaml:"memory_percent"`
	Disk   float64 `json:"disk_percent" yaml:"disk_percent"`
}

// Max returns the highest of the three readings
func (s HealthSample) Max() float64 {
	return math.Max(s.CPU, math.Max(s.Memory, s.Disk))
}

// Rounded returns the sample with every reading at two decimals
func (s HealthSample) Rounded() HealthSample {
	return HealthSample{
		CPU:    RoundPercent(s.CPU),
		Memory: RoundPercent(s.Memory),
		Disk:   RoundPercent(s.Disk),
	}
}

// RoundPercent rounds v to two decimals, the precision reports carry
func RoundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}

// ForecastSample is a projected set of metrics with a confidence in [70, 100).
// It is drawn independently of the concurrent HealthSample.
type ForecastSample struct {
	CPU        float64 `json:"cpu_percent" yaml:"cpu_percent"`
	Memory     float64 `json:"memory_percent" yaml:"memory_percent"`
	Traffic    float64 `json:"traffic_rps" yaml:"traffic_rps"`
	Confidence float64 `json:"confidence_percent" yaml:"confidence_percent"`
}

// Rounded returns the sample with every value at two decimals
func (s ForecastSample) Rounded() ForecastSample {
	return ForecastSample{
		CPU:        RoundPercent(s.CPU),
		Memory:     RoundPercent(s.Memory),
		Traffic:    RoundPercent(s.Traffic),
		Confidence: RoundPercent(s.Confidence),
	}
}

// Verdict is the binary health of a cloud provider
type Verdict string

const (
	VerdictHealthy  Verdict = "HEALTHY"
	VerdictDegraded Verdict = "DEGRADED"
)

// ProviderStatus is the per-tick status of one cloud provider
type ProviderStatus struct {
	Name      string  `json:"name" yaml:"name"`
	Region    string  `json:"region" yaml:"region"`
	Instances int     `json:"instances" yaml:"instances"`
	Load      float64 `json:"load_percent" yaml:"load_percent"`
	Verdict   Verdict `json:"verdict" yaml:"verdict"`
}

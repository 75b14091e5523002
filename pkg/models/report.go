package models

import "time"

// Status is the overall classification of a health check
type Status string

const (
	StatusOptimal Status = "OPTIMAL"
	StatusWarning Status = "WARNING"
)

// Forecast is the forecast block of a report
type Forecast struct {
	Sample          ForecastSample `json:"sample" yaml:"sample"`
	WindowSeconds   int            `json:"window_seconds" yaml:"window_seconds"`
	PredictiveAlert bool           `json:"predictive_alert" yaml:"predictive_alert"`
}

// Report is the structured output of one health-check tick
type Report struct {
	ID          string    `json:"id" yaml:"id"`
	RunID       string    `json:"run_id" yaml:"run_id"`
	Environment string    `json:"environment" yaml:"environment"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Debug       bool      `json:"debug,omitempty" yaml:"debug,omitempty"`

	Sample    HealthSample     `json:"sample" yaml:"sample"`
	Providers []ProviderStatus `json:"providers,omitempty" yaml:"providers,omitempty"`
	Analysis  []string         `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Forecast  *Forecast        `json:"forecast,omitempty" yaml:"forecast,omitempty"`

	MaxUsage  float64 `json:"max_usage_percent" yaml:"max_usage_percent"`
	Threshold float64 `json:"alert_threshold_percent" yaml:"alert_threshold_percent"`
	Status    Status  `json:"status" yaml:"status"`
}

// NoticeKind identifies a non-report event emitted by the monitor
type NoticeKind string

const (
	NoticeStartup         NoticeKind = "startup"
	NoticeModelLoaded     NoticeKind = "model_loaded"
	NoticeRetrain         NoticeKind = "retrain"
	NoticeCollectionError NoticeKind = "collection_error"
)

// Notice is a one-line event such as the startup banner or a retraining tick
type Notice struct {
	Kind        NoticeKind        `json:"kind" yaml:"kind"`
	RunID       string            `json:"run_id" yaml:"run_id"`
	Environment string            `json:"environment" yaml:"environment"`
	Timestamp   time.Time         `json:"timestamp" yaml:"timestamp"`
	Message     string            `json:"message" yaml:"message"`
	Details     map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

// Notice detail keys
const (
	DetailAIMonitoring     = "ai_monitoring"
	DetailInterval         = "interval"
	DetailAlertThreshold   = "alert_threshold"
	DetailCloudProviders   = "cloud_providers"
	DetailModelPath        = "model_path"
	DetailTrainingAccuracy = "training_accuracy"
	DetailVersion          = "version"
)

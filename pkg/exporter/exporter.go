package exporter

import (
	"context"
	"sync"

	"github.com/opscart/health-monitor/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "health_monitor"

// Exporter mirrors the latest report into Prometheus metrics.
// It implements output.Handler.
type Exporter struct {
	registry *prometheus.Registry

	usage            *prometheus.GaugeVec
	maxUsage         prometheus.Gauge
	threshold        prometheus.Gauge
	checks           *prometheus.CounterVec
	providerInstance *prometheus.GaugeVec
	providerLoad     *prometheus.GaugeVec
	providerHealthy  *prometheus.GaugeVec
	forecast         *prometheus.GaugeVec
	forecastTraffic  prometheus.Gauge
	confidence       prometheus.Gauge
	predictiveAlerts prometheus.Counter
	notices          *prometheus.CounterVec
	collectionErrors prometheus.Counter

	mu     sync.RWMutex
	latest *models.Report
}

// New creates an exporter with its own registry
func New() *Exporter {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versioncollector.NewCollector(namespace),
	)
	factory := promauto.With(reg)

	return &Exporter{
		registry: reg,
		usage: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "usage_percent",
			Help:      "Latest sampled resource usage.",
		}, []string{"resource"}),
		maxUsage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_usage_percent",
			Help:      "Highest of the latest cpu, memory and disk readings.",
		}),
		threshold: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alert_threshold_percent",
			Help:      "Alert threshold of the active profile.",
		}),
		checks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Health checks by overall status.",
		}, []string{"status"}),
		providerInstance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "provider_instances",
			Help:      "Instance count reported per cloud provider.",
		}, []string{"provider", "region"}),
		providerLoad: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "provider_load_percent",
			Help:      "Load reported per cloud provider.",
		}, []string{"provider", "region"}),
		providerHealthy: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "provider_healthy",
			Help:      "1 if the provider verdict is HEALTHY, 0 if DEGRADED.",
		}, []string{"provider", "region"}),
		forecast: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_usage_percent",
			Help:      "Projected resource usage for the predictive window.",
		}, []string{"resource"}),
		forecastTraffic: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_traffic_requests_per_second",
			Help:      "Projected request rate for the predictive window.",
		}),
		confidence: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "forecast_confidence_percent",
			Help:      "Confidence attached to the latest forecast.",
		}),
		predictiveAlerts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictive_alerts_total",
			Help:      "Forecasts whose cpu projection exceeded the alert threshold.",
		}),
		notices: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_total",
			Help:      "Notices emitted by kind.",
		}, []string{"kind"}),
		collectionErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_errors_total",
			Help:      "Ticks skipped because the metrics source failed.",
		}),
	}
}

// Registry returns the registry holding the exporter's metrics
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

func (e *Exporter) Name() string {
	return "prometheus"
}

func (e *Exporter) HandleReport(ctx context.Context, report *models.Report) error {
	e.usage.WithLabelValues("cpu").Set(report.Sample.CPU)
	e.usage.WithLabelValues("memory").Set(report.Sample.Memory)
	e.usage.WithLabelValues("disk").Set(report.Sample.Disk)
	e.maxUsage.Set(report.MaxUsage)
	e.threshold.Set(report.Threshold)
	e.checks.WithLabelValues(string(report.Status)).Inc()

	for _, p := range report.Providers {
		e.providerInstance.WithLabelValues(p.Name, p.Region).Set(float64(p.Instances))
		e.providerLoad.WithLabelValues(p.Name, p.Region).Set(p.Load)
		healthy := 0.0
		if p.Verdict == models.VerdictHealthy {
			healthy = 1
		}
		e.providerHealthy.WithLabelValues(p.Name, p.Region).Set(healthy)
	}

	if f := report.Forecast; f != nil {
		e.forecast.WithLabelValues("cpu").Set(f.Sample.CPU)
		e.forecast.WithLabelValues("memory").Set(f.Sample.Memory)
		e.forecastTraffic.Set(f.Sample.Traffic)
		e.confidence.Set(f.Sample.Confidence)
		if f.PredictiveAlert {
			e.predictiveAlerts.Inc()
		}
	}

	e.mu.Lock()
	e.latest = report
	e.mu.Unlock()
	return nil
}

func (e *Exporter) HandleNotice(ctx context.Context, notice *models.Notice) error {
	e.notices.WithLabelValues(string(notice.Kind)).Inc()
	if notice.Kind == models.NoticeCollectionError {
		e.collectionErrors.Inc()
	}
	return nil
}

// Latest returns the most recent report, or nil before the first check
func (e *Exporter) Latest() *models.Report {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.latest
}

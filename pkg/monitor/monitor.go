package monitor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/opscart/health-monitor/pkg/analyzer"
	"github.com/opscart/health-monitor/pkg/config"
	"github.com/opscart/health-monitor/pkg/forecast"
	"github.com/opscart/health-monitor/pkg/models"
	"github.com/opscart/health-monitor/pkg/output"
	"github.com/opscart/health-monitor/pkg/provider"
	"github.com/opscart/health-monitor/pkg/source"
	"github.com/prometheus/common/version"
	"k8s.io/utils/clock"
)

const (
	// RetrainInterval is the period of the retraining notice timer. It does
	// not follow the profile interval.
	RetrainInterval = 120 * time.Second

	// TrainingAccuracy is the accuracy reported by every retraining notice
	TrainingAccuracy = 94.7

	bannerTitle     = "Health Monitor"
	modelReadyMsg   = "Predictive monitoring ready"
	retrainDoneMsg  = "Model updated successfully"
	aiStateEnabled  = "ENABLED"
	aiStateDisabled = "DISABLED"
)

// Options configures a Monitor. Only Handler is required.
type Options struct {
	Source     source.MetricsSource
	Forecaster forecast.Forecaster
	// Providers defaults to one simulated provider per profile identifier
	Providers []provider.Provider
	Handler   output.Handler
	Clock     clock.WithTicker
	Logger    logr.Logger
	RunID     string
}

// Monitor runs the health-check loop for one environment
type Monitor struct {
	env     string
	profile config.EnvironmentProfile

	source     source.MetricsSource
	forecaster forecast.Forecaster
	providers  []provider.Provider
	handler    output.Handler
	clock      clock.WithTicker
	logger     logr.Logger
	runID      string

	// one tick's work finishes before the other timer's work starts
	mu sync.Mutex
}

// New creates a monitor for the named environment and its resolved profile
func New(env string, profile config.EnvironmentProfile, opts Options) (*Monitor, error) {
	if opts.Handler == nil {
		return nil, errors.New("output handler is required")
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile for %q: %w", env, err)
	}

	m := &Monitor{
		env:        env,
		profile:    profile,
		source:     opts.Source,
		forecaster: opts.Forecaster,
		handler:    opts.Handler,
		clock:      opts.Clock,
		logger:     opts.Logger,
		runID:      opts.RunID,
	}

	if m.source == nil {
		m.source = source.NewSimulatedSource(nil)
	}
	if m.forecaster == nil {
		m.forecaster = forecast.NewSimulatedForecaster(nil)
	}
	if m.clock == nil {
		m.clock = clock.RealClock{}
	}
	if m.runID == "" {
		m.runID = uuid.New().String()
	}

	if opts.Providers != nil {
		m.providers = append([]provider.Provider(nil), opts.Providers...)
	} else {
		providers, err := provider.NewProviders(profile.Providers(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create providers: %w", err)
		}
		m.providers = providers
	}

	m.logger = m.logger.WithValues("environment", env, "runID", m.runID)
	return m, nil
}

// Environment returns the resolved environment name
func (m *Monitor) Environment() string {
	return m.env
}

// Profile returns the active profile
func (m *Monitor) Profile() config.EnvironmentProfile {
	return m.profile
}

// RunID returns the identifier shared by every record of this run
func (m *Monitor) RunID() string {
	return m.runID
}

// RetrainEnabled reports whether the retraining timer runs.
// It needs both the AI flag and the experimental environment.
func (m *Monitor) RetrainEnabled() bool {
	return m.profile.AIEnabled && m.env == config.EnvironmentExperimental
}

// Run emits the startup banner, then checks health immediately and every
// profile interval until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) error {
	m.Banner(ctx)

	var wg sync.WaitGroup
	if m.RetrainEnabled() {
		// no immediate run: the first notice comes one period in
		retrain := m.clock.NewTicker(RetrainInterval)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer retrain.Stop()
			m.every(ctx, retrain, m.Retrain)
		}()
	}

	m.logger.Info("Starting health checks", "interval", m.profile.Interval, "retrain", m.RetrainEnabled())

	check := m.clock.NewTicker(m.profile.Interval)
	defer check.Stop()

	// errors are already logged and reported as notices
	tick := func(ctx context.Context) { _, _ = m.Check(ctx) }
	tick(ctx)
	m.every(ctx, check, tick)

	wg.Wait()
	m.logger.Info("Health monitor stopped")
	return nil
}

// every calls fn on each tick until ctx is cancelled. The ticker keeps a
// fixed period regardless of how long fn takes.
func (m *Monitor) every(ctx context.Context, ticker clock.Ticker, fn func(context.Context)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if ctx.Err() != nil {
				return
			}
			fn(ctx)
		}
	}
}

// Banner emits the startup summary and, when AI is enabled, the model
// initialization notice
func (m *Monitor) Banner(ctx context.Context) {
	aiState := aiStateDisabled
	if m.profile.AIEnabled {
		aiState = aiStateEnabled
	}

	details := map[string]string{
		models.DetailAIMonitoring:   aiState,
		models.DetailInterval:       formatSeconds(m.profile.Interval),
		models.DetailAlertThreshold: strconv.FormatFloat(m.profile.AlertThreshold, 'f', -1, 64),
		models.DetailVersion:        version.Version,
	}
	if names := m.providerNames(); len(names) > 0 {
		details[models.DetailCloudProviders] = strings.Join(names, ", ")
	}
	m.emitNotice(ctx, m.newNotice(models.NoticeStartup, bannerTitle, details))

	if m.profile.AIEnabled {
		m.emitNotice(ctx, m.newNotice(models.NoticeModelLoaded, modelReadyMsg, map[string]string{
			models.DetailModelPath: m.profile.ModelPath,
		}))
	}
}

// Check runs one health-check tick and emits its report. A collection
// failure emits a collection_error notice instead and is returned.
// Handler failures are only logged.
func (m *Monitor) Check(ctx context.Context) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	report, err := m.Collect(ctx)
	if err != nil {
		m.logger.Error(err, "Health check skipped")
		m.emitNotice(ctx, m.newNotice(models.NoticeCollectionError, err.Error(), nil))
		return nil, err
	}

	if err := m.handler.HandleReport(ctx, report); err != nil {
		m.logger.Error(err, "Failed to emit report", "reportID", report.ID)
	}
	m.logger.V(1).Info("Health check complete", "reportID", report.ID, "status", report.Status, "maxUsage", report.MaxUsage)
	return report, nil
}

// Collect samples every input and assembles a report without emitting it
func (m *Monitor) Collect(ctx context.Context) (*models.Report, error) {
	sample, err := m.source.Sample(ctx)
	if err != nil {
		return nil, err
	}

	// classified on the raw readings, reported at two decimals
	report := &models.Report{
		ID:          uuid.New().String(),
		RunID:       m.runID,
		Environment: m.env,
		Timestamp:   m.clock.Now(),
		Debug:       m.profile.DebugMode,
		Sample:      sample.Rounded(),
		MaxUsage:    models.RoundPercent(sample.Max()),
		Threshold:   m.profile.AlertThreshold,
		Status:      analyzer.ClassifySample(sample, m.profile.AlertThreshold),
	}

	for _, p := range m.providers {
		status, err := p.Status(ctx)
		if err != nil {
			return nil, &source.CollectionError{Source: "provider " + p.Name(), Err: err}
		}
		status.Load = models.RoundPercent(status.Load)
		report.Providers = append(report.Providers, *status)
	}

	if m.profile.AIEnabled {
		report.Analysis = analyzer.Analysis()

		projected, err := m.forecaster.Forecast(ctx)
		if err != nil {
			return nil, &source.CollectionError{Source: "forecaster", Err: err}
		}
		report.Forecast = &models.Forecast{
			Sample:          projected.Rounded(),
			WindowSeconds:   int(m.profile.PredictiveWindow / time.Second),
			PredictiveAlert: forecast.PredictiveAlert(projected, m.profile.AlertThreshold),
		}
	}

	if m.profile.VerboseLogging {
		m.logger.Info("Sample collected", "cpu", sample.CPU, "memory", sample.Memory, "disk", sample.Disk)
	}
	return report, nil
}

// Retrain emits a retraining notice. No model state changes.
func (m *Monitor) Retrain(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.emitNotice(ctx, m.newNotice(models.NoticeRetrain, retrainDoneMsg, map[string]string{
		models.DetailTrainingAccuracy: strconv.FormatFloat(TrainingAccuracy, 'f', 1, 64),
	}))
}

func (m *Monitor) newNotice(kind models.NoticeKind, message string, details map[string]string) *models.Notice {
	return &models.Notice{
		Kind:        kind,
		RunID:       m.runID,
		Environment: m.env,
		Timestamp:   m.clock.Now(),
		Message:     message,
		Details:     details,
	}
}

func (m *Monitor) emitNotice(ctx context.Context, notice *models.Notice) {
	if err := m.handler.HandleNotice(ctx, notice); err != nil {
		m.logger.Error(err, "Failed to emit notice", "kind", notice.Kind)
	}
}

func (m *Monitor) providerNames() []string {
	names := make([]string, 0, len(m.providers))
	for _, p := range m.providers {
		names = append(names, p.Name())
	}
	return names
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}

package exporter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/opscart/health-monitor/pkg/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fullReport() *models.Report {
	return &models.Report{
		ID:          "r-1",
		Environment: "production",
		Timestamp:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Sample:      models.HealthSample{CPU: 85, Memory: 40, Disk: 10},
		Providers: []models.ProviderStatus{
			{Name: "aws", Region: "us-east-1", Instances: 9, Load: 55.5, Verdict: models.VerdictHealthy},
			{Name: "azure", Region: "eastus", Instances: 6, Load: 12, Verdict: models.VerdictDegraded},
		},
		Forecast: &models.Forecast{
			Sample:          models.ForecastSample{CPU: 95, Memory: 30, Traffic: 640, Confidence: 88},
			WindowSeconds:   300,
			PredictiveAlert: true,
		},
		MaxUsage:  85,
		Threshold: 80,
		Status:    models.StatusWarning,
	}
}

func TestExporter_HandleReport(t *testing.T) {
	e := New()
	require.NoError(t, e.HandleReport(context.Background(), fullReport()))

	assert.Equal(t, 85.0, testutil.ToFloat64(e.usage.WithLabelValues("cpu")))
	assert.Equal(t, 40.0, testutil.ToFloat64(e.usage.WithLabelValues("memory")))
	assert.Equal(t, 10.0, testutil.ToFloat64(e.usage.WithLabelValues("disk")))
	assert.Equal(t, 80.0, testutil.ToFloat64(e.threshold))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.checks.WithLabelValues("WARNING")))
	assert.Equal(t, 9.0, testutil.ToFloat64(e.providerInstance.WithLabelValues("aws", "us-east-1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.providerHealthy.WithLabelValues("aws", "us-east-1")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.providerHealthy.WithLabelValues("azure", "eastus")))
	assert.Equal(t, 640.0, testutil.ToFloat64(e.forecastTraffic))
	assert.Equal(t, 88.0, testutil.ToFloat64(e.confidence))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.predictiveAlerts))

	assert.Equal(t, "r-1", e.Latest().ID)
}

func TestExporter_ReportWithoutOptionalBlocks(t *testing.T) {
	e := New()
	report := &models.Report{
		Sample:    models.HealthSample{CPU: 1, Memory: 2, Disk: 3},
		MaxUsage:  3,
		Threshold: 90,
		Status:    models.StatusOptimal,
	}

	require.NoError(t, e.HandleReport(context.Background(), report))

	assert.Equal(t, 1.0, testutil.ToFloat64(e.checks.WithLabelValues("OPTIMAL")))
	assert.Equal(t, 0, testutil.CollectAndCount(e.providerInstance))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.predictiveAlerts))
}

func TestExporter_HandleNotice(t *testing.T) {
	e := New()
	ctx := context.Background()

	require.NoError(t, e.HandleNotice(ctx, &models.Notice{Kind: models.NoticeRetrain}))
	require.NoError(t, e.HandleNotice(ctx, &models.Notice{Kind: models.NoticeCollectionError}))
	require.NoError(t, e.HandleNotice(ctx, &models.Notice{Kind: models.NoticeCollectionError}))

	assert.Equal(t, 1.0, testutil.ToFloat64(e.notices.WithLabelValues("retrain")))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.collectionErrors))
}

func TestServer_Healthz(t *testing.T) {
	s := NewServer(":0", New(), logr.Discard())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_LatestReport(t *testing.T) {
	e := New()
	s := NewServer(":0", e, logr.Discard())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, e.HandleReport(context.Background(), fullReport()))

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "r-1", got.ID)
	assert.Equal(t, models.StatusWarning, got.Status)
	assert.Len(t, got.Providers, 2)
}

func TestServer_Metrics(t *testing.T) {
	e := New()
	require.NoError(t, e.HandleReport(context.Background(), fullReport()))

	s := NewServer(":0", e, logr.Discard())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `health_monitor_usage_percent{resource="cpu"} 85`))
	assert.Contains(t, body, `health_monitor_checks_total{status="WARNING"} 1`)
	assert.Contains(t, body, "health_monitor_build_info")
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", New(), logr.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

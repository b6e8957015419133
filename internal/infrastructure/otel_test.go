package infrastructure

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeOTel_Defaults(t *testing.T) {
	providers, err := InitializeOTel(nil, NewLogger(&bytes.Buffer{}, "error", "json"))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	var spans bytes.Buffer
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceWriter = &spans

	providers, err := InitializeOTel(cfg, NewLogger(&bytes.Buffer{}, "error", "json"))
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "forecast.extend")
	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))
	assert.Empty(t, TraceIDFromContext(context.Background()))
	span.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(shutdownCtx))
	assert.Contains(t, spans.String(), "forecast.extend")
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.MetricExporter = "statsd"

	_, err := InitializeOTel(cfg, NewLogger(&bytes.Buffer{}, "error", "json"))
	require.Error(t, err)
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableMetrics = false

	providers, err := InitializeOTel(cfg, NewLogger(&bytes.Buffer{}, "error", "json"))
	require.NoError(t, err)
	assert.Nil(t, providers.PrometheusHTTP)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err, "no-op meter still yields instruments")
	RecordViewComputation(context.Background(), metrics, "countries", 0)
}

func TestBusinessMetrics_Exposed(t *testing.T) {
	providers, err := InitializeOTel(DefaultOTelConfig(), NewLogger(&bytes.Buffer{}, "error", "json"))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordDatasetLoad(ctx, metrics, "co2", 120, 15*time.Millisecond)
	RecordViewComputation(ctx, metrics, "co2_gdp", 0)
	RecordForecastRun(ctx, metrics, "unavailable", time.Millisecond)
	RecordArtifactFailure(ctx, metrics, "scaler")
	RecordNavigation(ctx, metrics, "forecast")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "dataset_rows_loaded")
	assert.Contains(t, body, "view_empty_results_total")
	assert.Contains(t, body, "forecast_artifact_failures_total")
	assert.Contains(t, body, "navigation_changes_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordDatasetLoad(ctx, nil, "co2", 1, time.Second)
		RecordViewComputation(ctx, nil, "countries", 1)
		RecordForecastRun(ctx, nil, "success", time.Second)
		RecordArtifactFailure(ctx, nil, "model")
		RecordNavigation(ctx, nil, "sectors")
		RecordExport(ctx, nil, "countries", "csv")
		RecordWebSocketClients(ctx, nil, 1)
	})
}

func TestCollectRuntimeStats(t *testing.T) {
	stats := CollectRuntimeStats(time.Now().Add(-time.Minute))
	assert.Greater(t, stats.Goroutines, 0)
	assert.GreaterOrEqual(t, stats.ProcessUptime, time.Minute)
}

package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics holds all application-specific metrics
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Dataset metrics
	DatasetLoadDuration metric.Float64Histogram
	DatasetRowsLoaded   metric.Int64Counter

	// View metrics
	ViewComputations metric.Int64Counter
	ViewEmptyResults metric.Int64Counter

	// Forecast metrics
	ForecastRuns             metric.Int64Counter
	ForecastDuration         metric.Float64Histogram
	ForecastArtifactFailures metric.Int64Counter

	// Dashboard metrics
	NavigationChanges metric.Int64Counter
	WebSocketClients  metric.Int64UpDownCounter
	Exports           metric.Int64Counter
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.HTTPRequestsTotal, "http_requests_total", "Total number of HTTP requests"},
		{&m.DatasetRowsLoaded, "dataset_rows_loaded", "Rows decoded per dataset"},
		{&m.ViewComputations, "view_computations_total", "Derived view computations"},
		{&m.ViewEmptyResults, "view_empty_results_total", "Derived views that produced no rows"},
		{&m.ForecastRuns, "forecast_runs_total", "Forecast requests by outcome"},
		{&m.ForecastArtifactFailures, "forecast_artifact_failures_total", "Forecast artifact load failures"},
		{&m.NavigationChanges, "navigation_changes_total", "Sidebar tab selections"},
		{&m.Exports, "exports_total", "Exported views by format"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, err
		}
	}

	histograms := []struct {
		dst  *metric.Float64Histogram
		name string
		desc string
	}{
		{&m.HTTPRequestDuration, "http_request_duration_seconds", "HTTP request duration in seconds"},
		{&m.DatasetLoadDuration, "dataset_load_duration_seconds", "Dataset file load duration in seconds"},
		{&m.ForecastDuration, "forecast_duration_seconds", "Forecast roll-forward duration in seconds"},
	}
	for _, h := range histograms {
		if *h.dst, err = meter.Float64Histogram(h.name, metric.WithDescription(h.desc), metric.WithUnit("s")); err != nil {
			return nil, err
		}
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.WebSocketClients, err = meter.Int64UpDownCounter(
		"websocket_clients",
		metric.WithDescription("Connected WebSocket clients"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordHTTPRequest records a completed request against its route pattern
func RecordHTTPRequest(ctx context.Context, metrics *BusinessMetrics, method, route string, status int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status_code", status),
	)
	metrics.HTTPRequestsTotal.Add(ctx, 1, attrs)
	metrics.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordActiveRequest adjusts the in-flight request gauge
func RecordActiveRequest(ctx context.Context, metrics *BusinessMetrics, delta int64) {
	if metrics == nil {
		return
	}
	metrics.HTTPActiveRequests.Add(ctx, delta)
}

// RecordDatasetLoad records the load of one dataset file
func RecordDatasetLoad(ctx context.Context, metrics *BusinessMetrics, dataset string, rows int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("dataset", dataset))
	metrics.DatasetLoadDuration.Record(ctx, duration.Seconds(), attrs)
	metrics.DatasetRowsLoaded.Add(ctx, int64(rows), attrs)
}

// RecordViewComputation records a derived view and whether it was empty
func RecordViewComputation(ctx context.Context, metrics *BusinessMetrics, view string, rows int) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("view", view))
	metrics.ViewComputations.Add(ctx, 1, attrs)
	if rows == 0 {
		metrics.ViewEmptyResults.Add(ctx, 1, attrs)
	}
}

// RecordForecastRun records a forecast outcome: "success", "unavailable"
// or "error".
func RecordForecastRun(ctx context.Context, metrics *BusinessMetrics, status string, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	metrics.ForecastRuns.Add(ctx, 1, attrs)
	metrics.ForecastDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordArtifactFailure records a scaler or model that could not be loaded
func RecordArtifactFailure(ctx context.Context, metrics *BusinessMetrics, artifact string) {
	if metrics == nil {
		return
	}
	metrics.ForecastArtifactFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("artifact", artifact)))
}

// RecordNavigation records a tab selection
func RecordNavigation(ctx context.Context, metrics *BusinessMetrics, tab string) {
	if metrics == nil {
		return
	}
	metrics.NavigationChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("tab", tab)))
}

// RecordExport records an exported view
func RecordExport(ctx context.Context, metrics *BusinessMetrics, view, format string) {
	if metrics == nil {
		return
	}
	metrics.Exports.Add(ctx, 1, metric.WithAttributes(
		attribute.String("view", view),
		attribute.String("format", format),
	))
}

// RecordWebSocketClients adjusts the connected client gauge
func RecordWebSocketClients(ctx context.Context, metrics *BusinessMetrics, delta int64) {
	if metrics == nil {
		return
	}
	metrics.WebSocketClients.Add(ctx, delta)
}

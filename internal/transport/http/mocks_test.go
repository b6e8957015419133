package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"co2dash/internal/charts"
	"co2dash/internal/config"
	apierrors "co2dash/internal/errors"
	"co2dash/internal/exporter"
	"co2dash/internal/middleware"
	"co2dash/internal/navigation"
	"co2dash/internal/services"
	"co2dash/pkg/contracts/domain"
)

// MockDashboard is a mock for DashboardService
type MockDashboard struct {
	mock.Mock
}

func (m *MockDashboard) Settings() config.DashboardConfig {
	return config.DashboardConfig{DefaultYear: 2022, DefaultTopN: 15, MinTopN: 5, MaxTopN: 50}
}

func (m *MockDashboard) Choropleth(ctx context.Context, year int) (*services.ChoroplethResult, error) {
	args := m.Called(ctx, year)
	if r := args.Get(0); r != nil {
		return r.(*services.ChoroplethResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboard) Sectors(ctx context.Context) (*services.SectorsResult, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*services.SectorsResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboard) Countries(ctx context.Context, topN int) (*services.CountriesResult, error) {
	args := m.Called(ctx, topN)
	if r := args.Get(0); r != nil {
		return r.(*services.CountriesResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboard) TopEmitters(ctx context.Context) ([]domain.UnifiedEmitter, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]domain.UnifiedEmitter)
	return rows, args.Error(1)
}

func (m *MockDashboard) CO2GDP(ctx context.Context) ([]domain.GDPPoint, error) {
	args := m.Called(ctx)
	points, _ := args.Get(0).([]domain.GDPPoint)
	return points, args.Error(1)
}

func (m *MockDashboard) CountryList(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	countries, _ := args.Get(0).([]string)
	return countries, args.Error(1)
}

func (m *MockDashboard) Years(ctx context.Context) (domain.YearRange, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.YearRange), args.Bool(1), args.Error(2)
}

func (m *MockDashboard) Export(ctx context.Context, w io.Writer, view services.View, q services.ViewQuery, format exporter.Format) error {
	return m.Called(ctx, w, view, q, format).Error(0)
}

func (m *MockDashboard) Chart(ctx context.Context, w io.Writer, view services.View, q services.ViewQuery, format charts.Format) error {
	return m.Called(ctx, w, view, q, format).Error(0)
}

// MockForecast is a mock for ForecastService
type MockForecast struct {
	mock.Mock
}

func (m *MockForecast) Forecast(ctx context.Context, country string) (*services.ForecastResult, error) {
	args := m.Called(ctx, country)
	if r := args.Get(0); r != nil {
		return r.(*services.ForecastResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockNavigation is a mock for NavigationService
type MockNavigation struct {
	mock.Mock
}

func (m *MockNavigation) Snapshot() navigation.Snapshot {
	return m.Called().Get(0).(navigation.Snapshot)
}

func (m *MockNavigation) Select(ctx context.Context, id string) (navigation.Snapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(navigation.Snapshot), args.Error(1)
}

// MockHealth is a mock for HealthService
type MockHealth struct {
	mock.Mock
}

func (m *MockHealth) HealthCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealth) ReadinessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealth) LivenessCheck(ctx context.Context) services.HealthStatus {
	return m.Called(ctx).Get(0).(services.HealthStatus)
}

func (m *MockHealth) Version() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDeps() (*apierrors.ErrorHandler, *middleware.ValidationMiddleware) {
	eh := apierrors.NewErrorHandler(testLogger(), false)
	return eh, middleware.NewValidationMiddleware(testLogger(), eh)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

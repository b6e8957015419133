package http

import (
	"context"
	"io"

	"co2dash/internal/charts"
	"co2dash/internal/config"
	"co2dash/internal/exporter"
	"co2dash/internal/navigation"
	"co2dash/internal/services"
	"co2dash/pkg/contracts/domain"
)

// DashboardService answers the dashboard views
type DashboardService interface {
	Settings() config.DashboardConfig
	Choropleth(ctx context.Context, year int) (*services.ChoroplethResult, error)
	Sectors(ctx context.Context) (*services.SectorsResult, error)
	Countries(ctx context.Context, topN int) (*services.CountriesResult, error)
	TopEmitters(ctx context.Context) ([]domain.UnifiedEmitter, error)
	CO2GDP(ctx context.Context) ([]domain.GDPPoint, error)
	CountryList(ctx context.Context) ([]string, error)
	Years(ctx context.Context) (domain.YearRange, bool, error)
	Export(ctx context.Context, w io.Writer, view services.View, q services.ViewQuery, format exporter.Format) error
	Chart(ctx context.Context, w io.Writer, view services.View, q services.ViewQuery, format charts.Format) error
}

// ForecastService extends country series
type ForecastService interface {
	Forecast(ctx context.Context, country string) (*services.ForecastResult, error)
}

// NavigationService holds the selected tab
type NavigationService interface {
	Snapshot() navigation.Snapshot
	Select(ctx context.Context, id string) (navigation.Snapshot, error)
}

// HealthService reports health and version
type HealthService interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}

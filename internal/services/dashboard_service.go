package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"co2dash/internal/charts"
	"co2dash/internal/config"
	"co2dash/internal/dataset"
	"co2dash/internal/exporter"
	"co2dash/internal/infrastructure"
	"co2dash/internal/views"
	"co2dash/pkg/contracts/domain"
)

// View names a renderable dashboard view. The tab identifiers double as
// view names; the all-time sector table is the one view without a tab.
type View string

const (
	ViewChoropleth     View = View(domain.TabChoropleth)
	ViewSectors        View = View(domain.TabSectors)
	ViewSectorsAllTime View = "sectors-all-time"
	ViewCountries      View = View(domain.TabCountries)
	ViewTopEmitters    View = View(domain.TabTopEmitters)
	ViewCO2GDP         View = View(domain.TabCO2GDP)
	ViewForecast       View = View(domain.TabForecast)
)

// Views lists every view in sidebar order
func Views() []View {
	return []View{ViewChoropleth, ViewSectors, ViewSectorsAllTime, ViewCountries, ViewTopEmitters, ViewCO2GDP, ViewForecast}
}

// ParseView parses a case-insensitive view name
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Views() {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// TableSource yields the loaded tables. *dataset.Store satisfies it.
type TableSource interface {
	Tables(ctx context.Context) (*dataset.Tables, error)
}

// Forecaster extends a country's series. *ForecastService satisfies it.
type Forecaster interface {
	Forecast(ctx context.Context, country string) (*ForecastResult, error)
}

// ViewQuery carries the controls of a view. Zero values select defaults.
type ViewQuery struct {
	Year    int
	TopN    int
	Country string
}

// ChoroplethResult is the map for one year with the slider bounds
type ChoroplethResult struct {
	Year  int                    `json:"year"`
	Range domain.YearRange       `json:"range"`
	Cells []views.ChoroplethCell `json:"cells"`
	Scale []string               `json:"scale"`
}

// SectorsResult holds both sector charts
type SectorsResult struct {
	Latest  []views.SectorShare  `json:"latest"`
	AllTime []domain.SectorTotal `json:"all_time"`
}

// CountriesResult is the top-n ranking
type CountriesResult struct {
	TopN      int                   `json:"top_n"`
	Countries []domain.CountryTotal `json:"countries"`
}

// DashboardService answers the dashboard views from the memoized tables
type DashboardService struct {
	tables     TableSource
	forecaster Forecaster
	settings   config.DashboardConfig
	renderer   *charts.Renderer
	metrics    *infrastructure.BusinessMetrics
	logger     *slog.Logger
}

// NewDashboardService creates the service. forecaster and metrics may be nil.
func NewDashboardService(tables TableSource, forecaster Forecaster, settings config.DashboardConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &DashboardService{
		tables:     tables,
		forecaster: forecaster,
		settings:   settings,
		renderer:   charts.NewRenderer(),
		metrics:    metrics,
		logger:     logger.With(slog.String("service", "dashboard")),
	}
}

// Settings returns the control defaults and bounds
func (s *DashboardService) Settings() config.DashboardConfig {
	return s.settings
}

func (s *DashboardService) record(ctx context.Context, view View, rows int) {
	infrastructure.RecordViewComputation(ctx, s.metrics, string(view), rows)
	s.logger.DebugContext(ctx, "view computed",
		slog.String("view", string(view)),
		slog.Int("rows", rows))
}

// Choropleth returns the year slice coloured on the blue scale. Year zero
// selects the configured default clamped into the data range.
func (s *DashboardService) Choropleth(ctx context.Context, year int) (*ChoroplethResult, error) {
	t, err := s.tables.Tables(ctx)
	if err != nil {
		return nil, err
	}

	result := &ChoroplethResult{Scale: scaleHex()}
	rng, ok := views.YearRange(t.CO2)
	switch {
	case !ok:
		if year == 0 {
			year = s.settings.DefaultYear
		}
	case year == 0:
		year = rng.Clamp(s.settings.DefaultYear)
	case !rng.Contains(year):
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, year, rng.Min, rng.Max)
	}

	result.Year = year
	result.Range = rng
	result.Cells = views.Choropleth(views.YearSlice(t.CO2, year))
	s.record(ctx, ViewChoropleth, len(result.Cells))
	return result, nil
}

func scaleHex() []string {
	out := make([]string, len(views.BlueScale))
	for i, c := range views.BlueScale {
		out[i] = views.Hex(c)
	}
	return out
}

// Sectors returns the latest-year shares and the all-time totals
func (s *DashboardService) Sectors(ctx context.Context) (*SectorsResult, error) {
	t, err := s.tables.Tables(ctx)
	if err != nil {
		return nil, err
	}
	result := &SectorsResult{
		Latest:  views.SectorShares(t.SectorLatest),
		AllTime: views.SectorTotals(t.SectorAll),
	}
	s.record(ctx, ViewSectors, len(result.Latest)+len(result.AllTime))
	return result, nil
}

// Countries returns the topN highest emitters. Zero selects the default.
func (s *DashboardService) Countries(ctx context.Context, topN int) (*CountriesResult, error) {
	if topN == 0 {
		topN = s.settings.DefaultTopN
	}
	if topN < s.settings.MinTopN || topN > s.settings.MaxTopN {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrTopNOutOfRange, topN, s.settings.MinTopN, s.settings.MaxTopN)
	}

	t, err := s.tables.Tables(ctx)
	if err != nil {
		return nil, err
	}
	result := &CountriesResult{TopN: topN, Countries: views.TopNByEmission(t.CountryTotals, topN)}
	s.record(ctx, ViewCountries, len(result.Countries))
	return result, nil
}

// TopEmitters returns the pre-limited top emitters table for display
func (s *DashboardService) TopEmitters(ctx context.Context) ([]domain.UnifiedEmitter, error) {
	t, err := s.tables.Tables(ctx)
	if err != nil {
		return nil, err
	}
	rows := views.RenameForUnified(t.TopEmitters)
	s.record(ctx, ViewTopEmitters, len(rows))
	return rows, nil
}

// CO2GDP returns the intensity table joined with country totals
func (s *DashboardService) CO2GDP(ctx context.Context) ([]domain.GDPPoint, error) {
	t, err := s.tables.Tables(ctx)
	if err != nil {
		return nil, err
	}
	points := views.CO2PerGDPJoin(t.CO2PerGDP, t.CountryTotals)
	s.record(ctx, ViewCO2GDP, len(points))
	return points, nil
}

// CountryList returns the sorted countries of the emissions table
func (s *DashboardService) CountryList(ctx context.Context) ([]string, error) {
	t, err := s.tables.Tables(ctx)
	if err != nil {
		return nil, err
	}
	return views.Countries(t.CO2), nil
}

// Years returns the year span of the emissions table. ok is false when
// the table is empty.
func (s *DashboardService) Years(ctx context.Context) (rng domain.YearRange, ok bool, err error) {
	t, err := s.tables.Tables(ctx)
	if err != nil {
		return domain.YearRange{}, false, err
	}
	rng, ok = views.YearRange(t.CO2)
	return rng, ok, nil
}

// Frame computes a view as a table for export and charts
func (s *DashboardService) Frame(ctx context.Context, view View, q ViewQuery) (*domain.Frame, error) {
	switch view {
	case ViewChoropleth:
		r, err := s.Choropleth(ctx, q.Year)
		if err != nil {
			return nil, err
		}
		return views.ChoroplethFrame(r.Cells), nil

	case ViewSectors:
		r, err := s.Sectors(ctx)
		if err != nil {
			return nil, err
		}
		return views.SectorFrame(r.Latest), nil

	case ViewSectorsAllTime:
		r, err := s.Sectors(ctx)
		if err != nil {
			return nil, err
		}
		return views.SectorTotalsFrame(r.AllTime), nil

	case ViewCountries:
		r, err := s.Countries(ctx, q.TopN)
		if err != nil {
			return nil, err
		}
		return views.CountriesFrame(r.Countries), nil

	case ViewTopEmitters:
		rows, err := s.TopEmitters(ctx)
		if err != nil {
			return nil, err
		}
		return views.TopEmittersFrame(rows), nil

	case ViewCO2GDP:
		points, err := s.CO2GDP(ctx)
		if err != nil {
			return nil, err
		}
		return views.GDPFrame(points), nil

	case ViewForecast:
		if s.forecaster == nil {
			return nil, ErrForecastDisabled
		}
		r, err := s.forecaster.Forecast(ctx, q.Country)
		if err != nil {
			return nil, err
		}
		return views.ForecastFrame(r.Series), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
}

// Export writes a view as CSV or XLSX
func (s *DashboardService) Export(ctx context.Context, w io.Writer, view View, q ViewQuery, format exporter.Format) error {
	frame, err := s.Frame(ctx, view, q)
	if err != nil {
		return err
	}
	if err := exporter.Export(w, frame, format); err != nil {
		return fmt.Errorf("export %s: %w", view, err)
	}
	infrastructure.RecordExport(ctx, s.metrics, string(view), string(format))
	s.logger.InfoContext(ctx, "view exported",
		slog.String("view", string(view)),
		slog.String("format", string(format)),
		slog.Int("rows", frame.Len()))
	return nil
}

// Chart renders a view as PNG or SVG
func (s *DashboardService) Chart(ctx context.Context, w io.Writer, view View, q ViewQuery, format charts.Format) error {
	if view == ViewChoropleth {
		return fmt.Errorf("%w: %s", charts.ErrUnsupportedView, view)
	}
	frame, err := s.Frame(ctx, view, q)
	if err != nil {
		return err
	}
	if err := s.renderer.Render(frame, format, w); err != nil {
		return fmt.Errorf("chart %s: %w", view, err)
	}
	infrastructure.RecordExport(ctx, s.metrics, string(view), string(format))
	return nil
}

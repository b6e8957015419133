package dataset

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"co2dash/internal/infrastructure"
	"co2dash/pkg/contracts/domain"
)

// DefaultMinYear is the earliest year accepted in any table.
const DefaultMinYear = 1850

// Tables is the loaded, read-only snapshot of all six datasets.
type Tables struct {
	CO2           []domain.EmissionRecord
	CO2PerGDP     []domain.CO2PerGDPRecord
	CountryTotals []domain.CountryTotal
	TopEmitters   []domain.TopEmitter
	SectorLatest  []domain.SectorContribution
	SectorAll     []domain.SectorTotal
	LoadedAt      time.Time
}

// RowCounts returns the number of rows per dataset.
func (t *Tables) RowCounts() map[Name]int {
	return map[Name]int{
		CO2:          len(t.CO2),
		CO2PerGDP:    len(t.CO2PerGDP),
		CountryTotal: len(t.CountryTotals),
		TopEmitters:  len(t.TopEmitters),
		SectorLatest: len(t.SectorLatest),
		SectorAll:    len(t.SectorAll),
	}
}

// Loader reads the datasets from disk.
type Loader struct {
	paths   Paths
	minYear int
	maxYear int
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithYearBounds overrides the accepted year range.
func WithYearBounds(minYear, maxYear int) Option {
	return func(l *Loader) {
		l.minYear = minYear
		l.maxYear = maxYear
	}
}

// WithMetrics records load durations and row counts.
func WithMetrics(metrics *infrastructure.BusinessMetrics) Option {
	return func(l *Loader) {
		l.metrics = metrics
	}
}

// NewLoader creates a loader for the given file set. Years default to
// [1850, current year].
func NewLoader(paths Paths, opts ...Option) *Loader {
	l := &Loader{
		paths:   paths,
		minYear: DefaultMinYear,
		maxYear: time.Now().Year(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(slog.String("component", "dataset_loader"))
	return l
}

// Load reads all six files concurrently and decodes them. The first
// failure cancels the rest and is returned as a *LoadError.
func (l *Loader) Load(ctx context.Context) (*Tables, error) {
	if err := l.paths.Validate(); err != nil {
		return nil, err
	}

	ctx, span := infrastructure.StartSpan(ctx, "dataset.load")
	defer span.End()

	start := time.Now()
	tables := &Tables{}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range Names() {
		name := name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return &LoadError{Dataset: name, Path: l.paths.For(name), Err: err}
			}
			return l.loadOne(ctx, name, tables)
		})
	}
	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		l.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("error", err.Error()))
		return nil, err
	}

	tables.LoadedAt = time.Now()
	l.logger.InfoContext(ctx, "datasets loaded",
		slog.Any("rows", tables.RowCounts()),
		slog.Duration("duration", time.Since(start)))
	return tables, nil
}

// loadOne fills exactly one field of tables, so the goroutines never
// write the same memory.
func (l *Loader) loadOne(ctx context.Context, name Name, tables *Tables) error {
	start := time.Now()
	path := l.paths.For(name)

	t, err := readTable(name, path)
	if err != nil {
		return err
	}

	var rows int
	switch name {
	case CO2:
		tables.CO2, err = l.decodeEmissions(t)
		rows = len(tables.CO2)
	case CO2PerGDP:
		tables.CO2PerGDP, err = l.decodeCO2PerGDP(t)
		rows = len(tables.CO2PerGDP)
	case CountryTotal:
		tables.CountryTotals, err = decodeCountryTotals(t)
		rows = len(tables.CountryTotals)
	case TopEmitters:
		tables.TopEmitters, err = decodeTopEmitters(t)
		rows = len(tables.TopEmitters)
	case SectorLatest:
		tables.SectorLatest, err = decodeSectorLatest(t)
		rows = len(tables.SectorLatest)
	case SectorAll:
		tables.SectorAll, err = decodeSectorAll(t)
		rows = len(tables.SectorAll)
	}
	if err != nil {
		return err
	}

	duration := time.Since(start)
	infrastructure.RecordDatasetLoad(ctx, l.metrics, string(name), rows, duration)
	l.logger.DebugContext(ctx, "dataset decoded",
		slog.String("dataset", string(name)),
		slog.String("path", path),
		slog.Int("rows", rows),
		slog.Duration("duration", duration))
	return nil
}

func (l *Loader) decodeEmissions(t *table) ([]domain.EmissionRecord, error) {
	out := make([]domain.EmissionRecord, 0, len(t.rows))
	for _, r := range t.rows {
		country, err := t.text(r, ColCountry)
		if err != nil {
			return nil, err
		}
		year, err := t.year(r, ColYear, l.minYear, l.maxYear)
		if err != nil {
			return nil, err
		}
		co2, err := t.amount(r, ColCO2, false)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.EmissionRecord{Country: country, Year: year, CO2: co2})
	}
	return out, nil
}

// decodeCO2PerGDP keeps blank intensities as NaN; the join drops them.
func (l *Loader) decodeCO2PerGDP(t *table) ([]domain.CO2PerGDPRecord, error) {
	out := make([]domain.CO2PerGDPRecord, 0, len(t.rows))
	for _, r := range t.rows {
		country, err := t.text(r, ColCountry)
		if err != nil {
			return nil, err
		}
		year, err := t.year(r, ColYear, l.minYear, l.maxYear)
		if err != nil {
			return nil, err
		}
		ratio, err := t.amount(r, ColCO2PerGDP, true)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CO2PerGDPRecord{Country: country, Year: year, CO2PerGDP: ratio})
	}
	return out, nil
}

func decodeCountryTotals(t *table) ([]domain.CountryTotal, error) {
	out := make([]domain.CountryTotal, 0, len(t.rows))
	for _, r := range t.rows {
		country, err := t.text(r, ColCountry)
		if err != nil {
			return nil, err
		}
		co2, err := t.amount(r, ColCO2, false)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CountryTotal{Country: country, CO2: co2})
	}
	return out, nil
}

func decodeTopEmitters(t *table) ([]domain.TopEmitter, error) {
	out := make([]domain.TopEmitter, 0, len(t.rows))
	for _, r := range t.rows {
		country, err := t.text(r, ColCountry)
		if err != nil {
			return nil, err
		}
		co2, err := t.amount(r, ColCO2, false)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.TopEmitter{Country: country, CO2: co2})
	}
	return out, nil
}

func decodeSectorLatest(t *table) ([]domain.SectorContribution, error) {
	out := make([]domain.SectorContribution, 0, len(t.rows))
	for _, r := range t.rows {
		sector, err := t.text(r, ColSector)
		if err != nil {
			return nil, err
		}
		v, err := t.amount(r, ColCO2Emissions, false)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.SectorContribution{Sector: sector, CO2Emissions: v})
	}
	return out, nil
}

func decodeSectorAll(t *table) ([]domain.SectorTotal, error) {
	out := make([]domain.SectorTotal, 0, len(t.rows))
	for _, r := range t.rows {
		sector, err := t.text(r, ColSector)
		if err != nil {
			return nil, err
		}
		v, err := t.amount(r, ColTotalEmissions, false)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.SectorTotal{Sector: sector, TotalEmissions: v})
	}
	return out, nil
}

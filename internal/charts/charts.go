// Package charts renders chart-ready frames to PNG or SVG with gonum/plot.
// Bar charts serve country and sector rankings, a log-x scatter serves the
// CO2-per-GDP view and a line chart serves forecasts.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"co2dash/internal/views"
	"co2dash/pkg/contracts/domain"
)

// Format is an image encoding
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

var (
	// ErrUnsupportedFormat is returned for encodings other than png and svg
	ErrUnsupportedFormat = errors.New("unsupported chart format")
	// ErrUnsupportedView is returned for frames with no chart, such as
	// the choropleth map which is drawn client-side
	ErrUnsupportedView = errors.New("view has no server-side chart")
)

// Formats lists the supported encodings
func Formats() []string {
	return []string{string(FormatPNG), string(FormatSVG)}
}

// ParseFormat parses a case-insensitive format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatPNG, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

var (
	barColor      = color.RGBA{R: 0x1f, G: 0x78, B: 0xb4, A: 0xff}
	pointColor    = color.RGBA{R: 0x08, G: 0x30, B: 0x6b, A: 0xff}
	forecastColor = color.RGBA{R: 0xe6, G: 0x55, B: 0x0d, A: 0xff}
)

var titles = map[string]string{
	views.FrameSectors:     "Sector-wise CO₂ Emissions (latest year)",
	views.FrameSectorsAll:  "Sector-wise CO₂ Emissions (all time)",
	views.FrameCountries:   "Top Countries by CO₂ Emissions",
	views.FrameTopEmitters: "Top Emitters (latest year)",
	views.FrameCO2GDP:      "CO₂ Emissions vs GDP",
	views.FrameForecast:    "CO₂ Emissions Forecast",
}

// Renderer draws frames at a fixed size
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewRenderer returns a renderer with the dashboard's default size
func NewRenderer() *Renderer {
	return &Renderer{Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

// Render draws frame and writes it to w in the given format
func (r *Renderer) Render(frame *domain.Frame, format Format, w io.Writer) error {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	p, err := r.Plot(frame)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(r.Width, r.Height, string(format))
	if err != nil {
		return fmt.Errorf("encode %s chart: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s chart: %w", format, err)
	}
	return nil
}

// Plot builds the plot for a frame without encoding it
func (r *Renderer) Plot(frame *domain.Frame) (*plot.Plot, error) {
	switch frame.Name {
	case views.FrameSectors:
		return barPlot(frame, "sector", "co2_emissions", "Sector", "CO₂ emissions")
	case views.FrameSectorsAll:
		return barPlot(frame, "sector", "total_emissions", "Sector", "Total CO₂ emissions")
	case views.FrameCountries:
		return barPlot(frame, "country", "co2", "Country", "CO₂ emissions")
	case views.FrameTopEmitters:
		return barPlot(frame, "country", "co2_emissions", "Country", "CO₂ emissions")
	case views.FrameCO2GDP:
		return scatterPlot(frame)
	case views.FrameForecast:
		return forecastPlot(frame)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedView, frame.Name)
}

func newPlot(frame *domain.Frame, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = titles[frame.Name]
	if frame.Empty() {
		p.Title.Text += " (no data)"
	}
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func barPlot(frame *domain.Frame, labelCol, valueCol, xLabel, yLabel string) (*plot.Plot, error) {
	p := newPlot(frame, xLabel, yLabel)
	if frame.Empty() {
		return p, nil
	}

	li, vi, err := columns(frame, labelCol, valueCol)
	if err != nil {
		return nil, err
	}
	labels := make([]string, frame.Len())
	values := make(plotter.Values, frame.Len())
	for i, row := range frame.Rows {
		labels[i] = fmt.Sprint(row[li])
		if values[i], err = number(row[vi]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", frame.Name, i, err)
		}
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars, plotter.NewGrid())

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	return p, nil
}

// scatterPlot draws co2_per_gdp against gdp on a log-x axis. Rows with a
// non-positive gdp cannot be placed on a log axis and are skipped.
func scatterPlot(frame *domain.Frame) (*plot.Plot, error) {
	p := newPlot(frame, "GDP (log scale)", "CO₂ per GDP")
	if frame.Empty() {
		return p, nil
	}

	gi, ci, err := columns(frame, "gdp", "co2_per_gdp")
	if err != nil {
		return nil, err
	}
	points := make(plotter.XYs, 0, frame.Len())
	for i, row := range frame.Rows {
		gdp, err := number(row[gi])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", frame.Name, i, err)
		}
		ratio, err := number(row[ci])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", frame.Name, i, err)
		}
		if gdp <= 0 || math.IsInf(gdp, 0) || math.IsNaN(ratio) {
			continue
		}
		points = append(points, plotter.XY{X: gdp, Y: ratio})
	}
	if len(points) == 0 {
		p.Title.Text += " (no data)"
		return p, nil
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	scatter.GlyphStyle.Color = pointColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter, plotter.NewGrid())

	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	return p, nil
}

// forecastPlot draws history and forecast as two line series. The forecast
// line starts at the last historical point so the two join up.
func forecastPlot(frame *domain.Frame) (*plot.Plot, error) {
	p := newPlot(frame, "Year", "CO₂ emissions")
	if frame.Empty() {
		return p, nil
	}

	yi, ci, err := columns(frame, "year", "co2")
	if err != nil {
		return nil, err
	}
	fi := frame.ColumnIndex("forecast")
	if fi < 0 {
		return nil, fmt.Errorf("%s: missing column forecast", frame.Name)
	}

	var history, predicted plotter.XYs
	for i, row := range frame.Rows {
		year, err := number(row[yi])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", frame.Name, i, err)
		}
		co2, err := number(row[ci])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", frame.Name, i, err)
		}
		pt := plotter.XY{X: year, Y: co2}
		if isForecast, _ := row[fi].(bool); isForecast {
			if len(predicted) == 0 && len(history) > 0 {
				predicted = append(predicted, history[len(history)-1])
			}
			predicted = append(predicted, pt)
			continue
		}
		history = append(history, pt)
	}

	if err := addSeries(p, "Historical", history, barColor); err != nil {
		return nil, err
	}
	if err := addSeries(p, "Forecast", predicted, forecastColor); err != nil {
		return nil, err
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p, nil
}

func addSeries(p *plot.Plot, name string, xys plotter.XYs, c color.Color) error {
	if len(xys) == 0 {
		return nil
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("%s series: %w", name, err)
	}
	line.Color = c
	line.Width = vg.Points(2)
	points.Color = c
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	p.Legend.Add(name, line, points)
	return nil
}

func columns(frame *domain.Frame, a, b string) (int, int, error) {
	ai, bi := frame.ColumnIndex(a), frame.ColumnIndex(b)
	if ai < 0 || bi < 0 {
		return 0, 0, fmt.Errorf("%s: frame lacks columns %s and %s", frame.Name, a, b)
	}
	return ai, bi, nil
}

func number(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("value %v is not numeric", v)
}

package views

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"co2dash/pkg/contracts/domain"
)

func TestScaleColor(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want string
	}{
		{name: "lowest", t: 0, want: "#d4f0ff"},
		{name: "below range", t: -2, want: "#d4f0ff"},
		{name: "highest", t: 1, want: "#041c40"},
		{name: "above range", t: 3, want: "#041c40"},
		{name: "exact stop", t: 0.6, want: "#1f78b4"},
		{name: "between first stops", t: 0.1, want: "#addbf2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hex(ScaleColor(BlueScale, tt.t)))
		})
	}
}

func TestScaleColor_Degenerate(t *testing.T) {
	assert.Equal(t, color.RGBA{}, ScaleColor(nil, 0.5))
	single := []color.RGBA{{R: 1, G: 2, B: 3, A: 255}}
	assert.Equal(t, single[0], ScaleColor(single, 0.9))
}

func TestChoropleth(t *testing.T) {
	cells := Choropleth([]domain.EmissionRecord{
		{Country: "Low", Year: 2022, CO2: 10},
		{Country: "High", Year: 2022, CO2: 110},
		{Country: "Mid", Year: 2022, CO2: 70},
	})

	require.Len(t, cells, 3)
	assert.Equal(t, "#d4f0ff", cells[0].Color)
	assert.Equal(t, "#041c40", cells[1].Color)
	assert.Equal(t, "#1f78b4", cells[2].Color)
}

func TestChoropleth_FlatAndEmpty(t *testing.T) {
	cells := Choropleth([]domain.EmissionRecord{
		{Country: "A", Year: 2022, CO2: 5},
		{Country: "B", Year: 2022, CO2: 5},
	})
	for _, c := range cells {
		assert.Equal(t, "#d4f0ff", c.Color)
	}

	empty := Choropleth(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestFrames(t *testing.T) {
	f := GDPFrame([]domain.GDPPoint{{Country: "A", Year: 2022, CO2PerGDP: 1, GDP: 2, CO2Emissions: 2}})
	assert.Equal(t, FrameCO2GDP, f.Name)
	assert.Equal(t, []string{"country", "year", "co2_per_gdp", "gdp", "co2_emissions"}, f.Columns)
	assert.Equal(t, [][]interface{}{{"A", 2022, 1.0, 2.0, 2.0}}, f.Rows)

	empty := CountriesFrame(nil)
	assert.True(t, empty.Empty())
	assert.NotNil(t, empty.Rows)

	series := ForecastFrame([]domain.SeriesPoint{{Year: 2023, CO2: 1.5, Forecast: true}})
	assert.Equal(t, []interface{}{2023, 1.5, true}, series.Rows[0])
}

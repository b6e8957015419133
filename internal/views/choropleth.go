package views

import (
	"fmt"
	"image/color"
	"math"

	"co2dash/pkg/contracts/domain"
)

// BlueScale is the sequential colour scale of the choropleth map, light
// for low emissions and dark for high.
var BlueScale = []color.RGBA{
	{R: 0xd4, G: 0xf0, B: 0xff, A: 0xff},
	{R: 0x86, G: 0xc5, B: 0xe5, A: 0xff},
	{R: 0x4f, G: 0x9e, B: 0xdc, A: 0xff},
	{R: 0x1f, G: 0x78, B: 0xb4, A: 0xff},
	{R: 0x08, G: 0x30, B: 0x6b, A: 0xff},
	{R: 0x04, G: 0x1c, B: 0x40, A: 0xff},
}

// ChoroplethCell is one country on the map with its fill colour.
type ChoroplethCell struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	CO2     float64 `json:"co2"`
	Color   string  `json:"color"`
}

// Choropleth colours a year slice by scaling each value between the
// slice's minimum and maximum.
func Choropleth(slice []domain.EmissionRecord) []ChoroplethCell {
	out := make([]ChoroplethCell, 0, len(slice))
	if len(slice) == 0 {
		return out
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range slice {
		lo = math.Min(lo, r.CO2)
		hi = math.Max(hi, r.CO2)
	}

	for _, r := range slice {
		t := 0.0
		if hi > lo {
			t = (r.CO2 - lo) / (hi - lo)
		}
		out = append(out, ChoroplethCell{
			Country: r.Country,
			Year:    r.Year,
			CO2:     r.CO2,
			Color:   Hex(ScaleColor(BlueScale, t)),
		})
	}
	return out
}

// ScaleColor interpolates linearly between evenly spaced stops. t is
// clamped to [0, 1].
func ScaleColor(stops []color.RGBA, t float64) color.RGBA {
	if len(stops) == 0 {
		return color.RGBA{}
	}
	if len(stops) == 1 || t <= 0 || math.IsNaN(t) {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}

	pos := t * float64(len(stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := stops[i], stops[i+1]
	return color.RGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: lerp(a.A, b.A, frac),
	}
}

func lerp(a, b uint8, frac float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*frac))
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

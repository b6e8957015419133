package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"co2dash/pkg/contracts/domain"
)

func sampleFrame() *domain.Frame {
	f := domain.NewFrame("co2_gdp", "country", "year", "co2_per_gdp", "forecast")
	f.Append("Côte d'Ivoire", 2022, 0.25, false)
	f.Append("Chile, Rep.", 2021, math.NaN(), true)
	return f
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"zero", 0.0, "0"},
		{"integer float", 123.0, "123"},
		{"decimal", 123.456, "123.456"},
		{"small decimal", 0.001234, "0.001234"},
		{"large", 1.5e10, "15000000000"},
		{"nan", math.NaN(), ""},
		{"int", 2022, "2022"},
		{"bool", true, "true"},
		{"string", "China", "China"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.input))
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleFrame()))

	content := buf.Bytes()
	require.True(t, bytes.HasPrefix(content, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(content[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"country", "year", "co2_per_gdp", "forecast"}, records[0])
	assert.Equal(t, []string{"Côte d'Ivoire", "2022", "0.25", "false"}, records[1])
	assert.Equal(t, []string{"Chile, Rep.", "2021", "", "true"}, records[2])
}

func TestWriteCSVEmptyFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, domain.NewFrame("countries", "country", "co2")))
	assert.Equal(t, "\ufeffcountry,co2\n", buf.String())
}

func TestWriteCSVRaggedRow(t *testing.T) {
	f := domain.NewFrame("countries", "country", "co2")
	f.Append("China")
	err := WriteCSV(&bytes.Buffer{}, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleFrame()))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"co2_gdp"}, wb.GetSheetList())

	rows, err := wb.GetRows("co2_gdp")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"country", "year", "co2_per_gdp", "forecast"}, rows[0])
	assert.Equal(t, "Côte d'Ivoire", rows[1][0])
	assert.Equal(t, "2022", rows[1][1])
	assert.Equal(t, "0.25", rows[1][2])

	// NaN is written as an empty cell
	value, err := wb.GetCellValue("co2_gdp", "C3")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestSheetNameTruncated(t *testing.T) {
	f := domain.NewFrame(strings.Repeat("x", 40), "a")
	assert.Len(t, sheetName(f), 31)
	assert.Equal(t, "Sheet1", sheetName(domain.NewFrame("", "a")))
}

func TestExportDispatch(t *testing.T) {
	var csvBuf, xlsxBuf bytes.Buffer
	require.NoError(t, Export(&csvBuf, sampleFrame(), Format("CSV")))
	assert.True(t, bytes.HasPrefix(csvBuf.Bytes(), utf8BOM))

	require.NoError(t, Export(&xlsxBuf, sampleFrame(), FormatXLSX))
	assert.True(t, bytes.HasPrefix(xlsxBuf.Bytes(), []byte("PK")), "xlsx is a zip archive")

	err := Export(&bytes.Buffer{}, sampleFrame(), Format("pdf"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" Xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Contains(t, f.ContentType(), "spreadsheetml")
}

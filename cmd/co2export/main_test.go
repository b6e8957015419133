package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var fixtures = map[string]string{
	"cleaned_co2_data.csv":                     "country,year,co2\nChina,2020,9500\nChina,2021,9600\nIndia,2021,2700\n",
	"co2_per_gdp_latest.csv":                   "country,year,co2_per_gdp\nChina,2021,0.45\n",
	"country_wise_total_emissions.csv":         "country,co2\nChina,250000\nIndia,60000\n",
	"top_10_emitters_latest_year.csv":          "country,co2\nChina,9600\nIndia,2700\n",
	"sector_wise_contribution_latest_year.csv": "sector,co2_emissions\nEnergy,75\nAgriculture,25\n",
	"sector_wise_all_time.csv":                 "sector,total_emissions\nEnergy,900000\n",
}

// writeConfig lays out the data files and a config file pointing at them
func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "data"), 0o755))
	for name, content := range fixtures {
		require.NoError(t, os.WriteFile(filepath.Join(base, "data", name), []byte(content), 0o644))
	}

	cfgPath := filepath.Join(base, "config.yaml")
	cfg := "paths:\n  base_dir: " + base + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return base, cfgPath
}

func TestRun_CSVToStdout(t *testing.T) {
	_, cfgPath := writeConfig(t)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", cfgPath, "-view", "countries", "-top-n", "5", "-out", "-"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "China")
}

func TestRun_XLSXFile(t *testing.T) {
	base, cfgPath := writeConfig(t)
	out := filepath.Join(base, "sectors.xlsx")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", cfgPath, "-view", "sectors", "-format", "xlsx", "-out", out}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.NotEmpty(t, f.GetSheetList())
}

func TestRun_SVGChart(t *testing.T) {
	base, cfgPath := writeConfig(t)
	out := filepath.Join(base, "top.svg")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", cfgPath, "-view", "top-emitters", "-format", "SVG", "-out", out}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRun_Errors(t *testing.T) {
	base, cfgPath := writeConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing view", []string{}},
		{"unknown view", []string{"-view", "pie"}},
		{"unknown format", []string{"-view", "countries", "-format", "pdf"}},
		{"top-n out of range", []string{"-view", "countries", "-top-n", "99"}},
		{"choropleth chart", []string{"-view", "choropleth", "-format", "png"}},
		{"forecast without artifacts", []string{"-view", "forecast", "-country", "China"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(base, "out.bin")
			args := append([]string{"-config", cfgPath, "-out", out}, tt.args...)

			var stdout, stderr bytes.Buffer
			assert.Error(t, run(context.Background(), args, &stdout, &stderr))
			assert.NoFileExists(t, out, "failed exports leave no file")
		})
	}
}

func TestParseFlags_DefaultOut(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-view", "CO2-GDP", "-format", "png"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "co2-gdp.png", opts.out)
}

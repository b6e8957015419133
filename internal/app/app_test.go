package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"co2dash/internal/config"
	"co2dash/internal/dataset"
)

var testData = map[string]string{
	"cleaned_co2_data.csv": "country,year,co2\n" +
		"China,2016,9100\n" +
		"China,2017,9200\n" +
		"China,2018,9300\n" +
		"China,2019,9400\n" +
		"China,2020,9500\n" +
		"China,2021,9600\n" +
		"France,2020,280\n" +
		"France,2021,300\n",
	"co2_per_gdp_latest.csv":                  "country,year,co2_per_gdp\nChina,2021,0.45\nFrance,2021,0.1\n",
	"country_wise_total_emissions.csv":        "country,co2\nChina,250000\nFrance,39000\n",
	"top_10_emitters_latest_year.csv":         "country,co2\nChina,9600\nFrance,300\n",
	"sector_wise_contribution_latest_year.csv": "sector,co2_emissions\nEnergy,75\nAgriculture,25\n",
	"sector_wise_all_time.csv":                "sector,total_emissions\nEnergy,900000\n",
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig lays out a data and artifacts directory under a temp base dir
func testConfig(t *testing.T, withArtifacts bool) *config.Config {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Server.Port = 0
	cfg.Forecast.Horizon = 3

	dataDir := filepath.Join(base, cfg.Paths.DataDir)
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	for name, content := range testData {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644))
	}

	if withArtifacts {
		artifactsDir := filepath.Join(base, cfg.Paths.ArtifactsDir)
		require.NoError(t, os.MkdirAll(artifactsDir, 0o755))
		require.NoError(t, os.WriteFile(cfg.ScalerPath(), []byte(`{"kind":"standard","mean":0,"scale":1}`), 0o644))
		require.NoError(t, os.WriteFile(cfg.ModelPath(), []byte(`{"kind":"mean","window":5}`), 0o644))
	}
	return cfg
}

func newTestApp(t *testing.T, withArtifacts bool) *Application {
	t.Helper()
	app, err := New(context.Background(), testConfig(t, withArtifacts), testLogger())
	require.NoError(t, err)
	t.Cleanup(app.Services.WebSocket.Stop)
	return app
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestNew(t *testing.T) {
	app := newTestApp(t, true)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Metrics)
	assert.True(t, app.Services.Store.Loaded())
	assert.Equal(t, ":0", app.Server.Addr)
}

func TestNew_DataLoadFailureHalts(t *testing.T) {
	cfg := testConfig(t, false)
	require.NoError(t, os.Remove(cfg.DataFile(cfg.Data.SectorAllFile)))

	var logs bytes.Buffer
	app, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(&logs, nil)))
	require.Error(t, err)
	assert.Nil(t, app)
	assert.True(t, dataset.IsDataLoadError(err))
	assert.Contains(t, logs.String(), "OpenTelemetry shutdown complete", "providers started before the load are released")
}

func TestDatasetPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.BaseDir = "/srv/co2"
	cfg.Data.TopEmittersFile = "/mnt/top.csv"

	paths := DatasetPaths(cfg)
	assert.Equal(t, filepath.Join("/srv/co2", "data", "cleaned_co2_data.csv"), paths.CO2)
	assert.Equal(t, "/mnt/top.csv", paths.TopEmitters)
	assert.NoError(t, paths.Validate())
}

func TestRouter_Views(t *testing.T) {
	app := newTestApp(t, true)
	server := httptest.NewServer(app.Router)
	defer server.Close()

	status, body := getJSON(t, server.URL+"/api/views/choropleth?year=2021")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2021), body["data"].(map[string]interface{})["year"])

	status, body = getJSON(t, server.URL+"/api/views/countries?top_n=5")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])

	status, body = getJSON(t, server.URL+"/api/years")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2016), body["data"].(map[string]interface{})["min"])

	status, body = getJSON(t, server.URL+"/api/views/forecast?country=China")
	require.Equal(t, http.StatusOK, status)
	series := body["data"].(map[string]interface{})["series"].([]interface{})
	require.Len(t, series, 9)
	last := series[len(series)-1].(map[string]interface{})
	assert.Equal(t, float64(2024), last["year"])
	assert.Equal(t, true, last["forecast"])

	status, body = getJSON(t, server.URL+"/api/views/countries?top_n=99")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["type"])
}

func TestRouter_ForecastWithoutArtifacts(t *testing.T) {
	app := newTestApp(t, false)
	server := httptest.NewServer(app.Router)
	defer server.Close()

	status, body := getJSON(t, server.URL+"/api/views/forecast?country=China")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "/errors/forecast/unavailable", body["type"])

	// Missing artifacts degrade the forecast only
	status, body = getJSON(t, server.URL+"/api/health/ready")
	assert.Equal(t, http.StatusOK, status)
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "degraded", services["forecast"].(map[string]interface{})["status"])
}

func TestRouter_ExportAndCharts(t *testing.T) {
	app := newTestApp(t, true)
	server := httptest.NewServer(app.Router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/export/top-emitters.csv")
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, string(data), "China")

	resp, err = http.Get(server.URL + "/api/charts/sectors.svg")
	require.NoError(t, err)
	data, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(data), "<svg")
}

func TestRouter_IndexMetricsAndFallbacks(t *testing.T) {
	app := newTestApp(t, true)
	server := httptest.NewServer(app.Router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(page), `data-tab="choropleth" class="active"`)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := getJSON(t, server.URL+"/api/nope")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "/api/nope", body["instance"])

	resp, err = http.Get(server.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_NavigationPush(t *testing.T) {
	app := newTestApp(t, true)
	server := httptest.NewServer(app.Router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() map[string]interface{} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg map[string]interface{}
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	// The welcome message also proves the client is registered
	assert.Equal(t, "connection", read()["type"])

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/navigation", strings.NewReader(`{"tab":"forecast"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	msg := read()
	assert.Equal(t, "navigation:changed", msg["type"])
	assert.Equal(t, "forecast", msg["data"].(map[string]interface{})["active"])
}

func TestRouter_ClientLogs(t *testing.T) {
	app := newTestApp(t, true)
	server := httptest.NewServer(app.Router)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/logs", "application/json",
		strings.NewReader(`{"level":"warn","message":"chart failed","tab":"sectors"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(server.URL+"/api/logs", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestApplication_StartStop(t *testing.T) {
	cfg := testConfig(t, false)
	cfg.Server.Host = "127.0.0.1"
	app, err := New(context.Background(), cfg, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	time.Sleep(50 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	assert.NoError(t, app.Stop(shutdownCtx))
	assert.NoError(t, ctx.Err(), "a clean shutdown does not cancel the run context")
}

func TestApplication_getCORSConfig(t *testing.T) {
	app := newTestApp(t, false)
	cors := app.getCORSConfig()

	assert.Equal(t, []string{"http://localhost:8050"}, cors.AllowedOrigins)
	assert.Contains(t, cors.AllowedMethods, "PUT")
	assert.Contains(t, cors.ExposedHeaders, "Content-Disposition")
}

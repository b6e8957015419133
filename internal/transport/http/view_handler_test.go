package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"co2dash/internal/dataset"
	apierrors "co2dash/internal/errors"
	"co2dash/internal/forecast"
	"co2dash/internal/services"
	"co2dash/internal/views"
	"co2dash/pkg/contracts/domain"
)

func viewRouter(dashboard *MockDashboard, fc ForecastService) http.Handler {
	eh, v := testDeps()
	h := NewViewHandler(dashboard, fc, v, eh, testLogger())
	r := chi.NewRouter()
	r.Mount("/api/views", h.Routes())
	r.Get("/api/countries", h.CountryList)
	r.Get("/api/years", h.Years)
	return r
}

func get(h http.Handler, url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestChoroplethHandler(t *testing.T) {
	dashboard := new(MockDashboard)
	dashboard.On("Choropleth", mock.Anything, 0).Return(&services.ChoroplethResult{
		Year:  2020,
		Range: domain.YearRange{Min: 2000, Max: 2020},
		Cells: []views.ChoroplethCell{{Country: "China", Year: 2020, CO2: 10, Color: "#041c40"}},
	}, nil)
	dashboard.On("Choropleth", mock.Anything, 1990).Return(nil,
		fmt.Errorf("%w: 1990 not in [2000, 2020]", services.ErrYearOutOfRange))

	router := viewRouter(dashboard, nil)

	rec := get(router, "/api/views/choropleth")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(2020), body["data"].(map[string]interface{})["year"])

	rec = get(router, "/api/views/choropleth?year=1990")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.TypeValidation, decode(t, rec)["type"])

	rec = get(router, "/api/views/choropleth?year=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	dashboard.AssertNumberOfCalls(t, "Choropleth", 2)
}

func TestCountriesHandlerValidatesTopN(t *testing.T) {
	dashboard := new(MockDashboard)
	dashboard.On("Countries", mock.Anything, 15).Return(&services.CountriesResult{TopN: 15}, nil)
	dashboard.On("Countries", mock.Anything, 20).Return(&services.CountriesResult{
		TopN:      20,
		Countries: []domain.CountryTotal{{Country: "China", CO2: 1}},
	}, nil)

	router := viewRouter(dashboard, nil)

	assert.Equal(t, http.StatusOK, get(router, "/api/views/countries").Code)
	rec := get(router, "/api/views/countries?top_n=20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])

	for _, n := range []string{"4", "51", "x"} {
		rec := get(router, "/api/views/countries?top_n="+n)
		assert.Equal(t, http.StatusBadRequest, rec.Code, n)
	}
	dashboard.AssertNumberOfCalls(t, "Countries", 2)
}

func TestSimpleViews(t *testing.T) {
	dashboard := new(MockDashboard)
	dashboard.On("Sectors", mock.Anything).Return(&services.SectorsResult{
		Latest: []views.SectorShare{{Sector: "Energy", CO2Emissions: 1, Share: 100}},
	}, nil)
	dashboard.On("TopEmitters", mock.Anything).Return([]domain.UnifiedEmitter{{Country: "China", CO2Emissions: 1}}, nil)
	dashboard.On("CO2GDP", mock.Anything).Return([]domain.GDPPoint{}, nil)
	dashboard.On("CountryList", mock.Anything).Return([]string{"China", "France"}, nil)
	dashboard.On("Years", mock.Anything).Return(domain.YearRange{Min: 1990, Max: 2020}, true, nil)

	router := viewRouter(dashboard, nil)
	for _, url := range []string{"/api/views/sectors", "/api/views/top-emitters", "/api/views/co2-gdp", "/api/countries"} {
		rec := get(router, url)
		assert.Equal(t, http.StatusOK, rec.Code, url)
		assert.Equal(t, "success", decode(t, rec)["status"], url)
	}

	rec := get(router, "/api/years")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2020), body["default_year"])
	assert.Equal(t, float64(1990), body["data"].(map[string]interface{})["min"])
}

func TestYearsEmptyTable(t *testing.T) {
	dashboard := new(MockDashboard)
	dashboard.On("Years", mock.Anything).Return(domain.YearRange{}, false, nil)

	rec := get(viewRouter(dashboard, nil), "/api/years")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewDataUnavailable(t *testing.T) {
	dashboard := new(MockDashboard)
	dashboard.On("Sectors", mock.Anything).Return(nil,
		&dataset.LoadError{Dataset: dataset.SectorAll, Path: "sector_all.csv", Err: errors.New("missing column")})

	rec := get(viewRouter(dashboard, nil), "/api/views/sectors")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apierrors.TypeDataUnavailable, body["type"])
	assert.Equal(t, "sector_all", body["dataset"])
}

func TestForecastHandler(t *testing.T) {
	fc := new(MockForecast)
	fc.On("Forecast", mock.Anything, "China").Return(&services.ForecastResult{
		Country: "China",
		Series:  []domain.SeriesPoint{{Year: 2020, CO2: 1}, {Year: 2021, CO2: 2, Forecast: true}},
	}, nil)
	fc.On("Forecast", mock.Anything, "Atlantis").Return(nil,
		fmt.Errorf("%w: %q", services.ErrUnknownCountry, "Atlantis"))
	fc.On("Forecast", mock.Anything, "France").Return(nil,
		&forecast.UnavailableError{Artifact: forecast.ArtifactScaler, Path: "scaler.json", Err: errors.New("no such file")})

	router := viewRouter(new(MockDashboard), fc)

	rec := get(router, "/api/views/forecast?country=China")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["count"])

	rec = get(router, "/api/views/forecast?country=Atlantis")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.TypeNotFound, decode(t, rec)["type"])

	rec = get(router, "/api/views/forecast?country=France")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apierrors.TypeForecastUnavailable, body["type"])
	assert.Equal(t, forecast.UnavailableMessage, body["detail"])

	rec = get(router, "/api/views/forecast")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	fc.AssertNumberOfCalls(t, "Forecast", 3)
}

func TestForecastHandlerDisabled(t *testing.T) {
	rec := get(viewRouter(new(MockDashboard), nil), "/api/views/forecast?country=China")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apierrors.TypeServiceDown, decode(t, rec)["type"])
}

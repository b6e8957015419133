package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "co2dash/internal/errors"
	"co2dash/internal/middleware"
	"co2dash/internal/services"
)

// forecastQuery is the validated query of the forecast view
type forecastQuery struct {
	Country string `json:"country" validate:"required,country"`
}

// ViewHandler serves the dashboard views as JSON
type ViewHandler struct {
	dashboard    DashboardService
	forecast     ForecastService
	validator    *middleware.ValidationMiddleware
	query        *middleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewViewHandler creates a view handler. forecast may be nil, in which
// case the forecast view reports the service as unavailable.
func NewViewHandler(dashboard DashboardService, forecast ForecastService, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{
		dashboard:    dashboard,
		forecast:     forecast,
		validator:    validator,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "views")),
	}
}

// Routes returns the /api/views routes
func (h *ViewHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/choropleth", h.Choropleth)
	r.Get("/sectors", h.Sectors)
	r.Get("/countries", h.Countries)
	r.Get("/top-emitters", h.TopEmitters)
	r.Get("/co2-gdp", h.CO2GDP)
	r.Get("/forecast", h.Forecast)
	return r
}

func (h *ViewHandler) fail(w http.ResponseWriter, r *http.Request, err error, q services.ViewQuery) {
	h.errorHandler.HandleError(w, r, toAPIError(err, q))
}

func success(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
		"count":  count,
	})
}

// Choropleth handles GET /api/views/choropleth?year=Y
func (h *ViewHandler) Choropleth(w http.ResponseWriter, r *http.Request) {
	year, ok := h.query.ValidateInt(w, r, "year", 1, 9999, 0)
	if !ok {
		return
	}
	result, err := h.dashboard.Choropleth(r.Context(), year)
	if err != nil {
		h.fail(w, r, err, services.ViewQuery{Year: year})
		return
	}
	success(w, r, result, len(result.Cells))
}

// Sectors handles GET /api/views/sectors
func (h *ViewHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboard.Sectors(r.Context())
	if err != nil {
		h.fail(w, r, err, services.ViewQuery{})
		return
	}
	success(w, r, result, len(result.Latest))
}

// Countries handles GET /api/views/countries?top_n=N
func (h *ViewHandler) Countries(w http.ResponseWriter, r *http.Request) {
	settings := h.dashboard.Settings()
	topN, ok := h.query.ValidateInt(w, r, "top_n", settings.MinTopN, settings.MaxTopN, settings.DefaultTopN)
	if !ok {
		return
	}
	result, err := h.dashboard.Countries(r.Context(), topN)
	if err != nil {
		h.fail(w, r, err, services.ViewQuery{TopN: topN})
		return
	}
	success(w, r, result, len(result.Countries))
}

// TopEmitters handles GET /api/views/top-emitters
func (h *ViewHandler) TopEmitters(w http.ResponseWriter, r *http.Request) {
	rows, err := h.dashboard.TopEmitters(r.Context())
	if err != nil {
		h.fail(w, r, err, services.ViewQuery{})
		return
	}
	success(w, r, rows, len(rows))
}

// CO2GDP handles GET /api/views/co2-gdp
func (h *ViewHandler) CO2GDP(w http.ResponseWriter, r *http.Request) {
	points, err := h.dashboard.CO2GDP(r.Context())
	if err != nil {
		h.fail(w, r, err, services.ViewQuery{})
		return
	}
	success(w, r, points, len(points))
}

// Forecast handles GET /api/views/forecast?country=C
func (h *ViewHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	q := forecastQuery{Country: r.URL.Query().Get("country")}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	vq := services.ViewQuery{Country: q.Country}
	if h.forecast == nil {
		h.fail(w, r, services.ErrForecastDisabled, vq)
		return
	}

	result, err := h.forecast.Forecast(r.Context(), q.Country)
	if err != nil {
		h.fail(w, r, err, vq)
		return
	}
	success(w, r, result, len(result.Series))
}

// CountryList handles GET /api/countries
func (h *ViewHandler) CountryList(w http.ResponseWriter, r *http.Request) {
	countries, err := h.dashboard.CountryList(r.Context())
	if err != nil {
		h.fail(w, r, err, services.ViewQuery{})
		return
	}
	success(w, r, countries, len(countries))
}

// Years handles GET /api/years
func (h *ViewHandler) Years(w http.ResponseWriter, r *http.Request) {
	rng, ok, err := h.dashboard.Years(r.Context())
	if err != nil {
		h.fail(w, r, err, services.ViewQuery{})
		return
	}
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("years", "emissions"))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":       "success",
		"data":         rng,
		"default_year": rng.Clamp(h.dashboard.Settings().DefaultYear),
	})
}

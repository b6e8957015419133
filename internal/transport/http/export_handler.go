package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"co2dash/internal/charts"
	apierrors "co2dash/internal/errors"
	"co2dash/internal/exporter"
	"co2dash/internal/middleware"
	"co2dash/internal/services"
)

// ExportHandler serves views as downloadable files and chart images
type ExportHandler struct {
	dashboard    DashboardService
	query        *middleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewExportHandler creates an export handler
func NewExportHandler(dashboard DashboardService, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		dashboard:    dashboard,
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "export")),
	}
}

// ExportRoutes returns the /api/export routes
func (h *ExportHandler) ExportRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{view}.{format}", h.Export)
	return r
}

// ChartRoutes returns the /api/charts routes
func (h *ExportHandler) ChartRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{view}.{format}", h.Chart)
	return r
}

// viewQuery parses the path view and the view's query parameters. On
// failure it writes the problem response and returns false.
func (h *ExportHandler) viewQuery(w http.ResponseWriter, r *http.Request) (services.View, services.ViewQuery, bool) {
	view, err := services.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, services.ViewQuery{}))
		return "", services.ViewQuery{}, false
	}

	var q services.ViewQuery
	var ok bool
	if q.Year, ok = h.query.ValidateInt(w, r, "year", 1, 9999, 0); !ok {
		return "", q, false
	}
	settings := h.dashboard.Settings()
	if q.TopN, ok = h.query.ValidateInt(w, r, "top_n", settings.MinTopN, settings.MaxTopN, settings.DefaultTopN); !ok {
		return "", q, false
	}
	if view == services.ViewForecast {
		if q.Country, ok = h.query.RequireString(w, r, "country"); !ok {
			return "", q, false
		}
	}
	return view, q, true
}

// Export handles GET /api/export/{view}.{csv|xlsx}
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, services.ViewQuery{}))
		return
	}
	view, q, ok := h.viewQuery(w, r)
	if !ok {
		return
	}

	// Buffer so a failure still yields a problem document
	var buf bytes.Buffer
	if err := h.dashboard.Export(r.Context(), &buf, view, q, format); err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, q))
		return
	}

	writeFile(w, format.ContentType(), fmt.Sprintf("%s.%s", view, format), buf.Bytes(), true)
}

// Chart handles GET /api/charts/{view}.{png|svg}
func (h *ExportHandler) Chart(w http.ResponseWriter, r *http.Request) {
	format, err := charts.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, services.ViewQuery{}))
		return
	}
	view, q, ok := h.viewQuery(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.dashboard.Chart(r.Context(), &buf, view, q, format); err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, q))
		return
	}

	writeFile(w, format.ContentType(), fmt.Sprintf("%s.%s", view, format), buf.Bytes(), false)
}

func writeFile(w http.ResponseWriter, contentType, name string, body []byte, attachment bool) {
	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

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

// SelectTabRequest is the body of PUT /api/navigation
type SelectTabRequest struct {
	Tab string `json:"tab" validate:"required,tab"`
}

// NavigationHandler reads and changes the selected tab
type NavigationHandler struct {
	state        NavigationService
	validator    *middleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewNavigationHandler creates a navigation handler
func NewNavigationHandler(state NavigationService, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *NavigationHandler {
	return &NavigationHandler{
		state:        state,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "navigation")),
	}
}

// Routes returns the /api/navigation routes
func (h *NavigationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.Get)
	r.With(
		middleware.ContentTypeValidator(h.errorHandler, "application/json"),
		h.validator.LimitBody,
	).Put("/", h.Select)
	return r
}

// Get handles GET /api/navigation
func (h *NavigationHandler) Get(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.state.Snapshot())
}

// Select handles PUT /api/navigation
func (h *NavigationHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectTabRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	snap, err := h.state.Select(r.Context(), req.Tab)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err, services.ViewQuery{}))
		return
	}
	render.JSON(w, r, snap)
}

package http

import (
	"log/slog"
	"net/http"

	gorillaws "github.com/gorilla/websocket"

	"co2dash/internal/infrastructure"
	"co2dash/internal/middleware"
	ws "co2dash/internal/websocket"
)

// WebSocketHandler upgrades /ws requests and attaches them to the hub
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader *gorillaws.Upgrader
	timing   ws.Timing
	logger   *slog.Logger
}

// NewWebSocketHandler creates a websocket handler
func NewWebSocketHandler(hub *ws.Hub, upgrader *gorillaws.Upgrader, timing ws.Timing, logger *slog.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:      hub,
		upgrader: upgrader,
		timing:   timing,
		logger:   logger.With(slog.String("handler", "websocket")),
	}
	upgrader.Error = h.upgradeError
	return h
}

func (h *WebSocketHandler) upgradeError(w http.ResponseWriter, r *http.Request, status int, reason error) {
	h.logger.WarnContext(r.Context(), "WebSocket upgrade error",
		slog.Int("status", status),
		slog.String("reason", reason.Error()),
		slog.String("origin", r.Header.Get("Origin")))
	http.Error(w, http.StatusText(status), status)
}

// ServeHTTP handles GET /ws
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	traceID := infrastructure.GetTraceID(ctx)

	h.logger.InfoContext(ctx, "WebSocket upgrade request",
		slog.String("remote_addr", middleware.GetRealIP(r)),
		slog.String("origin", r.Header.Get("Origin")),
		slog.String("user_agent", r.UserAgent()))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already wrote the response
		return
	}

	client := ws.ServeWS(h.hub, conn, h.timing, traceID, h.logger)
	h.logger.InfoContext(ctx, "WebSocket client connected",
		slog.String("client_id", client.ID()))
}

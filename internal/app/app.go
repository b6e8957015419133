package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"co2dash/internal/config"
	"co2dash/internal/dataset"
	apierrors "co2dash/internal/errors"
	"co2dash/internal/forecast"
	"co2dash/internal/infrastructure"
	customMiddleware "co2dash/internal/middleware"
	"co2dash/internal/navigation"
	"co2dash/internal/services"
	handlers "co2dash/internal/transport/http"
	ws "co2dash/internal/websocket"
	"co2dash/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Services      *ServiceContainer
	ErrorHandler  *apierrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Store      *dataset.Store
	Artifacts  *forecast.ArtifactLoader
	WebSocket  *ws.Hub
	Navigation *navigation.State
	Dashboard  *services.DashboardService
	Forecast   *services.ForecastService
	Health     *services.HealthService
}

// NewApplication loads configuration from the environment and the first
// config file found, then builds the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(context.Background(), cfg, logger)
}

// New wires the application from an explicit configuration. The six
// datasets are loaded before it returns; any load failure aborts startup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info(contracts.GetVersionString() + " starting",
		slog.String("git_commit", contracts.GitCommit))
	cfg.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		shutdownOTel(ctx, otelProviders, logger)
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(ctx); err != nil {
		shutdownOTel(ctx, otelProviders, logger)
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// shutdownOTel releases providers started by a New call that then failed
func shutdownOTel(ctx context.Context, providers *infrastructure.OTelProviders, logger *slog.Logger) {
	if err := providers.Shutdown(ctx); err != nil {
		logger.Warn("OpenTelemetry shutdown failed", slog.String("error", err.Error()))
	}
}

// DatasetPaths resolves the six dataset files named in the config
func DatasetPaths(cfg *config.Config) dataset.Paths {
	return dataset.Paths{
		CO2:          cfg.DataFile(cfg.Data.CO2File),
		CO2PerGDP:    cfg.DataFile(cfg.Data.CO2PerGDPFile),
		CountryTotal: cfg.DataFile(cfg.Data.CountryTotalFile),
		TopEmitters:  cfg.DataFile(cfg.Data.TopEmittersFile),
		SectorLatest: cfg.DataFile(cfg.Data.SectorLatestFile),
		SectorAll:    cfg.DataFile(cfg.Data.SectorAllFile),
	}
}

// NewStore builds the load-once dataset store for cfg
func NewStore(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *dataset.Store {
	loader := dataset.NewLoader(DatasetPaths(cfg),
		dataset.WithLogger(logger),
		dataset.WithYearBounds(cfg.Data.MinYear, time.Now().Year()),
		dataset.WithMetrics(metrics))
	return dataset.NewStore(loader)
}

// NewArtifacts builds the forecast artifact loader and the extender
func NewArtifacts(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) (*forecast.ArtifactLoader, *forecast.Extender) {
	artifacts := forecast.NewArtifactLoader(cfg.ScalerPath(), cfg.ModelPath(), cfg.Forecast.Window, logger, metrics)
	return artifacts, forecast.NewExtender(cfg.Forecast.Window, cfg.Forecast.Horizon)
}

// initializeServices initializes all application services
func (a *Application) initializeServices(ctx context.Context) error {
	store := NewStore(a.Config, a.Logger, a.Metrics)
	loadCtx, cancel := context.WithTimeout(ctx, config.DatasetLoadTimeout)
	defer cancel()
	tables, err := store.Tables(loadCtx)
	if err != nil {
		return err
	}
	a.Logger.InfoContext(ctx, "Datasets loaded", slog.Any("rows", tables.RowCounts()))

	artifacts, extender := NewArtifacts(a.Config, a.Logger, a.Metrics)
	for artifact, status := range artifacts.Status() {
		if status != "ok" {
			a.Logger.WarnContext(ctx, "Forecast artifact not ready",
				slog.String("artifact", string(artifact)),
				slog.String("status", status))
		}
	}

	hub := ws.NewHub(a.Logger, a.Metrics)
	hub.Start()

	nav := navigation.NewState(hub, a.Metrics, a.Logger)

	forecastService := services.NewForecastService(store, artifacts, extender, a.Metrics, a.Logger)
	dashboardService := services.NewDashboardService(store, forecastService, a.Config.Dashboard, a.Metrics, a.Logger)
	healthService := services.NewHealthService(contracts.Version, store, artifacts, hub, a.Logger)

	a.Services = &ServiceContainer{
		Store:      store,
		Artifacts:  artifacts,
		WebSocket:  hub,
		Navigation: nav,
		Dashboard:  dashboardService,
		Forecast:   forecastService,
		Health:     healthService,
	}
	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Only middleware that leaves the ResponseWriter alone runs ahead of /ws
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	wsHandler := handlers.NewWebSocketHandler(
		a.Services.WebSocket,
		ws.NewUpgrader(a.Config.WebSocket, a.Config.Security.AllowedOrigins),
		ws.TimingFromConfig(a.Config.WebSocket),
		a.Logger,
	)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}

		r.Use(customMiddleware.Compress(5))

		a.setupAPIRoutes(r)
		r.Get("/", handlers.ServeIndex(a.Services.Navigation, a.Logger))
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewValidationMiddleware(a.Logger, a.ErrorHandler)

	viewHandler := handlers.NewViewHandler(a.Services.Dashboard, a.Services.Forecast, validator, a.ErrorHandler, a.Logger)
	exportHandler := handlers.NewExportHandler(a.Services.Dashboard, a.ErrorHandler, a.Logger)
	navHandler := handlers.NewNavigationHandler(a.Services.Navigation, validator, a.ErrorHandler, a.Logger)
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	logHandler := handlers.NewClientLogHandler(validator, a.ErrorHandler, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		// Health probes stay cheap and unversioned
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		// Binary responses set their own content type
		r.Mount("/export", exportHandler.ExportRoutes())
		r.Mount("/charts", exportHandler.ChartRoutes())

		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Mount("/views", viewHandler.Routes())
			r.Get("/countries", viewHandler.CountryList)
			r.Get("/years", viewHandler.Years)
			r.Mount("/navigation", navHandler.Routes())
			r.With(customMiddleware.ContentTypeValidator(a.ErrorHandler, "application/json"), validator.LimitBody).
				Post("/logs", logHandler.Handle)
		})
	})
}

// getCORSConfig builds the CORS policy from the security settings
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cfg := customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			customMiddleware.RequestIDHeader,
		},
		ExposedHeaders: []string{
			customMiddleware.RequestIDHeader,
			"Content-Disposition",
		},
		MaxAge: 300,
		Logger: a.Logger,
	}
	a.Logger.Info("CORS configured", slog.Any("allowed_origins", cfg.AllowedOrigins))
	return cfg
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("url", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application",
		slog.Int("websocket_clients", a.Services.WebSocket.ClientCount()))

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Services.WebSocket.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted or the listener fails
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	// The run context may already be cancelled; shutdown gets its own
	return a.Stop(context.Background())
}

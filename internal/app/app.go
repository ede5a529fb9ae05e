package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"haulpulse/internal/config"
	"haulpulse/internal/dataset"
	"haulpulse/internal/errors"
	"haulpulse/internal/haulage"
	"haulpulse/internal/infrastructure"
	customMiddleware "haulpulse/internal/middleware"
	"haulpulse/internal/services"
	handlers "haulpulse/internal/transport/http"
)

var (
	// Version is overridden at link time
	Version = config.AppVersion
	// BuildTime is set at compile time
	BuildTime = time.Now().Format(time.RFC3339)
	// BuildID is a unique identifier for this build
	BuildID = generateBuildID()
)

func generateBuildID() string {
	// Generate a deterministic build ID based on version and day
	h := sha256.New()
	h.Write([]byte(Version))
	h.Write([]byte(time.Now().Format("2006-01-02")))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	Dataset         *dataset.Dataset
	Services        *ServiceContainer
	ErrorHandler    *errors.ErrorHandler
	OTelProviders   *infrastructure.OTelProviders
	BusinessMetrics *infrastructure.BusinessMetrics
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// NewApplication loads configuration and the dataset and wires the HTTP
// server. A dataset that cannot be loaded is a startup error.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, errors.NewStartupError("failed to initialize logger", err)
	}

	return New(cfg, logger)
}

// New builds an application from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.String("dataset", cfg.Dataset.Path))

	paths := cfg.ResolvedPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, errors.NewStartupError("failed to ensure directories", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, errors.NewStartupError("failed to initialize OpenTelemetry", err)
	}
	businessMetrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, errors.NewStartupError("failed to create business metrics", err)
	}

	a := &Application{
		Config:          cfg,
		Logger:          logger,
		OTelProviders:   otelProviders,
		BusinessMetrics: businessMetrics,
		ErrorHandler:    handlers.RegisterServiceErrors(errors.NewErrorHandler(logger, cfg.Logging.Development)),
	}

	a.Dataset, err = LoadDataset(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := a.initializeServices(); err != nil {
		return nil, errors.NewStartupError("failed to initialize services", err)
	}

	a.setupRouter()
	a.createServer()
	return a, nil
}

// LoadDataset reads the configured dataset file.
func LoadDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dataset.Dataset, error) {
	loader := dataset.NewLoader(dataset.Options{DateLayouts: cfg.Dataset.DateLayouts}, logger)
	ds, err := loader.Load(ctx, cfg.Dataset.Path)
	if err != nil {
		return nil, errors.NewDatasetError(cfg.Dataset.Path, err)
	}
	return ds, nil
}

// PipelineOptions maps the dataset section onto calculator options.
func PipelineOptions(cfg config.DatasetConfig) haulage.Options {
	return haulage.Options{
		LoaderLabels:     append([]string(nil), cfg.LoaderLabels...),
		BaselineCapacity: cfg.BaselineCapacity,
		Thresholds: haulage.Thresholds{
			Warning:  cfg.WarningThreshold,
			Critical: cfg.CriticalThreshold,
		},
	}
}

// NewDashboardService builds the calculator and dashboard service over ds.
func NewDashboardService(cfg *config.Config, ds *dataset.Dataset, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) (*services.DashboardService, error) {
	calc, err := haulage.NewCalculator(PipelineOptions(cfg.Dataset), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator: %w", err)
	}
	return services.NewDashboardService(ds, calc, metrics, logger)
}

// initializeServices initializes all application services
func (a *Application) initializeServices() error {
	dashboard, err := NewDashboardService(a.Config, a.Dataset, a.BusinessMetrics, a.Logger)
	if err != nil {
		return err
	}

	health := services.NewHealthService(Version, BuildTime, BuildID,
		a.Config.GetReportsDir(), dashboard, a.Logger)

	a.Services = &ServiceContainer{
		Dashboard: dashboard,
		Health:    health,
	}
	return nil
}

// setupRouter configures middleware and routes.
// Order: RequestID → RealIP → OTel → access log/recovery → headers → CORS → rate limit.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders, a.BusinessMetrics)
		if err != nil {
			infrastructure.WithError(a.Logger, err).Error("Failed to create OpenTelemetry middleware")
		} else {
			r.Use(otelMiddleware.Handler)
		}
		r.Use(customMiddleware.BusinessMetricsMiddleware(a.BusinessMetrics))

		r.Use(errors.NewErrorMiddleware(a.ErrorHandler, a.Logger).Handler)
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(a.getCORSConfig()))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupHTMLRoutes(r)
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, a.Logger, a.ErrorHandler)

	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		dashboardHandler.RegisterRoutes(r)
	})
}

// setupHTMLRoutes configures the server-rendered pages
func (a *Application) setupHTMLRoutes(r chi.Router) {
	htmlHandler := handlers.NewHTMLHandler(a.Services.Dashboard, a.Logger, a.ErrorHandler)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Compress(5))
		r.Get("/", htmlHandler.ServeDashboard)
		r.Get(config.ChartsEndpoint, htmlHandler.ServeCharts)
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cors := customMiddleware.CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", customMiddleware.RequestIDHeader},
		ExposedHeaders: []string{customMiddleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
	if a.Config.Security.EnableCORS {
		cors.AllowedOrigins = a.Config.Security.AllowedOrigins
	} else {
		// same-origin only
		cors.AllowedOrigins = []string{fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)}
	}
	return cors
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
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
	info := a.Dataset.Info()
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level),
		slog.String("dataset_id", info.ID),
		slog.Int("records", info.Records))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Server error")
			cancel()
		}
	}()

	a.performStartupHealthCheck(ctx)

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Error shutting down OpenTelemetry")
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return infrastructure.CloseLogFile()
}

// Run runs the application until interrupted
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
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "Server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck logs readiness problems without failing startup.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	status := a.Services.Health.ReadinessCheck(ctx)
	if status.Status == services.StatusReady {
		return
	}
	for name, sh := range status.Services {
		if sh.Status != services.StatusReady {
			a.Logger.WarnContext(ctx, "Startup health check warning",
				slog.String("service", name),
				slog.String("message", sh.Message))
		}
	}
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lmedesk/internal/calendar"
	"lmedesk/internal/config"
	apierrors "lmedesk/internal/errors"
	"lmedesk/internal/holidays"
	"lmedesk/internal/infrastructure"
	custommw "lmedesk/internal/middleware"
	"lmedesk/internal/services"
	"lmedesk/internal/trade"
	handlers "lmedesk/internal/transport/http"
)

// Version is set at build time.
var Version = "dev"

// Application is the dependency container for the server binary.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	HolidaySet    *holidays.Set
	Loader        *holidays.Loader
	TradeService  *services.TradeService
	HealthService *services.HealthService
}

// NewApplication loads configuration and wires every service together.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	set := holidays.NewSet()
	loader := holidays.NewLoader(set, holidays.LoaderConfig{
		FilePath:     cfg.Holidays.FilePath,
		FeedURL:      cfg.Holidays.FeedURL,
		FeedDivision: cfg.Holidays.FeedDivision,
		FetchTimeout: cfg.Holidays.FetchTimeout,
	}, logger)

	resolver, err := trade.NewResolver(set, trade.Policy{
		HonorFixDate:       cfg.Policy.HonorFixDate,
		InstructionsForC2R: cfg.Policy.InstructionsForC2R,
		Calendar:           calendar.Type(cfg.Policy.Calendar),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build resolver: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := services.NewTradeMetrics(registry)

	tradeService := services.NewTradeService(resolver, set, loader, logger, metrics)
	healthService := services.NewHealthService(Version, set, logger)

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		HolidaySet:    set,
		Loader:        loader,
		TradeService:  tradeService,
		HealthService: healthService,
	}
	app.Router = app.setupRouter(registry)
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

func (a *Application) setupRouter(registry *prometheus.Registry) *chi.Mux {
	errorHandler := apierrors.NewErrorHandler(a.Logger)

	r := chi.NewRouter()
	r.Use(custommw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(custommw.RateLimit(a.Config.Server.RateLimitRPS, a.Config.Server.RateLimitBurst, errorHandler))

	tradeHandler := handlers.NewTradeHandler(a.TradeService, a.Logger, errorHandler)
	calendarHandler := handlers.NewCalendarHandler(a.TradeService, a.Logger, errorHandler)
	holidayHandler := handlers.NewHolidayHandler(a.TradeService, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/trades", tradeHandler.Routes())
		r.Mount("/calendar", calendarHandler.Routes())
		r.Mount("/holidays", holidayHandler.Routes())
	})
	r.Get("/healthz", healthHandler.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}

// Run starts the server and blocks until shutdown. Holiday data loads in the
// background: the engine serves immediately against whatever partial set is
// in memory.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.Loader.Load(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

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
	"github.com/jackc/pgx/v5/pgxpool"

	"fundpulse/internal/config"
	"fundpulse/internal/dataprocessing"
	apierrors "fundpulse/internal/errors"
	"fundpulse/internal/infrastructure"
	custommw "fundpulse/internal/middleware"
	"fundpulse/internal/services"
	"fundpulse/internal/storage"
	transport "fundpulse/internal/transport/http"
	"fundpulse/pkg/contracts"
)

// Version is the service version reported on /health.
var Version = contracts.Version

// Application holds the wired components of the service.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Router chi.Router
	Server *http.Server
}

// NewApplication loads configuration and wires every component.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	pool, err := storage.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &Application{
		Config: cfg,
		Logger: logger,
		Pool:   pool,
	}

	if err := a.setupRouter(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	a.createServer()
	return a, nil
}

// setupRouter builds the middleware chain and mounts every handler.
func (a *Application) setupRouter(ctx context.Context) error {
	metricsRepo := storage.NewMetricsRepo(a.Pool)
	positionsRepo := storage.NewPositionsRepo(a.Pool)
	blobs := storage.NewBlobClient(a.Config.Storage)

	ingest := services.NewIngestService(
		dataprocessing.NewValuationExtractor(a.Logger),
		dataprocessing.NewTrsExtractor(a.Logger),
		metricsRepo, positionsRepo, a.Logger)
	syncSvc := services.NewSyncService(blobs, ingest, a.Config.Storage, a.Logger)
	dataSvc := services.NewDataService(metricsRepo, positionsRepo, a.Logger)

	assistant, err := services.NewAssistantService(ctx, a.Config.Gemini, metricsRepo, positionsRepo, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize assistant: %w", err)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger)

	r := chi.NewRouter()
	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.CORS(custommw.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if a.Config.Security.RateLimit.Enabled {
		r.Use(custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Mount("/upload", transport.NewUploadHandler(ingest, a.Config.Server.MaxUploadBytes, a.Logger, errorHandler).Routes())
		r.Mount("/sync", transport.NewSyncHandler(syncSvc, a.Logger, errorHandler).Routes())
		r.Mount("/data", transport.NewDataHandler(dataSvc, a.Logger, errorHandler).Routes())
		r.Mount("/chat", transport.NewChatHandler(assistant, a.Logger, errorHandler).Routes())
	})

	// Health and Prometheus metrics stay outside the rate limiter.
	r.Mount("/", transport.NewHealthHandler(Version).Routes())

	a.Router = r
	return nil
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start begins serving. On listener failure it cancels the supplied context
// so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("log_level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
}

// Stop gracefully shuts the application down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Pool.Close()
	infrastructure.CloseLogFile()

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run serves until interrupted, then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.Start(ctx, cancel)

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"golang.org/x/sync/errgroup"

	"github.com/khatapp/khata/internal/core/services"
	"github.com/khatapp/khata/internal/handlers"
	"github.com/khatapp/khata/internal/middleware"
	"github.com/khatapp/khata/internal/platform/config"
	"github.com/khatapp/khata/internal/query"
	"github.com/khatapp/khata/internal/store"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		logger.Error("Failed to open storage backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeBackend()
	logger.Info("Storage backend ready", slog.String("backend", cfg.StorageBackend))

	records := store.NewRecordStore(backend, logger)
	engine := query.NewEngine(records, logger)

	seedService := services.NewSeedService(records, logger)
	reportingService := services.NewReportingService(records)
	backupService := services.NewBackupService(records, logger)
	settingsService := services.NewSettingsService(backend)

	// Cloud backup is optional: without OAuth credentials the routes stay off.
	var driveService *services.DriveBackupService
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		driveService = services.NewDriveBackupService(backupService, backend, cfg, logger)
		logger.Info("Google Drive backup enabled")
	}

	// Seed the document on first run so the API never serves an empty schema.
	if _, err := seedService.Initialize(context.Background(), cfg.DefaultCurrency); err != nil {
		logger.Error("Failed to initialize data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:    []string{"Origin", "Content-Type", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateLimitMW, err := mutatingRateLimit(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterHandlers(r, engine, reportingService, backupService, driveService,
		seedService, settingsService, rateLimitMW)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// openBackend builds the configured key-value backend and returns a cleanup
// function for the caller to defer.
func openBackend(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StorageBackend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

// mutatingRateLimit builds the rate limiting middleware applied to write
// routes, from a rate in "limit-period" notation such as "60-M".
func mutatingRateLimit(formatted string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)
	return middleware.RateLimit(instance), nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Dosada05/tennis-ladder/brackets"
	"github.com/Dosada05/tennis-ladder/config"
	"github.com/Dosada05/tennis-ladder/db"
	"github.com/Dosada05/tennis-ladder/handlers"
	"github.com/Dosada05/tennis-ladder/middleware"
	"github.com/Dosada05/tennis-ladder/repositories"
	"github.com/Dosada05/tennis-ladder/routes"
	"github.com/Dosada05/tennis-ladder/services"
	"github.com/Dosada05/tennis-ladder/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("seeding", string(cfg.BracketSeeding)),
		slog.Bool("idempotency_guard", cfg.BracketIdempotencyGuard),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, dbConn); err != nil {
			logger.Error("failed to apply schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database schema applied")
	}

	// Экспорт снимков сетки в Cloudflare R2 (опционально)
	r2Cfg := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
		Endpoint:        cfg.R2Endpoint,
	}
	var uploader storage.FileUploader
	if r2Cfg.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, r2Cfg)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("bracket snapshot export disabled: R2 is not configured")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)

	generateLimiter := middleware.NewIPRateLimiter(cfg.GenerateRateLimitPerMinute)
	go generateLimiter.RunCleanup(ctx)

	// Инициализация репозиториев
	txManager := repositories.NewPostgresTxManager(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	// Инициализация сервисов
	bracketService := services.NewBracketService(
		txManager,
		tournamentRepo,
		participantRepo,
		matchRepo,
		wsHub,
		uploader,
		services.BracketServiceConfig{
			Seeding:               cfg.BracketSeeding,
			Venue:                 cfg.DefaultVenue,
			SeedUpdateConcurrency: cfg.SeedUpdateConcurrency,
			IdempotencyGuard:      cfg.BracketIdempotencyGuard,
		},
		logger,
	)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Bracket:   handlers.NewBracketHandler(bracketService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins),
		Health:    handlers.NewHealthHandler(dbConn),
	}, routes.Options{
		JWTSecret:          []byte(cfg.JWTSecretKey),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		GenerateLimiter:    generateLimiter,
		Logger:             logger,
	})

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

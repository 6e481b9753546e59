package main

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
	_ "github.com/lib/pq"

	"github.com/maxesports/esports-hub/config"
	"github.com/maxesports/esports-hub/db"
	"github.com/maxesports/esports-hub/handlers"
	"github.com/maxesports/esports-hub/live"
	"github.com/maxesports/esports-hub/middleware"
	"github.com/maxesports/esports-hub/repositories"
	api "github.com/maxesports/esports-hub/routes"
	"github.com/maxesports/esports-hub/services"
	"github.com/maxesports/esports-hub/storage"
)

const statusSchedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Image storage is optional: without R2 credentials the site still runs,
	// upload endpoints answer 503.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 credentials not set, image uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live update hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamMemberRepo := repositories.NewPostgresTeamMemberRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)

	tournamentService := services.NewTournamentService(tournamentRepo, uploader, hub)
	teamService := services.NewTeamService(teamMemberRepo, uploader, hub)
	authService := services.NewAuthService(userRepo, cfg.SessionSecret)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(context.Background(), cfg.AdminEmail, "Admin", cfg.AdminPassword); err != nil {
			logger.Error("failed to ensure admin account", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("admin account ensured", slog.String("email", cfg.AdminEmail))
	}

	if cfg.SeedDemoData {
		if err := services.SeedDemoTournaments(context.Background(), tournamentRepo); err != nil {
			logger.Error("failed to seed demo tournaments", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("demo tournaments seeded")
	}

	// Promote upcoming tournaments to live once their start date passes.
	go func() {
		ticker := time.NewTicker(statusSchedulerInterval)
		defer ticker.Stop()
		logger.Info("tournament status scheduler started", slog.Duration("interval", statusSchedulerInterval))

		if err := tournamentService.AutoUpdateStatuses(context.Background()); err != nil {
			logger.Error("status scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := tournamentService.AutoUpdateStatuses(context.Background()); err != nil {
				logger.Error("status scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	router := chi.NewRouter()
	api.Setup(router, api.Deps{
		AuthHandler:       handlers.NewAuthHandler(authService, true),
		TournamentHandler: handlers.NewTournamentHandler(tournamentService),
		TeamHandler:       handlers.NewTeamHandler(teamService),
		WebSocketHandler:  handlers.NewWebSocketHandler(hub),
		SessionSecret:     cfg.SessionSecret,
		AdminPolicy:       middleware.AllowAllAuthenticated,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
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

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

	"github.com/yerlan-k/league-system/config"
	"github.com/yerlan-k/league-system/db"
	"github.com/yerlan-k/league-system/handlers"
	"github.com/yerlan-k/league-system/live"
	"github.com/yerlan-k/league-system/metrics"
	"github.com/yerlan-k/league-system/middleware"
	"github.com/yerlan-k/league-system/repositories"
	api "github.com/yerlan-k/league-system/routes"
	"github.com/yerlan-k/league-system/services"
	"github.com/yerlan-k/league-system/storage"
)

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

	if err := db.Migrate(dbConn, cfg.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	metrics.Register()

	// File storage is optional; without R2 configuration the upload
	// endpoints respond 503.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewR2Uploader(storage.R2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 not configured, file uploads disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	phaseRepo := repositories.NewPostgresPhaseRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	notificationRepo := repositories.NewPostgresNotificationRepository(dbConn)

	authService := services.NewAuthService(userRepo, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, phaseRepo, teamRepo, matchRepo, logger)
	phaseService := services.NewPhaseService(dbConn, tournamentRepo, phaseRepo, matchRepo, wsHub, logger)
	standingsService := services.NewStandingsService(tournamentRepo, matchRepo, teamRepo)
	matchService := services.NewMatchService(dbConn, matchRepo, tournamentRepo, phaseRepo, teamRepo, playerRepo, wsHub, logger)
	registrationService := services.NewRegistrationService(dbConn, tournamentRepo, teamRepo, playerRepo, userRepo, notificationRepo, logger)
	teamService := services.NewTeamService(teamRepo, playerRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, uploader, logger)
	notificationService := services.NewNotificationService(notificationRepo)

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, phaseService, standingsService)
	matchHandler := handlers.NewMatchHandler(matchService)
	teamHandler := handlers.NewTeamHandler(registrationService, teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		auth,
		authHandler,
		tournamentHandler,
		matchHandler,
		teamHandler,
		playerHandler,
		notificationHandler,
		webSocketHandler,
	)
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
}

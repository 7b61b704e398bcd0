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

	"galaxy-server/internal/auth"
	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/middleware"
	"galaxy-server/internal/server"
	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/shared/logger"
	"galaxy-server/internal/shared/redis"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()
	log := slog.With("component", "main")

	db, err := database.Connect()
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.Connect()
	if err != nil {
		log.Warn("Redis unavailable, continuing without remote sector cache", "error", err)
		redisClient = nil
	}
	defer redisClient.Close()

	oauthProvider := auth.InitOAuth()
	authService := auth.NewService(auth.NewRepository(db), oauthProvider, slog.With("component", "auth_service"))
	galaxyService := galaxy.NewService(galaxy.NewRepository(db), redisClient, slog.With("component", "galaxy_service"))

	routes := server.NewRoutes(db, authService, galaxyService, slog.With("component", "routes"))
	mux := routes.Setup()

	cfg := config.GlobalConfig

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Enabled:           cfg.RateLimit.Enabled,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
	})
	corsMiddleware := middleware.NewCORS()

	handler := corsMiddleware.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("Galaxy server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}

	log.Info("Server stopped")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/notion-content-api/internal/api"
	"github.com/notion-content-api/internal/config"
	"github.com/notion-content-api/internal/metrics"
	"github.com/notion-content-api/internal/notion"
	"github.com/notion-content-api/internal/repository"
	"github.com/notion-content-api/internal/service"
	"github.com/notion-content-api/pkg/logger"
)

func main() {
	// Load .env.local / .env before anything reads the environment
	envFiles, envErr := config.LoadEnvFiles()

	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting Notion content API server...")
	if envErr != nil {
		log.Warn().Err(envErr).Msg("Failed to load env file")
	}
	if len(envFiles) > 0 {
		log.Debug().Strs("files", envFiles).Msg("Loaded env files")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithOptions(os.Stdout, logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	m := metrics.New()

	// Initialize the Notion client and repositories
	client := notion.NewClient(&cfg.Notion, log)
	repos := repository.New(client, &cfg.Notion, m, log)

	// Initialize services
	services := service.NewServices(repos, cfg, m, log)

	// Initialize router
	router := api.NewRouter(services, cfg, m, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("cache_scope", cfg.Content.CacheScope).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

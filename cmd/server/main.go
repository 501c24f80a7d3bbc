package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cci-admin-dashboard/internal/api"
	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/config"
	"github.com/cci-admin-dashboard/internal/database"
	"github.com/cci-admin-dashboard/internal/repository"
	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("backend", cfg.Backend.BaseURL).Msg("Starting CCI admin dashboard...")

	// Initialize session store
	var (
		repos  *repository.Repositories
		health api.HealthChecker
	)
	if cfg.Session.Store == config.StoreMemory {
		repos = repository.NewInMemory()
		log.Warn().Msg("Sessions are kept in memory and will not survive a restart")
	} else {
		db, err := database.New(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("Failed to connect to session store")
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
		repos = repository.New(db)
		health = db
	}

	// Initialize backend client and services
	backend := client.New(cfg.Backend.BaseURL, client.Options{
		Timeout: cfg.Backend.Timeout,
		Logger:  log,
	})
	services := service.NewServices(repos, backend, cfg, log)

	// Start session sweeper
	go services.Sweeper.StartSweeper(context.Background())
	log.Info().Dur("interval", cfg.Session.SweepInterval).Msg("Session sweeper started")

	// Initialize router
	router, err := api.NewRouter(services, health, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

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
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
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

	// Stop session sweeper
	services.Sweeper.StopSweeper()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

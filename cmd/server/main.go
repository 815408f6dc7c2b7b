package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/api"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/backup"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/logging"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/storage"
	"github.com/ndewijer/Asset-Portfolio-Tracker/internal/version"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.Logging)

	// Open storage backend
	store, db, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to open storage")
	}
	defer store.Close()

	log.Info().
		Str("backend", cfg.Storage.Backend).
		Str("key", cfg.Storage.Key).
		Str("version", version.Version).
		Msg("storage opened")

	// Create repositories and services
	portfolioRepo := repository.NewPortfolioRepository(store, cfg.Storage.Key)
	systemService := service.NewSystemService(store, db, cfg)
	portfolioService := service.NewPortfolioService(portfolioRepo, cfg.Display.Currency, nil)

	var scheduler *backup.Scheduler
	if cfg.Backup.Schedule != "" {
		backupService, err := backup.NewService(portfolioRepo, cfg.Backup, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure backups")
		}
		scheduler, err = backup.NewScheduler(backupService, cfg.Backup.Schedule)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to schedule backups")
		}
	}

	// Create router
	router := api.NewRouter(systemService, portfolioService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if scheduler != nil {
		scheduler.Start()
	}

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if scheduler != nil {
			scheduler.Stop(shutdownCtx)
		}
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		_ = store.Close()
		os.Exit(1)
	}

	log.Info().Msg("server exited")
}

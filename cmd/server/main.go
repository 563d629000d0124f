package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"stockmarket/internal/api"
	"stockmarket/internal/cache"
	"stockmarket/internal/config"
	"stockmarket/internal/database"
	"stockmarket/internal/logging"
	"stockmarket/internal/model"
	"stockmarket/internal/repository"
	"stockmarket/internal/scheduler"
	"stockmarket/internal/service"
	"stockmarket/internal/yahoo"
)

func main() {
	logger := logging.New("stock-market-api")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	// Exchange local time zone drives the freshness check and the nightly wake time
	loc, err := time.LoadLocation(cfg.Market.Timezone)
	if err != nil {
		logger.WithError(err).WithField("timezone", cfg.Market.Timezone).Warn("falling back to UTC")
		loc = time.UTC
	}

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.WithError(err).Fatal("failed to migrate database")
	}

	logger.WithField("path", cfg.Database.Path).Info("connected to database")

	// Create repositories and services
	stockRepo := repository.NewStockRepository(db)
	yahooClient := yahoo.NewFinanceClient(cfg.Yahoo.BaseURL)
	histCache := cache.New[[]model.HistoricalBar](cfg.Cache.TTL)

	systemService := service.NewSystemService(db)
	stockService := service.NewStockService(
		db,
		stockRepo,
		yahooClient,
		histCache,
		logger,
		cfg.Market.Symbols,
		cfg.Market.FetchPacing,
		loc,
	)

	// Create the nightly scheduler
	nightly, err := scheduler.NewNightly(stockService, logger, loc, cfg.Market.RetryInterval)
	if err != nil {
		logger.WithError(err).Fatal("failed to create scheduler")
	}

	// Create router and HTTP server
	router := api.NewRouter(systemService, stockService, logger, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run server and scheduler until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := nightly.Start(); err != nil {
		logger.WithError(err).Fatal("failed to start scheduler")
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", cfg.Server.Addr).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down")

		if err := nightly.Stop(); err != nil {
			logger.WithError(err).Error("failed to stop scheduler")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Fatal("server exited with error")
	}

	logger.Info("server exited")
}

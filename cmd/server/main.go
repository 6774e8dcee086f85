package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pegwatch/stablecoin-monitor/internal/cache"
	"github.com/pegwatch/stablecoin-monitor/internal/config"
	"github.com/pegwatch/stablecoin-monitor/internal/dedup"
	"github.com/pegwatch/stablecoin-monitor/internal/fetch"
	"github.com/pegwatch/stablecoin-monitor/internal/handler"
	"github.com/pegwatch/stablecoin-monitor/internal/middleware"
	"github.com/pegwatch/stablecoin-monitor/internal/notify"
	"github.com/pegwatch/stablecoin-monitor/internal/service"
	"github.com/pegwatch/stablecoin-monitor/internal/sources"
	"github.com/pegwatch/stablecoin-monitor/internal/store"
	"github.com/pegwatch/stablecoin-monitor/internal/sweep"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database is optional: without it alert history is simply not persisted.
	var db *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("database connected and migrated")
	} else {
		logger.Warn("DATABASE_URL not set, alert history disabled")
	}

	// Redis dedup is optional too (retry up to 30s for ExternalSecret to sync).
	var dd *dedup.Deduplicator
	if cfg.RedisURL != "" {
		var err error
		for i := 0; i < 6; i++ {
			dd, err = dedup.New(cfg.RedisURL, cfg.RedisPassword)
			if err == nil {
				break
			}
			logger.Warn("redis not ready, retrying...", "attempt", i+1, "error", err)
			time.Sleep(5 * time.Second)
		}
		if err != nil {
			logger.Error("failed to connect to redis after retries", "error", err)
			os.Exit(1)
		}
		defer dd.Close()
		logger.Info("redis connected for alert dedup")
	} else {
		logger.Warn("REDIS_URL not set, alert dedup disabled")
	}

	src := sources.New(fetch.New(3, 500*time.Millisecond), logger)
	svc := service.New(cache.New(), src, logger)
	sink := notify.NewWebhook(cfg.AlertWebhookURL)
	if sink.Enabled() {
		logger.Info("alert webhook configured")
	}

	sweeper := sweep.New(svc, dd, sink, db, logger, cfg.SweepInterval)
	go sweeper.Run(ctx)

	// HTTP routes
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.FrontendOrigin))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", handler.Health())
	r.Get("/readyz", handler.Ready(db))

	r.Route("/api", func(r chi.Router) {
		r.Get("/stablecoins", handler.Stablecoins(svc))
		r.Get("/stablecoins/{symbol}", handler.Stablecoin(svc))
		r.Get("/platforms", handler.Platforms(svc))
		r.Get("/yields", handler.Yields(svc))
		r.Get("/news", handler.News(svc))
		r.Get("/macro", handler.Macro(svc))
		r.Get("/chains", handler.ChainSeries(svc))
		r.Get("/alerts", handler.Alerts(svc))
		r.Get("/alerts/history", handler.AlertHistory(db))
		r.Get("/metrics", handler.Overview(svc))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

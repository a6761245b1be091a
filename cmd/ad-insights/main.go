package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/radiusdt/ad-insights/internal/config"
	"github.com/radiusdt/ad-insights/internal/database"
	"github.com/radiusdt/ad-insights/internal/httpserver"
	"github.com/radiusdt/ad-insights/internal/metrics"
	"github.com/radiusdt/ad-insights/internal/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := setupLogger(cfg)
	defer logger.Sync()

	logger.Info("starting Ad-Insights",
		zap.String("env", cfg.Server.Env),
		zap.String("addr", cfg.Server.Addr),
	)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics(cfg.Metrics.Namespace)
	}

	ctx := context.Background()

	// Initialize storage backends; each degrades gracefully when the
	// backing service is unreachable.
	var db *database.PostgresDB
	var rds *database.RedisDB
	var ch *database.ClickHouseDB

	db, err = database.NewPostgresDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Warn("PostgreSQL not available, using in-memory storage", zap.Error(err))
		db = nil
	} else {
		defer db.Close()
	}

	rds, err = database.NewRedisDB(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis not available, result cache falls back to Postgres", zap.Error(err))
		rds = nil
	} else {
		defer rds.Close()
	}

	if cfg.ClickHouse.Enabled {
		ch, err = database.NewClickHouseDB(ctx, cfg.ClickHouse, logger)
		if err != nil {
			logger.Warn("ClickHouse not available, rows served from Postgres", zap.Error(err))
			ch = nil
		} else {
			defer ch.Close()
		}
	}

	rowStore, cacheStore := httpserver.BuildStores(db, rds, ch)

	// Create HTTP server
	deps := &httpserver.Dependencies{
		Rows:    rowStore,
		Cache:   cacheStore,
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
	}

	handler := httpserver.NewServer(deps)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background purge of expired cache entries. Space reclamation
	// only; reads already treat expired entries as absent.
	purgeCtx, stopPurge := context.WithCancel(ctx)
	go runPurgeLoop(purgeCtx, cacheStore, cfg.Cache.PurgeInterval, logger, m)

	if db != nil && m != nil {
		go runPoolStatsLoop(purgeCtx, db, m)
	}

	// Start server in goroutine
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopPurge()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

func runPurgeLoop(ctx context.Context, cache storage.CacheStore, interval time.Duration, logger *zap.Logger, m *metrics.Metrics) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := cache.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("cache purge failed", zap.Error(err))
				continue
			}
			if purged > 0 {
				logger.Debug("purged expired cache entries", zap.Int64("count", purged))
				if m != nil {
					m.CachePurged.Add(float64(purged))
				}
			}
		}
	}
}

func runPoolStatsLoop(ctx context.Context, db *database.PostgresDB, m *metrics.Metrics) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stat := db.Stats()
			m.UpdateDBStats(int(stat.IdleConns()), int(stat.AcquiredConns()), int(stat.TotalConns()))
		}
	}
}

func setupLogger(cfg *config.Config) *zap.Logger {
	var zapCfg zap.Config

	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	switch cfg.Log.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}

	return logger
}

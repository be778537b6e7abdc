package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/txnimport/infra"
	infra_cache "github.com/amirasaad/txnimport/infra/cache"
	infra_provider "github.com/amirasaad/txnimport/infra/provider"
	infra_repository "github.com/amirasaad/txnimport/infra/repository"
	"github.com/amirasaad/txnimport/pkg/cache"
	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/importer"
	"github.com/amirasaad/txnimport/pkg/provider"
)

// InitializeDependencies initializes all the application dependencies.
// The returned cleanup closes the database and cache connections.
func InitializeDependencies(cfg *config.App) (
	deps config.Deps,
	cleanup func(),
	err error,
) {
	logger := SetupLogger(cfg.Log)
	deps.Logger = logger
	deps.Config = cfg
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return deps, cleanup, err
	}
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		closers = append(closers, func() { _ = sqlDB.Close() })
	}
	if err = infra.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		return deps, cleanup, err
	}

	// Initialize unit of work
	uow := infra_repository.NewUoW(db)
	deps.Uow = uow

	registry, err := NewRegistry(cfg.Import, logger)
	if err != nil {
		return deps, cleanup, err
	}

	predictor, closePredictor := NewPredictor(cfg, logger)
	if closePredictor != nil {
		closers = append(closers, closePredictor)
	}

	deps.Dispatcher = importer.NewDispatcher(registry, uow, predictor, logger)
	logger.Info("Dependencies initialized", "formats", registry.Formats(), "prediction", cfg.Prediction.Enabled)
	return deps, cleanup, nil
}

// NewRegistry returns the built-in formats plus every configured YAML layout.
func NewRegistry(cfg *config.Import, logger *slog.Logger) (*importer.Registry, error) {
	registry := importer.DefaultRegistry()
	if cfg == nil {
		return registry, nil
	}
	for _, path := range cfg.BankConfigs {
		s, err := registry.RegisterFile(path)
		if err != nil {
			logger.Error("Failed to register bank config", "path", path, "error", err)
			return nil, fmt.Errorf("bank config %s: %w", path, err)
		}
		logger.Info("Registered bank config", "path", path, "format", s.Format())
	}
	return registry, nil
}

// NewPredictor returns nil when prediction is disabled. Otherwise the LLM client is wrapped
// with the configured cache; an unreachable redis falls back to memory.
func NewPredictor(cfg *config.App, logger *slog.Logger) (provider.CategoryPredictor, func()) {
	if cfg.Prediction == nil || !cfg.Prediction.Enabled {
		return nil, nil
	}
	llm := infra_provider.NewLLMPredictor(cfg.Prediction, logger)

	cacheCfg := cfg.PredictionCache
	if cacheCfg == nil {
		cacheCfg = &config.PredictionCache{Driver: "memory", TTL: 24 * time.Hour}
	}

	var (
		store   cache.PredictionCache
		closeFn func()
	)
	if cacheCfg.Driver == "redis" && cfg.Redis != nil {
		store, closeFn = redisCache(cfg.Redis, cacheCfg.Prefix, logger)
	}
	if store == nil {
		mem := infra_cache.NewMemoryCache()
		store, closeFn = mem, mem.Close
	}

	logger.Info("Category prediction enabled", "model", cfg.Prediction.Model, "cache", cacheCfg.Driver)
	return infra_provider.NewCachedPredictor(llm, store, cacheCfg.TTL, logger), closeFn
}

func redisCache(cfg *config.Redis, prefix string, logger *slog.Logger) (cache.PredictionCache, func()) {
	rc, err := infra_cache.NewRedisPredictionCache(cfg, prefix, logger)
	if err != nil {
		logger.Warn("Invalid redis configuration, using memory cache", "error", err)
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout+time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		logger.Warn("Redis unreachable, using memory cache", "error", err)
		_ = rc.Close()
		return nil, nil
	}
	return rc, func() { _ = rc.Close() }
}

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
	"github.com/AnshBhanushali/Healytics/internal/infra/analyzer"
	"github.com/AnshBhanushali/Healytics/internal/infra/assessmentrepo"
	"github.com/AnshBhanushali/Healytics/internal/infra/assessmentstore"
	"github.com/AnshBhanushali/Healytics/internal/infra/config"
	"github.com/AnshBhanushali/Healytics/internal/infra/imagestore"
)

const infraDialTimeout = 5 * time.Second

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideEngineConfig(cfg *config.Config) assessment.Config {
	return assessment.Config{
		CacheTTL:      cfg.Engine.CacheTTL,
		HistoryLimit:  cfg.Engine.HistoryLimit,
		TrendingLimit: cfg.Engine.TrendingLimit,
	}
}

func provideAnalyzerClient(cfg *config.Config) *analyzer.Client {
	return analyzer.NewClient(analyzer.Config{
		PrescriptionURL: cfg.Analyzer.PrescriptionURL,
		VisionURL:       cfg.Analyzer.VisionURL,
		APIKey:          cfg.Analyzer.APIKey,
		Timeout:         cfg.Analyzer.Timeout,
	})
}

// provideRepository connects to Postgres when a DSN is configured and falls
// back to the in-memory repository otherwise.
func provideRepository(cfg *config.Config, logger *slog.Logger) assessment.Repository {
	dsn := cfg.History.Postgres.DSN
	if dsn == "" {
		logger.Info("postgres dsn not configured, using in-memory history")
		return assessmentrepo.NewMemoryRepository()
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Warn("invalid postgres dsn, using in-memory history", "error", err)
		return assessmentrepo.NewMemoryRepository()
	}
	if cfg.History.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.History.Postgres.MaxConns
	}
	if cfg.History.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.History.Postgres.MinConns
	}

	ctx, cancel := context.WithTimeout(context.Background(), infraDialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Warn("postgres pool init failed, using in-memory history", "error", err)
		return assessmentrepo.NewMemoryRepository()
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Warn("postgres unreachable, using in-memory history", "error", err)
		return assessmentrepo.NewMemoryRepository()
	}

	logger.Info("postgres history repository connected")
	return assessmentrepo.NewPostgresRepository(pool)
}

// provideStore connects to Valkey when enabled and falls back to the
// in-memory store otherwise.
func provideStore(cfg *config.Config, logger *slog.Logger) assessment.Store {
	if !cfg.History.Redis.Enabled {
		return assessmentstore.NewMemoryStore()
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.History.Redis.Addr},
	})
	if err != nil {
		logger.Warn("valkey client init failed, using in-memory store", "error", err)
		return assessmentstore.NewMemoryStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), infraDialTimeout)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		logger.Warn("valkey unreachable, using in-memory store", "error", err)
		return assessmentstore.NewMemoryStore()
	}

	logger.Info("valkey assessment store connected", "addr", cfg.History.Redis.Addr)
	return assessmentstore.NewValkeyStore(client, "healytics")
}

// provideObjectStorage archives uploads to S3-compatible storage when an
// endpoint is configured, otherwise keeps them in memory.
func provideObjectStorage(cfg *config.Config, logger *slog.Logger) assessment.ObjectStorage {
	if cfg.Storage.Endpoint == "" {
		return imagestore.NewMemoryStorage()
	}
	storage, err := imagestore.NewS3Storage(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.Region,
		logger,
	)
	if err != nil {
		logger.Warn("object storage init failed, using in-memory archive", "error", err)
		return imagestore.NewMemoryStorage()
	}
	logger.Info("object storage connected", "bucket", cfg.Storage.Bucket)
	return storage
}

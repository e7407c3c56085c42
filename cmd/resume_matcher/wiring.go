package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/pipeline"
	"github.com/jonathan/resume-matcher/internal/queue"
	"github.com/jonathan/resume-matcher/internal/server"
	"github.com/jonathan/resume-matcher/internal/storage"
	"go.uber.org/zap"
)

// openStore connects to PostgreSQL when a database URL is configured and
// falls back to the in-memory store otherwise
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (server.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("no database configured, using in-memory store")
		return db.NewMemoryStore(), func() {}, nil
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return database, database.Close, nil
}

// openDatabase connects to PostgreSQL and makes sure the tables exist
func openDatabase(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("database_url is required (set MATCHER_DATABASE_URL or DATABASE_URL)")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// openDispatcher returns the configured queue backend. The in-memory pool runs
// analyses in this process; the amqp backend only publishes them for workers.
func openDispatcher(ctx context.Context, cfg *config.Config, controller *pipeline.Controller, logger *zap.Logger, metrics *observability.Metrics) (queue.Dispatcher, func(), error) {
	if cfg.Queue.Backend != config.QueueAMQP {
		pool := queue.NewPool(ctx, controller.Run, queue.PoolConfig{
			Workers:  cfg.Queue.Workers,
			Capacity: cfg.Queue.Capacity,
			Logger:   logger,
			Metrics:  metrics,
		})
		return pool, func() {
			if err := pool.Close(); err != nil {
				logger.Error("worker pool stopped with error", zap.Error(err))
			}
		}, nil
	}

	conn, err := queue.Connect(cfg.Queue.AMQPURL)
	if err != nil {
		return nil, nil, err
	}
	publisher, err := queue.NewAMQPPublisher(conn)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return publisher, func() {
		_ = publisher.Close()
		_ = conn.Close()
	}, nil
}

// storageConfig converts the config section, resolving an R2 account id to
// its endpoint
func storageConfig(cfg config.StorageConfig) storage.Config {
	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.R2AccountID != "" {
		endpoint = storage.R2Endpoint(cfg.R2AccountID)
	}
	return storage.Config{
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		Endpoint:  endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	}
}

// openDocuments returns the upload bucket, or nil when none is configured
func openDocuments(ctx context.Context, cfg config.StorageConfig) (server.DocumentStore, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	store, err := storage.New(ctx, storageConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}
	return store, nil
}

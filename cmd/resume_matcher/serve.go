package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/pipeline"
	"github.com/jonathan/resume-matcher/internal/server"
	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for résumés, job postings and analyses.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flags := config.Config{Server: config.ServerConfig{Addr: serveAddr}}
	merged := flags.MergeWithDefaults(*cfg)
	cfg = &merged

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	taxonomy, err := loadTaxonomy(cfg.Taxonomy)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	metrics := observability.DefaultMetrics()
	analyzer := pipeline.New(taxonomy, pipeline.WithLogger(logger), pipeline.WithMetrics(metrics))
	controller := pipeline.NewController(store, analyzer, logger, metrics)

	dispatcher, closeDispatcher, err := openDispatcher(ctx, cfg, controller, logger, metrics)
	if err != nil {
		return err
	}
	defer closeDispatcher()

	documents, err := openDocuments(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		RateLimit:       ratelimit.LoadConfig(),
	}, server.Deps{
		Store:      store,
		Controller: controller,
		Dispatcher: dispatcher,
		Documents:  documents,
		Taxonomy:   taxonomy,
		Logger:     logger,
		Metrics:    metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("configuration loaded",
		zap.String("queue_backend", cfg.Queue.Backend),
		zap.Bool("database", cfg.DatabaseURL != ""),
		zap.Bool("document_storage", documents != nil),
	)
	return srv.Start(ctx)
}

package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-matcher/internal/observability"
	"github.com/jonathan/resume-matcher/internal/pipeline"
	"github.com/jonathan/resume-matcher/internal/queue"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var workerCount int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Execute analysis runs queued on RabbitMQ",
	Long: `Consume analysis runs published by "serve" with the amqp queue backend.

The worker needs the same database as the API server and the queue.amqp_url setting.`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().IntVar(&workerCount, "workers", 0, "Concurrent analyses (default queue.workers)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Queue.AMQPURL == "" {
		return errors.New("queue.amqp_url is required (set MATCHER_QUEUE_AMQP_URL)")
	}
	if workerCount > 0 {
		cfg.Queue.Workers = workerCount
	}

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
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	conn, err := queue.Connect(cfg.Queue.AMQPURL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	updates, err := queue.NewAMQPPublisher(conn)
	if err != nil {
		return err
	}
	defer func() { _ = updates.Close() }()

	metrics := observability.DefaultMetrics()
	analyzer := pipeline.New(taxonomy, pipeline.WithLogger(logger), pipeline.WithMetrics(metrics))
	controller := pipeline.NewController(database, analyzer, logger, metrics)

	consumer := queue.NewAMQPConsumer(conn, controller.Run, queue.ConsumerConfig{
		Workers: cfg.Queue.Workers,
		Reader:  database,
		Updates: updates,
		Logger:  logger,
	})

	logger.Info("worker starting", zap.Int("workers", cfg.Queue.Workers))
	if err := consumer.Run(ctx); err != nil {
		return err
	}
	logger.Info("worker stopped")
	return nil
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-matcher/internal/types"
)

// Broker topology
const (
	RunQueue        = "analysis_runs"
	UpdatesExchange = "analysis_updates"
)

// RunMessage is the body of a queued run
type RunMessage struct {
	RunID uuid.UUID `json:"run_id"`
}

// StatusUpdate is published whenever a consumed run changes status
type StatusUpdate struct {
	RunID     uuid.UUID `json:"run_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageError represents a delivery that cannot be decoded
type MessageError struct {
	Message string
	Cause   error
}

func (e *MessageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("message error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("message error: %s", e.Message)
}

func (e *MessageError) Unwrap() error {
	return e.Cause
}

// DecodeRunMessage parses a queued run body
func DecodeRunMessage(body []byte) (uuid.UUID, error) {
	var msg RunMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return uuid.Nil, &MessageError{Message: "invalid run message", Cause: err}
	}
	if msg.RunID == uuid.Nil {
		return uuid.Nil, &MessageError{Message: "run_id is required"}
	}
	return msg.RunID, nil
}

// UpdateRoutingKey is the topic a run's status updates are published under
func UpdateRoutingKey(runID uuid.UUID) string {
	return "analysis." + runID.String()
}

// Connect dials the broker
func Connect(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	return conn, nil
}

func declareTopology(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(
		RunQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", RunQueue, err)
	}
	if err := ch.ExchangeDeclare(
		UpdatesExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", UpdatesExchange, err)
	}
	return nil
}

// AMQPPublisher queues runs on the broker and publishes status updates
type AMQPPublisher struct {
	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPPublisher opens a channel on conn and declares the topology
func NewAMQPPublisher(conn *amqp.Connection) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	if err := declareTopology(ch); err != nil {
		ch.Close()
		return nil, err
	}
	return &AMQPPublisher{ch: ch}, nil
}

// Submit publishes a persistent run message
func (p *AMQPPublisher) Submit(ctx context.Context, runID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(RunMessage{RunID: runID})
	if err != nil {
		return fmt.Errorf("failed to marshal run message: %w", err)
	}
	return p.publish("", RunQueue, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// PublishUpdate publishes a status update on the updates exchange
func (p *AMQPPublisher) PublishUpdate(update StatusUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal status update: %w", err)
	}
	return p.publish(UpdatesExchange, UpdateRoutingKey(update.RunID), amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// channels are not safe for concurrent publishing
func (p *AMQPPublisher) publish(exchange, key string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Publish(exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish to %q: %w", key, err)
	}
	return nil
}

// Close closes the publisher channel
func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

// RunReader looks up the stored state of a run
type RunReader interface {
	GetRun(ctx context.Context, id uuid.UUID) (*types.AnalysisRun, error)
}

// UpdatePublisher receives status updates
type UpdatePublisher interface {
	PublishUpdate(update StatusUpdate) error
}

// ConsumerConfig configures an AMQPConsumer. Reader and Updates are optional;
// without both no status updates are published.
type ConsumerConfig struct {
	Workers int
	Reader  RunReader
	Updates UpdatePublisher
	Logger  *zap.Logger
}

// AMQPConsumer executes runs queued on the broker
type AMQPConsumer struct {
	conn    *amqp.Connection
	handler Handler
	workers int
	reader  RunReader
	updates UpdatePublisher
	logger  *zap.Logger
	now     func() time.Time
}

// NewAMQPConsumer creates a consumer. Call Run to start consuming.
func NewAMQPConsumer(conn *amqp.Connection, handler Handler, cfg ConsumerConfig) *AMQPConsumer {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &AMQPConsumer{
		conn:    conn,
		handler: handler,
		workers: cfg.Workers,
		reader:  cfg.Reader,
		updates: cfg.Updates,
		logger:  cfg.Logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run consumes until ctx is cancelled or the broker closes the delivery channel
func (c *AMQPConsumer) Run(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := declareTopology(ch); err != nil {
		return err
	}
	if err := ch.Qos(c.workers, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}
	deliveries, err := ch.Consume(
		RunQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", RunQueue, err)
	}

	c.logger.Info("consuming analysis runs", zap.String("queue", RunQueue), zap.Int("workers", c.workers))

	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < c.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gCtx.Done():
					return nil
				case d, ok := <-deliveries:
					if !ok {
						return nil
					}
					c.handleDelivery(gCtx, d)
				}
			}
		})
	}
	return g.Wait()
}

// handleDelivery runs one message. It is acknowledged once the handler
// returns; malformed messages are rejected without requeueing.
func (c *AMQPConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	runID, err := DecodeRunMessage(d.Body)
	if err != nil {
		c.logger.Warn("dropping malformed message", zap.Error(err))
		if err := d.Reject(false); err != nil {
			c.logger.Error("failed to reject message", zap.Error(err))
		}
		return
	}

	logger := c.logger.With(zap.String("run_id", runID.String()))
	c.publishUpdate(ctx, runID, true, logger)

	if err := c.handler(ctx, runID); err != nil {
		logger.Error("run handler failed", zap.Error(err))
	}
	if err := d.Ack(false); err != nil {
		logger.Error("failed to ack message", zap.Error(err))
	}

	c.publishUpdate(context.WithoutCancel(ctx), runID, false, logger)
}

// publishUpdate publishes the stored status of the run. Before execution a
// pending run is announced as processing and any other status is skipped.
func (c *AMQPConsumer) publishUpdate(ctx context.Context, runID uuid.UUID, starting bool, logger *zap.Logger) {
	if c.reader == nil || c.updates == nil {
		return
	}
	run, err := c.reader.GetRun(ctx, runID)
	if err != nil {
		logger.Warn("failed to load run for status update", zap.Error(err))
		return
	}
	status := run.Status
	if starting {
		if status != types.StatusPending {
			return
		}
		status = types.StatusProcessing
	}

	update := StatusUpdate{
		RunID:     runID,
		Status:    status,
		Message:   statusMessage(status, run.ErrorMessage),
		Timestamp: c.now(),
	}
	if err := c.updates.PublishUpdate(update); err != nil {
		logger.Warn("failed to publish status update", zap.Error(err))
	}
}

func statusMessage(status string, errorMessage *string) string {
	switch status {
	case types.StatusPending:
		return "analysis queued"
	case types.StatusProcessing:
		return "analysis started"
	case types.StatusCompleted:
		return "analysis completed"
	case types.StatusFailed:
		if errorMessage != nil {
			return "analysis failed: " + *errorMessage
		}
		return "analysis failed"
	}
	return status
}

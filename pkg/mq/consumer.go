package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clientportal/pkg/metrics"
	"clientportal/pkg/otel"
	"clientportal/pkg/trace"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type MessageHandler func(ctx context.Context, data json.RawMessage) error

// Consumer delivers messages from one queue to one handler. Every message is
// acked exactly once: a failed or panicking handler parks the message on the
// dead letter exchange (when one is configured) instead of requeueing it.
type Consumer struct {
	channel    *amqp091.Channel
	queue      amqp091.Queue
	routingKey string
	handler    MessageHandler
	conn       *amqp091.Connection
	deadLetter *Publisher
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewConsumer declares queueName, binds it to routingKey on exchange, and
// declares the matching dead letter queue.
func NewConsumer(url, exchange, queueName, routingKey string, logger *zap.Logger) (*Consumer, error) {
	exchange = exchangeOrDefault(exchange)

	conn, err := NewConnection(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	closeAll := func() {
		ch.Close()
		conn.Close()
	}

	if err := DeclareExchange(ch, exchange); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	if err := DeclareExchange(ch, DeadLetterExchange(exchange)); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to declare dead letter exchange: %w", err)
	}

	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
		closeAll()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	if _, err := DeclareDeadLetterQueue(ch, exchange, routingKey); err != nil {
		closeAll()
		return nil, err
	}

	logger.Info("Consumer initialized",
		zap.String("routing_key", routingKey),
		zap.String("queue", queueName),
		zap.String("exchange", exchange),
	)

	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		ctx:        ctx,
		cancel:     cancel,
		conn:       conn,
		channel:    ch,
		queue:      q,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

func (c *Consumer) SetHandler(h MessageHandler) {
	c.handler = h
}

// SetDeadLetter sets the publisher used to park failed messages.
func (c *Consumer) SetDeadLetter(p *Publisher) {
	c.deadLetter = p
}

// Stop cancels delivery processing started by StartConsuming.
func (c *Consumer) Stop() {
	c.cancel()
}

func (c *Consumer) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// StartConsuming blocks until Stop is called or the delivery channel closes.
func (c *Consumer) StartConsuming() error {
	if c.handler == nil {
		return fmt.Errorf("consumer handler not set")
	}

	ctx := c.ctx

	deliveries, err := c.channel.Consume(
		c.queue.Name,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consumer started consuming messages",
		zap.String("routing_key", c.routingKey),
		zap.String("queue", c.queue.Name),
	)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Consumer stopped", zap.String("queue", c.queue.Name))
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handleDelivery(ctx, msg)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, msg amqp091.Delivery) {
	start := time.Now()
	ctx = trace.WithContext(ctx, trace.GenerateTraceID())
	ctx, span := otel.MQConsumeSpan(ctx, c.queue.Name, c.routingKey, msg.Headers)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Handler panic recovered",
				zap.String("routing_key", c.routingKey),
				zap.String("queue", c.queue.Name),
				zap.Any("panic", r),
			)
			c.park(ctx, msg, fmt.Sprintf("panic: %v", r))
		}
		metrics.RecordMQConsumeLatency(c.routingKey, c.queue.Name, time.Since(start))
	}()

	if err := c.handler(ctx, msg.Body); err != nil {
		c.logger.Error("Handler error",
			zap.String("routing_key", c.routingKey),
			zap.String("queue", c.queue.Name),
			zap.Error(err),
		)
		c.park(ctx, msg, err.Error())
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("Failed to ack message",
			zap.String("routing_key", c.routingKey),
			zap.Error(err),
		)
	}
}

// park moves a failed message to the dead letter exchange and acks the
// original. Without a dead letter publisher the message is dropped.
func (c *Consumer) park(ctx context.Context, msg amqp091.Delivery, reason string) {
	if c.deadLetter != nil {
		if err := c.deadLetter.PublishToDLQ(ctx, c.routingKey, msg.Body, reason); err != nil {
			c.logger.Error("Failed to park message",
				zap.String("routing_key", c.routingKey),
				zap.Error(err),
			)
		}
	}
	if err := msg.Ack(false); err != nil {
		c.logger.Error("Failed to ack failed message",
			zap.String("routing_key", c.routingKey),
			zap.Error(err),
		)
	}
}

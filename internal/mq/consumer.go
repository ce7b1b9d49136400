package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"habitz/pkg/metrics"
	"habitz/pkg/trace"
)

// traceIDFrom reads the publisher's trace header, minting a fresh id for
// messages that arrived without one.
func traceIDFrom(msg amqp091.Delivery) string {
	if id, ok := msg.Headers[trace.TraceIDKey].(string); ok && id != "" {
		return id
	}
	return trace.GenerateTraceID()
}

type MessageHandler func(ctx context.Context, data json.RawMessage) error

type Consumer struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	queue      amqp091.Queue
	routingKey string
	handler    MessageHandler
	logger     *zap.Logger
}

// NewConsumer creates a consumer with its own queue bound to one routing key,
// e.g. queue "workout.completed.q" bound to "workout.completed".
func NewConsumer(url, queueName, routingKey string, logger *zap.Logger) (*Consumer, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		routingKey,
		ExchangeName,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	return &Consumer{
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

func (c *Consumer) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// StartConsuming blocks on the delivery channel and should run in its own
// goroutine. Failed messages are nacked back onto the queue.
func (c *Consumer) StartConsuming() error {
	if c.handler == nil {
		return fmt.Errorf("consumer handler not set")
	}

	msgs, err := c.channel.Consume(
		c.queue.Name,
		"worker",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Consumer started",
		zap.String("routing_key", c.routingKey),
		zap.String("queue", c.queue.Name),
	)

	for msg := range msgs {
		ctx := trace.WithContext(context.Background(), traceIDFrom(msg))
		start := time.Now()

		if err := c.handler(ctx, msg.Body); err != nil {
			c.logger.Error("Handler error",
				zap.String("routing_key", c.routingKey),
				zap.Error(err),
			)
			_ = msg.Nack(false, true)
			continue
		}

		metrics.ObserveMQConsume(c.routingKey, c.queue.Name, start)

		if err := msg.Ack(false); err != nil {
			c.logger.Error("Failed to ack message",
				zap.String("routing_key", c.routingKey),
				zap.Error(err),
			)
		}
	}

	return nil
}

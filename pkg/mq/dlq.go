package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// DeadLetterExchange names the parking exchange paired with exchange.
// Parked messages are kept for inspection and are never redelivered.
func DeadLetterExchange(exchange string) string {
	return exchangeOrDefault(exchange) + ".dlq"
}

// DeclareDeadLetterQueue declares and binds <routingKey>.dlq on the parking exchange.
func DeclareDeadLetterQueue(ch *amqp091.Channel, exchange, routingKey string) (amqp091.Queue, error) {
	q, err := ch.QueueDeclare(
		fmt.Sprintf("%s.dlq", routingKey),
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to declare DLQ queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, DeadLetterExchange(exchange), false, nil); err != nil {
		return amqp091.Queue{}, fmt.Errorf("failed to bind DLQ queue: %w", err)
	}

	return q, nil
}

// PublishToDLQ parks a raw message along with the error that stopped it.
func (p *Publisher) PublishToDLQ(ctx context.Context, routingKey string, body []byte, originalError string) error {
	headers := amqp091.Table{
		"x-original-error": originalError,
		"x-failed-at":      time.Now().UTC().Format(time.RFC3339),
	}
	return p.publish(ctx, DeadLetterExchange(p.exchange), routingKey, body, headers)
}

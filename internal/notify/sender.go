package notify

import (
	"context"
	"time"

	contractmq "clientportal/contracts/mq"
)

// Email is one templated email handed to the delivery provider.
type Email struct {
	SubmissionID string
	Kind         string
	ClientID     string
	ServiceID    string
	TemplateID   string
	Params       map[string]any
}

// Sender delivers an Email. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// Publisher is the subset of the MQ publisher QueueSender needs.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Queueing is implemented by senders that only enqueue the email. Delivery
// happens later in the notification worker.
type Queueing interface {
	QueuesDelivery() bool
}

// QueueSender hands emails to the notification worker over RabbitMQ.
type QueueSender struct {
	publisher Publisher
	now       func() time.Time
}

func NewQueueSender(publisher Publisher) *QueueSender {
	return &QueueSender{publisher: publisher, now: time.Now}
}

func (q *QueueSender) Send(ctx context.Context, email Email) error {
	return q.publisher.Publish(ctx, contractmq.RoutingKeyNotificationRequested, PayloadFromEmail(email, q.now()))
}

func (q *QueueSender) QueuesDelivery() bool { return true }

// PayloadFromEmail builds the queue message for email.
func PayloadFromEmail(email Email, requestedAt time.Time) contractmq.NotificationRequestedPayload {
	return contractmq.NotificationRequestedPayload{
		SubmissionID: email.SubmissionID,
		Kind:         email.Kind,
		ClientID:     email.ClientID,
		ServiceID:    email.ServiceID,
		TemplateID:   email.TemplateID,
		Params:       email.Params,
		RequestedAt:  requestedAt.UTC(),
	}
}

// EmailFromPayload rebuilds the Email carried by a queued request.
func EmailFromPayload(p contractmq.NotificationRequestedPayload) Email {
	return Email{
		SubmissionID: p.SubmissionID,
		Kind:         p.Kind,
		ClientID:     p.ClientID,
		ServiceID:    p.ServiceID,
		TemplateID:   p.TemplateID,
		Params:       p.Params,
	}
}

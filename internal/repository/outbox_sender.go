package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	contractmq "clientportal/contracts/mq"
	"clientportal/internal/notify"
	"clientportal/pkg/outbox"
)

const aggregateNotification = "notification_submission"

// OutboxSender queues emails through the outbox table. The submission row
// and its outbox event are written in one transaction; the dispatcher
// publishes the event to RabbitMQ afterwards.
type OutboxSender struct {
	db     *pgxpool.Pool
	outbox *outbox.Repository
	now    func() time.Time
}

func NewOutboxSender(db *pgxpool.Pool, outboxRepo *outbox.Repository) *OutboxSender {
	return &OutboxSender{db: db, outbox: outboxRepo, now: time.Now}
}

func (s *OutboxSender) Send(ctx context.Context, email notify.Email) error {
	now := s.now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertQueued(ctx, tx, email, now); err != nil {
		return err
	}

	if err := outbox.InsertEventInTx(ctx, tx, s.outbox,
		aggregateNotification,
		email.SubmissionID,
		contractmq.RoutingKeyNotificationRequested,
		notify.PayloadFromEmail(email, now),
	); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *OutboxSender) QueuesDelivery() bool { return true }

func insertQueued(ctx context.Context, tx pgx.Tx, email notify.Email, now time.Time) error {
	query := `
        INSERT INTO notification_submissions (id, kind, client_id, template_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)
        ON CONFLICT (id) DO NOTHING
    `
	_, err := tx.Exec(ctx, query, email.SubmissionID, email.Kind, email.ClientID, email.TemplateID, notify.StatusQueued, now)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

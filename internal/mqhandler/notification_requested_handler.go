package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	contractmq "clientportal/contracts/mq"
	"clientportal/internal/notify"
	"clientportal/pkg/logger"
	"clientportal/pkg/metrics"
	"clientportal/pkg/util"
)

// NotificationRequestedHandler delivers queued emails. A failed delivery is
// returned to the consumer, which parks the message without retrying.
type NotificationRequestedHandler struct {
	sender   notify.Sender
	recorder notify.SubmissionRecorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewNotificationRequestedHandler(sender notify.Sender, recorder notify.SubmissionRecorder, logger *zap.Logger) *NotificationRequestedHandler {
	if recorder == nil {
		recorder = notify.NopRecorder{}
	}
	return &NotificationRequestedHandler{
		sender:   sender,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *NotificationRequestedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	log := logger.WithTrace(ctx, h.logger)

	var p contractmq.NotificationRequestedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error("Failed to unmarshal notification payload", zap.Error(err))
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	log.Info("Delivering notification",
		zap.String("submission_id", p.SubmissionID),
		zap.String("kind", p.Kind),
		zap.String("client_id", p.ClientID),
	)

	email := notify.EmailFromPayload(p)
	if err := h.sender.Send(ctx, email); err != nil {
		reason := util.ClassifyError(err)
		metrics.IncrementNotification(p.Kind, notify.StatusFailed)
		h.record(ctx, p, notify.StatusFailed, reason)
		log.Error("Notification delivery failed",
			zap.String("submission_id", p.SubmissionID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return err
	}

	metrics.IncrementNotification(p.Kind, notify.StatusSent)
	h.record(ctx, p, notify.StatusSent, "")
	log.Info("Notification delivered", zap.String("submission_id", p.SubmissionID))
	return nil
}

func (h *NotificationRequestedHandler) record(ctx context.Context, p contractmq.NotificationRequestedPayload, status, reason string) {
	err := h.recorder.Record(ctx, notify.Submission{
		ID:          p.SubmissionID,
		Kind:        p.Kind,
		ClientID:    p.ClientID,
		TemplateID:  p.TemplateID,
		Status:      status,
		ErrorReason: reason,
		CreatedAt:   h.now(),
	})
	if err != nil {
		logger.WithTrace(ctx, h.logger).Warn("Failed to record delivery outcome",
			zap.String("submission_id", p.SubmissionID),
			zap.Error(err),
		)
	}
}

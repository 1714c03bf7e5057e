package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	contractmq "clientportal/contracts/mq"
	"clientportal/internal/notify"
)

type stubSender struct {
	got []notify.Email
	err error
}

func (s *stubSender) Send(_ context.Context, e notify.Email) error {
	s.got = append(s.got, e)
	return s.err
}

type stubRecorder struct {
	records []notify.Submission
}

func (s *stubRecorder) Record(_ context.Context, sub notify.Submission) error {
	s.records = append(s.records, sub)
	return nil
}

func payload(t *testing.T) json.RawMessage {
	raw, err := json.Marshal(contractmq.NotificationRequestedPayload{
		SubmissionID: "sub-1",
		Kind:         contractmq.KindChangeRequest,
		ClientID:     "client-a",
		ServiceID:    "service_pipsr8c",
		TemplateID:   "template_request_changes",
		Params:       map[string]any{"message": "hi"},
	})
	require.NoError(t, err)
	return raw
}

func TestHandle_Delivers(t *testing.T) {
	sender := &stubSender{}
	rec := &stubRecorder{}
	h := NewNotificationRequestedHandler(sender, rec, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), payload(t)))

	require.Len(t, sender.got, 1)
	assert.Equal(t, "template_request_changes", sender.got[0].TemplateID)
	assert.Equal(t, "hi", sender.got[0].Params["message"])

	require.Len(t, rec.records, 1)
	assert.Equal(t, "sub-1", rec.records[0].ID)
	assert.Equal(t, notify.StatusSent, rec.records[0].Status)
}

func TestHandle_DeliveryFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("email provider returned 500: oops")}
	rec := &stubRecorder{}
	h := NewNotificationRequestedHandler(sender, rec, zap.NewNop())

	err := h.Handle(context.Background(), payload(t))
	assert.Error(t, err)

	require.Len(t, rec.records, 1)
	assert.Equal(t, notify.StatusFailed, rec.records[0].Status)
	assert.Equal(t, "provider_rejected", rec.records[0].ErrorReason)
}

func TestHandle_BadPayload(t *testing.T) {
	sender := &stubSender{}
	h := NewNotificationRequestedHandler(sender, nil, zap.NewNop())

	assert.Error(t, h.Handle(context.Background(), json.RawMessage(`{"kind":`)))
	assert.Empty(t, sender.got)
}

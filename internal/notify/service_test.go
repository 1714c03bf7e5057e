package notify

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	contractmq "clientportal/contracts/mq"
	"clientportal/internal/model"
	"clientportal/internal/progress"
	"clientportal/pkg/util"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (f *fakeSender) Send(_ context.Context, e Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

type memoryRecorder struct {
	records []Submission
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, s Submission) error {
	m.records = append(m.records, s)
	return m.err
}

var progressAccount = &model.ClientAccount{
	ID:      "client-a",
	Name:    "Amit Kumar",
	Company: "Stamix Luxe LLP",
	Email:   "akmarwaha99@yahoo.in",
	Tier:    model.TierProgress,
}

var proposalAccount = &model.ClientAccount{
	ID:      "client-b",
	Name:    "Michael Chen",
	Company: "InnovateNow Inc",
	Email:   "michael.chen@innovatenow.com",
	Tier:    model.TierProposal,
}

var testConfig = Config{
	TeamName:              "Aaida Corp Team",
	ServiceID:             "service_pipsr8c",
	ChangeRequestTemplate: "template_request_changes",
	ProposalTemplate:      "template_impavys",
}

func newTestService(sender Sender) (*Service, *progress.Store, *memoryRecorder) {
	store := progress.NewStore([]*model.ProjectProgress{{ClientID: "client-a"}}, zap.NewNop())
	rec := &memoryRecorder{}
	svc := NewService(testConfig, sender, store, util.NewMemoryDeduper(time.Minute), rec, zap.NewNop())
	return svc, store, rec
}

func TestSubmitChangeRequest_Success(t *testing.T) {
	sender := &fakeSender{}
	svc, store, rec := newTestService(sender)

	receipt, err := svc.SubmitChangeRequest(context.Background(), progressAccount, ChangeRequest{
		Message: "Please change the header colour",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSent, receipt.Status)
	assert.NotEmpty(t, receipt.SubmissionID)

	require.Len(t, sender.sent, 1)
	e := sender.sent[0]
	assert.Equal(t, "service_pipsr8c", e.ServiceID)
	assert.Equal(t, "template_request_changes", e.TemplateID)
	assert.Equal(t, contractmq.KindChangeRequest, e.Kind)
	assert.Equal(t, map[string]any{
		"to_name":      "Aaida Corp Team",
		"from_name":    "Amit Kumar",
		"from_email":   "akmarwaha99@yahoo.in",
		"from_company": "Stamix Luxe LLP",
		"message":      "Please change the header colour",
		"client_id":    "client-a",
		"subject":      "Client Change Request",
	}, e.Params)

	p, _ := store.Get("client-a")
	require.Len(t, p.LiveUpdates, 1)
	assert.Equal(t, "Change request submitted successfully", p.LiveUpdates[0].Message)
	assert.Equal(t, model.SeveritySuccess, p.LiveUpdates[0].Severity)

	require.Len(t, rec.records, 1)
	assert.Equal(t, StatusSent, rec.records[0].Status)
}

func TestSubmitChangeRequest_FormOverridesAccount(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _ := newTestService(sender)

	_, err := svc.SubmitChangeRequest(context.Background(), progressAccount, ChangeRequest{
		Name:    "Someone Else",
		Email:   "else@example.com",
		Message: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Someone Else", sender.sent[0].Params["from_name"])
	assert.Equal(t, "else@example.com", sender.sent[0].Params["from_email"])
	assert.Equal(t, "Stamix Luxe LLP", sender.sent[0].Params["from_company"])
}

func TestSubmitChangeRequest_FailureLeavesStoreUntouched(t *testing.T) {
	sender := &fakeSender{err: errors.New("email provider returned 400: bad")}
	svc, store, rec := newTestService(sender)
	before, _ := store.Get("client-a")

	_, err := svc.SubmitChangeRequest(context.Background(), progressAccount, ChangeRequest{Message: "hi"})
	assert.ErrorIs(t, err, ErrSubmissionFailed)

	after, _ := store.Get("client-a")
	assert.Equal(t, before, after)

	require.Len(t, rec.records, 1)
	assert.Equal(t, StatusFailed, rec.records[0].Status)
	assert.Equal(t, "provider_rejected", rec.records[0].ErrorReason)

	// the user can retry straight away
	sender.err = nil
	_, err = svc.SubmitChangeRequest(context.Background(), progressAccount, ChangeRequest{Message: "hi"})
	assert.NoError(t, err)
}

func TestSubmitChangeRequest_Duplicate(t *testing.T) {
	sender := &fakeSender{}
	svc, store, _ := newTestService(sender)
	ctx := context.Background()

	_, err := svc.SubmitChangeRequest(ctx, progressAccount, ChangeRequest{Message: "same"})
	require.NoError(t, err)
	_, err = svc.SubmitChangeRequest(ctx, progressAccount, ChangeRequest{Message: "same"})
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	assert.Len(t, sender.sent, 1)
	p, _ := store.Get("client-a")
	assert.Len(t, p.LiveUpdates, 1)
}

func TestSubmitChangeRequest_EmptyMessage(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _ := newTestService(sender)

	_, err := svc.SubmitChangeRequest(context.Background(), progressAccount, ChangeRequest{Message: "  "})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
	assert.Empty(t, sender.sent)
}

func TestSubmitChangeRequest_NoProgressRecord(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _ := newTestService(sender)

	_, err := svc.SubmitChangeRequest(context.Background(), proposalAccount, ChangeRequest{Message: "hi"})
	assert.NoError(t, err)
	assert.Len(t, sender.sent, 1)
}

func TestSubmitChangeRequest_RecorderErrorIgnored(t *testing.T) {
	sender := &fakeSender{}
	svc, _, rec := newTestService(sender)
	rec.err = errors.New("db down")

	_, err := svc.SubmitChangeRequest(context.Background(), progressAccount, ChangeRequest{Message: "hi"})
	assert.NoError(t, err)
}

func TestConfirmProposal(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _ := newTestService(sender)

	receipt, err := svc.ConfirmProposal(context.Background(), proposalAccount, Confirmation{
		Type:          "SaaS Platform",
		Price:         28000,
		Discount:      10,
		CustomMessage: "Looking forward to it",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusSent, receipt.Status)

	require.Len(t, sender.sent, 1)
	e := sender.sent[0]
	assert.Equal(t, "template_impavys", e.TemplateID)
	assert.Equal(t, contractmq.KindProposalConfirmation, e.Kind)
	assert.Equal(t, "Michael Chen", e.Params["to_name"])
	assert.Equal(t, "michael.chen@innovatenow.com", e.Params["to_email"])
	assert.Equal(t, "InnovateNow Inc", e.Params["to_company"])
	assert.Equal(t, "SaaS Platform", e.Params["type"])
	assert.Equal(t, "₹28,000", e.Params["original_price"])
	assert.Equal(t, 10.0, e.Params["discount"])
	assert.Equal(t, "₹25,200", e.Params["final_price"])
	assert.Equal(t, "Aaida Corp Team", e.Params["from_name"])
	assert.Equal(t,
		"Dear Michael Chen from InnovateNow Inc, thank you for confirming your project proposal. We will contact you shortly to discuss next steps.\n\nAdditional Message: Looking forward to it",
		e.Params["message"],
	)
}

func TestConfirmProposal_RejectsInvalidAmounts(t *testing.T) {
	cases := []Confirmation{
		{Price: -1, Discount: 10},
		{Price: 50000, Discount: 150},
		{Price: 50000, Discount: -5},
		{Price: math.Inf(1), Discount: 10},
		{Price: math.NaN(), Discount: 10},
		{Price: 50000, Discount: math.NaN()},
	}
	for _, c := range cases {
		sender := &fakeSender{}
		svc, _, _ := newTestService(sender)

		_, err := svc.ConfirmProposal(context.Background(), proposalAccount, c)
		assert.ErrorIs(t, err, ErrInvalidAmount, "%+v", c)
		assert.Empty(t, sender.sent)
	}
}

func TestConfirmProposal_LargeWholePriceKeepsSign(t *testing.T) {
	sender := &fakeSender{}
	svc, _, _ := newTestService(sender)

	_, err := svc.ConfirmProposal(context.Background(), proposalAccount, Confirmation{Price: 1e20, Discount: 10})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "₹100,000,000,000,000,000,000", sender.sent[0].Params["original_price"])
	assert.Equal(t, "₹90,000,000,000,000,000,000", sender.sent[0].Params["final_price"])
}

func TestConfirmationMessage_NoCustomMessage(t *testing.T) {
	msg := ConfirmationMessage(Confirmation{Name: "Emma", Company: "FutureTech Labs"})
	assert.Equal(t, "Dear Emma from FutureTech Labs, thank you for confirming your project proposal. We will contact you shortly to discuss next steps.", msg)
}

type fakePublisher struct {
	routingKey string
	payload    any
	err        error
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, payload any) error {
	f.routingKey = routingKey
	f.payload = payload
	return f.err
}

func TestQueueSender(t *testing.T) {
	pub := &fakePublisher{}
	svc, _, _ := newTestService(NewQueueSender(pub))

	receipt, err := svc.SubmitChangeRequest(context.Background(), progressAccount, ChangeRequest{Message: "queued"})
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, receipt.Status)

	assert.Equal(t, contractmq.RoutingKeyNotificationRequested, pub.routingKey)
	payload, ok := pub.payload.(contractmq.NotificationRequestedPayload)
	require.True(t, ok)
	assert.Equal(t, receipt.SubmissionID, payload.SubmissionID)
	assert.Equal(t, "template_request_changes", payload.TemplateID)

	email := EmailFromPayload(payload)
	assert.Equal(t, "client-a", email.ClientID)
	assert.Equal(t, "queued", email.Params["message"])
}

func TestQueueSender_PublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	svc, _, _ := newTestService(NewQueueSender(pub))

	_, err := svc.SubmitChangeRequest(context.Background(), progressAccount, ChangeRequest{Message: "x"})
	assert.ErrorIs(t, err, ErrSubmissionFailed)
}

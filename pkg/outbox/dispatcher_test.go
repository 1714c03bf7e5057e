package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	pending    []*Event
	sent       []int64
	failed     []int64
	err        error
	limit      int
	maxRetries int
}

func (f *fakeStore) GetPendingEvents(_ context.Context, limit int) ([]*Event, error) {
	f.limit = limit
	return f.pending, f.err
}

func (f *fakeStore) MarkAsSent(_ context.Context, id int64) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeStore) MarkAsFailed(_ context.Context, id int64, maxRetries int) error {
	f.failed = append(f.failed, id)
	f.maxRetries = maxRetries
	return nil
}

type fakePublisher struct {
	bodies map[string][]byte
	failOn string
}

func (f *fakePublisher) Publish(_ context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if string(body) == f.failOn {
		return errors.New("channel closed")
	}
	if f.bodies == nil {
		f.bodies = map[string][]byte{}
	}
	f.bodies[routingKey] = body
	return nil
}

func TestDispatcher_ProcessPending(t *testing.T) {
	store := &fakeStore{pending: []*Event{
		{ID: 1, RoutingKey: "notification.requested", Payload: json.RawMessage(`{"submission_id":"a"}`)},
		{ID: 2, RoutingKey: "notification.other", Payload: json.RawMessage(`{"submission_id":"b"}`)},
	}}
	pub := &fakePublisher{failOn: `{"submission_id":"b"}`}

	NewDispatcher(store, pub, zap.NewNop()).ProcessPending(context.Background())

	assert.Equal(t, []int64{1}, store.sent)
	assert.Equal(t, []int64{2}, store.failed)
	require.Contains(t, pub.bodies, "notification.requested")
	assert.JSONEq(t, `{"submission_id":"a"}`, string(pub.bodies["notification.requested"]))
}

func TestDispatcher_StoreErrorPublishesNothing(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	pub := &fakePublisher{}

	NewDispatcher(store, pub, zap.NewNop()).ProcessPending(context.Background())

	assert.Empty(t, pub.bodies)
	assert.Empty(t, store.sent)
}

func TestDispatcher_StartStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	d := NewDispatcher(&fakeStore{}, &fakePublisher{}, zap.NewNop()).WithInterval(5 * time.Millisecond)
	go func() {
		d.Start(ctx)
		close(done)
	}()
	cancel()
	<-done
}

func TestDispatcher_UsesConfiguredLimits(t *testing.T) {
	store := &fakeStore{pending: []*Event{
		{ID: 3, RoutingKey: "notification.requested", Payload: json.RawMessage(`{"submission_id":"c"}`)},
	}}
	pub := &fakePublisher{failOn: `{"submission_id":"c"}`}

	NewDispatcher(store, pub, zap.NewNop()).
		WithMaxRetries(2).
		WithBatchSize(10).
		ProcessPending(context.Background())

	assert.Equal(t, 10, store.limit)
	assert.Equal(t, 2, store.maxRetries)
	assert.Equal(t, []int64{3}, store.failed)
}

package progress

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clientportal/internal/model"
)

var seedTime = time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC)

func testRecord() *model.ProjectProgress {
	return &model.ProjectProgress{
		ClientID: "client-a",
		Deliverables: []model.Deliverable{
			{Name: "Responsive Website", Completed: true},
			{Name: "E-commerce Store", Premium: true},
			{Name: "Admin Panel", Completed: true, Premium: true},
		},
		Milestones: []model.Milestone{
			{ID: "milestone-1", Name: "Planning", Completed: true},
			{ID: "milestone-2", Name: "Frontend"},
		},
		Progress: model.Channels{
			Frontend: model.ProgressItem{Name: "Frontend Development", Percentage: 20},
			Backend:  model.ProgressItem{Name: "Backend Development", Percentage: 30},
			SEO:      model.ProgressItem{Name: "SEO Optimization", Percentage: 10},
		},
		LiveUpdates: []model.LiveUpdate{
			{ID: "update-1", Message: "Backend work started", Severity: model.SeveritySuccess, Timestamp: seedTime},
		},
		NoAssets:    true,
		LastUpdated: seedTime,
	}
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newTestStore() (*Store, *fixedClock) {
	clock := &fixedClock{t: seedTime.Add(48 * time.Hour)}
	n := 0
	s := NewStore([]*model.ProjectProgress{testRecord()}, zap.NewNop(),
		WithClock(clock.Now),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("%d", n) }),
	)
	return s, clock
}

func TestStore_GetReturnsSnapshot(t *testing.T) {
	s, _ := newTestStore()

	p, ok := s.Get("client-a")
	require.True(t, ok)
	p.Deliverables[1].Completed = true
	p.LiveUpdates = nil

	again, _ := s.Get("client-a")
	assert.False(t, again.Deliverables[1].Completed)
	assert.Len(t, again.LiveUpdates, 1)

	_, ok = s.Get("client-b")
	assert.False(t, ok)
	assert.False(t, s.Has("client-b"))
}

func TestStore_NewStoreCopiesInput(t *testing.T) {
	rec := testRecord()
	s := NewStore([]*model.ProjectProgress{rec}, zap.NewNop())
	rec.Deliverables[0].Completed = false

	p, _ := s.Get("client-a")
	assert.True(t, p.Deliverables[0].Completed)
}

func TestStore_SetDeliverableCompleted(t *testing.T) {
	s, clock := newTestStore()

	require.NoError(t, s.SetDeliverableCompleted("client-a", "E-commerce Store", true))

	p, _ := s.Get("client-a")
	assert.True(t, p.Deliverables[1].Completed)
	assert.Equal(t, clock.t, p.LastUpdated)
}

func TestStore_NoMatchIsNoOp(t *testing.T) {
	s, _ := newTestStore()
	before, _ := s.Get("client-a")

	assert.ErrorIs(t, s.SetDeliverableCompleted("client-a", "X", true), ErrNotFound)
	assert.ErrorIs(t, s.SetMilestoneCompleted("client-a", "milestone-9", true), ErrNotFound)
	assert.ErrorIs(t, s.SetDeliverableCompleted("client-z", "E-commerce Store", true), ErrNotFound)

	after, _ := s.Get("client-a")
	assert.Equal(t, before, after)
	assert.Equal(t, seedTime, after.LastUpdated)
}

func TestStore_SetMilestoneCompleted(t *testing.T) {
	s, clock := newTestStore()

	require.NoError(t, s.SetMilestoneCompleted("client-a", "milestone-2", true))
	p, _ := s.Get("client-a")
	assert.True(t, p.Milestones[1].Completed)
	assert.Equal(t, clock.t, p.LastUpdated)

	_, ok := CurrentMilestoneIndex(p.Milestones)
	assert.False(t, ok)
}

func TestStore_AppendLiveUpdatePrepends(t *testing.T) {
	s, clock := newTestStore()

	for _, msg := range []string{"A", "B", "C"} {
		_, err := s.AppendLiveUpdate("client-a", msg, model.SeverityInfo)
		require.NoError(t, err)
	}

	p, _ := s.Get("client-a")
	require.Len(t, p.LiveUpdates, 4)
	assert.Equal(t, "C", p.LiveUpdates[0].Message)
	assert.Equal(t, "B", p.LiveUpdates[1].Message)
	assert.Equal(t, "A", p.LiveUpdates[2].Message)
	assert.Equal(t, "Backend work started", p.LiveUpdates[3].Message)
	assert.Equal(t, "update-3", p.LiveUpdates[0].ID)
	assert.Equal(t, clock.t, p.LiveUpdates[0].Timestamp)
}

func TestStore_AppendLiveUpdateRejectsSeverity(t *testing.T) {
	s, _ := newTestStore()

	_, err := s.AppendLiveUpdate("client-a", "x", "critical")
	assert.ErrorIs(t, err, ErrInvalidSeverity)

	_, err = s.AppendLiveUpdate("client-z", "x", model.SeverityInfo)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SetProgressPercentageClamps(t *testing.T) {
	s, _ := newTestStore()

	require.NoError(t, s.SetProgressPercentage("client-a", model.ChannelFrontend, 150))
	require.NoError(t, s.SetProgressPercentage("client-a", model.ChannelSEO, -5))
	require.NoError(t, s.SetProgressPercentage("client-a", model.ChannelBackend, 55))

	p, _ := s.Get("client-a")
	assert.Equal(t, 100, p.Progress.Frontend.Percentage)
	assert.Equal(t, 0, p.Progress.SEO.Percentage)
	assert.Equal(t, 55, p.Progress.Backend.Percentage)
}

func TestStore_SetProgressPercentageUnknownChannel(t *testing.T) {
	s, _ := newTestStore()
	before, _ := s.Get("client-a")

	assert.ErrorIs(t, s.SetProgressPercentage("client-a", "design", 50), ErrUnknownChannel)

	after, _ := s.Get("client-a")
	assert.Equal(t, before, after)
}

func TestStore_AppendSpecialRequest(t *testing.T) {
	s, clock := newTestStore()

	req, err := s.AppendSpecialRequest("client-a", SpecialRequestInput{
		Request: "Business email setup",
		Service: "Email Setup",
		Amount:  "2,000",
	})
	require.NoError(t, err)
	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, "pending", req.Status)
	assert.Equal(t, clock.t, req.CreatedAt)

	p, _ := s.Get("client-a")
	require.Len(t, p.SpecialRequests, 1)
	assert.Equal(t, "Business email setup", p.SpecialRequests[0].Request)
}

func TestStore_AppendAssetClearsNoAssets(t *testing.T) {
	s, _ := newTestStore()

	asset, err := s.AppendAsset("client-a", AssetInput{
		Name: "Logo.png",
		URL:  "https://example.com/logo.png",
		Type: "image",
		Size: 2048,
	})
	require.NoError(t, err)
	assert.Equal(t, "asset-1", asset.ID)

	p, _ := s.Get("client-a")
	assert.False(t, p.NoAssets)
	require.Len(t, p.Assets, 1)
	assert.Equal(t, "Logo.png", p.Assets[0].Name)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s := NewStore([]*model.ProjectProgress{testRecord()}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.AppendLiveUpdate("client-a", fmt.Sprintf("u%d", i), model.SeverityInfo)
			_ = s.SetDeliverableCompleted("client-a", "E-commerce Store", i%2 == 0)
			_, _ = s.Get("client-a")
		}(i)
	}
	wg.Wait()

	p, _ := s.Get("client-a")
	assert.Len(t, p.LiveUpdates, 51)
}

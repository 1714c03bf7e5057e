package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"clientportal/internal/model"
)

func TestLoad(t *testing.T) {
	data, err := Load(zap.NewNop())
	require.NoError(t, err)

	require.Len(t, data.Accounts, 3)
	assert.Equal(t, "Amit_kumar", data.Accounts[0].Username)
	assert.Equal(t, model.TierProgress, data.Accounts[0].Tier)
	assert.Equal(t, model.TierProposal, data.Accounts[1].Tier)

	require.Len(t, data.Progress, 1)
	p := data.Progress[0]
	assert.Equal(t, "client-a", p.ClientID)
	assert.Len(t, p.Deliverables, 43)
	assert.Len(t, p.Milestones, 5)
	assert.Equal(t, 20, p.Progress.Frontend.Percentage)
	assert.Equal(t, 30, p.Progress.Backend.Percentage)
	assert.Equal(t, 10, p.Progress.SEO.Percentage)
	assert.Equal(t, 50000.0, p.Payment.TotalAmount)
	assert.Equal(t, time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC), p.Milestones[0].StartDate.UTC())
	assert.Equal(t, model.SeveritySuccess, p.LiveUpdates[0].Severity)
	assert.False(t, p.Payment.Breakdown[2].ShowBreakdown)

	require.Len(t, data.Proposals, 3)
	assert.Equal(t, []string{"design-premium2", "design-premium"}, data.Proposals[0].SelectedDesigns)
	assert.Equal(t, 15.0, data.Proposals[2].Proposal.Discount)
}

func TestValidate_RejectsDuplicateUsername(t *testing.T) {
	data := &Data{Accounts: []model.ClientAccount{
		{ID: "a", Username: "u", PasswordHash: "h", Tier: model.TierProgress},
		{ID: "b", Username: "u", PasswordHash: "h", Tier: model.TierProgress},
	}}
	assert.ErrorContains(t, Validate(data, zap.NewNop()), "duplicate username")
}

func TestValidate_RejectsUnknownTier(t *testing.T) {
	data := &Data{Accounts: []model.ClientAccount{
		{ID: "a", Username: "u", PasswordHash: "h", Tier: "gold"},
	}}
	assert.ErrorContains(t, Validate(data, zap.NewNop()), "unknown tier")
}

func TestValidate_WarnsOnDuplicateDeliverable(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	data := &Data{Progress: []*model.ProjectProgress{{
		ClientID:     "a",
		Deliverables: []model.Deliverable{{Name: "Logo"}, {Name: "Logo"}},
	}}}

	require.NoError(t, Validate(data, zap.New(core)))
	assert.Equal(t, 1, logs.FilterMessage("Duplicate deliverable name").Len())
}

package progress

import (
	"time"

	"clientportal/internal/model"
)

type ChannelView struct {
	Key        model.Channel `json:"key"`
	Name       string        `json:"name"`
	Percentage int           `json:"percentage"`
	Color      string        `json:"color"`
}

type MilestoneView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	DueLabel  string          `json:"due_label"`
	Completed bool            `json:"completed"`
	Status    MilestoneStatus `json:"status"`
	Color     string          `json:"color"`
}

type PaymentView struct {
	Currency    string              `json:"currency"`
	Total       float64             `json:"total"`
	Paid        float64             `json:"paid"`
	TotalLabel  string              `json:"total_label"`
	PaidLabel   string              `json:"paid_label"`
	PaidPercent int                 `json:"paid_percent"`
	Breakdown   []BreakdownItemView `json:"breakdown"`
}

type LiveUpdateView struct {
	ID             string         `json:"id"`
	Message        string         `json:"message"`
	Severity       model.Severity `json:"severity"`
	Timestamp      time.Time      `json:"timestamp"`
	TimestampLabel string         `json:"timestamp_label"`
}

type AssetView struct {
	model.AssetFile
	SizeLabel string   `json:"size_label"`
	Download  Download `json:"download"`
}

// ProgressSummary is the progress dashboard view model.
type ProgressSummary struct {
	ClientID           string                        `json:"client_id"`
	OverallPercent     int                           `json:"overall_percent"`
	Channels           []ChannelView                 `json:"channels"`
	Deliverables       []model.Deliverable           `json:"deliverables"`
	DeliverableCounts  DeliverableCounts             `json:"deliverable_counts"`
	Milestones         []MilestoneView               `json:"milestones"`
	CurrentMilestoneID string                        `json:"current_milestone_id,omitempty"`
	TimelinePercent    int                           `json:"timeline_percent"`
	Payment            PaymentView                   `json:"payment"`
	LiveUpdates        []LiveUpdateView              `json:"live_updates"`
	SpecialRequests    []model.SpecialRequest        `json:"special_requests"`
	Credentials        []model.Credential            `json:"credentials"`
	Assets             []AssetView                   `json:"assets"`
	NoAssets           bool                          `json:"no_assets"`
	CompletionServices []model.CompletionServiceItem `json:"completion_services"`
	Messages           []model.Message               `json:"messages"`
	ProjectDetails     model.ProjectDetails          `json:"project_details"`
	SitePreview        model.SitePreview             `json:"site_preview"`
	LastUpdated        time.Time                     `json:"last_updated"`
}

// Summary derives the full dashboard view from a snapshot.
func Summary(p *model.ProjectProgress) ProgressSummary {
	s := ProgressSummary{
		ClientID:           p.ClientID,
		OverallPercent:     RoundHalfUp(OverallProgress(p)),
		Deliverables:       SortDeliverables(p.Deliverables),
		DeliverableCounts:  CountDeliverables(p.Deliverables),
		TimelinePercent:    RoundHalfUp(TimelineFraction(p.Milestones) * 100),
		SpecialRequests:    p.SpecialRequests,
		Credentials:        p.Credentials,
		NoAssets:           p.NoAssets,
		CompletionServices: p.CompletionServices,
		Messages:           p.Messages,
		ProjectDetails:     p.ProjectDetails,
		SitePreview:        p.SitePreview,
		LastUpdated:        p.LastUpdated,
	}

	for _, key := range []model.Channel{model.ChannelFrontend, model.ChannelBackend, model.ChannelSEO} {
		item := p.Progress.Item(key)
		s.Channels = append(s.Channels, ChannelView{
			Key:        key,
			Name:       item.Name,
			Percentage: item.Percentage,
			Color:      item.Color,
		})
	}

	statuses := MilestoneStatuses(p.Milestones)
	s.Milestones = make([]MilestoneView, 0, len(p.Milestones))
	for i, m := range p.Milestones {
		s.Milestones = append(s.Milestones, MilestoneView{
			ID:        m.ID,
			Name:      m.Name,
			StartDate: m.StartDate,
			EndDate:   m.EndDate,
			DueLabel:  FormatLongDate(m.EndDate),
			Completed: m.Completed,
			Status:    statuses[i],
			Color:     m.Color,
		})
	}
	if idx, ok := CurrentMilestoneIndex(p.Milestones); ok {
		s.CurrentMilestoneID = p.Milestones[idx].ID
	}

	pt := p.Payment
	s.Payment = PaymentView{
		Currency:    pt.Currency,
		Total:       pt.TotalAmount,
		Paid:        pt.PaidAmount,
		TotalLabel:  FormatAmount(pt.TotalAmount, pt.Currency),
		PaidLabel:   FormatAmount(pt.PaidAmount, pt.Currency),
		PaidPercent: PaidPercent(pt),
		Breakdown:   make([]BreakdownItemView, 0, len(pt.Breakdown)),
	}
	for _, item := range pt.Breakdown {
		s.Payment.Breakdown = append(s.Payment.Breakdown, BreakdownView(item, pt.Currency))
	}

	s.LiveUpdates = make([]LiveUpdateView, 0, len(p.LiveUpdates))
	for _, u := range p.LiveUpdates {
		s.LiveUpdates = append(s.LiveUpdates, LiveUpdateView{
			ID:             u.ID,
			Message:        u.Message,
			Severity:       u.Severity,
			Timestamp:      u.Timestamp,
			TimestampLabel: FormatTimestamp(u.Timestamp),
		})
	}

	s.Assets = make([]AssetView, 0, len(p.Assets))
	for _, a := range p.Assets {
		s.Assets = append(s.Assets, AssetView{
			AssetFile: a,
			SizeLabel: FormatFileSize(a.Size),
			Download:  AssetDownload(a),
		})
	}

	return s
}

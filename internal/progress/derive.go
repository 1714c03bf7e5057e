package progress

import (
	"math"
	"sort"

	"clientportal/internal/model"
)

// BreakdownPlaceholder is shown instead of a hidden installment breakdown.
const BreakdownPlaceholder = "Breakdown will be available after the due date or when payment is completed"

// OverallProgress is the unweighted mean of the three channel percentages.
func OverallProgress(p *model.ProjectProgress) float64 {
	c := p.Progress
	return float64(c.Frontend.Percentage+c.Backend.Percentage+c.SEO.Percentage) / 3
}

// RoundHalfUp rounds to the nearest integer, halves going up.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CurrentMilestoneIndex returns the position of the first incomplete
// milestone. ok is false when every milestone is complete.
func CurrentMilestoneIndex(milestones []model.Milestone) (idx int, ok bool) {
	for i, m := range milestones {
		if !m.Completed {
			return i, true
		}
	}
	return 0, false
}

type MilestoneStatus string

const (
	MilestoneCompleted MilestoneStatus = "completed"
	MilestoneCurrent   MilestoneStatus = "current"
	MilestoneUpcoming  MilestoneStatus = "upcoming"
)

// MilestoneStatuses classifies milestones by position and completion only.
// Dates are never consulted.
func MilestoneStatuses(milestones []model.Milestone) []MilestoneStatus {
	current, hasCurrent := CurrentMilestoneIndex(milestones)
	out := make([]MilestoneStatus, len(milestones))
	for i, m := range milestones {
		switch {
		case m.Completed:
			out[i] = MilestoneCompleted
		case hasCurrent && i == current:
			out[i] = MilestoneCurrent
		default:
			out[i] = MilestoneUpcoming
		}
	}
	return out
}

// TimelineFraction is how far along the milestone timeline the project is:
// the current index over the milestone count, 1 when all are complete.
func TimelineFraction(milestones []model.Milestone) float64 {
	if len(milestones) == 0 {
		return 0
	}
	idx, ok := CurrentMilestoneIndex(milestones)
	if !ok {
		return 1
	}
	return float64(idx) / float64(len(milestones))
}

// SortDeliverables returns a copy ordered completed first, then premium
// first within each group. Equal items keep their input order.
func SortDeliverables(deliverables []model.Deliverable) []model.Deliverable {
	out := make([]model.Deliverable, len(deliverables))
	copy(out, deliverables)
	sort.SliceStable(out, func(i, j int) bool {
		return deliverableRank(out[i]) < deliverableRank(out[j])
	})
	return out
}

func deliverableRank(d model.Deliverable) int {
	rank := 0
	if !d.Completed {
		rank += 2
	}
	if !d.Premium {
		rank++
	}
	return rank
}

type DeliverableCounts struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Premium   int `json:"premium"`
}

func CountDeliverables(deliverables []model.Deliverable) DeliverableCounts {
	c := DeliverableCounts{Total: len(deliverables)}
	for _, d := range deliverables {
		if d.Completed {
			c.Completed++
		}
		if d.Premium {
			c.Premium++
		}
	}
	return c
}

// PaidFraction is paid over total, and 0 when the total is 0.
func PaidFraction(pt model.PaymentTracking) float64 {
	if pt.TotalAmount == 0 {
		return 0
	}
	return pt.PaidAmount / pt.TotalAmount
}

func PaidPercent(pt model.PaymentTracking) int {
	return RoundHalfUp(PaidFraction(pt) * 100)
}

type BreakdownDeliverableView struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	AmountLabel string  `json:"amount_label"`
	Free        bool    `json:"free"`
}

type BreakdownItemView struct {
	ID            string                     `json:"id"`
	Description   string                     `json:"description"`
	Status        model.PaymentStatus        `json:"status"`
	Amount        float64                    `json:"amount"`
	AmountLabel   string                     `json:"amount_label"`
	DateLabel     string                     `json:"date_label"`
	Visible       bool                       `json:"visible"`
	Deliverables  []BreakdownDeliverableView `json:"deliverables,omitempty"`
	PayableAmount float64                    `json:"payable_amount,omitempty"`
	Placeholder   string                     `json:"placeholder,omitempty"`
	DueLabel      string                     `json:"due_label,omitempty"`
}

// BreakdownView renders one installment. The sub-deliverables are only
// revealed when the item's flag is set; the due date in the placeholder
// text is informational.
func BreakdownView(item model.PaymentBreakdownItem, currency string) BreakdownItemView {
	v := BreakdownItemView{
		ID:          item.ID,
		Description: item.Description,
		Status:      item.Status,
		Amount:      item.Amount,
		AmountLabel: FormatAmount(item.Amount, currency),
		DateLabel:   FormatShortDate(item.Date),
		Visible:     item.ShowBreakdown,
	}

	if !item.ShowBreakdown {
		v.Placeholder = BreakdownPlaceholder
		v.DueLabel = "Due: " + FormatShortDate(item.Date)
		return v
	}

	v.Deliverables = make([]BreakdownDeliverableView, 0, len(item.Deliverables))
	for _, d := range item.Deliverables {
		label := FormatAmount(d.Amount, currency)
		if d.Free {
			label += " (Free)"
		} else {
			v.PayableAmount += d.Amount
		}
		v.Deliverables = append(v.Deliverables, BreakdownDeliverableView{
			Name:        d.Name,
			Amount:      d.Amount,
			AmountLabel: label,
			Free:        d.Free,
		})
	}
	return v
}

type Download struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// AssetDownload resolves the url and suggested filename for an asset.
func AssetDownload(a model.AssetFile) Download {
	return Download{URL: a.URL, Filename: a.Name}
}

// FindAsset looks up an asset by id.
func FindAsset(p *model.ProjectProgress, assetID string) (model.AssetFile, bool) {
	for _, a := range p.Assets {
		if a.ID == assetID {
			return a, true
		}
	}
	return model.AssetFile{}, false
}

func AssetDownloads(p *model.ProjectProgress) []Download {
	out := make([]Download, 0, len(p.Assets))
	for _, a := range p.Assets {
		out = append(out, AssetDownload(a))
	}
	return out
}

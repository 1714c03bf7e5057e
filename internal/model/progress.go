package model

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
	PaymentOverdue PaymentStatus = "overdue"
)

// Channel names one of the three tracked work streams.
type Channel string

const (
	ChannelFrontend Channel = "frontend"
	ChannelBackend  Channel = "backend"
	ChannelSEO      Channel = "seo"
)

type Deliverable struct {
	Name      string `json:"name" yaml:"name"`
	Completed bool   `json:"completed" yaml:"completed"`
	Premium   bool   `json:"premium" yaml:"premium"`
}

type Milestone struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`
	Completed bool      `json:"completed" yaml:"completed"`
	Color     string    `json:"color" yaml:"color"`
}

type BreakdownDeliverable struct {
	Name   string  `json:"name" yaml:"name"`
	Amount float64 `json:"amount" yaml:"amount"`
	Free   bool    `json:"free" yaml:"free"`
}

type PaymentBreakdownItem struct {
	ID            string                 `json:"id" yaml:"id"`
	Date          time.Time              `json:"date" yaml:"date"`
	Amount        float64                `json:"amount" yaml:"amount"`
	Description   string                 `json:"description" yaml:"description"`
	Status        PaymentStatus          `json:"status" yaml:"status"`
	ShowBreakdown bool                   `json:"show_breakdown" yaml:"show_breakdown"`
	Deliverables  []BreakdownDeliverable `json:"deliverables,omitempty" yaml:"deliverables"`
}

type PaymentTracking struct {
	TotalAmount float64                `json:"total_amount" yaml:"total_amount"`
	PaidAmount  float64                `json:"paid_amount" yaml:"paid_amount"`
	Currency    string                 `json:"currency" yaml:"currency"`
	Breakdown   []PaymentBreakdownItem `json:"breakdown" yaml:"breakdown"`
}

type LiveUpdate struct {
	ID        string    `json:"id" yaml:"id"`
	Message   string    `json:"message" yaml:"message"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Severity  Severity  `json:"severity" yaml:"severity"`
}

type SpecialRequest struct {
	ID            string        `json:"id" yaml:"id"`
	Request       string        `json:"request" yaml:"request"`
	Status        string        `json:"status" yaml:"status"` // pending, in-progress, completed
	Service       string        `json:"service,omitempty" yaml:"service"`
	Amount        string        `json:"amount,omitempty" yaml:"amount"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty" yaml:"payment_status"`
	CreatedAt     time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" yaml:"updated_at"`
}

type Credential struct {
	SiteTitle string `json:"site_title" yaml:"site_title"`
	SiteURL   string `json:"site_url" yaml:"site_url"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
}

type AssetFile struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	URL        string    `json:"url" yaml:"url"`
	Type       string    `json:"type" yaml:"type"` // image, svg, pdf, txt, other
	Size       int64     `json:"size" yaml:"size"`
	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
}

type CompletionServiceItem struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type ProgressItem struct {
	Name       string `json:"name" yaml:"name"`
	Percentage int    `json:"percentage" yaml:"percentage"`
	Color      string `json:"color" yaml:"color"`
}

type Channels struct {
	Frontend ProgressItem `json:"frontend" yaml:"frontend"`
	Backend  ProgressItem `json:"backend" yaml:"backend"`
	SEO      ProgressItem `json:"seo" yaml:"seo"`
}

// Item returns the entry for channel, or nil for an unknown channel.
func (c *Channels) Item(channel Channel) *ProgressItem {
	switch channel {
	case ChannelFrontend:
		return &c.Frontend
	case ChannelBackend:
		return &c.Backend
	case ChannelSEO:
		return &c.SEO
	}
	return nil
}

// Message is a banner shown at the top of the dashboard.
type Message struct {
	Message   string `json:"message" yaml:"message"`
	Type      string `json:"type" yaml:"type"` // info, success, warning, error
	TimeLimit bool   `json:"time_limit" yaml:"time_limit"`
}

type ProjectDetails struct {
	Domain             string `json:"domain" yaml:"domain"`
	DomainProvider     string `json:"domain_provider" yaml:"domain_provider"`
	AdminDashboardLink string `json:"admin_dashboard_link" yaml:"admin_dashboard_link"`
}

type SitePreview struct {
	ThumbnailURL string `json:"thumbnail_url" yaml:"thumbnail_url"`
	LiveURL      string `json:"live_url,omitempty" yaml:"live_url"`
	StoreURL     string `json:"store_url,omitempty" yaml:"store_url"`
	Enabled      bool   `json:"enabled" yaml:"enabled"`
}

// ProjectProgress is the full tracked state of one client's project.
type ProjectProgress struct {
	ClientID           string                  `json:"client_id" yaml:"client_id"`
	Deliverables       []Deliverable           `json:"deliverables" yaml:"deliverables"`
	Milestones         []Milestone             `json:"milestones" yaml:"milestones"`
	Payment            PaymentTracking         `json:"payment" yaml:"payment"`
	LiveUpdates        []LiveUpdate            `json:"live_updates" yaml:"live_updates"`
	SpecialRequests    []SpecialRequest        `json:"special_requests" yaml:"special_requests"`
	Credentials        []Credential            `json:"credentials" yaml:"credentials"`
	Assets             []AssetFile             `json:"assets" yaml:"assets"`
	NoAssets           bool                    `json:"no_assets" yaml:"no_assets"`
	CompletionServices []CompletionServiceItem `json:"completion_services" yaml:"completion_services"`
	Progress           Channels                `json:"progress" yaml:"progress"`
	Messages           []Message               `json:"messages" yaml:"messages"`
	ProjectDetails     ProjectDetails          `json:"project_details" yaml:"project_details"`
	SitePreview        SitePreview             `json:"site_preview" yaml:"site_preview"`
	LastUpdated        time.Time               `json:"last_updated" yaml:"last_updated"`
}

// Clone returns a deep copy.
func (p *ProjectProgress) Clone() *ProjectProgress {
	if p == nil {
		return nil
	}

	out := *p
	out.Deliverables = cloneSlice(p.Deliverables)
	out.Milestones = cloneSlice(p.Milestones)
	out.LiveUpdates = cloneSlice(p.LiveUpdates)
	out.SpecialRequests = cloneSlice(p.SpecialRequests)
	out.Credentials = cloneSlice(p.Credentials)
	out.Assets = cloneSlice(p.Assets)
	out.CompletionServices = cloneSlice(p.CompletionServices)
	out.Messages = cloneSlice(p.Messages)

	out.Payment.Breakdown = make([]PaymentBreakdownItem, len(p.Payment.Breakdown))
	for i, item := range p.Payment.Breakdown {
		item.Deliverables = cloneSlice(item.Deliverables)
		out.Payment.Breakdown[i] = item
	}
	if p.Payment.Breakdown == nil {
		out.Payment.Breakdown = nil
	}

	return &out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

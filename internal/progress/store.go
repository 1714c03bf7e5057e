// Package progress owns the in-memory project progress records and the
// pure derivations the dashboards render from them.
package progress

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clientportal/internal/model"
	"clientportal/pkg/metrics"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownChannel  = errors.New("unknown progress channel")
	ErrInvalidSeverity = errors.New("invalid severity")
)

// Store holds one ProjectProgress per client. Readers get deep copies; all
// changes go through the mutators so LastUpdated stays consistent.
type Store struct {
	mu      sync.RWMutex
	records map[string]*model.ProjectProgress
	now     func() time.Time
	newID   func() string
	logger  *zap.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func NewStore(records []*model.ProjectProgress, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		records: make(map[string]*model.ProjectProgress, len(records)),
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, r := range records {
		s.records[r.ClientID] = r.Clone()
	}
	return s
}

// Get returns a snapshot of the client's record.
func (s *Store) Get(clientID string) (*model.ProjectProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[clientID]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Has reports whether the client has a progress record.
func (s *Store) Has(clientID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[clientID]
	return ok
}

// SetDeliverableCompleted flags the first deliverable named name.
func (s *Store) SetDeliverableCompleted(clientID, name string, completed bool) error {
	return s.mutate("set_deliverable", clientID, func(p *model.ProjectProgress) error {
		for i := range p.Deliverables {
			if p.Deliverables[i].Name == name {
				p.Deliverables[i].Completed = completed
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) SetMilestoneCompleted(clientID, milestoneID string, completed bool) error {
	return s.mutate("set_milestone", clientID, func(p *model.ProjectProgress) error {
		for i := range p.Milestones {
			if p.Milestones[i].ID == milestoneID {
				p.Milestones[i].Completed = completed
				return nil
			}
		}
		return ErrNotFound
	})
}

// AppendLiveUpdate puts a new entry at the front of the feed.
func (s *Store) AppendLiveUpdate(clientID, message string, severity model.Severity) (model.LiveUpdate, error) {
	if !severity.Valid() {
		metrics.IncrementStoreMutation("append_live_update", "invalid")
		return model.LiveUpdate{}, ErrInvalidSeverity
	}

	var out model.LiveUpdate
	err := s.mutate("append_live_update", clientID, func(p *model.ProjectProgress) error {
		out = model.LiveUpdate{
			ID:        "update-" + s.newID(),
			Message:   message,
			Timestamp: s.now(),
			Severity:  severity,
		}
		p.LiveUpdates = append([]model.LiveUpdate{out}, p.LiveUpdates...)
		return nil
	})
	return out, err
}

// SetProgressPercentage stores pct clamped to [0, 100].
func (s *Store) SetProgressPercentage(clientID string, channel model.Channel, pct int) error {
	var probe model.Channels
	if probe.Item(channel) == nil {
		metrics.IncrementStoreMutation("set_percentage", "invalid")
		return ErrUnknownChannel
	}

	return s.mutate("set_percentage", clientID, func(p *model.ProjectProgress) error {
		p.Progress.Item(channel).Percentage = clamp(pct, 0, 100)
		return nil
	})
}

type SpecialRequestInput struct {
	Request       string              `json:"request"`
	Status        string              `json:"status"`
	Service       string              `json:"service"`
	Amount        string              `json:"amount"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
}

func (s *Store) AppendSpecialRequest(clientID string, in SpecialRequestInput) (model.SpecialRequest, error) {
	var out model.SpecialRequest
	err := s.mutate("append_special_request", clientID, func(p *model.ProjectProgress) error {
		now := s.now()
		status := in.Status
		if status == "" {
			status = "pending"
		}
		out = model.SpecialRequest{
			ID:            "req-" + s.newID(),
			Request:       in.Request,
			Status:        status,
			Service:       in.Service,
			Amount:        in.Amount,
			PaymentStatus: in.PaymentStatus,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		p.SpecialRequests = append(p.SpecialRequests, out)
		return nil
	})
	return out, err
}

type AssetInput struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

func (s *Store) AppendAsset(clientID string, in AssetInput) (model.AssetFile, error) {
	var out model.AssetFile
	err := s.mutate("append_asset", clientID, func(p *model.ProjectProgress) error {
		assetType := in.Type
		if assetType == "" {
			assetType = "other"
		}
		out = model.AssetFile{
			ID:         "asset-" + s.newID(),
			Name:       in.Name,
			URL:        in.URL,
			Type:       assetType,
			Size:       in.Size,
			UploadedAt: s.now(),
		}
		p.Assets = append(p.Assets, out)
		p.NoAssets = false
		return nil
	})
	return out, err
}

// mutate runs fn on the live record under the write lock and stamps
// LastUpdated only when fn succeeds.
func (s *Store) mutate(op, clientID string, fn func(p *model.ProjectProgress) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[clientID]
	if !ok {
		metrics.IncrementStoreMutation(op, "not_found")
		return ErrNotFound
	}

	if err := fn(p); err != nil {
		metrics.IncrementStoreMutation(op, "not_found")
		s.logger.Debug("Progress mutation matched nothing",
			zap.String("operation", op),
			zap.String("client_id", clientID),
		)
		return err
	}

	p.LastUpdated = s.now()
	metrics.IncrementStoreMutation(op, "applied")
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

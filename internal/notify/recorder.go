package notify

import (
	"context"
	"time"
)

// Submission statuses.
const (
	StatusSent      = "sent"
	StatusQueued    = "queued"
	StatusFailed    = "failed"
	StatusDuplicate = "duplicate"
)

// Submission is one delivery attempt as written to the submission log.
type Submission struct {
	ID          string
	Kind        string
	ClientID    string
	TemplateID  string
	Status      string
	ErrorReason string
	CreatedAt   time.Time
}

// SubmissionRecorder persists delivery attempts. Failures are logged by the
// caller and never fail the submission.
type SubmissionRecorder interface {
	Record(ctx context.Context, s Submission) error
}

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Submission) error { return nil }

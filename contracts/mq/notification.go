package mq

import "time"

const RoutingKeyNotificationRequested = "notification.requested"

// Submission kinds.
const (
	KindChangeRequest        = "change_request"
	KindProposalConfirmation = "proposal_confirmation"
)

// NotificationRequestedPayload asks the worker to deliver one templated email.
type NotificationRequestedPayload struct {
	SubmissionID string         `json:"submission_id"`
	Kind         string         `json:"kind"`
	ClientID     string         `json:"client_id"`
	ServiceID    string         `json:"service_id"`
	TemplateID   string         `json:"template_id"`
	Params       map[string]any `json:"params"`
	RequestedAt  time.Time      `json:"requested_at"`
}

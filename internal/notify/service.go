// Package notify forwards client change requests and proposal
// confirmations to the templated email provider.
package notify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	contractmq "clientportal/contracts/mq"
	"clientportal/internal/model"
	"clientportal/internal/progress"
	"clientportal/internal/proposal"
	"clientportal/pkg/logger"
	"clientportal/pkg/metrics"
	"clientportal/pkg/util"
)

var (
	// ErrSubmissionFailed is deliberately generic; the user may simply retry.
	ErrSubmissionFailed    = errors.New("submission failed, please try again")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrInvalidSubmission   = errors.New("message is required")
	ErrInvalidAmount       = errors.New("price must be non-negative and discount between 0 and 100")
)

const (
	ChangeRequestSubject    = "Client Change Request"
	ChangeRequestAppliedMsg = "Change request submitted successfully"
)

// LiveUpdater is the slice of the progress store the service writes to.
type LiveUpdater interface {
	AppendLiveUpdate(clientID, message string, severity model.Severity) (model.LiveUpdate, error)
}

type Config struct {
	TeamName              string
	ServiceID             string
	ChangeRequestTemplate string
	ProposalTemplate      string
}

type Service struct {
	cfg      Config
	sender   Sender
	updates  LiveUpdater
	deduper  util.Deduper
	recorder SubmissionRecorder
	logger   *zap.Logger
	newID    func() string
	now      func() time.Time
}

func NewService(cfg Config, sender Sender, updates LiveUpdater, deduper util.Deduper, recorder SubmissionRecorder, logger *zap.Logger) *Service {
	if cfg.TeamName == "" {
		cfg.TeamName = "Aaida Corp Team"
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Service{
		cfg:      cfg,
		sender:   sender,
		updates:  updates,
		deduper:  deduper,
		recorder: recorder,
		logger:   logger,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// ChangeRequest is the change request form. Empty identity fields default
// to the logged-in account.
type ChangeRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// Confirmation is the proposal confirmation form.
type Confirmation struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Company       string  `json:"company"`
	Type          string  `json:"type"`
	Price         float64 `json:"price"`
	Discount      float64 `json:"discount"`
	CustomMessage string  `json:"custom_message"`
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
}

// SubmitChangeRequest sends the request to the team. On success a live
// update is appended for clients with a progress record; on failure
// nothing is changed.
func (s *Service) SubmitChangeRequest(ctx context.Context, account *model.ClientAccount, req ChangeRequest) (Receipt, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Receipt{}, ErrInvalidSubmission
	}
	req.Name = orDefault(req.Name, account.Name)
	req.Email = orDefault(req.Email, account.Email)
	req.Company = orDefault(req.Company, account.Company)

	email := Email{
		Kind:       contractmq.KindChangeRequest,
		ClientID:   account.ID,
		ServiceID:  s.cfg.ServiceID,
		TemplateID: s.cfg.ChangeRequestTemplate,
		Params: map[string]any{
			"to_name":      s.cfg.TeamName,
			"from_name":    req.Name,
			"from_email":   req.Email,
			"from_company": req.Company,
			"message":      req.Message,
			"client_id":    account.ID,
			"subject":      ChangeRequestSubject,
		},
	}

	receipt, err := s.submit(ctx, email, req.Message)
	if err != nil {
		return receipt, err
	}

	if _, err := s.updates.AppendLiveUpdate(account.ID, ChangeRequestAppliedMsg, model.SeveritySuccess); err != nil && !errors.Is(err, progress.ErrNotFound) {
		logger.WithTrace(ctx, s.logger).Warn("Failed to append live update",
			zap.String("client_id", account.ID),
			zap.Error(err),
		)
	}
	return receipt, nil
}

// ConfirmProposal sends the proposal confirmation email to the client.
func (s *Service) ConfirmProposal(ctx context.Context, account *model.ClientAccount, c Confirmation) (Receipt, error) {
	if err := ValidateAmounts(c.Price, c.Discount); err != nil {
		return Receipt{}, err
	}
	c.Name = orDefault(c.Name, account.Name)
	c.Email = orDefault(c.Email, account.Email)
	c.Company = orDefault(c.Company, account.Company)

	final := proposal.FinalPrice(c.Price, c.Discount)
	email := Email{
		Kind:       contractmq.KindProposalConfirmation,
		ClientID:   account.ID,
		ServiceID:  s.cfg.ServiceID,
		TemplateID: s.cfg.ProposalTemplate,
		Params: map[string]any{
			"to_name":        c.Name,
			"to_email":       c.Email,
			"to_company":     c.Company,
			"type":           c.Type,
			"original_price": progress.FormatAmount(c.Price, "INR"),
			"discount":       c.Discount,
			"final_price":    progress.FormatAmount(final, "INR"),
			"from_name":      s.cfg.TeamName,
			"custom_message": c.CustomMessage,
			"message":        ConfirmationMessage(c),
		},
	}

	return s.submit(ctx, email, fmt.Sprintf("%s|%.2f|%.2f|%s", c.Type, c.Price, c.Discount, c.CustomMessage))
}

// ValidateAmounts rejects prices and discounts that would produce a negative
// or non-finite final price.
func ValidateAmounts(price, discount float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return ErrInvalidAmount
	}
	if math.IsNaN(discount) || discount < 0 || discount > 100 {
		return ErrInvalidAmount
	}
	return nil
}

// ConfirmationMessage is the body of the proposal confirmation email.
func ConfirmationMessage(c Confirmation) string {
	msg := fmt.Sprintf("Dear %s from %s, thank you for confirming your project proposal. We will contact you shortly to discuss next steps.", c.Name, c.Company)
	if c.CustomMessage != "" {
		msg += "\n\nAdditional Message: " + c.CustomMessage
	}
	return msg
}

func (s *Service) submit(ctx context.Context, email Email, content string) (Receipt, error) {
	log := logger.WithTrace(ctx, s.logger)
	email.SubmissionID = s.newID()

	key := dedupeKey(email.Kind, email.ClientID, content)
	if s.deduper != nil && !s.deduper.AcquireOnce(ctx, key) {
		metrics.IncrementNotification(email.Kind, StatusDuplicate)
		s.record(ctx, email, StatusDuplicate, "")
		return Receipt{}, ErrDuplicateSubmission
	}

	if err := s.sender.Send(ctx, email); err != nil {
		if s.deduper != nil {
			s.deduper.Release(ctx, key)
		}
		reason := util.ClassifyError(err)
		metrics.IncrementNotification(email.Kind, StatusFailed)
		s.record(ctx, email, StatusFailed, reason)
		log.Error("Submission failed",
			zap.String("kind", email.Kind),
			zap.String("client_id", email.ClientID),
			zap.String("submission_id", email.SubmissionID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return Receipt{}, ErrSubmissionFailed
	}

	status := StatusSent
	if q, ok := s.sender.(Queueing); ok && q.QueuesDelivery() {
		status = StatusQueued
	}
	metrics.IncrementNotification(email.Kind, status)
	s.record(ctx, email, status, "")

	log.Info("Submission accepted",
		zap.String("kind", email.Kind),
		zap.String("client_id", email.ClientID),
		zap.String("submission_id", email.SubmissionID),
		zap.String("status", status),
	)
	return Receipt{SubmissionID: email.SubmissionID, Status: status}, nil
}

func (s *Service) record(ctx context.Context, email Email, status, reason string) {
	err := s.recorder.Record(ctx, Submission{
		ID:          email.SubmissionID,
		Kind:        email.Kind,
		ClientID:    email.ClientID,
		TemplateID:  email.TemplateID,
		Status:      status,
		ErrorReason: reason,
		CreatedAt:   s.now(),
	})
	if err != nil {
		logger.WithTrace(ctx, s.logger).Warn("Failed to record submission",
			zap.String("submission_id", email.SubmissionID),
			zap.Error(err),
		)
	}
}

func dedupeKey(kind, clientID, content string) string {
	sum := sha256.Sum256([]byte(content))
	return kind + ":" + clientID + ":" + hex.EncodeToString(sum[:8])
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

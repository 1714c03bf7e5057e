package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"clientportal/pkg/circuitbreaker"
	"clientportal/pkg/logger"
	"clientportal/pkg/metrics"
	"clientportal/pkg/otel"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

type EmailJSConfig struct {
	Endpoint    string
	PublicKey   string
	AccessToken string
	Timeout     time.Duration
}

// EmailJSClient posts templated emails to the EmailJS REST API. Every call
// goes through a circuit breaker.
type EmailJSClient struct {
	httpClient  *http.Client
	endpoint    string
	publicKey   string
	accessToken string
	breaker     *circuitbreaker.CircuitBreaker
	logger      *zap.Logger
}

func NewEmailJSClient(cfg EmailJSConfig, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *EmailJSClient {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEmailJSEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker("emailjs", circuitbreaker.DefaultConfig())
	}

	return &EmailJSClient{
		httpClient:  &http.Client{Timeout: timeout},
		endpoint:    endpoint,
		publicKey:   cfg.PublicKey,
		accessToken: cfg.AccessToken,
		breaker:     breaker,
		logger:      logger,
	}
}

type emailJSRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams map[string]any `json:"template_params"`
	AccessToken    string         `json:"accessToken,omitempty"`
}

func (c *EmailJSClient) Send(ctx context.Context, email Email) error {
	ctx, span := otel.StartSpan(ctx, "emailjs.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("emailjs.template_id", email.TemplateID),
			attribute.String("portal.submission_id", email.SubmissionID),
		),
	)

	start := time.Now()
	err := c.breaker.Execute(func() error {
		return c.post(ctx, email)
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordEmailCallLatency(email.TemplateID, status, time.Since(start))

	if err != nil {
		logger.WithTrace(ctx, c.logger).Warn("EmailJS call failed",
			zap.String("template_id", email.TemplateID),
			zap.String("client_id", email.ClientID),
			zap.String("breaker_state", c.breaker.GetState().String()),
			zap.Error(err),
		)
	}
	otel.EndSpan(span, err)
	return err
}

func (c *EmailJSClient) post(ctx context.Context, email Email) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      email.ServiceID,
		TemplateID:     email.TemplateID,
		UserID:         c.publicKey,
		TemplateParams: email.Params,
		AccessToken:    c.accessToken,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call email provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

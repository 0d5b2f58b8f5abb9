package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mobilvask/internal/config"
	"mobilvask/internal/models"

	"github.com/rs/zerolog"
)

// SendError is a non-2xx reply from the mail API.
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("emailjs: status %d: %s", e.StatusCode, e.Body)
}

// EmailJSClient dispatches bookings through the EmailJS REST API.
// The template on the EmailJS side turns the payload into the
// notification mail sent to the business.
type EmailJSClient struct {
	baseURL    string
	serviceID  string
	templateID string
	publicKey  string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewEmailJSClient(cfg config.EmailConfig, logger *zerolog.Logger) *EmailJSClient {
	return &EmailJSClient{
		baseURL:    cfg.BaseURL,
		serviceID:  cfg.ServiceID,
		templateID: cfg.TemplateID,
		publicKey:  cfg.PublicKey,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

type emailJSRequest struct {
	ServiceID      string                     `json:"service_id"`
	TemplateID     string                     `json:"template_id"`
	UserID         string                     `json:"user_id"`
	TemplateParams models.NotificationPayload `json:"template_params"`
}

// Send performs a single outbound call. A non-2xx status comes back as a
// *SendError; transport failures come back as the underlying error.
func (c *EmailJSClient) Send(ctx context.Context, payload models.NotificationPayload) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      c.serviceID,
		TemplateID:     c.templateID,
		UserID:         c.publicKey,
		TemplateParams: payload,
	})
	if err != nil {
		return fmt.Errorf("encode email request: %w", err)
	}

	url := c.baseURL + "/api/v1.0/email/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// EmailJS replies with a short plain-text reason.
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		sendErr := &SendError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
		c.logger.Error().Int("status", resp.StatusCode).Str("reference", payload.BookingReference).Msg("email dispatch rejected")
		return sendErr
	}

	c.logger.Info().Str("reference", payload.BookingReference).Msg("email dispatched")
	return nil
}

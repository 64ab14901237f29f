package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type EmailClient interface {
	Send(ctx context.Context, msg *PostmarkMessage) error
}

type postmarkClient struct {
	baseURL     string
	serverToken string
	client      *http.Client
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewPostmarkClient(baseURL, serverToken string, v *validator.Validate, logger zerolog.Logger) EmailClient {
	return &postmarkClient{
		baseURL:     baseURL,
		serverToken: serverToken,
		client:      &http.Client{},
		validate:    v,
		logger:      logger.With().Str("service", "PostmarkClient").Logger(),
	}
}

// PostmarkMessage is the JSON body for Postmark's send-email endpoint.
type PostmarkMessage struct {
	From          string               `json:"From" validate:"required,email"`
	To            string               `json:"To" validate:"required,email"`
	Subject       string               `json:"Subject" validate:"required"`
	TextBody      string               `json:"TextBody" validate:"required"`
	MessageStream string               `json:"MessageStream" validate:"required"`
	Attachments   []PostmarkAttachment `json:"Attachments" validate:"required,min=1,dive"`
}

type PostmarkAttachment struct {
	Name        string `json:"Name" validate:"required"`
	Content     string `json:"Content" validate:"required"`
	ContentType string `json:"ContentType" validate:"required"`
}

// Send submits one email. The response is logged either way; there is no retry.
func (c *postmarkClient) Send(ctx context.Context, msg *PostmarkMessage) error {
	if err := c.validate.Struct(msg); err != nil {
		return fmt.Errorf("validating outbound message: %w", err)
	}

	jsonBody, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling outbound message: %w", err)
	}

	url := fmt.Sprintf("%s/email", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("making request to Postmark: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		c.logger.Warn().Err(readErr).Int("status_code", resp.StatusCode).Msg("Failed to read Postmark response body")
		bodyBytes = nil
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("response_body", string(bodyBytes)).
			Msg("Postmark returned error")
		return fmt.Errorf("postmark returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	c.logger.Info().
		Int("status_code", resp.StatusCode).
		Str("response_body", string(bodyBytes)).
		Msg("Email submitted to Postmark")

	return nil
}

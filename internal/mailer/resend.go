package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Amadorfl72/mentorhub/config"
)

const (
	resendEndpoint = "https://api.resend.com/emails"
	resendTimeout  = 10 * time.Second
)

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	apiKey     string
	sender     string
	endpoint   string
	httpClient *http.Client
}

// NewResendClient constructs a Resend client from config.
func NewResendClient(cfg config.MailConfig) (*ResendClient, error) {
	if strings.TrimSpace(cfg.ResendAPIKey) == "" {
		return nil, errors.New("resend api key is required")
	}
	if strings.TrimSpace(cfg.Sender) == "" {
		return nil, errors.New("mail sender is required")
	}

	return &ResendClient{
		apiKey:   cfg.ResendAPIKey,
		sender:   cfg.Sender,
		endpoint: resendEndpoint,
		httpClient: &http.Client{
			Timeout: resendTimeout,
		},
	}, nil
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send delivers one email through the Resend API.
func (c *ResendClient) Send(ctx context.Context, to []string, subject, html string) (string, error) {
	if len(to) == 0 {
		return "", errors.New("at least one recipient is required")
	}

	body, err := json.Marshal(resendPayload{
		From:    c.sender,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("resend rejected request: %d %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.ID, nil
}

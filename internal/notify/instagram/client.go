package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gramkart/gramkart-backend/pkg/config"
	pkgerrors "github.com/gramkart/gramkart-backend/pkg/errors"
	"github.com/gramkart/gramkart-backend/pkg/retry"
)

// Client sends direct messages through the Instagram Graph API. One request
// per send; the retry policy defaults to a single attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     retry.Policy
}

type messageRequest struct {
	Recipient recipient `json:"recipient"`
	Message   message   `json:"message"`
}

type recipient struct {
	ID string `json:"id"`
}

type message struct {
	Text string `json:"text"`
}

// NewClient builds a Graph API client from configuration.
func NewClient(cfg config.InstagramConfig) *Client {
	return &Client{
		baseURL:    cfg.GraphBaseURL,
		httpClient: &http.Client{Timeout: cfg.SendTimeout},
		policy:     retry.Policy{Attempts: cfg.SendAttempts},
	}
}

// SendText delivers a text DM to the recipient through the tenant's
// messaging account.
func (c *Client) SendText(ctx context.Context, accountID, accessToken, recipientID, text string) error {
	if accessToken == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "instagram access token required")
	}
	if recipientID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}

	body, err := json.Marshal(messageRequest{
		Recipient: recipient{ID: recipientID},
		Message:   message{Text: text},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode dm payload")
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, accountID)

	return c.policy.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build dm request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send dm")
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return pkgerrors.New(pkgerrors.CodeDependency,
				fmt.Sprintf("graph api status %d: %s", resp.StatusCode, string(excerpt)))
		}
		return nil
	})
}

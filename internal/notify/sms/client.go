package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gramkart/gramkart-backend/pkg/config"
	pkgerrors "github.com/gramkart/gramkart-backend/pkg/errors"
	"github.com/gramkart/gramkart-backend/pkg/retry"
)

// Client talks to the transactional SMS gateway's flow API.
type Client struct {
	baseURL       string
	authKey       string
	templateID    string
	senderID      string
	countryPrefix string
	httpClient    *http.Client
	policy        retry.Policy
}

type flowRequest struct {
	TemplateID string          `json:"template_id"`
	Sender     string          `json:"sender,omitempty"`
	ShortURL   string          `json:"short_url"`
	Recipients []flowRecipient `json:"recipients"`
}

type flowRecipient struct {
	Mobiles string `json:"mobiles"`
	Var1    string `json:"var1"`
	Var2    string `json:"var2"`
	Var3    string `json:"var3"`
	Var4    string `json:"var4"`
	Var5    string `json:"var5"`
	Var6    string `json:"var6"`
	Var7    string `json:"var7"`
}

// NewClient builds a gateway client from configuration.
func NewClient(cfg config.SMSConfig) *Client {
	return &Client{
		baseURL:       cfg.BaseURL,
		authKey:       cfg.AuthKey,
		templateID:    cfg.TemplateID,
		senderID:      cfg.SenderID,
		countryPrefix: cfg.CountryPrefix,
		httpClient:    &http.Client{Timeout: cfg.SendTimeout},
		policy:        retry.Policy{Attempts: cfg.SendAttempts},
	}
}

// SendOrderConfirmation fires the order-confirmation flow template at the
// given phone number. The number is normalized to include the country prefix.
func (c *Client) SendOrderConfirmation(ctx context.Context, phone string, vars TemplateVars) error {
	if c.authKey == "" || c.templateID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sms gateway not configured")
	}
	mobile := c.normalize(phone)
	if mobile == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid phone number")
	}

	body, err := json.Marshal(flowRequest{
		TemplateID: c.templateID,
		Sender:     c.senderID,
		ShortURL:   "0",
		Recipients: []flowRecipient{{
			Mobiles: mobile,
			Var1:    vars.MerchantName,
			Var2:    vars.ItemsPart1,
			Var3:    vars.ItemsPart2,
			Var4:    vars.Amount,
			Var5:    vars.AddressLine1,
			Var6:    vars.AddressLine2,
			Var7:    vars.AddressLine3,
		}},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode sms payload")
	}

	return c.policy.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build sms request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("authkey", c.authKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send sms")
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return pkgerrors.New(pkgerrors.CodeDependency,
				fmt.Sprintf("sms gateway status %d: %s", resp.StatusCode, string(excerpt)))
		}
		return nil
	})
}

func (c *Client) normalize(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	// Trunk zeros are dialing syntax, not part of the subscriber number.
	digits = strings.TrimLeft(digits, "0")
	if len(digits) < 10 {
		return ""
	}
	if !strings.HasPrefix(digits, c.countryPrefix) || len(digits) == 10 {
		digits = c.countryPrefix + digits
	}
	return digits
}

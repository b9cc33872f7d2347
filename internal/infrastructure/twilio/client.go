// Package twilio wraps the Twilio Verify REST API: originate an SMS
// challenge to a phone number and check a submitted code against it.
package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/otp-verify-api/internal/config"
	"github.com/otp-verify-api/internal/domain"
)

// statusApproved is the only check status treated as success; "pending",
// "canceled" and anything else is a rejection.
const statusApproved = "approved"

// Client calls the Verify API with service-account Basic auth.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	accountSID       string
	authToken        string
	verifyServiceSID string
}

// verifyResponse is the subset of the Verify API payload we read. Message is
// populated on error responses.
type verifyResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioVerifyServiceSID == "" {
		return nil, errors.New("twilio credentials are not configured")
	}
	return &Client{
		httpClient:       &http.Client{Timeout: 10 * time.Second},
		baseURL:          strings.TrimSuffix(cfg.TwilioBaseURL, "/"),
		accountSID:       cfg.TwilioAccountSID,
		authToken:        cfg.TwilioAuthToken,
		verifyServiceSID: cfg.TwilioVerifyServiceSID,
	}, nil
}

// Start originates an SMS challenge to the phone. Any non-2xx response is a
// hard failure carrying the provider's own message.
func (c *Client) Start(ctx context.Context, phone string) (*domain.Challenge, error) {
	form := url.Values{
		"To":      {phone},
		"Channel": {"sms"},
	}
	resp, err := c.post(ctx, fmt.Sprintf("%s/Services/%s/Verifications", c.baseURL, c.verifyServiceSID), form)
	if err != nil {
		return nil, fmt.Errorf("twilio service error: %w", err)
	}
	return &domain.Challenge{ProviderRef: resp.SID}, nil
}

// Check submits a code for the phone's active challenge. A status other
// than "approved" is a rejection (wrong code, expired at the provider),
// reported as (false, nil); transport and API errors carry the provider's
// message so the caller can ledger and surface it.
func (c *Client) Check(ctx context.Context, phone, code, _ string) (bool, error) {
	form := url.Values{
		"To":   {phone},
		"Code": {code},
	}
	resp, err := c.post(ctx, fmt.Sprintf("%s/Services/%s/VerificationCheck", c.baseURL, c.verifyServiceSID), form)
	if err != nil {
		return false, err
	}
	return resp.Status == statusApproved, nil
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values) (*verifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var body verifyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode twilio response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		msg := body.Message
		if msg == "" {
			msg = fmt.Sprintf("twilio error %d", httpResp.StatusCode)
		}
		return nil, errors.New(msg)
	}
	return &body, nil
}

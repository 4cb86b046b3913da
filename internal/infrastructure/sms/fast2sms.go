// Package sms holds the raw SMS transports the delivery adapter wraps.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.fast2sms.com/dev/bulkV2"

// Fast2SMS request/response structures
type fast2SMSResponse struct {
	Return     bool            `json:"return"`
	RequestID  string          `json:"request_id"`
	Message    json.RawMessage `json:"message"`
	StatusCode int             `json:"status_code"`
}

// Fast2SMSTransport sends codes through the Fast2SMS bulk API.
type Fast2SMSTransport struct {
	baseURL string
	apiKey  string
	route   string
	client  *http.Client
}

type Options struct {
	BaseURL string
	APIKey  string
	Route   string
	// Timeout bounds the outbound call; past it the send is treated as
	// a transport failure.
	Timeout time.Duration
}

func NewFast2SMS(opts Options) *Fast2SMSTransport {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Route == "" {
		opts.Route = "otp"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Fast2SMSTransport{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		route:   opts.Route,
		client:  &http.Client{Timeout: opts.Timeout},
	}
}

func (t *Fast2SMSTransport) Name() string { return "fast2sms" }

func (t *Fast2SMSTransport) Configured() bool { return t.apiKey != "" }

// Send posts the message to the provider. A non-2xx status or a
// response with return=false (e.g. insufficient balance) comes back as a
// *domain.ProviderError via providerError so callers can tell structured
// provider failures apart from failed calls.
func (t *Fast2SMSTransport) Send(ctx context.Context, phone, message string) error {
	form := url.Values{}
	form.Set("route", t.route)
	form.Set("numbers", phone)
	form.Set("variables_values", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build fast2sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("fast2sms call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read fast2sms response: %w", err)
	}

	var parsed fast2SMSResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return fmt.Errorf("decode fast2sms response: %w", err)
		}
		return providerError(t.Name(), fmt.Sprintf("HTTP_%d", resp.StatusCode), strings.TrimSpace(string(body)))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.Return {
		return providerError(t.Name(), fmt.Sprintf("HTTP_%d", resp.StatusCode), providerDetail(parsed.Message))
	}
	return nil
}

// providerDetail flattens the message field, which the API returns
// either as a string or as a list of strings.
func providerDetail(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "provider rejected the request"
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, "; ")
	}
	return string(raw)
}

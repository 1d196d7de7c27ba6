package email

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"contact-relay/config"
	"contact-relay/internal/domain"

	json "github.com/goccy/go-json"
)

// maxDetailBytes bounds how much of a provider error body is surfaced.
const maxDetailBytes = 500

// MailerSendClient sends email through the MailerSend transactional API.
type MailerSendClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewMailerSendClient builds a client from configuration. A zero timeout
// leaves the transport default in place.
func NewMailerSendClient(cfg *config.Config) *MailerSendClient {
	endpoint := cfg.MailerSendEndpoint
	if endpoint == "" {
		endpoint = config.DefaultMailerSendEndpoint
	}
	return &MailerSendClient{
		apiKey:   cfg.MailerSendAPIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.ProviderTimeout},
	}
}

// WithHTTPClient swaps the underlying client, e.g. for a custom transport.
func (c *MailerSendClient) WithHTTPClient(hc *http.Client) *MailerSendClient {
	c.client = hc
	return c
}

// IsConfigured reports whether an API key is present.
func (c *MailerSendClient) IsConfigured() bool {
	return c.apiKey != ""
}

type sendPayload struct {
	From    domain.Address   `json:"from"`
	To      []domain.Address `json:"to"`
	ReplyTo domain.Address   `json:"reply_to"`
	Subject string           `json:"subject"`
	HTML    string           `json:"html"`
	Text    string           `json:"text"`
}

type errorBody struct {
	Message string `json:"message"`
}

// ProviderError is returned when MailerSend answers with a non-2xx status
// or cannot be reached (StatusCode 0).
type ProviderError struct {
	StatusCode int
	Message    string
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("mailersend: request failed: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("mailersend: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mailersend: status %d", e.StatusCode)
}

func (e *ProviderError) Unwrap() []error {
	if e.Err != nil {
		return []error{domain.ErrProviderRejected, e.Err}
	}
	return []error{domain.ErrProviderRejected}
}

// Send posts one message. There is exactly one attempt.
func (c *MailerSendClient) Send(ctx context.Context, req domain.DeliveryRequest) error {
	if !c.IsConfigured() {
		return domain.ErrNotConfigured
	}

	body, err := json.Marshal(sendPayload{
		From:    req.From,
		To:      req.To,
		ReplyTo: req.ReplyTo,
		Subject: req.Subject,
		HTML:    req.Body.HTML,
		Text:    req.Body.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode mailersend payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mailersend request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	perr := &ProviderError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(raw)), maxDetailBytes)}
	var parsed errorBody
	if json.Unmarshal(raw, &parsed) == nil {
		perr.Message = strings.TrimSpace(parsed.Message)
	}
	return perr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back off to a rune boundary
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

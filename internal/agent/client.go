// Package agent provides the conversational backends: an HTTP client for
// the hosted agent platform and an in-process agent that answers with the
// grocery tools directly.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Compile-time interface check.
var _ domain.AgentBackend = (*Client)(nil)

// ── Wire types ───────────────────────────────────────────────────

// textMessage is one input message of a generate request.
type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// generateRequest is the body sent to the generate endpoint.
type generateRequest struct {
	Messages      []textMessage `json:"messages"`
	Navigate      bool          `json:"navigate"`
	SkillOverride []string      `json:"skillOverride"`
	SessionID     string        `json:"sessionId,omitempty"`
}

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithChannel sets the deployment channel (default "production").
func WithChannel(channel string) ClientOption {
	return func(c *Client) { c.channel = channel }
}

// WithHTTPTimeout sets the per-attempt HTTP timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRetry sets how many times a failed request is retried and the
// first retry interval. Zero retries disables retrying.
func WithRetry(maxRetries uint64, initial time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryInterval = initial
	}
}

// Client talks to the hosted agent platform's generate endpoint.
type Client struct {
	baseURL       string
	apiKey        string
	agentID       string
	channel       string
	maxRetries    uint64
	retryInterval time.Duration
	http          *http.Client
	log           *logger.Logger
}

// NewClient creates an agent platform client.
//   - baseURL: API root, e.g. "https://api.heylua.ai"
//   - apiKey:  sent as Bearer token and API key headers
//   - agentID: the deployed agent to talk to
func NewClient(baseURL, apiKey, agentID string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		agentID:       agentID,
		channel:       "production",
		maxRetries:    3,
		retryInterval: 500 * time.Millisecond,
		http:          &http.Client{Timeout: 60 * time.Second},
		log:           log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/chat/generate/%s?channel=%s",
		c.baseURL, url.PathEscape(c.agentID), url.QueryEscape(c.channel))
}

// Send posts one user message and returns the agent's reply. Network
// errors and 5xx responses are retried with exponential backoff; other
// failures are returned at once. All errors wrap domain.ErrAgentUnavailable.
func (c *Client) Send(ctx context.Context, message, sessionID string) (*domain.AgentResponse, error) {
	body, err := json.Marshal(generateRequest{
		Messages:      []textMessage{{Type: "text", Text: message}},
		SkillOverride: []string{},
		SessionID:     sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: marshal request: %w", err)
	}

	var raw []byte
	attempt := 0
	operation := func() error {
		attempt++
		raw, err = c.post(ctx, body)
		if err != nil {
			c.log.Debug("agent: attempt %d failed: %v", attempt, err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAgentUnavailable, err)
	}

	resp, err := decodeResponse(raw, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAgentUnavailable, err)
	}
	c.log.Debug("agent: reply (%d chars): %s", len(resp.Message), truncate(resp.Message, 120))
	return resp, nil
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("X-API-Key", c.apiKey)
		req.Header.Set("x-lua-api-key", c.apiKey)
	}

	c.log.Debug("agent: POST %s (%d bytes)", c.endpoint(), len(body))

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("API %s: %s", resp.Status, truncate(string(respBody), 200))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, backoff.Permanent(fmt.Errorf("API %s: %s", resp.Status, truncate(string(respBody), 200)))
	}
	return respBody, nil
}

// decodeResponse unwraps an outer data envelope, rejects error payloads and
// picks the reply text from whichever field carries it.
func decodeResponse(raw []byte, sessionID string) (*domain.AgentResponse, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if m, ok := payload.(map[string]any); ok {
		if inner, ok := m["data"].(map[string]any); ok {
			payload = inner
		}
	}

	if s, ok := payload.(string); ok {
		return &domain.AgentResponse{Message: s, SessionID: sessionID, Data: payload}, nil
	}

	m, _ := payload.(map[string]any)
	if t, _ := m["type"].(string); t == "error" {
		msg := firstString(m, "textDelta", "error")
		if msg == "" {
			msg = "something went wrong, please try again later"
		}
		return nil, errors.New(msg)
	}

	resp := &domain.AgentResponse{
		Message:   firstString(m, "text", "textDelta", "message", "response", "content"),
		SessionID: sessionID,
		Data:      payload,
	}
	if sid := firstString(m, "sessionId"); sid != "" {
		resp.SessionID = sid
	}
	if resp.Message == "" {
		resp.Message = "No response received"
	}
	return resp, nil
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

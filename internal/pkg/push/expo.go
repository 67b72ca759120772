// Package push delivers mobile push notifications through the Expo
// push gateway. Delivery is best effort; failures are logged, never
// surfaced to the caller's request path.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultEndpoint = "https://exp.host/--/api/v2/push/send"

// Message is a single push notification addressed to one device token.
type Message struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
	Sound string                 `json:"sound,omitempty"`
}

// Sender delivers push messages to devices.
type Sender interface {
	Send(ctx context.Context, msgs []Message) error
}

// Client talks to the Expo push HTTP API.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *slog.Logger
}

func NewClient(endpoint, accessToken string, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		token:    accessToken,
		http:     &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// Send posts a batch of messages to the gateway. Messages with an empty
// device token are dropped before sending.
func (c *Client) Send(ctx context.Context, msgs []Message) error {
	batch := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.To == "" {
			continue
		}
		if m.Sound == "" {
			m.Sound = "default"
		}
		batch = append(batch, m)
	}
	if len(batch) == 0 {
		return nil
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode push batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send push batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		c.logger.Error("push gateway rejected batch",
			slog.Int("status", resp.StatusCode),
			slog.String("body", buf.String()),
		)
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopSender discards all messages. Used when push is not configured.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, msgs []Message) error {
	return nil
}

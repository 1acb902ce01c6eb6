package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Discord sends messages through an incoming webhook.
type Discord struct {
	webhookURL string
	http       *http.Client
}

// NewDiscord builds a Discord sender for one webhook.
func NewDiscord(webhookURL string) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: sendTimeout},
	}
}

func (d *Discord) Name() string { return "discord" }

// Send posts the message as a webhook payload with the title bolded.
func (d *Discord) Send(ctx context.Context, title, message string) error {
	payload, err := json.Marshal(map[string]string{
		"content": "**" + title + "**\n" + message,
	})
	if err != nil {
		return fmt.Errorf("notify: marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify: discord send: %w", err)
	}
	defer resp.Body.Close()

	// Webhooks answer 204 on success.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("notify: discord status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}

var _ Sender = (*Discord)(nil)

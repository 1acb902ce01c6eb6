package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Telegram sends messages through the Bot API's sendMessage method.
type Telegram struct {
	botToken string
	chatID   string
	http     *http.Client
}

// NewTelegram builds a Telegram sender for one chat.
func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		http:     &http.Client{Timeout: sendTimeout},
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Send posts the title and message as one plain-text Telegram message.
func (t *Telegram) Send(ctx context.Context, title, message string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    title + "\n" + message,
	})
	if err != nil {
		return fmt.Errorf("notify: marshal telegram payload: %w", err)
	}

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notify: build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("notify: telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("notify: telegram status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}

var _ Sender = (*Telegram)(nil)

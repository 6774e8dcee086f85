// Package notify forwards alert events to an external webhook. With no
// URL configured the sink is a no-op and the rest of the service is
// unaffected.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pegwatch/stablecoin-monitor/internal/alert"
)

type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook sink. An empty url yields a sink whose
// Send always succeeds without doing anything.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a destination is configured.
func (w *Webhook) Enabled() bool {
	return w != nil && w.url != ""
}

// Send posts the alert as JSON to the configured webhook.
func (w *Webhook) Send(ctx context.Context, ev alert.Event) error {
	if !w.Enabled() {
		return nil
	}

	payload := map[string]any{
		"type":       ev.Type,
		"severity":   ev.Severity,
		"entity":     ev.Entity,
		"message":    ev.Message,
		"link":       ev.Link,
		"created_at": ev.CreatedAt.Format(time.RFC3339),
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, errResp.Error)
	}
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pegwatch/stablecoin-monitor/internal/alert"
)

func TestSendPostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	ev := alert.Event{
		Type:      alert.TypeDepeg,
		Severity:  alert.SeverityCritical,
		Entity:    "USDT",
		Message:   "USDT trading at $0.9300 (7.0% off peg)",
		CreatedAt: time.Now(),
	}
	if err := w.Send(context.Background(), ev); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got["type"] != "depeg" || got["entity"] != "USDT" {
		t.Errorf("payload = %v", got)
	}
}

func TestSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad channel"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	if err := w.Send(context.Background(), alert.Event{Type: alert.TypeStale}); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestUnconfiguredSinkIsNoop(t *testing.T) {
	w := NewWebhook("")
	if w.Enabled() {
		t.Error("empty URL should not be enabled")
	}
	if err := w.Send(context.Background(), alert.Event{}); err != nil {
		t.Errorf("Send on unconfigured sink: %v", err)
	}
}

package alert

import (
	"strings"
	"testing"
	"time"

	"github.com/pegwatch/stablecoin-monitor/internal/sources"
)

func TestDepegThresholds(t *testing.T) {
	tests := []struct {
		price        float64
		wantAlert    bool
		wantSeverity string
	}{
		{1.00, false, ""},
		{1.014, false, ""},
		{1.015, true, SeverityWarn},
		{0.985, true, SeverityWarn},
		{0.9851, false, ""},
		{1.05, true, SeverityCritical},
		{0.95, true, SeverityCritical},
		{1.06, true, SeverityCritical},
	}
	for _, tt := range tests {
		events := Derive(Input{
			Prices: map[string]sources.PricePoint{"USDX": {Price: tt.price}},
			Now:    time.Now(),
		})
		if tt.wantAlert {
			if len(events) != 1 {
				t.Errorf("price %v: got %d events, want 1", tt.price, len(events))
				continue
			}
			if events[0].Severity != tt.wantSeverity {
				t.Errorf("price %v: severity = %q, want %q", tt.price, events[0].Severity, tt.wantSeverity)
			}
		} else if len(events) != 0 {
			t.Errorf("price %v: got %d events, want 0", tt.price, len(events))
		}
	}
}

func TestDepegSixPercentDeviation(t *testing.T) {
	events := Derive(Input{
		Prices: map[string]sources.PricePoint{"USDX": {Price: 1.06}},
		Now:    time.Now(),
	})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Severity != SeverityCritical {
		t.Errorf("severity = %q, want critical", e.Severity)
	}
	if !strings.Contains(e.Message, "6.0%") {
		t.Errorf("message %q should report 6.0%% deviation", e.Message)
	}
}

func TestUnknownPriceNoAlert(t *testing.T) {
	events := Derive(Input{Prices: map[string]sources.PricePoint{}, Now: time.Now()})
	if len(events) != 0 {
		t.Errorf("got %d events, want 0 for unknown price", len(events))
	}
}

func TestRegulatoryBothPatternsRequired(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"SEC announces settlement with XYZ", true},
		{"SEC publishes annual report", false},
		{"Exchange faces lawsuit over fees", false},
		{"CFTC files charges against trading firm", true},
		{"DOJ consent order finalized", true},
		{"New York attorney general lawsuit targets issuer", true},
		{"Insider discusses settlement culture", false},
	}
	for _, tt := range tests {
		events := Derive(Input{
			News: []sources.NewsItem{{Source: "feed", Title: tt.title, Published: time.Now()}},
			Now:  time.Now(),
		})
		got := len(events) == 1
		if got != tt.want {
			t.Errorf("title %q: alert = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestStaleFeedRule(t *testing.T) {
	now := time.Now()
	events := Derive(Input{
		Feeds: []FeedAge{
			{Name: "prices", LastRefreshed: now.Add(-30 * time.Minute), MaxAge: 10 * time.Minute},
			{Name: "news", LastRefreshed: now.Add(-5 * time.Minute), MaxAge: time.Hour},
			{Name: "never-fetched", MaxAge: time.Minute},
		},
		Now: now,
	})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != TypeStale || events[0].Entity != "prices" {
		t.Errorf("event = %+v, want stale alert for prices", events[0])
	}
}

func TestSeveritySortedBeforeTruncation(t *testing.T) {
	// Flood of warn-level regulatory items plus one critical depeg.
	news := make([]sources.NewsItem, 30)
	for i := range news {
		news[i] = sources.NewsItem{Source: "feed", Title: "SEC announces settlement with firm", Published: time.Now()}
	}
	events := Derive(Input{
		Prices: map[string]sources.PricePoint{"USDX": {Price: 0.90}},
		News:   news,
		Now:    time.Now(),
	})
	if len(events) != 20 {
		t.Fatalf("got %d events, want capped 20", len(events))
	}
	if events[0].Type != TypeDepeg || events[0].Severity != SeverityCritical {
		t.Errorf("first event = %+v, want the critical depeg", events[0])
	}
}

func TestEventKeyStable(t *testing.T) {
	e := Event{Type: TypeDepeg, Severity: SeverityCritical, Entity: "USDT"}
	if e.Key() != "alert:depeg:USDT:critical" {
		t.Errorf("Key() = %q", e.Key())
	}
}

// Package alert derives alert events from the current cached snapshots.
// Derivation is stateless: every pass looks only at the inputs it is
// handed, so the same snapshots always yield the same events.
package alert

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pegwatch/stablecoin-monitor/internal/metrics"
	"github.com/pegwatch/stablecoin-monitor/internal/sources"
)

// Alert types.
const (
	TypeDepeg      = "depeg"
	TypeStale      = "stale"
	TypeRegulatory = "regulatory"
)

// Severities, lowest to highest.
const (
	SeverityInfo     = "info"
	SeverityWarn     = "warn"
	SeverityCritical = "critical"
)

const (
	depegWarnThreshold     = 0.015
	depegCriticalThreshold = 0.05
	maxAlerts              = 20
)

// Event is one derived alert.
type Event struct {
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Entity    string    `json:"entity"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Key identifies an event for de-duplication. Two passes deriving the same
// condition produce the same key.
func (e Event) Key() string {
	return fmt.Sprintf("alert:%s:%s:%s", e.Type, e.Entity, e.Severity)
}

// FeedAge describes a tracked feed for the stale rule.
type FeedAge struct {
	Name          string
	LastRefreshed time.Time
	MaxAge        time.Duration
}

// Input carries everything one derivation pass reads.
type Input struct {
	Prices map[string]sources.PricePoint
	News   []sources.NewsItem
	Feeds  []FeedAge
	Now    time.Time
}

var (
	enforcementRe = regexp.MustCompile(`enforcement|settlement|charge|lawsuit|penalty|consent order`)
	regulatorRe   = regexp.MustCompile(`\bsec\b|\bcftc\b|\bdoj\b|attorney general`)
)

// Derive runs every rule over the input and returns at most maxAlerts
// events, sorted by severity (critical first) then recency, so a flood of
// informational items can never crowd out a critical one.
func Derive(in Input) []Event {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	var events []Event
	events = append(events, depegAlerts(in.Prices, now)...)
	events = append(events, regulatoryAlerts(in.News, now)...)
	events = append(events, staleAlerts(in.Feeds, now)...)

	for _, e := range events {
		metrics.AlertsDerivedTotal.WithLabelValues(e.Type, e.Severity).Inc()
	}

	sort.SliceStable(events, func(i, j int) bool {
		ri, rj := severityRank(events[i].Severity), severityRank(events[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if len(events) > maxAlerts {
		events = events[:maxAlerts]
	}
	return events
}

// depegAlerts fires when a known price deviates from the $1 peg by 1.5%
// (warn) or 5% (critical). Unknown prices never alert.
func depegAlerts(prices map[string]sources.PricePoint, now time.Time) []Event {
	symbols := make([]string, 0, len(prices))
	for sym := range prices {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var out []Event
	for _, sym := range symbols {
		p := prices[sym]
		deviation := math.Abs(1 - p.Price)
		if deviation < depegWarnThreshold {
			continue
		}
		severity := SeverityWarn
		if deviation >= depegCriticalThreshold {
			severity = SeverityCritical
		}
		out = append(out, Event{
			Type:     TypeDepeg,
			Severity: severity,
			Entity:   sym,
			Message: fmt.Sprintf("%s trading at $%.4f (%.1f%% off peg)",
				sym, p.Price, deviation*100),
			CreatedAt: now,
		})
	}
	return out
}

// regulatoryAlerts fires when a headline contains enforcement vocabulary
// AND names a regulator. One pattern alone never alerts.
func regulatoryAlerts(news []sources.NewsItem, now time.Time) []Event {
	var out []Event
	for _, item := range news {
		title := strings.ToLower(item.Title)
		if !enforcementRe.MatchString(title) || !regulatorRe.MatchString(title) {
			continue
		}
		out = append(out, Event{
			Type:      TypeRegulatory,
			Severity:  SeverityWarn,
			Entity:    item.Source,
			Message:   item.Title,
			Link:      item.Link,
			CreatedAt: now,
		})
	}
	return out
}

// staleAlerts fires when a tracked feed's last successful refresh is older
// than its own threshold.
func staleAlerts(feeds []FeedAge, now time.Time) []Event {
	var out []Event
	for _, f := range feeds {
		if f.LastRefreshed.IsZero() {
			continue
		}
		age := now.Sub(f.LastRefreshed)
		if age <= f.MaxAge {
			continue
		}
		out = append(out, Event{
			Type:     TypeStale,
			Severity: SeverityWarn,
			Entity:   f.Name,
			Message: fmt.Sprintf("%s feed has not refreshed for %s (limit %s)",
				f.Name, age.Round(time.Minute), f.MaxAge),
			CreatedAt: now,
		})
	}
	return out
}

func severityRank(s string) int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarn:
		return 1
	default:
		return 0
	}
}

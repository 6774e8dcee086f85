// Package service is the core of the monitor: it owns the cache keys,
// plugs the source adapters in as producers, enriches registry records
// with scores and live prices, and derives alerts from the current
// snapshots. The HTTP layer is a thin caller of this package.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pegwatch/stablecoin-monitor/internal/alert"
	"github.com/pegwatch/stablecoin-monitor/internal/cache"
	"github.com/pegwatch/stablecoin-monitor/internal/metrics"
	"github.com/pegwatch/stablecoin-monitor/internal/registry"
	"github.com/pegwatch/stablecoin-monitor/internal/scoring"
	"github.com/pegwatch/stablecoin-monitor/internal/sources"
)

// ErrNotFound marks a lookup of an unknown entity, as opposed to an
// upstream being unavailable.
var ErrNotFound = errors.New("not found")

// Cache keys and their freshness windows.
const (
	keyPrices = "prices"
	keyYields = "yields"
	keyNews   = "news"
	keyMacro  = "macro"

	ttlPrices = 2 * time.Minute
	ttlYields = 10 * time.Minute
	ttlNews   = 10 * time.Minute
	ttlMacro  = 12 * time.Hour
	ttlChain  = time.Hour
)

// Stale-feed alert thresholds, per feed type. Distinct from the TTLs:
// a feed is stale when refreshes keep failing well past its TTL.
const (
	stalePrices = 15 * time.Minute
	staleYields = time.Hour
	staleNews   = 2 * time.Hour
)

type Service struct {
	cache  *cache.Store
	src    *sources.Client
	logger *slog.Logger
}

func New(c *cache.Store, src *sources.Client, logger *slog.Logger) *Service {
	return &Service{cache: c, src: src, logger: logger}
}

// ScoredStablecoin is a registry record enriched per request.
type ScoredStablecoin struct {
	registry.Stablecoin
	Price      *float64 `json:"price,omitempty"`
	Confidence string   `json:"confidence,omitempty"`
	Score      float64  `json:"score"`
}

// StablecoinDetail is the single-symbol view.
type StablecoinDetail struct {
	ScoredStablecoin
	Breakdown scoring.Breakdown   `json:"breakdown"`
	TopPools  []sources.YieldPool `json:"top_pools"`
}

// ScoredPlatform is a platform record enriched per request.
type ScoredPlatform struct {
	registry.Platform
	Score float64 `json:"score"`
}

func (s *Service) prices(ctx context.Context) (map[string]sources.PricePoint, error) {
	symbols := make([]string, 0)
	for _, sc := range registry.Stablecoins() {
		symbols = append(symbols, sc.Symbol)
	}
	return cache.GetOrRefresh(ctx, s.cache, keyPrices, ttlPrices,
		func(ctx context.Context) (map[string]sources.PricePoint, error) {
			got, err := s.src.Prices(ctx, symbols)
			if err != nil {
				return nil, err
			}
			for sym, p := range got {
				metrics.StablecoinPrice.WithLabelValues(sym).Set(p.Price)
			}
			return got, nil
		})
}

func (s *Service) pools(ctx context.Context) ([]sources.YieldPool, error) {
	return cache.GetOrRefresh(ctx, s.cache, keyYields, ttlYields,
		func(ctx context.Context) ([]sources.YieldPool, error) {
			got, err := s.src.YieldPools(ctx)
			if err != nil {
				return nil, err
			}
			metrics.YieldPoolCount.Set(float64(len(got)))
			return got, nil
		})
}

func (s *Service) news(ctx context.Context) ([]sources.NewsItem, error) {
	return cache.GetOrRefresh(ctx, s.cache, keyNews, ttlNews,
		func(ctx context.Context) ([]sources.NewsItem, error) {
			return s.src.News(ctx)
		})
}

func (s *Service) macro(ctx context.Context) (sources.Macro, error) {
	return cache.GetOrRefresh(ctx, s.cache, keyMacro, ttlMacro,
		func(ctx context.Context) (sources.Macro, error) {
			return s.src.MacroSnapshot(ctx)
		})
}

// Stablecoins returns every registry record with its score and, when the
// price feed is reachable, its live price. Price enrichment degrades
// gracefully: a dead price feed does not take the registry down with it.
func (s *Service) Stablecoins(ctx context.Context) []ScoredStablecoin {
	prices, err := s.prices(ctx)
	if err != nil {
		s.logger.Warn("price enrichment unavailable", "error", err)
	}

	recs := registry.Stablecoins()
	out := make([]ScoredStablecoin, 0, len(recs))
	for _, sc := range recs {
		row := ScoredStablecoin{Stablecoin: sc, Score: scoring.StablecoinScore(sc)}
		if p, ok := prices[sc.Symbol]; ok {
			price := p.Price
			row.Price = &price
			row.Confidence = p.Confidence
		}
		metrics.StablecoinScore.WithLabelValues(sc.Symbol).Set(row.Score)
		out = append(out, row)
	}
	return out
}

// Stablecoin returns the detail view for one symbol: record, score
// breakdown, and the top yield pools naming the symbol.
func (s *Service) Stablecoin(ctx context.Context, symbol string) (StablecoinDetail, error) {
	symbol = strings.ToUpper(symbol)
	sc, ok := registry.StablecoinBySymbol(symbol)
	if !ok {
		return StablecoinDetail{}, fmt.Errorf("stablecoin %s: %w", symbol, ErrNotFound)
	}

	detail := StablecoinDetail{
		ScoredStablecoin: ScoredStablecoin{Stablecoin: sc, Score: scoring.StablecoinScore(sc)},
		Breakdown:        scoring.StablecoinBreakdown(sc),
	}

	if prices, err := s.prices(ctx); err == nil {
		if p, ok := prices[symbol]; ok {
			price := p.Price
			detail.Price = &price
			detail.Confidence = p.Confidence
		}
	}

	if pools, err := s.pools(ctx); err == nil {
		detail.TopPools = topPoolsFor(pools, symbol, 5)
	} else {
		s.logger.Warn("pool enrichment unavailable", "symbol", symbol, "error", err)
	}
	return detail, nil
}

// PlatformFilter narrows the platform listing.
type PlatformFilter struct {
	Type     string
	Region   string
	MinScore float64
}

// Platforms returns scored platform records matching the filter.
func (s *Service) Platforms(_ context.Context, f PlatformFilter) []ScoredPlatform {
	var out []ScoredPlatform
	for _, p := range registry.Platforms() {
		if f.Type != "" && !strings.EqualFold(p.Type, f.Type) {
			continue
		}
		if f.Region != "" && !strings.EqualFold(p.Region, f.Region) {
			continue
		}
		score := scoring.PlatformScore(p)
		if score < f.MinScore {
			continue
		}
		out = append(out, ScoredPlatform{Platform: p, Score: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// YieldFilter narrows and orders the pool listing.
type YieldFilter struct {
	Symbol string
	Chain  string
	SortBy string // apy | tvl
	Order  string // asc | desc
	Limit  int
}

// Yields filters the cached pool catalog. The adapter never filters; all
// of this happens on the snapshot.
func (s *Service) Yields(ctx context.Context, f YieldFilter) ([]sources.YieldPool, error) {
	pools, err := s.pools(ctx)
	if err != nil {
		return nil, err
	}

	var out []sources.YieldPool
	for _, p := range pools {
		if f.Symbol != "" && !strings.Contains(strings.ToUpper(p.Symbol), strings.ToUpper(f.Symbol)) {
			continue
		}
		if f.Chain != "" && !strings.EqualFold(p.Chain, f.Chain) {
			continue
		}
		out = append(out, p)
	}

	desc := f.Order != "asc"
	key := func(p sources.YieldPool) float64 {
		if f.SortBy == "tvl" {
			return deref(p.TVLUsd)
		}
		return deref(p.APY)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// News returns the merged cached headline snapshot.
func (s *Service) News(ctx context.Context) ([]sources.NewsItem, error) {
	return s.news(ctx)
}

// Macro returns the cached macro snapshot.
func (s *Service) Macro(ctx context.Context) (sources.Macro, error) {
	return s.macro(ctx)
}

// ChainSeries returns the cached circulating-supply series for a chain.
func (s *Service) ChainSeries(ctx context.Context, chain string) ([]sources.ChainSample, error) {
	return cache.GetOrRefresh(ctx, s.cache, "chain:"+chain, ttlChain,
		func(ctx context.Context) ([]sources.ChainSample, error) {
			return s.src.ChainSeries(ctx, chain)
		})
}

// Alerts derives alert events from the current snapshots. Sources that are
// unavailable contribute nothing rather than failing the pass.
func (s *Service) Alerts(ctx context.Context) []alert.Event {
	prices, err := s.prices(ctx)
	if err != nil {
		s.logger.Warn("alert pass without prices", "error", err)
	}
	news, err := s.news(ctx)
	if err != nil {
		s.logger.Warn("alert pass without news", "error", err)
	}

	return alert.Derive(alert.Input{
		Prices: prices,
		News:   news,
		Feeds:  s.feedAges(),
		Now:    time.Now(),
	})
}

func (s *Service) feedAges() []alert.FeedAge {
	feeds := []struct {
		key    string
		maxAge time.Duration
	}{
		{keyPrices, stalePrices},
		{keyYields, staleYields},
		{keyNews, staleNews},
	}
	out := make([]alert.FeedAge, 0, len(feeds))
	for _, f := range feeds {
		last, _ := s.cache.LastRefreshed(f.key)
		out = append(out, alert.FeedAge{Name: f.key, LastRefreshed: last, MaxAge: f.maxAge})
	}
	return out
}

// Overview is the aggregate metrics payload.
type Overview struct {
	ScoreDistribution map[string]int `json:"score_distribution"`
	ChainCounts       map[string]int `json:"chain_counts"`
	TopScored         []TopEntry     `json:"top_scored"`
	Totals            Totals         `json:"totals"`
}

type TopEntry struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

type Totals struct {
	Stablecoins int `json:"stablecoins"`
	Platforms   int `json:"platforms"`
	Pools       int `json:"pools"`
	NewsItems   int `json:"news_items"`
}

// Metrics aggregates the current snapshots into the overview payload.
func (s *Service) Metrics(ctx context.Context) Overview {
	coins := s.Stablecoins(ctx)

	dist := map[string]int{"low": 0, "medium": 0, "high": 0}
	top := make([]TopEntry, 0, len(coins))
	for _, c := range coins {
		switch {
		case c.Score < 4:
			dist["low"]++
		case c.Score < 7:
			dist["medium"]++
		default:
			dist["high"]++
		}
		top = append(top, TopEntry{Symbol: c.Symbol, Score: c.Score})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > 5 {
		top = top[:5]
	}

	chains := make(map[string]int)
	poolCount := 0
	if pools, err := s.pools(ctx); err == nil {
		poolCount = len(pools)
		for _, p := range pools {
			chains[p.Chain]++
		}
	}

	newsCount := 0
	if news, err := s.news(ctx); err == nil {
		newsCount = len(news)
	}

	return Overview{
		ScoreDistribution: dist,
		ChainCounts:       chains,
		TopScored:         top,
		Totals: Totals{
			Stablecoins: len(coins),
			Platforms:   len(registry.Platforms()),
			Pools:       poolCount,
			NewsItems:   newsCount,
		},
	}
}

// Warmup fetches the main snapshots concurrently. Partial failure is fine;
// whatever failed stays cold and is retried on first use.
func (s *Service) Warmup(ctx context.Context) {
	var wg sync.WaitGroup
	for name, fn := range map[string]func(context.Context) error{
		"prices": func(ctx context.Context) error { _, err := s.prices(ctx); return err },
		"yields": func(ctx context.Context) error { _, err := s.pools(ctx); return err },
		"news":   func(ctx context.Context) error { _, err := s.news(ctx); return err },
		"macro":  func(ctx context.Context) error { _, err := s.macro(ctx); return err },
	} {
		wg.Add(1)
		go func(name string, fn func(context.Context) error) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				s.logger.Warn("warmup fetch failed", "snapshot", name, "error", err)
			}
		}(name, fn)
	}
	wg.Wait()
}

func topPoolsFor(pools []sources.YieldPool, symbol string, n int) []sources.YieldPool {
	var matched []sources.YieldPool
	for _, p := range pools {
		if strings.Contains(strings.ToUpper(p.Symbol), symbol) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return deref(matched[i].APY) > deref(matched[j].APY)
	})
	if len(matched) > n {
		matched = matched[:n]
	}
	return matched
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

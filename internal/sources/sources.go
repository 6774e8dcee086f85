// Package sources holds one adapter per upstream. Each adapter retrieves
// raw data through the resilient fetcher and normalizes it into the shapes
// the service layer consumes; adapters are plugged into the cache store as
// producers.
package sources

import (
	"log/slog"

	"github.com/pegwatch/stablecoin-monitor/internal/fetch"
)

const (
	coingeckoAPI     = "https://api.coingecko.com/api/v3/simple/price"
	cryptocompareAPI = "https://min-api.cryptocompare.com/data/pricemulti"
	llamaPoolsAPI    = "https://yields.llama.fi/pools"
	llamaChartsAPI   = "https://stablecoins.llama.fi/stablecoincharts"
	fredCSVAPI       = "https://fred.stlouisfed.org/graph/fredgraph.csv"
)

// Client bundles the adapters for every upstream.
type Client struct {
	f      *fetch.Client
	logger *slog.Logger

	coingeckoURL     string
	cryptocompareURL string
	poolsURL         string
	chartsURL        string
	fredURL          string
	feeds            []Feed
}

// Option overrides an upstream endpoint, for tests or self-hosted mirrors.
type Option func(*Client)

func WithPriceURLs(primary, secondary string) Option {
	return func(c *Client) {
		c.coingeckoURL = primary
		c.cryptocompareURL = secondary
	}
}

func WithPoolsURL(u string) Option {
	return func(c *Client) { c.poolsURL = u }
}

func WithChartsURL(u string) Option {
	return func(c *Client) { c.chartsURL = u }
}

func WithFredURL(u string) Option {
	return func(c *Client) { c.fredURL = u }
}

func WithFeeds(feeds []Feed) Option {
	return func(c *Client) { c.feeds = feeds }
}

func New(f *fetch.Client, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		f:                f,
		logger:           logger,
		coingeckoURL:     coingeckoAPI,
		cryptocompareURL: cryptocompareAPI,
		poolsURL:         llamaPoolsAPI,
		chartsURL:        llamaChartsAPI,
		fredURL:          fredCSVAPI,
		feeds:            defaultFeeds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

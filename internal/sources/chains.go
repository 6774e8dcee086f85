package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ChainSample is one point of a chain's stablecoin circulating series.
type ChainSample struct {
	Date           time.Time `json:"date"`
	CirculatingUSD float64   `json:"circulating_usd"`
}

// chainAliases lists the upstream names to try for each chain, in order.
// The catalog is inconsistent about casing and historical renames.
var chainAliases = map[string][]string{
	"Ethereum":  {"Ethereum", "ethereum"},
	"Tron":      {"Tron", "tron", "TRON"},
	"BSC":       {"BSC", "Binance", "bsc"},
	"Arbitrum":  {"Arbitrum", "arbitrum"},
	"Base":      {"Base", "base"},
	"Solana":    {"Solana", "solana"},
	"Polygon":   {"Polygon", "polygon"},
	"Avalanche": {"Avalanche", "avalanche"},
}

type chainChartPoint struct {
	Date            string `json:"date"`
	TotalCirculating struct {
		PeggedUSD float64 `json:"peggedUSD"`
	} `json:"totalCirculatingUSD"`
}

// ChainSeries fetches the circulating-supply series for a chain, trying
// each known alias until one returns a non-empty series. It errors only
// when every alias fails or comes back empty.
func (c *Client) ChainSeries(ctx context.Context, chain string) ([]ChainSample, error) {
	aliases, ok := chainAliases[chain]
	if !ok {
		aliases = []string{chain}
	}

	var lastErr error
	for _, alias := range aliases {
		u := fmt.Sprintf("%s/%s", c.chartsURL, url.PathEscape(alias))

		var raw []chainChartPoint
		if err := c.f.GetJSON(ctx, u, &raw); err != nil {
			lastErr = err
			continue
		}
		if len(raw) == 0 {
			lastErr = fmt.Errorf("empty series for alias %s", alias)
			continue
		}

		out := make([]ChainSample, 0, len(raw))
		for _, p := range raw {
			ts, err := strconv.ParseInt(p.Date, 10, 64)
			if err != nil {
				continue
			}
			out = append(out, ChainSample{
				Date:           time.Unix(ts, 0).UTC(),
				CirculatingUSD: p.TotalCirculating.PeggedUSD,
			})
		}
		if len(out) > 0 {
			return out, nil
		}
		lastErr = fmt.Errorf("no parsable samples for alias %s", alias)
	}
	return nil, fmt.Errorf("chain series %s: %w", chain, lastErr)
}

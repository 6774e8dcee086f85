package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// PricePoint is a normalized live price for one symbol.
type PricePoint struct {
	Price      float64 `json:"price"`
	Confidence string  `json:"confidence"`
}

// coingeckoIDs maps registry symbols to CoinGecko coin ids.
var coingeckoIDs = map[string]string{
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"DAI":   "dai",
	"PYUSD": "paypal-usd",
	"USDP":  "paxos-standard",
	"GUSD":  "gemini-dollar",
	"TUSD":  "true-usd",
	"FDUSD": "first-digital-usd",
	"FRAX":  "frax",
	"USDE":  "ethena-usde",
	"USDS":  "usds",
	"USDG":  "global-dollar",
}

// Prices fetches USD prices for the fixed symbol set. CoinGecko is the
// primary source; when every symbol comes back without a price the whole
// set is retried against CryptoCompare (all-or-nothing fallback, not
// per-symbol).
func (c *Client) Prices(ctx context.Context, symbols []string) (map[string]PricePoint, error) {
	out, err := c.coingeckoPrices(ctx, symbols)
	if err == nil && len(out) > 0 {
		return out, nil
	}
	if err != nil {
		c.logger.Warn("primary price source failed, trying fallback", "error", err)
	}
	return c.cryptocomparePrices(ctx, symbols)
}

func (c *Client) coingeckoPrices(ctx context.Context, symbols []string) (map[string]PricePoint, error) {
	ids := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if id, ok := coingeckoIDs[sym]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no coingecko ids for symbols %v", symbols)
	}

	u := fmt.Sprintf("%s?ids=%s&vs_currencies=usd", c.coingeckoURL, url.QueryEscape(strings.Join(ids, ",")))

	var raw map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := c.f.GetJSON(ctx, u, &raw); err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}

	out := make(map[string]PricePoint)
	for _, sym := range symbols {
		id := coingeckoIDs[sym]
		p, ok := raw[id]
		if !ok || p.USD == 0 {
			continue
		}
		out[sym] = PricePoint{Price: p.USD, Confidence: "high"}
	}
	return out, nil
}

func (c *Client) cryptocomparePrices(ctx context.Context, symbols []string) (map[string]PricePoint, error) {
	u := fmt.Sprintf("%s?fsyms=%s&tsyms=USD", c.cryptocompareURL, url.QueryEscape(strings.Join(symbols, ",")))

	var raw map[string]struct {
		USD float64 `json:"USD"`
	}
	if err := c.f.GetJSON(ctx, u, &raw); err != nil {
		return nil, fmt.Errorf("cryptocompare: %w", err)
	}

	out := make(map[string]PricePoint)
	for _, sym := range symbols {
		p, ok := raw[sym]
		if !ok || p.USD == 0 {
			continue
		}
		out[sym] = PricePoint{Price: p.USD, Confidence: "medium"}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no prices from either source for %v", symbols)
	}
	return out, nil
}

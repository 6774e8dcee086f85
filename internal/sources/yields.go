package sources

import (
	"context"
	"fmt"
)

// YieldPool is one row of the upstream pool catalog. APY and TVL are
// pointers because the catalog routinely omits them.
type YieldPool struct {
	Project string   `json:"project"`
	Chain   string   `json:"chain"`
	Symbol  string   `json:"symbol"`
	APY     *float64 `json:"apy"`
	TVLUsd  *float64 `json:"tvlUsd"`
	PoolID  string   `json:"pool"`
}

// YieldPools fetches the full pool catalog in one call. All filtering by
// symbol, chain, or score happens downstream on the cached snapshot.
func (c *Client) YieldPools(ctx context.Context) ([]YieldPool, error) {
	var raw struct {
		Status string      `json:"status"`
		Data   []YieldPool `json:"data"`
	}
	if err := c.f.GetJSON(ctx, c.poolsURL, &raw); err != nil {
		return nil, fmt.Errorf("pool catalog: %w", err)
	}
	if len(raw.Data) == 0 {
		return nil, fmt.Errorf("pool catalog: empty response")
	}
	return raw.Data, nil
}

package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

const (
	cpiSeries      = "CPIAUCSL"
	fedFundsSeries = "FEDFUNDS"
)

// Macro bundles the derived macro figures served alongside crypto data.
type Macro struct {
	CPIYoYPct    float64 `json:"cpi_yoy_pct"`
	FedFundsRate float64 `json:"fed_funds_rate"`
}

// MacroSnapshot fetches both macro series and derives the headline
// figures: CPI year-over-year percent change and the latest policy rate.
func (c *Client) MacroSnapshot(ctx context.Context) (Macro, error) {
	cpi, err := c.fredSeries(ctx, cpiSeries)
	if err != nil {
		return Macro{}, fmt.Errorf("cpi series: %w", err)
	}
	if len(cpi) < 13 {
		return Macro{}, fmt.Errorf("cpi series: %d samples, need 13 for yoy", len(cpi))
	}

	rates, err := c.fredSeries(ctx, fedFundsSeries)
	if err != nil {
		return Macro{}, fmt.Errorf("fed funds series: %w", err)
	}
	if len(rates) == 0 {
		return Macro{}, fmt.Errorf("fed funds series: empty")
	}

	latest := cpi[len(cpi)-1]
	yearAgo := cpi[len(cpi)-13]
	if yearAgo == 0 {
		return Macro{}, fmt.Errorf("cpi series: zero base sample")
	}

	return Macro{
		CPIYoYPct:    (latest/yearAgo - 1) * 100,
		FedFundsRate: rates[len(rates)-1],
	}, nil
}

// fredSeries fetches a FRED CSV series and returns its values in order,
// skipping the header row and any missing ('.') observations.
func (c *Client) fredSeries(ctx context.Context, id string) ([]float64, error) {
	body, err := c.f.Get(ctx, fmt.Sprintf("%s?id=%s", c.fredURL, id))
	if err != nil {
		return nil, err
	}

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var values []float64
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}

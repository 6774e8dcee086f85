package sources

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pegwatch/stablecoin-monitor/internal/fetch"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	return New(fetch.New(1, time.Millisecond), slog.Default())
}

func TestPricesPrimary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tether":{"usd":0.999},"usd-coin":{"usd":1.001}}`))
	}))
	defer primary.Close()

	c := testClient(t)
	c.coingeckoURL = primary.URL

	got, err := c.Prices(context.Background(), []string{"USDT", "USDC"})
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if got["USDT"].Price != 0.999 || got["USDT"].Confidence != "high" {
		t.Errorf("USDT = %+v", got["USDT"])
	}
	if got["USDC"].Price != 1.001 {
		t.Errorf("USDC = %+v", got["USDC"])
	}
}

func TestPricesFallbackWhenAllNull(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Primary answers but resolves no price for any symbol.
		w.Write([]byte(`{"tether":{"usd":0},"usd-coin":{}}`))
	}))
	defer primary.Close()

	var fallbackCalled bool
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackCalled = true
		w.Write([]byte(`{"USDT":{"USD":1.0005},"USDC":{"USD":0.9998}}`))
	}))
	defer secondary.Close()

	c := testClient(t)
	c.coingeckoURL = primary.URL
	c.cryptocompareURL = secondary.URL

	got, err := c.Prices(context.Background(), []string{"USDT", "USDC"})
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if !fallbackCalled {
		t.Error("fallback source was not queried")
	}
	if got["USDT"].Price != 1.0005 || got["USDT"].Confidence != "medium" {
		t.Errorf("USDT = %+v", got["USDT"])
	}
}

func TestPricesNoFallbackWhenSomeResolve(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// One symbol resolves: fallback must not run (all-or-nothing).
		w.Write([]byte(`{"tether":{"usd":0.997},"usd-coin":{"usd":0}}`))
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("fallback queried despite a resolved primary price")
	}))
	defer secondary.Close()

	c := testClient(t)
	c.coingeckoURL = primary.URL
	c.cryptocompareURL = secondary.URL

	got, err := c.Prices(context.Background(), []string{"USDT", "USDC"})
	if err != nil {
		t.Fatalf("Prices: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want 1", len(got))
	}
}

func TestPricesBothSourcesDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	c := testClient(t)
	c.coingeckoURL = down.URL
	c.cryptocompareURL = down.URL

	if _, err := c.Prices(context.Background(), []string{"USDT"}); err == nil {
		t.Error("expected error when both sources fail")
	}
}

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pegwatch/stablecoin-monitor/internal/cache"
	"github.com/pegwatch/stablecoin-monitor/internal/fetch"
	"github.com/pegwatch/stablecoin-monitor/internal/service"
	"github.com/pegwatch/stablecoin-monitor/internal/sources"
)

func testService(t *testing.T, opts ...sources.Option) *service.Service {
	t.Helper()
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(dead.Close)

	base := []sources.Option{
		sources.WithPriceURLs(dead.URL, dead.URL),
		sources.WithPoolsURL(dead.URL),
		sources.WithFredURL(dead.URL),
		sources.WithFeeds(nil),
	}
	src := sources.New(fetch.New(1, time.Millisecond), slog.Default(), append(base, opts...)...)
	return service.New(cache.New(), src, slog.Default())
}

func TestStablecoinsHandler(t *testing.T) {
	svc := testService(t)
	req := httptest.NewRequest(http.MethodGet, "/api/stablecoins", nil)
	rec := httptest.NewRecorder()
	Stablecoins(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var coins []service.ScoredStablecoin
	if err := json.NewDecoder(rec.Body).Decode(&coins); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(coins) == 0 {
		t.Error("expected registry rows even with upstreams down")
	}
}

func TestStablecoinHandlerNotFound(t *testing.T) {
	svc := testService(t)

	r := chi.NewRouter()
	r.Get("/api/stablecoins/{symbol}", Stablecoin(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/stablecoins/NOPE", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestStablecoinHandlerFound(t *testing.T) {
	svc := testService(t)

	r := chi.NewRouter()
	r.Get("/api/stablecoins/{symbol}", Stablecoin(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/stablecoins/USDC", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var detail service.StablecoinDetail
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Symbol != "USDC" || detail.Breakdown.Total != detail.Score {
		t.Errorf("detail = %+v", detail)
	}
}

func TestYieldsHandlerColdFailure(t *testing.T) {
	svc := testService(t)
	req := httptest.NewRequest(http.MethodGet, "/api/yields", nil)
	rec := httptest.NewRecorder()
	Yields(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestYieldsHandlerFilters(t *testing.T) {
	pools := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"project":"a","chain":"Base","symbol":"USDT","apy":8.0,"tvlUsd":100,"pool":"p1"},
			{"project":"b","chain":"Ethereum","symbol":"DAI","apy":5.0,"tvlUsd":900,"pool":"p2"}
		]}`))
	}))
	defer pools.Close()

	svc := testService(t, sources.WithPoolsURL(pools.URL))
	req := httptest.NewRequest(http.MethodGet, "/api/yields?chain=Base&sort=apy", nil)
	rec := httptest.NewRecorder()
	Yields(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []sources.YieldPool
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].PoolID != "p1" {
		t.Errorf("got %+v", got)
	}
}

func TestAlertsHandlerEmpty(t *testing.T) {
	svc := testService(t)
	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	rec := httptest.NewRecorder()
	Alerts(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); body == "null\n" {
		t.Error("alerts should encode as [] when empty, not null")
	}
}

func TestOverviewHandler(t *testing.T) {
	svc := testService(t)
	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()
	Overview(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var ov service.Overview
	if err := json.NewDecoder(rec.Body).Decode(&ov); err != nil {
		t.Fatal(err)
	}
	if ov.Totals.Stablecoins == 0 {
		t.Error("overview should count registry rows")
	}
}

func TestHealthAndReady(t *testing.T) {
	rec := httptest.NewRecorder()
	Health().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	// Nil store: nothing to wait on, ready immediately.
	rec = httptest.NewRecorder()
	Ready(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil).WithContext(context.Background()))
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d", rec.Code)
	}
}

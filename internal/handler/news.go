package handler

import (
	"net/http"

	"github.com/pegwatch/stablecoin-monitor/internal/service"
	"github.com/pegwatch/stablecoin-monitor/internal/sources"
)

func News(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.News(r.Context())
		if err != nil {
			http.Error(w, `{"error":"source unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		if items == nil {
			items = []sources.NewsItem{}
		}
		writeJSON(w, items)
	}
}

func Macro(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Macro(r.Context())
		if err != nil {
			http.Error(w, `{"error":"source unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, m)
	}
}

func ChainSeries(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chain := r.URL.Query().Get("chain")
		if chain == "" {
			chain = "Ethereum"
		}
		series, err := svc.ChainSeries(r.Context(), chain)
		if err != nil {
			http.Error(w, `{"error":"source unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, series)
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pegwatch/stablecoin-monitor/internal/service"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func Stablecoins(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Stablecoins(r.Context()))
	}
}

func Stablecoin(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")
		detail, err := svc.Stablecoin(r.Context(), symbol)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				http.Error(w, `{"error":"unknown symbol"}`, http.StatusNotFound)
				return
			}
			http.Error(w, `{"error":"source unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, detail)
	}
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/pegwatch/stablecoin-monitor/internal/alert"
	"github.com/pegwatch/stablecoin-monitor/internal/service"
	"github.com/pegwatch/stablecoin-monitor/internal/store"
)

// Alerts derives alerts fresh from the current snapshots.
func Alerts(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events := svc.Alerts(r.Context())
		if events == nil {
			events = []alert.Event{}
		}
		writeJSON(w, events)
	}
}

// AlertHistory serves persisted alerts when a store is configured.
func AlertHistory(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		records, err := s.ListAlerts(r.Context(), limit)
		if err != nil {
			http.Error(w, `{"error":"failed to list alerts"}`, http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []store.AlertRecord{}
		}
		writeJSON(w, records)
	}
}

// Overview serves the aggregate metrics payload.
func Overview(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Metrics(r.Context()))
	}
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/pegwatch/stablecoin-monitor/internal/service"
)

func Yields(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))

		pools, err := svc.Yields(r.Context(), service.YieldFilter{
			Symbol: q.Get("symbol"),
			Chain:  q.Get("chain"),
			SortBy: q.Get("sort"),
			Order:  q.Get("order"),
			Limit:  limit,
		})
		if err != nil {
			http.Error(w, `{"error":"source unavailable"}`, http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, pools)
	}
}

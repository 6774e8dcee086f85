package handler

import (
	"net/http"
	"strconv"

	"github.com/pegwatch/stablecoin-monitor/internal/service"
)

func Platforms(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		minScore, _ := strconv.ParseFloat(q.Get("min_score"), 64)
		writeJSON(w, svc.Platforms(r.Context(), service.PlatformFilter{
			Type:     q.Get("type"),
			Region:   q.Get("region"),
			MinScore: minScore,
		}))
	}
}

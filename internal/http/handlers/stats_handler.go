package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"focusflight/internal/models"
	"focusflight/internal/service"
)

// NewStatsHandler returns GET /stats handler.
func NewStatsHandler(svc *service.StatsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Summary(r.Context())
		if err != nil {
			writeServiceError(w, logger, err, "Failed to fetch stats")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// NewCategoryBreakdownHandler returns GET /stats/categories handler.
func NewCategoryBreakdownHandler(svc *service.StatsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		breakdown, err := svc.CategoryBreakdown(r.Context(), r.URL.Query().Get("period"))
		if err != nil {
			writeServiceError(w, logger, err, "Failed to fetch category breakdown")
			return
		}
		if breakdown == nil {
			breakdown = []models.CategoryMinutes{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"breakdown": breakdown})
	}
}

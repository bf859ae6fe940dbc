package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"focusflight/internal/models"
	"focusflight/internal/service"
)

// NewCitiesHandler returns GET /cities handler.
func NewCitiesHandler(svc *service.ReferenceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cities, err := svc.Cities(r.Context())
		if err != nil {
			writeServiceError(w, logger, err, "Failed to fetch cities")
			return
		}
		if cities == nil {
			cities = []models.City{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"cities": cities})
	}
}

// NewCategoriesHandler returns GET /categories handler.
func NewCategoriesHandler(svc *service.ReferenceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			writeServiceError(w, logger, err, "Failed to fetch categories")
			return
		}
		if categories == nil {
			categories = []models.Category{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
	}
}

// NewRoutesHandler returns GET /routes handler.
func NewRoutesHandler(svc *service.ReferenceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routes, err := svc.Routes(r.Context())
		if err != nil {
			writeServiceError(w, logger, err, "Failed to fetch routes")
			return
		}
		if routes == nil {
			routes = []models.Route{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"routes": routes})
	}
}

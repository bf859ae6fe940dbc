package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"focusflight/internal/models"
	"focusflight/internal/service"
)

// AchievementsHandler exposes milestone definitions, grants and the check endpoint.
type AchievementsHandler struct {
	svc    *service.AchievementsService
	logger *zap.Logger
}

// NewAchievementsHandler builds handler set.
func NewAchievementsHandler(svc *service.AchievementsService, logger *zap.Logger) *AchievementsHandler {
	return &AchievementsHandler{svc: svc, logger: logger}
}

type checkRequest struct {
	SessionID *int64 `json:"session_id"`
}

// HandleList handles GET /achievements.
func (h *AchievementsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.svc.ListDefinitions(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch achievements")
		return
	}
	if achievements == nil {
		achievements = []models.Achievement{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": achievements})
}

// HandleEarned handles GET /achievements/user.
func (h *AchievementsHandler) HandleEarned(w http.ResponseWriter, r *http.Request) {
	earned, err := h.svc.ListEarned(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch user achievements")
		return
	}
	if earned == nil {
		earned = []models.EarnedAchievement{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": earned})
}

// HandleCheck handles POST /achievements/check.
func (h *AchievementsHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SessionID == nil {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	newAchievements, err := h.svc.Check(r.Context(), *req.SessionID)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to check achievements")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"newAchievements": newAchievements})
}

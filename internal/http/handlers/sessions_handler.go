package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"focusflight/internal/models"
	"focusflight/internal/service"
)

// SessionsHandler exposes the session lifecycle endpoints.
type SessionsHandler struct {
	svc    *service.SessionsService
	logger *zap.Logger
}

// NewSessionsHandler builds handler set.
func NewSessionsHandler(svc *service.SessionsService, logger *zap.Logger) *SessionsHandler {
	return &SessionsHandler{svc: svc, logger: logger}
}

type createSessionRequest struct {
	DepartureCityID   int64   `json:"departure_city_id"`
	DestinationCityID int64   `json:"destination_city_id"`
	CategoryID        int64   `json:"category_id"`
	PlannedDuration   int     `json:"planned_duration"`
	GoalText          *string `json:"goal_text"`
}

type seatRequest struct {
	Seat string `json:"seat"`
}

type durationRequest struct {
	ActualDuration *int `json:"actual_duration"`
}

// HandleList handles GET /sessions.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	status := r.URL.Query().Get("status")

	sessions, err := h.svc.List(r.Context(), status, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch sessions")
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// HandleCreate handles POST /sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	session, err := h.svc.Create(r.Context(), service.CreateSessionInput{
		DepartureCityID:   req.DepartureCityID,
		DestinationCityID: req.DestinationCityID,
		CategoryID:        req.CategoryID,
		PlannedDuration:   req.PlannedDuration,
		GoalText:          req.GoalText,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to fetch session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// HandleStart handles POST /sessions/{id}/start.
func (h *SessionsHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.svc.Start(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to start session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// HandleSeat handles POST /sessions/{id}/seat.
func (h *SessionsHandler) HandleSeat(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req seatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	session, err := h.svc.AssignSeat(r.Context(), id, req.Seat)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to save seat")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// HandleComplete handles POST /sessions/{id}/complete.
func (h *SessionsHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req durationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ActualDuration == nil {
		writeError(w, http.StatusBadRequest, "actual_duration is required")
		return
	}

	session, err := h.svc.Complete(r.Context(), id, *req.ActualDuration)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to complete session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// HandleCancel handles POST /sessions/{id}/cancel.
func (h *SessionsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req durationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ActualDuration == nil {
		writeError(w, http.StatusBadRequest, "actual_duration is required")
		return
	}

	session, err := h.svc.Cancel(r.Context(), id, *req.ActualDuration)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to cancel session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

func sessionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return 0, false
	}
	return id, true
}

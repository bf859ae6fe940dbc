package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"focusflight/internal/models"
	"focusflight/internal/repository"
	"focusflight/internal/service"
)

type stubSessionStore struct {
	sessions map[int64]*models.Session
	created  *models.Session
}

func newStubSessionStore(sessions ...*models.Session) *stubSessionStore {
	store := &stubSessionStore{sessions: make(map[int64]*models.Session)}
	for _, s := range sessions {
		store.sessions[s.ID] = s
	}
	return store
}

func (s *stubSessionStore) Create(ctx context.Context, session *models.Session) error {
	session.ID = 1
	session.CreatedAt = time.Now().UTC()
	s.created = session
	return nil
}

func (s *stubSessionStore) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *stubSessionStore) List(ctx context.Context, status string, limit int) ([]models.Session, error) {
	var out []models.Session
	for _, session := range s.sessions {
		if status == "" || session.Status == status {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (s *stubSessionStore) Start(ctx context.Context, id int64) (*models.Session, error) {
	return s.GetByID(ctx, id)
}

func (s *stubSessionStore) AssignSeat(ctx context.Context, id int64, seat string) (*models.Session, error) {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Seat = &seat
	return session, nil
}

func (s *stubSessionStore) Complete(ctx context.Context, id int64, actualDuration int) (*models.Session, error) {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Status = models.SessionStatusCompleted
	session.ActualDuration = &actualDuration
	return session, nil
}

func (s *stubSessionStore) Cancel(ctx context.Context, id int64, actualDuration int) (*models.Session, error) {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Status = models.SessionStatusCancelled
	session.ActualDuration = &actualDuration
	return session, nil
}

func newSessionsHandler(store service.SessionStore) *SessionsHandler {
	svc := service.NewSessionsService(store, nil, nil, zap.NewNop())
	return NewSessionsHandler(svc, zap.NewNop())
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestHandleCreateMissingFieldReturns400(t *testing.T) {
	store := newStubSessionStore()
	handler := newSessionsHandler(store)

	body := `{"destination_city_id": 2, "category_id": 3, "planned_duration": 25}`
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "departure_city_id") {
		t.Fatalf("error should name the missing field, got %q", msg)
	}
	if store.created != nil {
		t.Fatalf("no row must be created on validation failure")
	}
}

func TestHandleCreateReturnsSession(t *testing.T) {
	handler := newSessionsHandler(newStubSessionStore())

	body := `{"departure_city_id": 1, "destination_city_id": 2, "category_id": 3, "planned_duration": 45}`
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleCreate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Session models.Session `json:"session"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Session.MilesEarned != 45 {
		t.Fatalf("expected miles_earned 45, got %d", resp.Session.MilesEarned)
	}
	if resp.Session.Status != models.SessionStatusPlanned {
		t.Fatalf("expected planned status, got %s", resp.Session.Status)
	}
}

func TestHandleGetMissingSessionReturns404(t *testing.T) {
	handler := newSessionsHandler(newStubSessionStore())

	req := httptest.NewRequest(http.MethodGet, "/sessions/99", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()

	handler.HandleGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleGetInvalidIDReturns400(t *testing.T) {
	handler := newSessionsHandler(newStubSessionStore())

	req := httptest.NewRequest(http.MethodGet, "/sessions/oops", nil)
	req.SetPathValue("id", "oops")
	rec := httptest.NewRecorder()

	handler.HandleGet(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCompleteRequiresDuration(t *testing.T) {
	session := &models.Session{ID: 5, Status: models.SessionStatusInProgress}
	handler := newSessionsHandler(newStubSessionStore(session))

	req := httptest.NewRequest(http.MethodPost, "/sessions/5/complete", strings.NewReader(`{}`))
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()

	handler.HandleComplete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); !strings.Contains(msg, "actual_duration") {
		t.Fatalf("error should name actual_duration, got %q", msg)
	}
}

func TestHandleCompleteZeroDurationAccepted(t *testing.T) {
	session := &models.Session{ID: 5, Status: models.SessionStatusInProgress}
	handler := newSessionsHandler(newStubSessionStore(session))

	req := httptest.NewRequest(http.MethodPost, "/sessions/5/complete", strings.NewReader(`{"actual_duration": 0}`))
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()

	handler.HandleComplete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("zero minutes is a valid duration, got %d: %s", rec.Code, rec.Body.String())
	}
}

type stubCheckStore struct {
	definitions []models.Achievement
	inserted    []int64
}

func (s *stubCheckStore) ListDefinitions(ctx context.Context) ([]models.Achievement, error) {
	return s.definitions, nil
}

func (s *stubCheckStore) ListEarned(ctx context.Context) ([]models.EarnedAchievement, error) {
	return nil, nil
}

func (s *stubCheckStore) GrantedIDs(ctx context.Context) (map[int64]struct{}, error) {
	return map[int64]struct{}{}, nil
}

func (s *stubCheckStore) InsertGrant(ctx context.Context, achievementID int64) (bool, error) {
	s.inserted = append(s.inserted, achievementID)
	return true, nil
}

type stubAggregates struct{}

func (stubAggregates) CountCompleted(ctx context.Context) (int64, error) { return 1, nil }
func (stubAggregates) CountCompletedSince(ctx context.Context, t time.Time) (int64, error) {
	return 1, nil
}
func (stubAggregates) SumCompletedMinutes(ctx context.Context) (int64, error) { return 25, nil }
func (stubAggregates) SumCompletedMinutesSince(ctx context.Context, t time.Time) (int64, error) {
	return 25, nil
}
func (stubAggregates) CountDistinctDestinations(ctx context.Context) (int64, error) { return 1, nil }
func (stubAggregates) CompletedDays(ctx context.Context) ([]time.Time, error)       { return nil, nil }
func (stubAggregates) CategoryBreakdown(ctx context.Context, t time.Time) ([]models.CategoryMinutes, error) {
	return nil, nil
}

func newAchievementsHandler(sessions service.SessionReader, store service.AchievementStore) *AchievementsHandler {
	svc := service.NewAchievementsService(sessions, store, stubAggregates{}, nil, zap.NewNop())
	return NewAchievementsHandler(svc, zap.NewNop())
}

func TestHandleCheckRequiresSessionID(t *testing.T) {
	handler := newAchievementsHandler(newStubSessionStore(), &stubCheckStore{})

	req := httptest.NewRequest(http.MethodPost, "/achievements/check", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.HandleCheck(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCheckMissingSessionReturns404(t *testing.T) {
	handler := newAchievementsHandler(newStubSessionStore(), &stubCheckStore{})

	req := httptest.NewRequest(http.MethodPost, "/achievements/check", strings.NewReader(`{"session_id": 404}`))
	rec := httptest.NewRecorder()

	handler.HandleCheck(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleCheckReturnsNewAchievements(t *testing.T) {
	duration := 25
	session := &models.Session{ID: 5, Status: models.SessionStatusCompleted, ActualDuration: &duration}
	store := &stubCheckStore{
		definitions: []models.Achievement{
			{ID: 1, Name: "First Flight", RequirementType: models.RequirementSessionsCompleted, RequirementValue: 1},
		},
	}
	handler := newAchievementsHandler(newStubSessionStore(session), store)

	req := httptest.NewRequest(http.MethodPost, "/achievements/check", strings.NewReader(`{"session_id": 5}`))
	rec := httptest.NewRecorder()

	handler.HandleCheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		NewAchievements []models.Achievement `json:"newAchievements"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.NewAchievements) != 1 || resp.NewAchievements[0].Name != "First Flight" {
		t.Fatalf("unexpected achievements %v", resp.NewAchievements)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected one grant insert, got %v", store.inserted)
	}
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

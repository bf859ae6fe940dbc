package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"focusflight/internal/cache"
	"focusflight/internal/models"
	"focusflight/internal/repository"
	"focusflight/internal/ws"
)

type fakeSessionStore struct {
	created  *models.Session
	sessions map[int64]*models.Session
}

func newFakeSessionStore(sessions ...*models.Session) *fakeSessionStore {
	store := &fakeSessionStore{sessions: make(map[int64]*models.Session)}
	for _, s := range sessions {
		store.sessions[s.ID] = s
	}
	return store
}

func (f *fakeSessionStore) Create(ctx context.Context, session *models.Session) error {
	session.ID = 1
	session.CreatedAt = time.Now().UTC()
	f.created = session
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) List(ctx context.Context, status string, limit int) ([]models.Session, error) {
	return nil, nil
}

func (f *fakeSessionStore) Start(ctx context.Context, id int64) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	now := time.Now().UTC()
	session.Status = models.SessionStatusInProgress
	session.StartedAt = &now
	return session, nil
}

func (f *fakeSessionStore) AssignSeat(ctx context.Context, id int64, seat string) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	session.Seat = &seat
	return session, nil
}

func (f *fakeSessionStore) Complete(ctx context.Context, id int64, actualDuration int) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	now := time.Now().UTC()
	session.Status = models.SessionStatusCompleted
	session.ActualDuration = &actualDuration
	session.CompletedAt = &now
	return session, nil
}

func (f *fakeSessionStore) Cancel(ctx context.Context, id int64, actualDuration int) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	session.Status = models.SessionStatusCancelled
	session.ActualDuration = &actualDuration
	return session, nil
}

type fakeBoarding struct {
	passes  map[int64]cache.BoardingPass
	saveErr error
}

func newFakeBoarding() *fakeBoarding {
	return &fakeBoarding{passes: make(map[int64]cache.BoardingPass)}
}

func (f *fakeBoarding) Save(ctx context.Context, pass cache.BoardingPass) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.passes[pass.SessionID] = pass
	return nil
}

func (f *fakeBoarding) Get(ctx context.Context, sessionID int64) (*cache.BoardingPass, error) {
	pass, ok := f.passes[sessionID]
	if !ok {
		return nil, redis.Nil
	}
	return &pass, nil
}

func (f *fakeBoarding) Delete(ctx context.Context, sessionID int64) error {
	delete(f.passes, sessionID)
	return nil
}

type fakeEvents struct {
	events []ws.Event
}

func (f *fakeEvents) Publish(event ws.Event) {
	f.events = append(f.events, event)
}

func (f *fakeEvents) lastType() string {
	if len(f.events) == 0 {
		return ""
	}
	return f.events[len(f.events)-1].Type
}

func plannedSession(id int64) *models.Session {
	return &models.Session{
		ID:                id,
		DepartureCityID:   1,
		DestinationCityID: 2,
		CategoryID:        3,
		PlannedDuration:   25,
		MilesEarned:       25,
		Status:            models.SessionStatusPlanned,
	}
}

func TestCreateComputesMilesAndStatus(t *testing.T) {
	store := newFakeSessionStore()
	svc := NewSessionsService(store, nil, nil, zap.NewNop())

	session, err := svc.Create(context.Background(), CreateSessionInput{
		DepartureCityID:   1,
		DestinationCityID: 2,
		CategoryID:        3,
		PlannedDuration:   45,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.MilesEarned != 45 {
		t.Fatalf("expected 45 miles for 45 planned minutes, got %d", session.MilesEarned)
	}
	if session.Status != models.SessionStatusPlanned {
		t.Fatalf("expected planned status, got %s", session.Status)
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		input CreateSessionInput
	}{
		{"missing departure", CreateSessionInput{DestinationCityID: 2, CategoryID: 3, PlannedDuration: 25}},
		{"missing destination", CreateSessionInput{DepartureCityID: 1, CategoryID: 3, PlannedDuration: 25}},
		{"missing category", CreateSessionInput{DepartureCityID: 1, DestinationCityID: 2, PlannedDuration: 25}},
		{"missing duration", CreateSessionInput{DepartureCityID: 1, DestinationCityID: 2, CategoryID: 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeSessionStore()
			svc := NewSessionsService(store, nil, nil, zap.NewNop())

			_, err := svc.Create(context.Background(), tc.input)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if store.created != nil {
				t.Fatalf("no row must be created on validation failure")
			}
		})
	}
}

func TestStartCachesBoardingPassAndPublishes(t *testing.T) {
	store := newFakeSessionStore(plannedSession(10))
	boarding := newFakeBoarding()
	events := &fakeEvents{}
	svc := NewSessionsService(store, boarding, events, zap.NewNop())

	session, err := svc.Start(context.Background(), 10)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.Status != models.SessionStatusInProgress {
		t.Fatalf("expected in_progress, got %s", session.Status)
	}
	if session.StartedAt == nil {
		t.Fatalf("started_at must be set")
	}
	if _, ok := boarding.passes[10]; !ok {
		t.Fatalf("boarding pass must be cached on start")
	}
	if events.lastType() != ws.EventStarted {
		t.Fatalf("expected started event, got %q", events.lastType())
	}
}

func TestStartSurvivesCacheFailure(t *testing.T) {
	store := newFakeSessionStore(plannedSession(10))
	boarding := newFakeBoarding()
	boarding.saveErr = errors.New("redis down")
	svc := NewSessionsService(store, boarding, nil, zap.NewNop())

	if _, err := svc.Start(context.Background(), 10); err != nil {
		t.Fatalf("cache failure must not fail the start: %v", err)
	}
}

func TestAssignSeatRefreshesBoardingPass(t *testing.T) {
	store := newFakeSessionStore(plannedSession(10))
	boarding := newFakeBoarding()
	events := &fakeEvents{}
	svc := NewSessionsService(store, boarding, events, zap.NewNop())

	if _, err := svc.Start(context.Background(), 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	session, err := svc.AssignSeat(context.Background(), 10, "12A")
	if err != nil {
		t.Fatalf("assign seat: %v", err)
	}
	if session.Seat == nil || *session.Seat != "12A" {
		t.Fatalf("expected seat 12A, got %v", session.Seat)
	}

	pass := boarding.passes[10]
	if pass.Seat == nil || *pass.Seat != "12A" {
		t.Fatalf("cached boarding pass must carry the new seat, got %v", pass.Seat)
	}
	if events.lastType() != ws.EventSeatAssigned {
		t.Fatalf("expected seat_assigned event, got %q", events.lastType())
	}
}

func TestAssignSeatRequiresSeat(t *testing.T) {
	svc := NewSessionsService(newFakeSessionStore(plannedSession(10)), nil, nil, zap.NewNop())

	_, err := svc.AssignSeat(context.Background(), 10, "")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCompleteSetsCompletedAtAndDropsPass(t *testing.T) {
	session := plannedSession(10)
	startedAt := time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC)
	session.Status = models.SessionStatusInProgress
	session.StartedAt = &startedAt

	store := newFakeSessionStore(session)
	boarding := newFakeBoarding()
	boarding.passes[10] = cache.BoardingPass{SessionID: 10}
	events := &fakeEvents{}
	svc := NewSessionsService(store, boarding, events, zap.NewNop())

	completed, err := svc.Complete(context.Background(), 10, 24)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != models.SessionStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Fatalf("completed_at must be set")
	}
	if completed.StartedAt == nil || !completed.StartedAt.Equal(startedAt) {
		t.Fatalf("started_at must keep its prior value, got %v", completed.StartedAt)
	}
	if completed.ActualDuration == nil || *completed.ActualDuration != 24 {
		t.Fatalf("expected actual_duration 24, got %v", completed.ActualDuration)
	}
	if _, ok := boarding.passes[10]; ok {
		t.Fatalf("boarding pass must be dropped on completion")
	}
	if events.lastType() != ws.EventCompleted {
		t.Fatalf("expected completed event, got %q", events.lastType())
	}
}

func TestCancelNeverSetsCompletedAt(t *testing.T) {
	store := newFakeSessionStore(plannedSession(10))
	events := &fakeEvents{}
	svc := NewSessionsService(store, nil, events, zap.NewNop())

	session, err := svc.Cancel(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if session.Status != models.SessionStatusCancelled {
		t.Fatalf("expected cancelled, got %s", session.Status)
	}
	if session.CompletedAt != nil {
		t.Fatalf("cancelled sessions must never set completed_at")
	}
	if events.lastType() != ws.EventCancelled {
		t.Fatalf("expected cancelled event, got %q", events.lastType())
	}
}

func TestCompleteRejectsNegativeDuration(t *testing.T) {
	svc := NewSessionsService(newFakeSessionStore(plannedSession(10)), nil, nil, zap.NewNop())

	_, err := svc.Complete(context.Background(), 10, -1)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLifecycleOnMissingSession(t *testing.T) {
	svc := NewSessionsService(newFakeSessionStore(), nil, nil, zap.NewNop())

	if _, err := svc.Start(context.Background(), 99); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("start: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Complete(context.Background(), 99, 10); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("complete: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), 99, 10); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("cancel: expected ErrSessionNotFound, got %v", err)
	}
}

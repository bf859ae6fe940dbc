package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"focusflight/internal/cache"
	"focusflight/internal/models"
	"focusflight/internal/ws"
)

// SessionStore is the persistence surface the lifecycle logic needs.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	List(ctx context.Context, status string, limit int) ([]models.Session, error)
	Start(ctx context.Context, id int64) (*models.Session, error)
	AssignSeat(ctx context.Context, id int64, seat string) (*models.Session, error)
	Complete(ctx context.Context, id int64, actualDuration int) (*models.Session, error)
	Cancel(ctx context.Context, id int64, actualDuration int) (*models.Session, error)
}

// BoardingCache caches the in-flight session. Implementations may be absent;
// the service treats the cache as best effort.
type BoardingCache interface {
	Save(ctx context.Context, pass cache.BoardingPass) error
	Get(ctx context.Context, sessionID int64) (*cache.BoardingPass, error)
	Delete(ctx context.Context, sessionID int64) error
}

// FlightEvents publishes lifecycle notifications to feed subscribers.
type FlightEvents interface {
	Publish(event ws.Event)
}

// SessionsService owns the session lifecycle:
// planned -> in_progress -> completed | cancelled.
type SessionsService struct {
	store    SessionStore
	boarding BoardingCache
	events   FlightEvents
	logger   *zap.Logger
}

// CreateSessionInput is the booking submission.
type CreateSessionInput struct {
	DepartureCityID   int64
	DestinationCityID int64
	CategoryID        int64
	PlannedDuration   int
	GoalText          *string
}

// NewSessionsService builds service. boarding and events may be nil.
func NewSessionsService(store SessionStore, boarding BoardingCache, events FlightEvents, logger *zap.Logger) *SessionsService {
	return &SessionsService{
		store:    store,
		boarding: boarding,
		events:   events,
		logger:   logger,
	}
}

// Create books a new flight. Miles are earned 1:1 with planned minutes.
func (s *SessionsService) Create(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	if input.DepartureCityID <= 0 {
		return nil, missingField("departure_city_id")
	}
	if input.DestinationCityID <= 0 {
		return nil, missingField("destination_city_id")
	}
	if input.CategoryID <= 0 {
		return nil, missingField("category_id")
	}
	if input.PlannedDuration <= 0 {
		return nil, invalidField("planned_duration", "must be a positive number of minutes")
	}

	session := &models.Session{
		DepartureCityID:   input.DepartureCityID,
		DestinationCityID: input.DestinationCityID,
		CategoryID:        input.CategoryID,
		PlannedDuration:   input.PlannedDuration,
		GoalText:          input.GoalText,
		MilesEarned:       input.PlannedDuration,
		Status:            models.SessionStatusPlanned,
	}

	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns one session with display fields.
func (s *SessionsService) Get(ctx context.Context, id int64) (*models.Session, error) {
	return s.store.GetByID(ctx, id)
}

// List returns recent sessions, optionally filtered by status.
func (s *SessionsService) List(ctx context.Context, status string, limit int) ([]models.Session, error) {
	return s.store.List(ctx, status, limit)
}

// Start moves the session to in_progress and caches its boarding pass.
func (s *SessionsService) Start(ctx context.Context, id int64) (*models.Session, error) {
	session, err := s.store.Start(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.boarding != nil {
		if err := s.boarding.Save(ctx, boardingPass(session)); err != nil {
			s.logger.Warn("failed to cache boarding pass", zap.Int64("session_id", id), zap.Error(err))
		}
	}
	s.publish(ws.EventStarted, session)
	return session, nil
}

// AssignSeat records the chosen seat at any status. A cached boarding pass
// is refreshed in place so the feed snapshot stays current.
func (s *SessionsService) AssignSeat(ctx context.Context, id int64, seat string) (*models.Session, error) {
	if seat == "" {
		return nil, missingField("seat")
	}

	session, err := s.store.AssignSeat(ctx, id, seat)
	if err != nil {
		return nil, err
	}

	if s.boarding != nil {
		pass, err := s.boarding.Get(ctx, id)
		switch {
		case err == redis.Nil:
			// not boarding yet, nothing to refresh
		case err != nil:
			s.logger.Warn("failed to read boarding pass", zap.Int64("session_id", id), zap.Error(err))
		default:
			pass.Seat = session.Seat
			if err := s.boarding.Save(ctx, *pass); err != nil {
				s.logger.Warn("failed to refresh boarding pass", zap.Int64("session_id", id), zap.Error(err))
			}
		}
	}
	s.publish(ws.EventSeatAssigned, session)
	return session, nil
}

// Complete lands the flight. The achievement check is a separate call made
// by the client afterwards.
func (s *SessionsService) Complete(ctx context.Context, id int64, actualDuration int) (*models.Session, error) {
	if actualDuration < 0 {
		return nil, invalidField("actual_duration", "must be a non-negative number of minutes")
	}

	session, err := s.store.Complete(ctx, id, actualDuration)
	if err != nil {
		return nil, err
	}

	s.dropBoardingPass(ctx, id)
	s.publish(ws.EventCompleted, session)
	return session, nil
}

// Cancel aborts the flight. completed_at is never set for cancellations and
// no achievement check is triggered.
func (s *SessionsService) Cancel(ctx context.Context, id int64, actualDuration int) (*models.Session, error) {
	if actualDuration < 0 {
		return nil, invalidField("actual_duration", "must be a non-negative number of minutes")
	}

	session, err := s.store.Cancel(ctx, id, actualDuration)
	if err != nil {
		return nil, err
	}

	s.dropBoardingPass(ctx, id)
	s.publish(ws.EventCancelled, session)
	return session, nil
}

func (s *SessionsService) dropBoardingPass(ctx context.Context, id int64) {
	if s.boarding == nil {
		return
	}
	if err := s.boarding.Delete(ctx, id); err != nil && err != redis.Nil {
		s.logger.Warn("failed to delete boarding pass", zap.Int64("session_id", id), zap.Error(err))
	}
}

func (s *SessionsService) publish(eventType string, session *models.Session) {
	if s.events == nil {
		return
	}
	s.events.Publish(ws.Event{
		Type:      eventType,
		SessionID: session.ID,
		Session:   session,
	})
}

func boardingPass(session *models.Session) cache.BoardingPass {
	return cache.BoardingPass{
		SessionID:         session.ID,
		DepartureCityID:   session.DepartureCityID,
		DestinationCityID: session.DestinationCityID,
		Seat:              session.Seat,
		PlannedDuration:   session.PlannedDuration,
		MilesEarned:       session.MilesEarned,
		StartedAt:         session.StartedAt,
	}
}

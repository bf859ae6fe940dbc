package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"focusflight/internal/models"
	"focusflight/internal/ws"
)

// AchievementStore reads milestone definitions and records grants.
type AchievementStore interface {
	ListDefinitions(ctx context.Context) ([]models.Achievement, error)
	ListEarned(ctx context.Context) ([]models.EarnedAchievement, error)
	GrantedIDs(ctx context.Context) (map[int64]struct{}, error)
	InsertGrant(ctx context.Context, achievementID int64) (bool, error)
}

// AggregateStore computes the aggregates the rule predicates need.
type AggregateStore interface {
	CountCompleted(ctx context.Context) (int64, error)
	CountCompletedSince(ctx context.Context, t time.Time) (int64, error)
	SumCompletedMinutes(ctx context.Context) (int64, error)
	SumCompletedMinutesSince(ctx context.Context, t time.Time) (int64, error)
	CountDistinctDestinations(ctx context.Context) (int64, error)
	CompletedDays(ctx context.Context) ([]time.Time, error)
	CategoryBreakdown(ctx context.Context, t time.Time) ([]models.CategoryMinutes, error)
}

// SessionReader resolves the triggering session.
type SessionReader interface {
	GetByID(ctx context.Context, id int64) (*models.Session, error)
}

// AchievementsService evaluates milestone rules after a flight lands and
// records newly satisfied ones exactly once.
type AchievementsService struct {
	sessions   SessionReader
	store      AchievementStore
	aggregates AggregateStore
	events     FlightEvents
	logger     *zap.Logger
	now        func() time.Time
}

// NewAchievementsService builds service. events may be nil.
func NewAchievementsService(
	sessions SessionReader,
	store AchievementStore,
	aggregates AggregateStore,
	events FlightEvents,
	logger *zap.Logger,
) *AchievementsService {
	return &AchievementsService{
		sessions:   sessions,
		store:      store,
		aggregates: aggregates,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// ListDefinitions returns all milestone definitions.
func (s *AchievementsService) ListDefinitions(ctx context.Context) ([]models.Achievement, error) {
	return s.store.ListDefinitions(ctx)
}

// ListEarned returns granted achievements joined with their definitions.
func (s *AchievementsService) ListEarned(ctx context.Context) ([]models.EarnedAchievement, error) {
	return s.store.ListEarned(ctx)
}

// Check evaluates every not-yet-earned achievement against the session that
// just landed and returns the ones newly granted, in definition order.
// Grants already committed stay committed if a later predicate fails; there
// is no all-or-nothing guarantee across rules.
func (s *AchievementsService) Check(ctx context.Context, sessionID int64) ([]models.Achievement, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	definitions, err := s.store.ListDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	granted, err := s.store.GrantedIDs(ctx)
	if err != nil {
		return nil, err
	}

	newlyEarned := []models.Achievement{}
	for _, achievement := range definitions {
		if _, ok := granted[achievement.ID]; ok {
			continue
		}

		earned, err := s.evaluate(ctx, achievement, session)
		if err != nil {
			return nil, err
		}
		if !earned {
			continue
		}

		inserted, err := s.store.InsertGrant(ctx, achievement.ID)
		if err != nil {
			return nil, err
		}
		if !inserted {
			// a concurrent check got there first
			continue
		}

		s.logger.Info("achievement earned",
			zap.Int64("achievement_id", achievement.ID),
			zap.String("name", achievement.Name))
		newlyEarned = append(newlyEarned, achievement)

		if s.events != nil {
			a := achievement
			s.events.Publish(ws.Event{
				Type:        ws.EventAchievementEarned,
				SessionID:   session.ID,
				Achievement: &a,
			})
		}
	}

	return newlyEarned, nil
}

func (s *AchievementsService) evaluate(ctx context.Context, achievement models.Achievement, session *models.Session) (bool, error) {
	switch achievement.RequirementType {
	case models.RequirementSessionsCompleted:
		count, err := s.aggregates.CountCompleted(ctx)
		if err != nil {
			return false, err
		}
		return count >= achievement.RequirementValue, nil

	case models.RequirementSingleSessionMinutes:
		if session.ActualDuration == nil {
			return false, nil
		}
		return int64(*session.ActualDuration) >= achievement.RequirementValue, nil

	case models.RequirementConsecutiveDays:
		days, err := s.aggregates.CompletedDays(ctx)
		if err != nil {
			return false, err
		}
		return int64(currentStreak(days)) >= achievement.RequirementValue, nil

	case models.RequirementTotalHours:
		minutes, err := s.aggregates.SumCompletedMinutes(ctx)
		if err != nil {
			return false, err
		}
		// compare in minutes to avoid fractional hours
		return minutes >= achievement.RequirementValue*60, nil

	case models.RequirementUniqueDestinations:
		count, err := s.aggregates.CountDistinctDestinations(ctx)
		if err != nil {
			return false, err
		}
		return count >= achievement.RequirementValue, nil

	case models.RequirementSessionsInDay:
		count, err := s.aggregates.CountCompletedSince(ctx, startOfDay(s.now()))
		if err != nil {
			return false, err
		}
		return count >= achievement.RequirementValue, nil

	default:
		s.logger.Warn("unknown requirement type",
			zap.Int64("achievement_id", achievement.ID),
			zap.String("requirement_type", achievement.RequirementType))
		return false, nil
	}
}

// currentStreak counts the run of calendar-adjacent days starting at the
// most recent day with a completed session. Days must be sorted descending.
// The run does not have to include today: a streak that ended yesterday
// still counts until a new day passes without activity.
func currentStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if sameDay(days[i].AddDate(0, 0, 1), days[i-1]) {
			streak++
			continue
		}
		break
	}
	return streak
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

package service

import (
	"context"
	"time"

	"focusflight/internal/models"
)

// Breakdown periods.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// StatsService assembles the aggregate numbers for the stats screens.
type StatsService struct {
	aggregates AggregateStore
	now        func() time.Time
}

// NewStatsService builds service.
func NewStatsService(aggregates AggregateStore) *StatsService {
	return &StatsService{
		aggregates: aggregates,
		now:        time.Now,
	}
}

// Summary returns focused minutes for today, this week and this month,
// the current streak and the completed-flight total.
func (s *StatsService) Summary(ctx context.Context) (*models.Stats, error) {
	now := s.now()

	today, err := s.aggregates.SumCompletedMinutesSince(ctx, startOfDay(now))
	if err != nil {
		return nil, err
	}
	week, err := s.aggregates.SumCompletedMinutesSince(ctx, startOfWeek(now))
	if err != nil {
		return nil, err
	}
	month, err := s.aggregates.SumCompletedMinutesSince(ctx, startOfMonth(now))
	if err != nil {
		return nil, err
	}
	days, err := s.aggregates.CompletedDays(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.aggregates.CountCompleted(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Stats{
		TodayMinutes: today,
		WeekMinutes:  week,
		MonthMinutes: month,
		Streak:       currentStreak(days),
		TotalFlights: total,
	}, nil
}

// CategoryBreakdown returns per-category minutes for the period, which
// defaults to day. Unknown periods fall back to month, matching the
// booking client's period picker.
func (s *StatsService) CategoryBreakdown(ctx context.Context, period string) ([]models.CategoryMinutes, error) {
	now := s.now()

	var since time.Time
	switch period {
	case PeriodDay, "":
		since = startOfDay(now)
	case PeriodWeek:
		since = startOfWeek(now)
	default:
		since = startOfMonth(now)
	}

	return s.aggregates.CategoryBreakdown(ctx, since)
}

// startOfWeek truncates to the most recent Sunday.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"focusflight/internal/models"
)

// StatsRepository computes aggregates over completed sessions. Both the
// stats endpoints and the achievement engine read through it.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository returns repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountCompleted returns the number of completed sessions.
func (r *StatsRepository) CountCompleted(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM focus_sessions WHERE status = 'completed'`

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountCompletedSince returns completed sessions with completed_at at or after t.
func (r *StatsRepository) CountCompletedSince(ctx context.Context, t time.Time) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM focus_sessions
		WHERE status = 'completed' AND completed_at >= $1
	`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, t).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SumCompletedMinutes returns total focused minutes across all completed sessions.
func (r *StatsRepository) SumCompletedMinutes(ctx context.Context) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(actual_duration), 0)
		FROM focus_sessions
		WHERE status = 'completed'
	`

	var minutes int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

// SumCompletedMinutesSince returns focused minutes completed at or after t.
func (r *StatsRepository) SumCompletedMinutesSince(ctx context.Context, t time.Time) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(actual_duration), 0)
		FROM focus_sessions
		WHERE status = 'completed' AND completed_at >= $1
	`

	var minutes int64
	if err := r.db.QueryRowContext(ctx, query, t).Scan(&minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

// CountDistinctDestinations returns how many different destination cities
// completed sessions have reached.
func (r *StatsRepository) CountDistinctDestinations(ctx context.Context) (int64, error) {
	const query = `
		SELECT COUNT(DISTINCT destination_city_id)
		FROM focus_sessions
		WHERE status = 'completed'
	`

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CompletedDays returns the distinct calendar days with at least one
// completed session, most recent first.
func (r *StatsRepository) CompletedDays(ctx context.Context) ([]time.Time, error) {
	const query = `
		SELECT DATE(completed_at) AS session_date
		FROM focus_sessions
		WHERE status = 'completed'
		GROUP BY DATE(completed_at)
		ORDER BY DATE(completed_at) DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return days, nil
}

// CategoryBreakdown returns focused minutes per category completed at or
// after t, skipping categories with no activity, busiest first.
func (r *StatsRepository) CategoryBreakdown(ctx context.Context, t time.Time) ([]models.CategoryMinutes, error) {
	const query = `
		SELECT c.name, c.color, COALESCE(SUM(fs.actual_duration), 0) AS minutes
		FROM categories c
		LEFT JOIN focus_sessions fs ON c.id = fs.category_id
			AND fs.status = 'completed'
			AND fs.completed_at >= $1
		GROUP BY c.id, c.name, c.color
		HAVING SUM(fs.actual_duration) > 0
		ORDER BY minutes DESC
	`

	rows, err := r.db.QueryContext(ctx, query, t)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var breakdown []models.CategoryMinutes
	for rows.Next() {
		var b models.CategoryMinutes
		if err := rows.Scan(&b.Name, &b.Color, &b.Minutes); err != nil {
			return nil, err
		}
		breakdown = append(breakdown, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return breakdown, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"focusflight/internal/models"
)

// ErrSessionNotFound indicates the referenced session row does not exist.
var ErrSessionNotFound = errors.New("session not found")

const sessionColumns = `
	fs.id, fs.departure_city_id, fs.destination_city_id, fs.category_id,
	fs.planned_duration, fs.actual_duration, fs.goal_text, fs.seat,
	fs.miles_earned, fs.status, fs.created_at, fs.started_at, fs.completed_at`

const sessionJoins = `
	FROM focus_sessions fs
	JOIN cities dc ON fs.departure_city_id = dc.id
	JOIN cities dest ON fs.destination_city_id = dest.id
	JOIN categories c ON fs.category_id = c.id`

const joinedColumns = sessionColumns + `,
	dc.code AS departure_code, dc.name AS departure_name,
	dest.code AS destination_code, dest.name AS destination_name,
	c.name AS category_name, c.color AS category_color`

// SessionRepository handles persistence of focus sessions.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new planned session and fills id and created_at.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	const query = `
		INSERT INTO focus_sessions (
			departure_city_id, destination_city_id, category_id,
			planned_duration, goal_text, miles_earned, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		session.DepartureCityID,
		session.DestinationCityID,
		session.CategoryID,
		session.PlannedDuration,
		session.GoalText,
		session.MilesEarned,
		session.Status,
	).Scan(&session.ID, &session.CreatedAt)
}

// GetByID returns a session joined with city and category display fields.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	query := `SELECT` + joinedColumns + sessionJoins + ` WHERE fs.id = $1`

	var s models.Session
	err := scanJoined(r.db.QueryRowContext(ctx, query, id), &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns sessions newest first, optionally filtered by status.
func (r *SessionRepository) List(ctx context.Context, status string, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT` + joinedColumns + sessionJoins
	args := []interface{}{}
	if status != "" {
		query += ` WHERE fs.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY fs.created_at DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := scanJoined(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Start marks the session in progress. No prior-state guard: repeating the
// call overwrites started_at, matching the booking client's behavior.
func (r *SessionRepository) Start(ctx context.Context, id int64) (*models.Session, error) {
	query := `
		UPDATE focus_sessions fs
		SET status = $2, started_at = NOW()
		WHERE fs.id = $1
		RETURNING` + sessionColumns
	return r.mutate(ctx, query, id, models.SessionStatusInProgress)
}

// AssignSeat records the chosen seat. Allowed at any status.
func (r *SessionRepository) AssignSeat(ctx context.Context, id int64, seat string) (*models.Session, error) {
	query := `
		UPDATE focus_sessions fs
		SET seat = $2
		WHERE fs.id = $1
		RETURNING` + sessionColumns
	return r.mutate(ctx, query, id, seat)
}

// Complete finalizes the session with its actual duration.
func (r *SessionRepository) Complete(ctx context.Context, id int64, actualDuration int) (*models.Session, error) {
	query := `
		UPDATE focus_sessions fs
		SET status = $2, actual_duration = $3, completed_at = NOW()
		WHERE fs.id = $1
		RETURNING` + sessionColumns
	return r.mutate(ctx, query, id, models.SessionStatusCompleted, actualDuration)
}

// Cancel aborts the session. completed_at stays NULL for cancelled flights.
func (r *SessionRepository) Cancel(ctx context.Context, id int64, actualDuration int) (*models.Session, error) {
	query := `
		UPDATE focus_sessions fs
		SET status = $2, actual_duration = $3
		WHERE fs.id = $1
		RETURNING` + sessionColumns
	return r.mutate(ctx, query, id, models.SessionStatusCancelled, actualDuration)
}

func (r *SessionRepository) mutate(ctx context.Context, query string, id int64, args ...interface{}) (*models.Session, error) {
	var s models.Session
	err := scanSession(r.db.QueryRowContext(ctx, query, append([]interface{}{id}, args...)...), &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner, s *models.Session) error {
	return row.Scan(
		&s.ID,
		&s.DepartureCityID,
		&s.DestinationCityID,
		&s.CategoryID,
		&s.PlannedDuration,
		&s.ActualDuration,
		&s.GoalText,
		&s.Seat,
		&s.MilesEarned,
		&s.Status,
		&s.CreatedAt,
		&s.StartedAt,
		&s.CompletedAt,
	)
}

func scanJoined(row rowScanner, s *models.Session) error {
	return row.Scan(
		&s.ID,
		&s.DepartureCityID,
		&s.DestinationCityID,
		&s.CategoryID,
		&s.PlannedDuration,
		&s.ActualDuration,
		&s.GoalText,
		&s.Seat,
		&s.MilesEarned,
		&s.Status,
		&s.CreatedAt,
		&s.StartedAt,
		&s.CompletedAt,
		&s.DepartureCode,
		&s.DepartureName,
		&s.DestinationCode,
		&s.DestinationName,
		&s.CategoryName,
		&s.CategoryColor,
	)
}

package repository

import (
	"context"
	"database/sql"

	"focusflight/internal/models"
)

// AchievementRepository reads milestone definitions and records grants.
type AchievementRepository struct {
	db *sql.DB
}

// NewAchievementRepository returns repository.
func NewAchievementRepository(db *sql.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// ListDefinitions returns all achievement definitions in evaluation order.
func (r *AchievementRepository) ListDefinitions(ctx context.Context) ([]models.Achievement, error) {
	const query = `
		SELECT id, name, description, icon, requirement_type, requirement_value
		FROM achievements
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.RequirementType, &a.RequirementValue); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return achievements, nil
}

// ListEarned returns grants joined with their definitions, newest first.
func (r *AchievementRepository) ListEarned(ctx context.Context) ([]models.EarnedAchievement, error) {
	const query = `
		SELECT ua.id, ua.achievement_id, ua.earned_at, a.name, a.description, a.icon
		FROM user_achievements ua
		JOIN achievements a ON ua.achievement_id = a.id
		ORDER BY ua.earned_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earned []models.EarnedAchievement
	for rows.Next() {
		var e models.EarnedAchievement
		if err := rows.Scan(&e.ID, &e.AchievementID, &e.EarnedAt, &e.Name, &e.Description, &e.Icon); err != nil {
			return nil, err
		}
		earned = append(earned, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return earned, nil
}

// GrantedIDs returns the set of achievement ids already earned.
func (r *AchievementRepository) GrantedIDs(ctx context.Context) (map[int64]struct{}, error) {
	const query = `SELECT achievement_id FROM user_achievements`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	granted := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		granted[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return granted, nil
}

// InsertGrant records an earned achievement at most once. The unique
// constraint on achievement_id makes concurrent checks race-free; the
// return value reports whether this call inserted the row.
func (r *AchievementRepository) InsertGrant(ctx context.Context, achievementID int64) (bool, error) {
	const query = `
		INSERT INTO user_achievements (achievement_id, earned_at)
		VALUES ($1, NOW())
		ON CONFLICT (achievement_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, achievementID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

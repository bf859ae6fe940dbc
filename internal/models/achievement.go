package models

import "time"

// Achievement requirement types.
const (
	RequirementSessionsCompleted    = "sessions_completed"
	RequirementSingleSessionMinutes = "single_session_minutes"
	RequirementConsecutiveDays      = "consecutive_days"
	RequirementTotalHours           = "total_hours"
	RequirementUniqueDestinations   = "unique_destinations"
	RequirementSessionsInDay        = "sessions_in_day"
)

// Achievement is a static milestone definition.
type Achievement struct {
	ID               int64  `db:"id" json:"id"`
	Name             string `db:"name" json:"name"`
	Description      string `db:"description" json:"description"`
	Icon             string `db:"icon" json:"icon"`
	RequirementType  string `db:"requirement_type" json:"requirement_type"`
	RequirementValue int64  `db:"requirement_value" json:"requirement_value"`
}

// EarnedAchievement is a grant record joined with its definition.
type EarnedAchievement struct {
	ID            int64     `db:"id" json:"id"`
	AchievementID int64     `db:"achievement_id" json:"achievement_id"`
	EarnedAt      time.Time `db:"earned_at" json:"earned_at"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Icon          string    `db:"icon" json:"icon"`
}

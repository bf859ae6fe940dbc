package models

import "time"

// Session statuses.
const (
	SessionStatusPlanned    = "planned"
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusCancelled  = "cancelled"
)

// Session represents one focus flight. Joined display fields are populated
// only by list/detail reads; lifecycle writes return the bare row.
type Session struct {
	ID                int64      `db:"id" json:"id"`
	DepartureCityID   int64      `db:"departure_city_id" json:"departure_city_id"`
	DestinationCityID int64      `db:"destination_city_id" json:"destination_city_id"`
	CategoryID        int64      `db:"category_id" json:"category_id"`
	PlannedDuration   int        `db:"planned_duration" json:"planned_duration"`
	ActualDuration    *int       `db:"actual_duration" json:"actual_duration"`
	GoalText          *string    `db:"goal_text" json:"goal_text"`
	Seat              *string    `db:"seat" json:"seat"`
	MilesEarned       int        `db:"miles_earned" json:"miles_earned"`
	Status            string     `db:"status" json:"status"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	StartedAt         *time.Time `db:"started_at" json:"started_at"`
	CompletedAt       *time.Time `db:"completed_at" json:"completed_at"`

	DepartureCode   string `db:"departure_code" json:"departure_code,omitempty"`
	DepartureName   string `db:"departure_name" json:"departure_name,omitempty"`
	DestinationCode string `db:"destination_code" json:"destination_code,omitempty"`
	DestinationName string `db:"destination_name" json:"destination_name,omitempty"`
	CategoryName    string `db:"category_name" json:"category_name,omitempty"`
	CategoryColor   string `db:"category_color" json:"category_color,omitempty"`
}

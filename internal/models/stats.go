package models

// Stats summarizes completed flight time for the home and stats screens.
type Stats struct {
	TodayMinutes int64 `json:"todayMinutes"`
	WeekMinutes  int64 `json:"weekMinutes"`
	MonthMinutes int64 `json:"monthMinutes"`
	Streak       int   `json:"streak"`
	TotalFlights int64 `json:"totalFlights"`
}

// CategoryMinutes is one row of the per-category breakdown.
type CategoryMinutes struct {
	Name    string `db:"name" json:"name"`
	Color   string `db:"color" json:"color"`
	Minutes int64  `db:"minutes" json:"minutes"`
}

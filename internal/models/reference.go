package models

// City is immutable reference data for flight endpoints.
type City struct {
	ID   int64  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// Category is an immutable focus-type definition.
type Category struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Color string `db:"color" json:"color"`
	Icon  string `db:"icon" json:"icon"`
}

// Route aggregates completed flights between a pair of cities.
type Route struct {
	DepartureCode   string `db:"departure_code" json:"departure_code"`
	DepartureName   string `db:"departure_name" json:"departure_name"`
	DestinationCode string `db:"destination_code" json:"destination_code"`
	DestinationName string `db:"destination_name" json:"destination_name"`
	FlightCount     int64  `db:"flight_count" json:"flight_count"`
	TotalMinutes    int64  `db:"total_minutes" json:"total_minutes"`
}

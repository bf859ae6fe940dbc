package repository

import (
	"context"
	"database/sql"

	"focusflight/internal/models"
)

// ReferenceRepository reads immutable cities and categories.
type ReferenceRepository struct {
	db *sql.DB
}

// NewReferenceRepository returns repository.
func NewReferenceRepository(db *sql.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ListCities returns all cities ordered by name.
func (r *ReferenceRepository) ListCities(ctx context.Context) ([]models.City, error) {
	const query = `SELECT id, code, name FROM cities ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []models.City
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cities, nil
}

// ListCategories returns all focus categories in definition order.
func (r *ReferenceRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	const query = `SELECT id, name, color, icon FROM categories ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListRoutes aggregates completed sessions per city pair, busiest first.
func (r *ReferenceRepository) ListRoutes(ctx context.Context) ([]models.Route, error) {
	const query = `
		SELECT
			dc.code AS departure_code, dc.name AS departure_name,
			dest.code AS destination_code, dest.name AS destination_name,
			COUNT(*) AS flight_count,
			COALESCE(SUM(fs.actual_duration), 0) AS total_minutes
		FROM focus_sessions fs
		JOIN cities dc ON fs.departure_city_id = dc.id
		JOIN cities dest ON fs.destination_city_id = dest.id
		WHERE fs.status = 'completed'
		GROUP BY dc.code, dc.name, dest.code, dest.name
		ORDER BY total_minutes DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []models.Route
	for rows.Next() {
		var rt models.Route
		if err := rows.Scan(
			&rt.DepartureCode,
			&rt.DepartureName,
			&rt.DestinationCode,
			&rt.DestinationName,
			&rt.FlightCount,
			&rt.TotalMinutes,
		); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return routes, nil
}

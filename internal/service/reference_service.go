package service

import (
	"context"

	"focusflight/internal/models"
)

// ReferenceStore reads immutable reference data.
type ReferenceStore interface {
	ListCities(ctx context.Context) ([]models.City, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
}

// ReferenceService exposes cities, categories and flown routes.
type ReferenceService struct {
	store ReferenceStore
}

// NewReferenceService builds service.
func NewReferenceService(store ReferenceStore) *ReferenceService {
	return &ReferenceService{store: store}
}

// Cities returns all cities ordered by name.
func (s *ReferenceService) Cities(ctx context.Context) ([]models.City, error) {
	return s.store.ListCities(ctx)
}

// Categories returns all focus categories.
func (s *ReferenceService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

// Routes returns aggregated completed routes.
func (s *ReferenceService) Routes(ctx context.Context) ([]models.Route, error) {
	return s.store.ListRoutes(ctx)
}

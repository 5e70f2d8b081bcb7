package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gaganrajn/urban-company-backend/internal/domain"
	"github.com/gaganrajn/urban-company-backend/internal/models"
)

// CatalogService manages the bookable service catalog.
type CatalogService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewCatalogService(store domain.Store, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

func (s *CatalogService) Create(ctx context.Context, svc *models.Service) error {
	svc.Name = strings.TrimSpace(svc.Name)
	if !models.IsValidCategory(svc.Category) {
		return ErrInvalidCategory
	}
	if svc.EstimatedMinutes <= 0 {
		svc.EstimatedMinutes = models.DefaultEstimatedMinutes
	}
	svc.IsActive = true

	if err := s.store.CreateService(ctx, svc); err != nil {
		return err
	}
	s.logger.Info().Int64("service_id", svc.ID).Str("name", svc.Name).Msg("service created")
	return nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Service, error) {
	return s.store.GetServiceByID(ctx, id)
}

// List returns active services; admins may ask for the full catalog.
func (s *CatalogService) List(ctx context.Context, includeInactive bool) ([]*models.Service, error) {
	return s.store.GetServices(ctx, includeInactive)
}

// Update applies the provided fields only.
func (s *CatalogService) Update(ctx context.Context, id int64, upd models.ServiceUpdate) (*models.Service, error) {
	if upd.Category != nil && !models.IsValidCategory(*upd.Category) {
		return nil, ErrInvalidCategory
	}
	if err := s.store.UpdateService(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.store.GetServiceByID(ctx, id)
}

// Delete deactivates the service. Rows are never removed so historical
// bookings keep a valid reference.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeactivateService(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("service_id", id).Msg("service deactivated")
	return nil
}

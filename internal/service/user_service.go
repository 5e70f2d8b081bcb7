package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gaganrajn/urban-company-backend/internal/auth"
	"github.com/gaganrajn/urban-company-backend/internal/domain"
	"github.com/gaganrajn/urban-company-backend/internal/models"
)

// UserService covers profiles and the partner directory.
type UserService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewUserService(store domain.Store, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// ListAll returns every account. Secret fields never serialize, so the
// raw models are safe to hand to the admin listing.
func (s *UserService) ListAll(ctx context.Context) ([]*models.User, error) {
	return s.store.GetAllUsers(ctx)
}

// ListPartners returns verified partners only.
func (s *UserService) ListPartners(ctx context.Context) ([]*models.User, error) {
	return s.store.GetVerifiedPartners(ctx)
}

// UpdateProfile applies a partial change to the caller's own profile.
// A submitted password is hashed here so plain text never reaches the
// store.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	if upd.Password != nil && *upd.Password != "" {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}
	upd.Password = nil
	if err := s.store.UpdateProfile(ctx, userID, upd); err != nil {
		return nil, err
	}
	return s.store.GetUserByID(ctx, userID)
}

// Disable flips is_active off; the account stays on record.
func (s *UserService) Disable(ctx context.Context, id int64) error {
	if err := s.store.DisableUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user disabled")
	return nil
}

package domain

import (
	"context"
	"time"

	"github.com/gaganrajn/urban-company-backend/internal/models"
)

// Store is the durable record of users, services and bookings.
type Store interface {
	// users
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	SetUserOTP(ctx context.Context, phone, code string, expiresAt time.Time) (*models.User, error)
	ClearUserOTP(ctx context.Context, id int64) error
	ApplyRegistration(ctx context.Context, id int64, name, email, role *string) error
	UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetVerifiedPartners(ctx context.Context) ([]*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	DisableUser(ctx context.Context, id int64) error
	UpdateUserRating(ctx context.Context, id int64, rating float64) error
	IncrementUserBookings(ctx context.Context, id int64) error

	// services
	CreateService(ctx context.Context, svc *models.Service) error
	GetServiceByID(ctx context.Context, id int64) (*models.Service, error)
	GetServices(ctx context.Context, includeInactive bool) ([]*models.Service, error)
	UpdateService(ctx context.Context, id int64, upd models.ServiceUpdate) error
	DeactivateService(ctx context.Context, id int64) error
	GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]*models.Service, error)

	// bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
	GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error)
	GetPendingBookings(ctx context.Context) ([]*models.Booking, error)
	AcceptBooking(ctx context.Context, id, partnerID int64) error
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	RateBooking(ctx context.Context, id int64, rating int64, review *string) error
	GetPartnerRatings(ctx context.Context, partnerID int64) ([]int64, error)
}

// Throttle limits how often a keyed action may run inside a window.
type Throttle interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// SyncWorker schedules background synchronization of booking data.
type SyncWorker interface {
	EnqueueBookingSync(ctx context.Context, taskType string, booking *models.Booking) error
}

// SheetsWriter mirrors marketplace data into spreadsheets for the ops
// team.
type SheetsWriter interface {
	ReplaceUsersSheet(ctx context.Context, users []*models.User) error
	ReplaceBookingsSheet(ctx context.Context, bookings []*models.Booking) error
	UpsertBooking(ctx context.Context, booking *models.Booking) error
}

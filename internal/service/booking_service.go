package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gaganrajn/urban-company-backend/internal/domain"
	"github.com/gaganrajn/urban-company-backend/internal/events"
	"github.com/gaganrajn/urban-company-backend/internal/metrics"
	"github.com/gaganrajn/urban-company-backend/internal/models"
)

// BookingService drives the booking lifecycle: create, accept, status
// changes and rating with partner aggregate recomputation.
type BookingService struct {
	store        domain.Store
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	logger       *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:        store,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		logger:       logger,
	}
}

// Create books an active catalog service for a user. The price is copied
// from the service at this moment and never re-derived.
func (s *BookingService) Create(ctx context.Context, booking *models.Booking) (*models.BookingView, error) {
	svc, err := s.store.GetServiceByID(ctx, booking.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	booking.Status = models.StatusPending
	booking.PartnerID = nil
	booking.Price = svc.BasePrice
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentPending
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.store.IncrementUserBookings(ctx, booking.UserID); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", booking.UserID).Msg("failed to bump booking counter")
	}

	metrics.IncBookingTransition(models.StatusPending)
	s.publishEvent(events.EventBookingCreated, booking, svc.Name)
	s.enqueueSync(ctx, "upsert", booking)

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("user_id", booking.UserID).
		Int64("service_id", booking.ServiceID).
		Float64("price", booking.Price).
		Msg("booking created")

	return s.view(ctx, booking)
}

// Accept binds a partner to a pending booking. The update is conditional
// on the current status still being pending, so of two racing partners
// exactly one wins; the loser sees ErrNotPending.
func (s *BookingService) Accept(ctx context.Context, bookingID, partnerID int64) (*models.BookingView, error) {
	if err := s.store.AcceptBooking(ctx, bookingID, partnerID); err != nil {
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(models.StatusAccepted)
	s.publishEvent(events.EventBookingAccepted, booking, "")
	s.enqueueSync(ctx, "update_status", booking)

	s.logger.Info().Int64("booking_id", bookingID).Int64("partner_id", partnerID).Msg("booking accepted")
	return s.view(ctx, booking)
}

// UpdateStatus moves a booking to a new status. Membership in the status
// enum is enforced here; legality of the specific transition is delegated
// to models.CanTransition. The move into completed stamps completed_at.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int64, status string) (*models.BookingView, error) {
	if !models.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(booking.Status, status) {
		return nil, ErrInvalidStatus
	}

	if err := s.store.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}

	booking, err = s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	metrics.IncBookingTransition(status)
	switch status {
	case models.StatusCompleted:
		s.publishEvent(events.EventBookingCompleted, booking, "")
	case models.StatusCancelled:
		s.publishEvent(events.EventBookingCancelled, booking, "")
	}
	s.enqueueSync(ctx, "update_status", booking)

	return s.view(ctx, booking)
}

// Rate records a 1-5 rating with an optional review, then recomputes the
// partner's aggregate as the mean over every rated booking of that
// partner. The recomputation is a full scan; under concurrent ratings the
// last writer wins, which the next rating event self-corrects.
func (s *BookingService) Rate(ctx context.Context, bookingID, rating int64, review *string) (*models.BookingView, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if err := s.store.RateBooking(ctx, bookingID, rating, review); err != nil {
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PartnerID != nil {
		if err := s.recomputePartnerRating(ctx, *booking.PartnerID); err != nil {
			s.logger.Error().Err(err).Int64("partner_id", *booking.PartnerID).Msg("failed to recompute partner rating")
		}
	}

	s.publishEvent(events.EventBookingRated, booking, "")
	s.enqueueSync(ctx, "upsert", booking)

	return s.view(ctx, booking)
}

func (s *BookingService) recomputePartnerRating(ctx context.Context, partnerID int64) error {
	ratings, err := s.store.GetPartnerRatings(ctx, partnerID)
	if err != nil {
		return err
	}
	if len(ratings) == 0 {
		return nil
	}

	var sum int64
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))

	if err := s.store.UpdateUserRating(ctx, partnerID, mean); err != nil {
		return fmt.Errorf("persist partner rating: %w", err)
	}

	s.logger.Info().
		Int64("partner_id", partnerID).
		Float64("rating", mean).
		Int("sample_size", len(ratings)).
		Msg("partner rating recomputed")
	return nil
}

func (s *BookingService) Get(ctx context.Context, id int64) (*models.BookingView, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, booking)
}

func (s *BookingService) ListAll(ctx context.Context) ([]*models.BookingView, error) {
	bookings, err := s.store.GetAllBookings(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, bookings)
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]*models.BookingView, error) {
	bookings, err := s.store.GetUserBookings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, bookings)
}

// ListAvailableForPartners returns pending bookings any partner may
// accept.
func (s *BookingService) ListAvailableForPartners(ctx context.Context) ([]*models.BookingView, error) {
	bookings, err := s.store.GetPendingBookings(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, bookings)
}

func (s *BookingService) view(ctx context.Context, booking *models.Booking) (*models.BookingView, error) {
	views, err := s.views(ctx, []*models.Booking{booking})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// views resolves user, partner and service references in one batch per
// kind.
func (s *BookingService) views(ctx context.Context, bookings []*models.Booking) ([]*models.BookingView, error) {
	userIDs := make([]int64, 0, len(bookings)*2)
	serviceIDs := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		userIDs = append(userIDs, b.UserID)
		if b.PartnerID != nil {
			userIDs = append(userIDs, *b.PartnerID)
		}
		serviceIDs = append(serviceIDs, b.ServiceID)
	}

	users, err := s.store.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	services, err := s.store.GetServicesByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := &models.BookingView{
			Booking: *b,
			User:    users[b.UserID].Summary(),
			Service: services[b.ServiceID].Summary(),
		}
		if b.PartnerID != nil {
			view.Partner = users[*b.PartnerID].Summary()
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, serviceName string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		ServiceID:   booking.ServiceID,
		ServiceName: serviceName,
		Status:      booking.Status,
		Price:       booking.Price,
	}
	if booking.PartnerID != nil {
		payload.PartnerID = *booking.PartnerID
	}
	if booking.Rating != nil {
		payload.Rating = *booking.Rating
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}

func (s *BookingService) enqueueSync(ctx context.Context, taskType string, booking *models.Booking) {
	if s.sheetsWorker == nil {
		return
	}
	if err := s.sheetsWorker.EnqueueBookingSync(ctx, taskType, booking); err != nil {
		s.logger.Warn().Err(err).Str("task_type", taskType).Int64("booking_id", booking.ID).Msg("failed to enqueue sheets sync")
	}
}

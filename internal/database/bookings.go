package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gaganrajn/urban-company-backend/internal/models"
)

const bookingColumns = `id, user_id, partner_id, service_id, status,
	scheduled_date, address, lat, lng, price, payment_status, payment_id,
	rating, review, notes, created_at, updated_at, completed_at`

func (db *DB) scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.PartnerID, &b.ServiceID, &b.Status,
		&b.ScheduledDate, &b.Address, &b.Lat, &b.Lng, &b.Price,
		&b.PaymentStatus, &b.PaymentID, &b.Rating, &b.Review, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt, &b.CompletedAt,
	)
	if err != nil {
		return nil, mapSQLError(err)
	}
	return &b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
	            user_id, service_id, status, scheduled_date, address, lat, lng,
	            price, payment_status, notes, created_at, updated_at
	          ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.UserID, booking.ServiceID, booking.Status, booking.ScheduledDate,
		booking.Address, booking.Lat, booking.Lng, booking.Price,
		booking.PaymentStatus, booking.Notes, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return db.scanBooking(db.QueryRowContext(ctx, query, id))
}

func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`
	return db.queryBookings(ctx, query)
}

func (db *DB) GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE user_id = ? ORDER BY created_at DESC`
	return db.queryBookings(ctx, query, userID)
}

// GetPendingBookings returns the pool partners can accept from.
func (db *DB) GetPendingBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE status = ? ORDER BY created_at DESC`
	return db.queryBookings(ctx, query, models.StatusPending)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := db.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// AcceptBooking binds the partner with a compare-and-swap on the pending
// status, so a second accept of the same booking loses cleanly instead of
// silently rebinding the partner.
func (db *DB) AcceptBooking(ctx context.Context, id, partnerID int64) error {
	query := `UPDATE bookings SET status = ?, partner_id = ?, updated_at = ?
	          WHERE id = ? AND status = ?`
	res, err := db.ExecContext(ctx, query,
		models.StatusAccepted, partnerID, time.Now(), id, models.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to accept booking: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	// Zero rows: either the booking is gone or the swap lost.
	if _, err := db.GetBooking(ctx, id); err != nil {
		return err
	}
	return ErrNotPending
}

// UpdateBookingStatus writes the new status. Only the transition into
// completed stamps completed_at; every other target leaves it untouched.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	var res interface{ RowsAffected() (int64, error) }
	var err error

	now := time.Now()
	if status == models.StatusCompleted {
		query := `UPDATE bookings SET status = ?, completed_at = ?, updated_at = ? WHERE id = ?`
		res, err = db.ExecContext(ctx, query, status, now, now, id)
	} else {
		query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
		res, err = db.ExecContext(ctx, query, status, now, id)
	}
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// RateBooking records rating and review together.
func (db *DB) RateBooking(ctx context.Context, id int64, rating int64, review *string) error {
	query := `UPDATE bookings SET rating = ?, review = ?, updated_at = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query, rating, review, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to rate booking: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPartnerRatings returns every non-null rating across the partner's
// bookings. The caller derives the mean. A full scan is fine here since
// this runs only on rating events.
func (db *DB) GetPartnerRatings(ctx context.Context, partnerID int64) ([]int64, error) {
	query := `SELECT rating FROM bookings WHERE partner_id = ? AND rating IS NOT NULL`
	rows, err := db.QueryContext(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query partner ratings: %w", err)
	}
	defer rows.Close()

	var ratings []int64
	for rows.Next() {
		var r int64
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

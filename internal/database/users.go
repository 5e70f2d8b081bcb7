package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gaganrajn/urban-company-backend/internal/models"
)

const userColumns = `id, phone, name, email, role, avatar, address, city,
	is_verified, is_active, rating, total_bookings, password_hash,
	otp_code, otp_expires_at, created_at, updated_at`

func (db *DB) scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Phone, &u.Name, &u.Email, &u.Role, &u.Avatar, &u.Address, &u.City,
		&u.IsVerified, &u.IsActive, &u.Rating, &u.TotalBookings, &u.PasswordHash,
		&u.OTPCode, &u.OTPExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapSQLError(err)
	}
	return &u, nil
}

func (db *DB) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = ?`
	return db.scanUser(db.QueryRowContext(ctx, query, phone))
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return db.scanUser(db.QueryRowContext(ctx, query, id))
}

// SetUserOTP stores a fresh code/expiry pair on the user addressed by
// phone, creating a skeleton user row when the phone is new. The pair is
// written together; callers must have dispatched the SMS first.
func (db *DB) SetUserOTP(ctx context.Context, phone, code string, expiresAt time.Time) (*models.User, error) {
	query := `INSERT INTO users (phone, otp_code, otp_expires_at, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?)
              ON CONFLICT(phone) DO UPDATE SET
                otp_code = excluded.otp_code,
                otp_expires_at = excluded.otp_expires_at,
                updated_at = excluded.updated_at`
	now := time.Now()
	if _, err := db.ExecContext(ctx, query, phone, code, expiresAt, now, now); err != nil {
		return nil, fmt.Errorf("failed to set user otp: %w", err)
	}
	return db.GetUserByPhone(ctx, phone)
}

// ClearUserOTP removes the code/expiry pair as a unit and marks the user
// verified. A cleared code cannot be replayed.
func (db *DB) ClearUserOTP(ctx context.Context, id int64) error {
	query := `UPDATE users SET otp_code = '', otp_expires_at = NULL,
	          is_verified = 1, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to clear user otp: %w", err)
	}
	return nil
}

// ApplyRegistration fills in optional signup fields on first login. Nil
// fields keep their stored values.
func (db *DB) ApplyRegistration(ctx context.Context, id int64, name, email, role *string) error {
	query := `UPDATE users SET
	            name = COALESCE(?, name),
	            email = COALESCE(?, email),
	            role = COALESCE(?, role),
	            updated_at = ?
	          WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, name, email, role, time.Now(), id); err != nil {
		return fmt.Errorf("failed to apply registration: %w", err)
	}
	return nil
}

// UpdateProfile applies only the fields present in the update.
func (db *DB) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error {
	query := `UPDATE users SET
	            name = COALESCE(?, name),
	            email = COALESCE(?, email),
	            address = COALESCE(?, address),
	            city = COALESCE(?, city),
	            avatar = COALESCE(?, avatar),
	            password_hash = COALESCE(?, password_hash),
	            updated_at = ?
	          WHERE id = ?`
	res, err := db.ExecContext(ctx, query, upd.Name, upd.Email, upd.Address, upd.City, upd.Avatar, upd.PasswordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	return db.queryUsers(ctx, query)
}

// GetVerifiedPartners returns users with role=partner AND is_verified.
func (db *DB) GetVerifiedPartners(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
              WHERE role = ? AND is_verified = 1 ORDER BY rating DESC`
	return db.queryUsers(ctx, query, models.RolePartner)
}

func (db *DB) queryUsers(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := db.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUsersByIDs loads a batch of users keyed by id for view resolution.
func (db *DB) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	out := make(map[int64]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id IN (?` +
		repeatPlaceholder(len(ids)-1) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := db.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

// DisableUser soft-disables the account.
func (db *DB) DisableUser(ctx context.Context, id int64) error {
	query := `UPDATE users SET is_active = 0, updated_at = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to disable user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserRating overwrites the derived aggregate rating.
func (db *DB) UpdateUserRating(ctx context.Context, id int64, rating float64) error {
	query := `UPDATE users SET rating = ?, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, rating, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update user rating: %w", err)
	}
	return nil
}

func (db *DB) IncrementUserBookings(ctx context.Context, id int64) error {
	query := `UPDATE users SET total_bookings = total_bookings + 1, updated_at = ? WHERE id = ?`
	if _, err := db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to increment user bookings: %w", err)
	}
	return nil
}

func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}

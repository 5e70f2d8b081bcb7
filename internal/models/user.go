package models

import "time"

type User struct {
	ID            int64     `json:"id"`
	Phone         string    `json:"phone"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Role          string    `json:"role"` // user, partner, admin
	Avatar        string    `json:"avatar,omitempty"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	IsVerified    bool      `json:"is_verified"`
	IsActive      bool      `json:"is_active"`
	Rating        float64   `json:"rating"`
	TotalBookings int64     `json:"total_bookings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Secret fields, never serialized. OTPCode and OTPExpiresAt are always
	// set or cleared together.
	PasswordHash string     `json:"-"`
	OTPCode      string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
}

// HasPendingOTP reports whether the user has an outstanding code.
func (u *User) HasPendingOTP() bool {
	return u.OTPCode != "" && u.OTPExpiresAt != nil
}

// Summary returns the part of a user that is safe to embed into booking
// responses.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:     u.ID,
		Phone:  u.Phone,
		Name:   u.Name,
		Role:   u.Role,
		Rating: u.Rating,
	}
}

type UserSummary struct {
	ID     int64   `json:"id"`
	Phone  string  `json:"phone"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Rating float64 `json:"rating"`
}

// ProfileUpdate carries a partial profile change: nil fields are left
// untouched.
type ProfileUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Avatar  *string `json:"avatar"`

	// Password arrives in plain text and is hashed by the service layer
	// before it reaches the store.
	Password     *string `json:"password"`
	PasswordHash *string `json:"-"`
}

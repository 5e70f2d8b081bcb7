package models

import "time"

type Booking struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	PartnerID     *int64     `json:"partner_id"`
	ServiceID     int64      `json:"service_id"`
	Status        string     `json:"status"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Address       string     `json:"address"`
	Lat           float64    `json:"lat"`
	Lng           float64    `json:"lng"`
	Price         float64    `json:"price"` // snapshot of service.base_price at creation
	PaymentStatus string     `json:"payment_status"`
	PaymentID     string     `json:"payment_id,omitempty"`
	Rating        *int64     `json:"rating"`
	Review        *string    `json:"review"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// BookingView is a booking with user/partner/service references resolved
// for direct client consumption.
type BookingView struct {
	Booking
	User    *UserSummary    `json:"user,omitempty"`
	Partner *UserSummary    `json:"partner,omitempty"`
	Service *ServiceSummary `json:"service,omitempty"`
}

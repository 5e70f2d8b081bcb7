package service

import "errors"

var (
	// ErrInvalidPhone means the phone is not exactly ten digits.
	ErrInvalidPhone = errors.New("phone must be exactly 10 digits")

	// ErrTooManyRequests means the per-phone OTP send budget is spent.
	ErrTooManyRequests = errors.New("too many otp requests")

	// ErrSMSDelivery means the gateway refused or timed out. No OTP state
	// is persisted when this happens.
	ErrSMSDelivery = errors.New("failed to deliver otp sms")

	// ErrNoPendingOTP means the user has no outstanding code to verify.
	ErrNoPendingOTP = errors.New("no pending otp for this phone")

	// ErrInvalidStatus rejects a status outside the five known values.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidRating rejects ratings outside [1, 5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidRole rejects roles outside user/partner/admin.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidCategory rejects categories outside the catalog enum.
	ErrInvalidCategory = errors.New("invalid service category")

	// ErrServiceInactive means the referenced catalog entry exists but was
	// deactivated; bookings may only target active services.
	ErrServiceInactive = errors.New("service is not active")

	// ErrUserDisabled blocks logins for administratively disabled accounts.
	ErrUserDisabled = errors.New("user account is disabled")
)

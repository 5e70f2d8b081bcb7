package models

const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	RoleUser    = "user"
	RolePartner = "partner"
	RoleAdmin   = "admin"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

const (
	CategoryCleaning = "cleaning"
	CategoryRepairs  = "repairs"
	CategoryBeauty   = "beauty"
	CategoryFitness  = "fitness"
	CategoryCooking  = "cooking"
	CategoryOther    = "other"
)

const (
	// DefaultUserRating is assigned to new users before any real ratings.
	DefaultUserRating = 4.5

	// DefaultEstimatedMinutes for services without an explicit duration.
	DefaultEstimatedMinutes = 60

	// PhoneLength is the only accepted phone number length.
	PhoneLength = 10

	// OTPLength is the length of a one-time code.
	OTPLength = 6

	// WorkerQueueSize is the in-memory sheets queue capacity.
	WorkerQueueSize = 1000
)

// ValidStatuses in presentation order.
var ValidStatuses = []string{
	StatusPending,
	StatusAccepted,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// ValidCategories for the service catalog.
var ValidCategories = []string{
	CategoryCleaning,
	CategoryRepairs,
	CategoryBeauty,
	CategoryFitness,
	CategoryCooking,
	CategoryOther,
}

// IsValidStatus checks enum membership only; transition legality is the
// job of CanTransition.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidRole(role string) bool {
	return role == RoleUser || role == RolePartner || role == RoleAdmin
}

func IsValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

// CanTransition is the single seam for status-transition legality. The
// current policy is permissive: any valid status may follow any other,
// matching the historical behavior callers depend on. Tightening the state
// machine means changing this function only.
func CanTransition(from, to string) bool {
	return IsValidStatus(to)
}

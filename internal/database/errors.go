package database

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned on unique-constraint violations, e.g. a
	// second service with the same name or a second user with the same
	// phone.
	ErrDuplicate = errors.New("duplicate record")

	// ErrNotPending is returned when a conditional accept loses the race:
	// the booking exists but is no longer pending.
	ErrNotPending = errors.New("booking is not pending")
)

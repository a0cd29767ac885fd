package repository

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	// ErrAlreadyPaid is returned when a pending order is requested for a
	// (user, course) pair that already holds a paid enrollment.
	ErrAlreadyPaid = errors.New("enrollment already paid")
)

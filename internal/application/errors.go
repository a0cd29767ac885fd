package application

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")

	ErrAlreadyEnrolled        = errors.New("already enrolled in course")
	ErrInvalidSignature       = errors.New("invalid payment signature")
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderPersistenceFailed = errors.New("order could not be persisted")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrGatewayUnavailable     = errors.New("payment gateway unavailable")
	ErrCourseTitleTaken       = errors.New("course title already exists")
)

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsRetryable reports failures the client may retry later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable) || errors.Is(err, ErrOrderPersistenceFailed)
}

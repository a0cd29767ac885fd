package repository

import (
	"context"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// AddEnrollment records a settled enrollment on the user. Adding the
	// same enrollment twice is a no-op.
	AddEnrollment(ctx context.Context, userID, enrollmentID string) error
}

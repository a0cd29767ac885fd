package repository

import (
	"context"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

type CourseRepository interface {
	// Create fails with ErrDuplicate when the title is taken.
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Course, error)
	ListIDs(ctx context.Context) ([]string, error)
	IncrementEnrollments(ctx context.Context, courseID string, delta int64) error
	SetEnrollmentCount(ctx context.Context, courseID string, n int64) error
}

type LectureRepository interface {
	// Create stores the lecture and appends it to its course. A zero
	// Position is replaced by the next free position.
	Create(ctx context.Context, l *entity.Lecture) error
	GetByID(ctx context.Context, id string) (*entity.Lecture, error)
	ListByCourse(ctx context.Context, courseID string) ([]*entity.Lecture, error)
}

package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

// EntitlementService answers access questions from the enrollment ledger.
//
// Redis only ever holds positive answers. Settlement is one-way, so a
// cached "entitled" can never go stale, and a miss always falls through
// to the ledger.
type EntitlementService struct {
	Enrollments repo.EnrollmentRepository
	Courses     repo.CourseRepository
	Redis       *redis.Client
	CacheTTL    time.Duration
	Logger      *logrus.Logger
}

func NewEntitlementService(enrollments repo.EnrollmentRepository, courses repo.CourseRepository, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *EntitlementService {
	return &EntitlementService{Enrollments: enrollments, Courses: courses, Redis: rdb, CacheTTL: cacheTTL, Logger: logger}
}

func entitlementKey(userID, courseID string) string {
	return "entitlement:" + userID + ":" + courseID
}

// IsEntitled reports whether userID holds a paid enrollment for courseID.
func (s *EntitlementService) IsEntitled(ctx context.Context, userID, courseID string) (bool, error) {
	if userID == "" || courseID == "" {
		return false, nil
	}
	useCache := s.Redis != nil && s.CacheTTL > 0
	key := entitlementKey(userID, courseID)
	if useCache {
		if v, err := s.Redis.Get(ctx, key).Result(); err == nil && v == "1" {
			return true, nil
		}
	}
	ok, err := s.Enrollments.HasPaid(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	if ok && useCache {
		if err := s.Redis.Set(ctx, key, "1", s.CacheTTL).Err(); err != nil {
			orStd(s.Logger).WithError(err).WithField("key", key).Warn("entitlement cache write failed")
		}
	}
	return ok, nil
}

// ListEntitlements returns every course userID has paid for, in no
// particular order.
func (s *EntitlementService) ListEntitlements(ctx context.Context, userID string) ([]*entity.Course, error) {
	if userID == "" {
		return []*entity.Course{}, nil
	}
	paid, err := s.Enrollments.ListPaidByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(paid) == 0 {
		return []*entity.Course{}, nil
	}
	ids := make([]string, 0, len(paid))
	for _, e := range paid {
		ids = append(ids, e.CourseID)
	}
	return s.Courses.GetByIDs(ctx, ids)
}

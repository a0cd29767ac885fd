package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/gateway"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type entitlementChecker interface {
	IsEntitled(ctx context.Context, userID, courseID string) (bool, error)
}

// AccessService guards lecture video references behind entitlement.
type AccessService struct {
	Entitlements entitlementChecker
	Lectures     repo.LectureRepository
	Assets       gateway.AssetStore
	URLTTL       time.Duration
	Logger       *logrus.Logger
}

type LectureAsset struct {
	Lecture     *entity.Lecture
	AssetRef    string
	PlayableURL string
}

func NewAccessService(entitlements entitlementChecker, lectures repo.LectureRepository, assets gateway.AssetStore, urlTTL time.Duration, logger *logrus.Logger) *AccessService {
	return &AccessService{Entitlements: entitlements, Lectures: lectures, Assets: assets, URLTTL: urlTTL, Logger: logger}
}

// GetLectureAsset returns the stored video reference of lectureID if the
// caller is entitled to courseID. Entitlement is checked before the
// lecture is looked up so unpaid callers learn nothing about the course.
func (s *AccessService) GetLectureAsset(ctx context.Context, caller entity.Caller, courseID, lectureID string) (*LectureAsset, error) {
	ok, err := s.Entitlements.IsEntitled(ctx, caller.UserID, courseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	l, err := s.Lectures.GetByID(ctx, lectureID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if l.CourseID != courseID {
		return nil, ErrNotFound
	}

	out := &LectureAsset{Lecture: l, AssetRef: l.AssetRef}
	if s.Assets != nil {
		url, err := s.Assets.ResolvePlayableURL(ctx, l.AssetRef, s.URLTTL)
		if err != nil {
			orStd(s.Logger).WithError(err).WithField("lecture_id", l.ID).Warn("playable url not resolved")
		} else {
			out.PlayableURL = url
		}
	}
	return out, nil
}

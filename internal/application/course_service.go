package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/gateway"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

// CourseService covers the admin catalog side: creating courses and
// uploading lectures, plus the public course view.
type CourseService struct {
	Courses  repo.CourseRepository
	Lectures repo.LectureRepository
	Assets   gateway.AssetStore
	Currency string
	Logger   *logrus.Logger
}

func NewCourseService(courses repo.CourseRepository, lectures repo.LectureRepository, assets gateway.AssetStore, currency string, logger *logrus.Logger) *CourseService {
	return &CourseService{Courses: courses, Lectures: lectures, Assets: assets, Currency: currency, Logger: logger}
}

type CreateCourseInput struct {
	Title       string
	Description string
	Price       string
}

// CreateCourse registers a course owned by the calling admin.
func (s *CourseService) CreateCourse(ctx context.Context, caller entity.Caller, in CreateCourseInput) (*entity.Course, error) {
	if !caller.IsAdmin() || caller.UserID == "" {
		return nil, ErrForbidden
	}
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if desc == "" {
		return nil, invalid("description", "is required")
	}
	price, err := entity.ParseMoney(in.Price, s.Currency)
	if err != nil || !price.IsPositive() {
		return nil, invalid("price", "must be a positive amount with at most two decimals")
	}

	now := time.Now().UTC()
	c := &entity.Course{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  desc,
		Price:        price,
		InstructorID: caller.UserID,
		LectureIDs:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrCourseTitleTaken
		}
		return nil, err
	}
	orStd(s.Logger).WithFields(logrus.Fields{"course_id": c.ID, "instructor_id": c.InstructorID}).Info("course created")
	return c, nil
}

type AddLectureInput struct {
	Title       string
	Description string
	Position    int
	Filename    string
	ContentType string
	Video       io.Reader
}

// AddLecture stores the uploaded video and appends a lecture to the course.
func (s *CourseService) AddLecture(ctx context.Context, caller entity.Caller, courseID string, in AddLectureInput) (*entity.Lecture, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if in.Video == nil {
		return nil, invalid("video", "is required")
	}
	if in.Position < 0 {
		return nil, invalid("position", "must not be negative")
	}
	if _, err := s.Courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if s.Assets == nil {
		return nil, errors.New("asset store not configured")
	}

	ref, err := s.Assets.StoreVideo(ctx, courseID, in.Filename, in.ContentType, in.Video)
	if err != nil {
		return nil, err
	}
	l := &entity.Lecture{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Position:    in.Position,
		AssetRef:    ref,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Lectures.Create(ctx, l); err != nil {
		orStd(s.Logger).WithError(err).WithField("asset_ref", ref).Error("lecture not saved after upload")
		return nil, err
	}
	return l, nil
}

// LectureSummary is the public view of a lecture; it never carries the
// asset reference.
type LectureSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type CourseDetails struct {
	Course   *entity.Course
	Lectures []LectureSummary
}

func (s *CourseService) GetCourseDetails(ctx context.Context, courseID string) (*CourseDetails, error) {
	c, err := s.Courses.GetByID(ctx, courseID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	lectures, err := s.Lectures.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := &CourseDetails{Course: c, Lectures: make([]LectureSummary, 0, len(lectures))}
	for _, l := range lectures {
		out.Lectures = append(out.Lectures, LectureSummary{ID: l.ID, Title: l.Title, Position: l.Position})
	}
	return out, nil
}

package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

// SalesService serves the admin view of settled purchases and keeps the
// denormalized course counters honest.
type SalesService struct {
	Enrollments repo.EnrollmentRepository
	Courses     repo.CourseRepository
	Users       repo.UserRepository
	Currency    string
	Logger      *logrus.Logger
}

func NewSalesService(enrollments repo.EnrollmentRepository, courses repo.CourseRepository, users repo.UserRepository, currency string, logger *logrus.Logger) *SalesService {
	return &SalesService{Enrollments: enrollments, Courses: courses, Users: users, Currency: currency, Logger: logger}
}

type Sale struct {
	EnrollmentID string       `json:"enrollment_id"`
	UserName     string       `json:"user_name"`
	UserEmail    string       `json:"user_email"`
	CourseID     string       `json:"course_id"`
	CourseTitle  string       `json:"course_title"`
	Amount       entity.Money `json:"amount"`
	PaymentID    string       `json:"payment_id"`
	PaidAt       *time.Time   `json:"paid_at"`
}

type SalesReport struct {
	TotalRevenue     entity.Money `json:"total_revenue"`
	TotalEnrollments int          `json:"total_enrollments"`
	Sales            []Sale       `json:"sales"`
}

func (s *SalesService) Sales(ctx context.Context, caller entity.Caller) (*SalesReport, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	paid, err := s.Enrollments.ListPaid(ctx)
	if err != nil {
		return nil, err
	}
	report := &SalesReport{TotalRevenue: entity.NewMoney(0, s.Currency), Sales: make([]Sale, 0, len(paid))}

	courseIDs := make([]string, 0, len(paid))
	for _, e := range paid {
		courseIDs = append(courseIDs, e.CourseID)
	}
	courses, err := s.Courses.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}
	users := map[string]*entity.User{}

	for _, e := range paid {
		u, ok := users[e.UserID]
		if !ok {
			u, err = s.Users.GetByID(ctx, e.UserID)
			if err != nil {
				orStd(s.Logger).WithError(err).WithField("user_id", e.UserID).Warn("sale without resolvable user")
				u = &entity.User{ID: e.UserID}
			}
			users[e.UserID] = u
		}
		report.Sales = append(report.Sales, Sale{
			EnrollmentID: e.ID,
			UserName:     u.Name,
			UserEmail:    u.Email,
			CourseID:     e.CourseID,
			CourseTitle:  titles[e.CourseID],
			Amount:       e.Amount,
			PaymentID:    e.PaymentID,
			PaidAt:       e.PaidAt,
		})
		report.TotalRevenue = report.TotalRevenue.Add(e.Amount)
	}
	report.TotalEnrollments = len(report.Sales)
	return report, nil
}

// Reconcile rewrites every course's enrollment counter from the ledger and
// returns how many counters changed.
func (s *SalesService) Reconcile(ctx context.Context) (int, error) {
	counts, err := s.Enrollments.CountPaidByCourse(ctx)
	if err != nil {
		return 0, err
	}
	ids, err := s.Courses.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	courses, err := s.Courses.GetByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, c := range courses {
		want := counts[c.ID]
		if c.EnrollmentCount == want {
			continue
		}
		if err := s.Courses.SetEnrollmentCount(ctx, c.ID, want); err != nil {
			return changed, err
		}
		orStd(s.Logger).WithFields(logrus.Fields{
			"course_id": c.ID,
			"was":       c.EnrollmentCount,
			"now":       want,
		}).Info("enrollment counter reconciled")
		changed++
	}
	return changed, nil
}

package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/gateway"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
)

// OrderService starts purchases: it asks the gateway for a payment intent
// and records a pending enrollment against it.
type OrderService struct {
	Enrollments repo.EnrollmentRepository
	Courses     repo.CourseRepository
	Gateway     gateway.PaymentGateway
	Logger      *logrus.Logger

	GatewayTimeout  time.Duration
	PersistAttempts uint
	RetryInterval   time.Duration
	Now             func() time.Time
}

type OrderResult struct {
	OrderID  string       `json:"order_id"`
	CourseID string       `json:"course_id"`
	Amount   entity.Money `json:"amount"`
}

func NewOrderService(enrollments repo.EnrollmentRepository, courses repo.CourseRepository, gw gateway.PaymentGateway, logger *logrus.Logger, gatewayTimeout time.Duration, persistAttempts uint) *OrderService {
	return &OrderService{
		Enrollments:     enrollments,
		Courses:         courses,
		Gateway:         gw,
		Logger:          logger,
		GatewayTimeout:  gatewayTimeout,
		PersistAttempts: persistAttempts,
		Now:             time.Now,
	}
}

// CreateOrder opens a purchase of courseID for the caller. The charge is
// the course price at this moment; it is stored on the enrollment and
// never recomputed.
func (s *OrderService) CreateOrder(ctx context.Context, caller entity.Caller, courseID string) (*OrderResult, error) {
	if caller.UserID == "" {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(courseID) == "" {
		return nil, invalid("course_id", "is required")
	}

	course, err := s.Courses.GetByID(ctx, courseID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.Enrollments.GetByUserAndCourse(ctx, caller.UserID, courseID)
	switch {
	case err == nil && existing.Paid:
		return nil, ErrAlreadyEnrolled
	case err == nil && existing.Amount.Equal(course.Price):
		// Same price as the open order: hand it back instead of
		// creating a second gateway order.
		return &OrderResult{OrderID: existing.OrderID, CourseID: courseID, Amount: existing.Amount}, nil
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	enrollmentID := uuid.NewString()
	intent, err := s.requestIntent(ctx, course.Price, enrollmentID)
	if err != nil {
		orStd(s.Logger).WithError(err).WithFields(logrus.Fields{
			"user_id":   caller.UserID,
			"course_id": courseID,
		}).Warn("payment intent request failed")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	e := &entity.Enrollment{
		ID:        enrollmentID,
		OrderID:   intent.OrderID,
		UserID:    caller.UserID,
		CourseID:  courseID,
		Amount:    course.Price,
		CreatedAt: s.now(),
	}
	err = retry(ctx, s.PersistAttempts, s.RetryInterval, func() error {
		err := s.Enrollments.SavePending(ctx, e)
		if errors.Is(err, repo.ErrAlreadyPaid) {
			return backoff.Permanent(err)
		}
		return err
	})
	if errors.Is(err, repo.ErrAlreadyPaid) {
		orStd(s.Logger).WithFields(logrus.Fields{
			"order_id":  intent.OrderID,
			"user_id":   caller.UserID,
			"course_id": courseID,
		}).Warn("course settled while order was opening; gateway order abandoned")
		return nil, ErrAlreadyEnrolled
	}
	if err != nil {
		orStd(s.Logger).WithError(err).WithFields(logrus.Fields{
			"order_id":  intent.OrderID,
			"user_id":   caller.UserID,
			"course_id": courseID,
		}).Error("pending enrollment not persisted; gateway order left unmatched")
		return nil, ErrOrderPersistenceFailed
	}

	orStd(s.Logger).WithFields(logrus.Fields{
		"order_id":  e.OrderID,
		"user_id":   e.UserID,
		"course_id": e.CourseID,
		"amount":    e.Amount.Amount,
	}).Info("order created")
	return &OrderResult{OrderID: e.OrderID, CourseID: courseID, Amount: e.Amount}, nil
}

func (s *OrderService) requestIntent(ctx context.Context, amount entity.Money, enrollmentID string) (*gateway.PaymentIntent, error) {
	if s.GatewayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.GatewayTimeout)
		defer cancel()
	}
	intent, err := s.Gateway.CreatePaymentIntent(ctx, amount, receiptRef(enrollmentID))
	if err != nil {
		return nil, err
	}
	if intent == nil || intent.OrderID == "" {
		return nil, errors.New("gateway returned no order id")
	}
	return intent, nil
}

// receiptRef fits the gateway's 40 character receipt limit.
func receiptRef(enrollmentID string) string {
	id := strings.ReplaceAll(enrollmentID, "-", "")
	if len(id) > 32 {
		id = id[:32]
	}
	return "rcpt_" + id
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

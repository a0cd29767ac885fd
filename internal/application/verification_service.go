package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/gateway"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
	"github.com/oksasatya/course-marketplace/pkg/mailer"
	tpl "github.com/oksasatya/course-marketplace/pkg/mailer/templates"
)

// VerificationService settles pending enrollments from signed gateway
// callbacks.
type VerificationService struct {
	Enrollments repo.EnrollmentRepository
	Courses     repo.CourseRepository
	Users       repo.UserRepository
	Secret      string
	Publisher   gateway.EventPublisher
	Logger      *logrus.Logger

	FollowUpAttempts uint
	FollowUpTimeout  time.Duration
	RetryInterval    time.Duration
	Now              func() time.Time
}

type VerifyPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

func NewVerificationService(enrollments repo.EnrollmentRepository, courses repo.CourseRepository, users repo.UserRepository, secret string, pub gateway.EventPublisher, logger *logrus.Logger) *VerificationService {
	return &VerificationService{
		Enrollments:      enrollments,
		Courses:          courses,
		Users:            users,
		Secret:           secret,
		Publisher:        pub,
		Logger:           logger,
		FollowUpAttempts: 3,
		FollowUpTimeout:  10 * time.Second,
		Now:              time.Now,
	}
}

// VerifyPayment checks the callback signature and settles the order.
// Replays of an already settled order return the stored enrollment and
// leave the counters alone.
func (s *VerificationService) VerifyPayment(ctx context.Context, caller entity.Caller, in VerifyPaymentInput) (*entity.Enrollment, error) {
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.PaymentID = strings.TrimSpace(in.PaymentID)
	in.Signature = strings.TrimSpace(in.Signature)
	switch {
	case in.OrderID == "":
		return nil, invalid("order_id", "is required")
	case in.PaymentID == "":
		return nil, invalid("payment_id", "is required")
	case in.Signature == "":
		return nil, invalid("signature", "is required")
	}

	log := orStd(s.Logger).WithFields(logrus.Fields{
		"order_id":   in.OrderID,
		"payment_id": in.PaymentID,
		"user_id":    caller.UserID,
	})

	if !helpers.VerifyPaymentSignature(s.Secret, in.OrderID, in.PaymentID, in.Signature) {
		log.Warn("payment signature mismatch")
		return nil, ErrInvalidSignature
	}

	e, err := s.Enrollments.GetByOrderID(ctx, in.OrderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if e.UserID != caller.UserID && !caller.IsAdmin() {
		log.WithField("owner_id", e.UserID).Warn("verify attempted on foreign order")
		return nil, ErrForbidden
	}
	if e.Paid {
		if e.OrderID != in.OrderID {
			// The pair was already settled through another order; this
			// capture needs a manual refund.
			log.WithFields(logrus.Fields{
				"settled_order_id": e.OrderID,
				"course_id":        e.CourseID,
			}).Error("second payment captured for a settled enrollment")
			return e, nil
		}
		if e.PaymentID != in.PaymentID {
			log.WithField("stored_payment_id", e.PaymentID).Warn("settled order replayed with a different payment id")
		}
		return e, nil
	}

	settled, flipped, err := s.Enrollments.Settle(ctx, in.OrderID, in.PaymentID, s.now())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("settle order %s: %w", in.OrderID, err)
	}
	if !flipped {
		// A concurrent replay won the transition.
		return settled, nil
	}

	log.WithField("course_id", settled.CourseID).Info("enrollment settled")
	s.applyFollowUps(ctx, settled)
	return settled, nil
}

// applyFollowUps updates the denormalized course counter and user
// enrollment list. They run detached from the caller's cancellation,
// bounded by FollowUpTimeout. Failures are logged; cmd/reconcile repairs
// drift.
func (s *VerificationService) applyFollowUps(parent context.Context, e *entity.Enrollment) {
	ctx := context.WithoutCancel(parent)
	if s.FollowUpTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.FollowUpTimeout)
		defer cancel()
	}
	log := orStd(s.Logger).WithFields(logrus.Fields{
		"enrollment_id": e.ID,
		"order_id":      e.OrderID,
	})
	if err := retry(ctx, s.FollowUpAttempts, s.RetryInterval, func() error {
		return s.Courses.IncrementEnrollments(ctx, e.CourseID, 1)
	}); err != nil {
		log.WithError(err).Error("course enrollment counter not incremented")
	}
	if err := retry(ctx, s.FollowUpAttempts, s.RetryInterval, func() error {
		return s.Users.AddEnrollment(ctx, e.UserID, e.ID)
	}); err != nil {
		log.WithError(err).Error("user enrollment list not updated")
	}
	s.publishReceipt(ctx, e)
}

func (s *VerificationService) publishReceipt(ctx context.Context, e *entity.Enrollment) {
	if s.Publisher == nil {
		return
	}
	log := orStd(s.Logger).WithField("order_id", e.OrderID)
	u, err := s.Users.GetByID(ctx, e.UserID)
	if err != nil {
		log.WithError(err).Warn("receipt skipped: user lookup failed")
		return
	}
	c, err := s.Courses.GetByID(ctx, e.CourseID)
	if err != nil {
		log.WithError(err).Warn("receipt skipped: course lookup failed")
		return
	}
	paidAt := s.now()
	if e.PaidAt != nil {
		paidAt = *e.PaidAt
	}
	data := tpl.NewReceiptData(u.Name, u.Email, c.Title, e.Amount.String(),
		tpl.WithOrder(e.OrderID, e.PaymentID),
		tpl.WithTime(paidAt),
	)
	job := mailer.EmailJob{To: u.Email, Template: tpl.EnrollmentReceipt, Data: tpl.ToMap(data)}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		log.WithError(err).Warn("failed to publish receipt email job")
	}
}

func (s *VerificationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

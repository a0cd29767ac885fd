package repository

import (
	"context"
	"time"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

// EnrollmentRepository is the enrollment ledger. At most one row exists
// per (user, course) pair, so at most one of them can ever be paid.
//
// Every order id saved for a pair stays resolvable, so a payment against
// an older order still settles the pair.
type EnrollmentRepository interface {
	// GetByOrderID resolves any order id saved for a pair. While the pair
	// is unpaid the result carries that order's id and amount.
	GetByOrderID(ctx context.Context, orderID string) (*entity.Enrollment, error)
	// GetByUserAndCourse returns ErrNotFound when the pair has no row.
	GetByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error)
	// SavePending inserts a pending enrollment, or points the pair's
	// pending row at e.OrderID and e.Amount. Earlier orders of the pair
	// remain resolvable. It returns ErrAlreadyPaid without writing when
	// the pair is already paid, and ErrDuplicate when the order id
	// belongs to another pair.
	SavePending(ctx context.Context, e *entity.Enrollment) error
	// Settle flips the pair behind orderID to paid exactly once, recording
	// that order and its amount on the row. flipped is true only
	// for the call that performed the transition; later calls return the
	// stored enrollment with flipped=false.
	Settle(ctx context.Context, orderID, paymentID string, at time.Time) (e *entity.Enrollment, flipped bool, err error)
	HasPaid(ctx context.Context, userID, courseID string) (bool, error)
	ListPaidByUser(ctx context.Context, userID string) ([]*entity.Enrollment, error)
	ListPaid(ctx context.Context) ([]*entity.Enrollment, error)
	CountPaidByCourse(ctx context.Context) (map[string]int64, error)
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// enrollmentColumns reads an enrollments row aliased as e.
const enrollmentColumns = `e.id::text, e.order_id, e.user_id::text, e.course_id::text, e.amount_minor, e.currency,
	e.paid, COALESCE(e.payment_id, ''), e.created_at, e.paid_at`

func scanEnrollment(row pgx.Row) (*entity.Enrollment, error) {
	e := &entity.Enrollment{}
	if err := row.Scan(&e.ID, &e.OrderID, &e.UserID, &e.CourseID, &e.Amount.Amount, &e.Amount.Currency,
		&e.Paid, &e.PaymentID, &e.CreatedAt, &e.PaidAt); err != nil {
		return nil, err
	}
	return e, nil
}

// GetByOrderID resolves through enrollment_orders, so every order ever
// opened for the pair finds it. Unpaid rows report the requested order.
func (r *EnrollmentRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.Enrollment, error) {
	e, err := scanEnrollment(r.pool.QueryRow(ctx, `
		SELECT e.id::text,
		       CASE WHEN e.paid THEN e.order_id ELSE o.order_id END,
		       e.user_id::text, e.course_id::text,
		       CASE WHEN e.paid THEN e.amount_minor ELSE o.amount_minor END,
		       CASE WHEN e.paid THEN e.currency ELSE o.currency END,
		       e.paid, COALESCE(e.payment_id, ''), e.created_at, e.paid_at
		FROM enrollment_orders o
		JOIN enrollments e ON e.id = o.enrollment_id
		WHERE o.order_id = $1
	`, orderID))
	if err != nil {
		return nil, mapErr(err)
	}
	return e, nil
}

func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	e, err := scanEnrollment(r.pool.QueryRow(ctx, `
		SELECT `+enrollmentColumns+` FROM enrollments e
		WHERE user_id = $1 AND course_id = $2
	`, userID, courseID))
	if err != nil {
		return nil, mapErr(err)
	}
	return e, nil
}

// SavePending upserts on (user_id, course_id) and records the order in
// enrollment_orders in one transaction. The conditional DO UPDATE leaves
// paid rows untouched and returns no row for them.
func (r *EnrollmentRepository) SavePending(ctx context.Context, e *entity.Enrollment) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var id string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO enrollments (id, order_id, user_id, course_id, amount_minor, currency, paid, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, false, $7)
			ON CONFLICT (user_id, course_id) DO UPDATE
			SET order_id = EXCLUDED.order_id,
			    amount_minor = EXCLUDED.amount_minor,
			    currency = EXCLUDED.currency,
			    created_at = EXCLUDED.created_at
			WHERE enrollments.paid = false
			RETURNING id::text
		`, e.ID, e.OrderID, e.UserID, e.CourseID, e.Amount.Amount, e.Amount.Currency, e.CreatedAt).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrAlreadyPaid
		}
		if err != nil {
			return mapErr(err)
		}

		// An order id already recorded for another enrollment yields no row.
		var owner string
		err = tx.QueryRow(ctx, `
			INSERT INTO enrollment_orders (order_id, enrollment_id, amount_minor, currency, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (order_id) DO UPDATE
			SET order_id = EXCLUDED.order_id
			WHERE enrollment_orders.enrollment_id = EXCLUDED.enrollment_id
			RETURNING enrollment_id::text
		`, e.OrderID, id, e.Amount.Amount, e.Amount.Currency, e.CreatedAt).Scan(&owner)
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrDuplicate
		}
		return mapErr(err)
	})
	if err != nil {
		return err
	}
	e.ID = id
	e.Paid = false
	e.PaymentID = ""
	e.PaidAt = nil
	return nil
}

// Settle flips the pair behind orderID with a paid = false compare and
// swap, copying the paid order's id and amount onto the row.
func (r *EnrollmentRepository) Settle(ctx context.Context, orderID, paymentID string, at time.Time) (*entity.Enrollment, bool, error) {
	e, err := scanEnrollment(r.pool.QueryRow(ctx, `
		UPDATE enrollments e
		SET paid = true, payment_id = $2, paid_at = $3,
		    order_id = o.order_id, amount_minor = o.amount_minor, currency = o.currency
		FROM enrollment_orders o
		WHERE o.order_id = $1 AND e.id = o.enrollment_id AND e.paid = false
		RETURNING `+enrollmentColumns, orderID, paymentID, at))
	if err == nil {
		return e, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, mapErr(err)
	}
	e, err = r.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return e, false, nil
}

func (r *EnrollmentRepository) HasPaid(ctx context.Context, userID, courseID string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM enrollments
			WHERE user_id = $1 AND course_id = $2 AND paid AND payment_id IS NOT NULL
		)
	`, userID, courseID).Scan(&ok)
	if err != nil {
		if mapErr(err) == repository.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

func (r *EnrollmentRepository) ListPaidByUser(ctx context.Context, userID string) ([]*entity.Enrollment, error) {
	return r.list(ctx, `WHERE user_id = $1 AND paid ORDER BY paid_at, id`, userID)
}

func (r *EnrollmentRepository) ListPaid(ctx context.Context) ([]*entity.Enrollment, error) {
	return r.list(ctx, `WHERE paid ORDER BY paid_at, id`)
}

func (r *EnrollmentRepository) list(ctx context.Context, tail string, args ...any) ([]*entity.Enrollment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+enrollmentColumns+` FROM enrollments e `+tail, args...)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Enrollment, error) { return scanEnrollment(row) })
	if err != nil {
		if pgCode(err) == invalidTextRepr {
			return []*entity.Enrollment{}, nil
		}
		return nil, err
	}
	return out, nil
}

func (r *EnrollmentRepository) CountPaidByCourse(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT course_id::text, count(*) FROM enrollments
		WHERE paid
		GROUP BY course_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

var _ repository.EnrollmentRepository = (*EnrollmentRepository)(nil)

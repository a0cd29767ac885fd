package entity

import "time"

// Enrollment is one purchase of a course by a user. OrderID is the
// latest gateway order opened for the pair until settlement, then the
// order that was paid. It starts pending and settles at most once.
type Enrollment struct {
	ID        string
	OrderID   string
	UserID    string
	CourseID  string
	Amount    Money
	Paid      bool
	PaymentID string
	CreatedAt time.Time
	PaidAt    *time.Time
}

// Settled reports whether the enrollment carries a verified payment.
func (e *Enrollment) Settled() bool {
	return e != nil && e.Paid && e.PaymentID != ""
}

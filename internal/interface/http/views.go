package handlers

import (
	"time"

	app "github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

type moneyView struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

func toMoney(m entity.Money) moneyView {
	return moneyView{Amount: m.Amount, Currency: m.Currency, Display: m.Decimal()}
}

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUser(u *entity.User) userView {
	return userView{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), CreatedAt: u.CreatedAt}
}

type courseView struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Price           moneyView            `json:"price"`
	InstructorID    string               `json:"instructor_id"`
	EnrollmentCount int64                `json:"enrollment_count"`
	Lectures        []app.LectureSummary `json:"lectures,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func toCourse(c *entity.Course) courseView {
	return courseView{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Price:           toMoney(c.Price),
		InstructorID:    c.InstructorID,
		EnrollmentCount: c.EnrollmentCount,
		CreatedAt:       c.CreatedAt,
	}
}

type enrollmentView struct {
	ID        string     `json:"id"`
	OrderID   string     `json:"order_id"`
	CourseID  string     `json:"course_id"`
	Amount    moneyView  `json:"amount"`
	Paid      bool       `json:"paid"`
	PaymentID string     `json:"payment_id,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

func toEnrollment(e *entity.Enrollment) enrollmentView {
	return enrollmentView{
		ID:        e.ID,
		OrderID:   e.OrderID,
		CourseID:  e.CourseID,
		Amount:    toMoney(e.Amount),
		Paid:      e.Paid,
		PaymentID: e.PaymentID,
		PaidAt:    e.PaidAt,
	}
}

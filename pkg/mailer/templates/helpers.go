package templates

import (
	"strings"
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithOrder(orderID, paymentID string) Option {
	return func(d *EmailData) {
		d.OrderID = orderID
		d.PaymentID = paymentID
	}
}

// Brand carries the sender-side fields that the worker fills in at render time.
type Brand struct {
	AppName     string
	CompanyName string
	SupportURL  string
}

// ApplyBrand sets brand fields on data that the producer left empty.
func ApplyBrand(data map[string]any, b Brand) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	set := func(k, v string) {
		if cur, _ := data[k].(string); strings.TrimSpace(cur) == "" && v != "" {
			data[k] = v
		}
	}
	set("AppName", b.AppName)
	set("CompanyName", b.CompanyName)
	set("SupportURL", b.SupportURL)
	return data
}

func newData(typ, name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, Type: typ}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(name, email string, opts ...Option) EmailData {
	return newData(Welcome, name, email, opts...)
}

// NewReceiptData builds the enrollment receipt payload. amount is preformatted ("999.00 INR").
func NewReceiptData(name, email, courseTitle, amount string, opts ...Option) EmailData {
	d := newData(EnrollmentReceipt, name, email, opts...)
	d.CourseTitle = courseTitle
	d.Amount = amount
	return d
}

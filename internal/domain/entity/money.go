package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in the smallest currency unit (paise for INR).
// Arithmetic is integer-only.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

var ErrInvalidAmount = errors.New("invalid amount")

// NewMoney builds a Money value from minor units.
func NewMoney(minor int64, currency string) Money {
	return Money{Amount: minor, Currency: strings.ToUpper(currency)}
}

// ParseMoney parses a decimal string such as "999", "999.5" or "999.00"
// into minor units. At most two fractional digits are accepted.
func ParseMoney(s, currency string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if !digits(whole) || (hasDot && (!digits(frac) || len(frac) > 2)) {
		return Money{}, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if units > (1<<62)/100 {
		return Money{}, ErrInvalidAmount
	}
	return NewMoney(units*100+cents, currency), nil
}

func (m Money) IsPositive() bool { return m.Amount > 0 }

func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) Money {
	if m.Currency == "" {
		m.Currency = other.Currency
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Decimal renders the amount with two fractional digits, e.g. "999.00".
func (m Money) Decimal() string {
	sign := ""
	a := m.Amount
	if a < 0 {
		sign = "-"
		a = -a
	}
	return fmt.Sprintf("%s%d.%02d", sign, a/100, a%100)
}

func (m Money) String() string {
	return m.Decimal() + " " + m.Currency
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

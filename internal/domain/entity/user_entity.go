package entity

import (
	"time"
)

// Role is fixed at registration; there is no promotion flow.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// User is the aggregate root for the identity side of the marketplace.
// Passwords are stored as bcrypt hashes in Password field.
//
// EnrollmentIDs mirrors the user's paid enrollments. It is a denormalized
// view; entitlement decisions read the enrollment ledger instead.
type User struct {
	ID            string
	Email         string
	Password      string
	Name          string
	Role          Role
	EnrollmentIDs []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Caller is the authenticated principal handed to every service call.
type Caller struct {
	UserID string
	Role   Role
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }

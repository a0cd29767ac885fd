package entity

import "time"

// Course is sold as a unit. EnrollmentCount is a cache of paid enrollments
// and may drift; reconcile it from the ledger, never trust it for access.
type Course struct {
	ID              string
	Title           string
	Description     string
	Price           Money
	InstructorID    string
	LectureIDs      []string
	EnrollmentCount int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Lecture is immutable once uploaded.
type Lecture struct {
	ID          string
	CourseID    string
	Title       string
	Description string
	Position    int
	AssetRef    string
	CreatedAt   time.Time
}

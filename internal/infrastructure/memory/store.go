// Package memory is a process-local Ledger Store. It backs STORE_DRIVER=memory
// and the service tests. All repositories share one lock so the
// (user, course) uniqueness and settle-once rules hold across them.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]*entity.User
	emails      map[string]string
	courses     map[string]*entity.Course
	titles      map[string]string
	lectures    map[string]*entity.Lecture
	enrollments map[string]*entity.Enrollment // by user|course
	orders      map[string]issuedOrder        // every order id ever saved
}

// issuedOrder is a gateway order recorded against a pair, with the amount
// it was opened for.
type issuedOrder struct {
	pair   string
	amount entity.Money
}

func New() *Store {
	return &Store{
		users:       make(map[string]*entity.User),
		emails:      make(map[string]string),
		courses:     make(map[string]*entity.Course),
		titles:      make(map[string]string),
		lectures:    make(map[string]*entity.Lecture),
		enrollments: make(map[string]*entity.Enrollment),
		orders:      make(map[string]issuedOrder),
	}
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s} }
func (s *Store) Courses() *CourseRepository         { return &CourseRepository{s} }
func (s *Store) Lectures() *LectureRepository       { return &LectureRepository{s} }
func (s *Store) Enrollments() *EnrollmentRepository { return &EnrollmentRepository{s} }

func pairKey(userID, courseID string) string { return userID + "|" + courseID }

func copyUser(u *entity.User) *entity.User {
	c := *u
	c.EnrollmentIDs = append([]string(nil), u.EnrollmentIDs...)
	return &c
}

func copyCourse(c *entity.Course) *entity.Course {
	out := *c
	out.LectureIDs = append([]string(nil), c.LectureIDs...)
	return &out
}

func copyLecture(l *entity.Lecture) *entity.Lecture {
	out := *l
	return &out
}

func copyEnrollment(e *entity.Enrollment) *entity.Enrollment {
	out := *e
	if e.PaidAt != nil {
		t := *e.PaidAt
		out.PaidAt = &t
	}
	return &out
}

// Users

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := r.s.emails[email]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := r.s.users[u.ID]; ok {
		return repository.ErrDuplicate
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = copyUser(u)
	r.s.emails[email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u, ok := r.s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if id, ok := r.s.emails[strings.ToLower(email)]; ok {
		return copyUser(r.s.users[id]), nil
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) AddEnrollment(_ context.Context, userID, enrollmentID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, id := range u.EnrollmentIDs {
		if id == enrollmentID {
			return nil
		}
	}
	u.EnrollmentIDs = append(u.EnrollmentIDs, enrollmentID)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Courses

type CourseRepository struct{ s *Store }

func (r *CourseRepository) Create(_ context.Context, c *entity.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.titles[c.Title]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := r.s.courses[c.ID]; ok {
		return repository.ErrDuplicate
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.UpdatedAt = c.CreatedAt
	r.s.courses[c.ID] = copyCourse(c)
	r.s.titles[c.Title] = c.ID
	return nil
}

func (r *CourseRepository) GetByID(_ context.Context, id string) (*entity.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if c, ok := r.s.courses[id]; ok {
		return copyCourse(c), nil
	}
	return nil, repository.ErrNotFound
}

func (r *CourseRepository) GetByIDs(_ context.Context, ids []string) ([]*entity.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Course, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if c, ok := r.s.courses[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, copyCourse(c))
		}
	}
	return out, nil
}

func (r *CourseRepository) ListIDs(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]string, 0, len(r.s.courses))
	for id := range r.s.courses {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := r.s.courses[out[i]], r.s.courses[out[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *CourseRepository) IncrementEnrollments(_ context.Context, courseID string, delta int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.courses[courseID]
	if !ok {
		return repository.ErrNotFound
	}
	c.EnrollmentCount += delta
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CourseRepository) SetEnrollmentCount(_ context.Context, courseID string, n int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.courses[courseID]
	if !ok {
		return repository.ErrNotFound
	}
	c.EnrollmentCount = n
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Lectures

type LectureRepository struct{ s *Store }

func (r *LectureRepository) Create(_ context.Context, l *entity.Lecture) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.courses[l.CourseID]
	if !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.lectures[l.ID]; ok {
		return repository.ErrDuplicate
	}
	maxPos := 0
	for _, lid := range c.LectureIDs {
		p := r.s.lectures[lid].Position
		if l.Position > 0 && p == l.Position {
			return repository.ErrDuplicate
		}
		if p > maxPos {
			maxPos = p
		}
	}
	if l.Position <= 0 {
		l.Position = maxPos + 1
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	r.s.lectures[l.ID] = copyLecture(l)

	c.LectureIDs = append(c.LectureIDs, l.ID)
	sort.SliceStable(c.LectureIDs, func(i, j int) bool {
		return r.s.lectures[c.LectureIDs[i]].Position < r.s.lectures[c.LectureIDs[j]].Position
	})
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *LectureRepository) GetByID(_ context.Context, id string) (*entity.Lecture, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if l, ok := r.s.lectures[id]; ok {
		return copyLecture(l), nil
	}
	return nil, repository.ErrNotFound
}

func (r *LectureRepository) ListByCourse(_ context.Context, courseID string) ([]*entity.Lecture, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.courses[courseID]
	if !ok {
		return []*entity.Lecture{}, nil
	}
	out := make([]*entity.Lecture, 0, len(c.LectureIDs))
	for _, lid := range c.LectureIDs {
		out = append(out, copyLecture(r.s.lectures[lid]))
	}
	return out, nil
}

// Enrollments

type EnrollmentRepository struct{ s *Store }

// GetByOrderID resolves any order id saved for a pair. An unpaid row is
// reported under the requested order and its amount.
func (r *EnrollmentRepository) GetByOrderID(_ context.Context, orderID string) (*entity.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyEnrollment(r.s.enrollments[o.pair])
	if !out.Paid {
		out.OrderID, out.Amount = orderID, o.amount
	}
	return out, nil
}

func (r *EnrollmentRepository) GetByUserAndCourse(_ context.Context, userID, courseID string) (*entity.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if e, ok := r.s.enrollments[pairKey(userID, courseID)]; ok {
		return copyEnrollment(e), nil
	}
	return nil, repository.ErrNotFound
}

func (r *EnrollmentRepository) SavePending(_ context.Context, e *entity.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pairKey(e.UserID, e.CourseID)
	if o, ok := r.s.orders[e.OrderID]; ok && o.pair != key {
		return repository.ErrDuplicate
	}
	cur, ok := r.s.enrollments[key]
	if ok && cur.Paid {
		return repository.ErrAlreadyPaid
	}
	if ok {
		e.ID = cur.ID
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.Paid, e.PaymentID, e.PaidAt = false, "", nil

	r.s.enrollments[key] = copyEnrollment(e)
	r.s.orders[e.OrderID] = issuedOrder{pair: key, amount: e.Amount}
	return nil
}

// Settle pays the pair behind orderID. The settled row records the order
// that was paid and the amount that order was opened for.
func (r *EnrollmentRepository) Settle(_ context.Context, orderID, paymentID string, at time.Time) (*entity.Enrollment, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[orderID]
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	e := r.s.enrollments[o.pair]
	if e.Paid {
		return copyEnrollment(e), false, nil
	}
	paidAt := at.UTC()
	e.OrderID = orderID
	e.Amount = o.amount
	e.Paid = true
	e.PaymentID = paymentID
	e.PaidAt = &paidAt
	return copyEnrollment(e), true, nil
}

func (r *EnrollmentRepository) HasPaid(_ context.Context, userID, courseID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.enrollments[pairKey(userID, courseID)]
	if !ok {
		return false, nil
	}
	return e.Settled(), nil
}

func (r *EnrollmentRepository) ListPaidByUser(_ context.Context, userID string) ([]*entity.Enrollment, error) {
	return r.listPaid(func(e *entity.Enrollment) bool { return e.UserID == userID }), nil
}

func (r *EnrollmentRepository) ListPaid(_ context.Context) ([]*entity.Enrollment, error) {
	return r.listPaid(func(*entity.Enrollment) bool { return true }), nil
}

func (r *EnrollmentRepository) listPaid(keep func(*entity.Enrollment) bool) []*entity.Enrollment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Enrollment, 0)
	for _, e := range r.s.enrollments {
		if e.Paid && keep(e) {
			out = append(out, copyEnrollment(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaidAt.Equal(*out[j].PaidAt) {
			return out[i].PaidAt.Before(*out[j].PaidAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *EnrollmentRepository) CountPaidByCourse(_ context.Context) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[string]int64)
	for _, e := range r.s.enrollments {
		if e.Paid {
			out[e.CourseID]++
		}
	}
	return out, nil
}

var (
	_ repository.UserRepository       = (*UserRepository)(nil)
	_ repository.CourseRepository     = (*CourseRepository)(nil)
	_ repository.LectureRepository    = (*LectureRepository)(nil)
	_ repository.EnrollmentRepository = (*EnrollmentRepository)(nil)
)

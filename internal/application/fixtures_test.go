package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/gateway"
	"github.com/oksasatya/course-marketplace/internal/infrastructure/memory"
	"github.com/oksasatya/course-marketplace/pkg/mailer"
)

const testSecret = "rzp_test_secret"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeGateway struct {
	mu     sync.Mutex
	ids    []string
	err    error
	calls  int
	amount entity.Money
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, amount entity.Money, _ string) (*gateway.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.amount = amount
	if g.err != nil {
		return nil, g.err
	}
	id := fmt.Sprintf("order_%d", g.calls)
	if len(g.ids) > 0 {
		id, g.ids = g.ids[0], g.ids[1:]
	}
	return &gateway.PaymentIntent{OrderID: id, Amount: amount}, nil
}

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	job, ok := body.(mailer.EmailJob)
	if !ok {
		return fmt.Errorf("unexpected payload %T", body)
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *fakePublisher) Jobs() []mailer.EmailJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mailer.EmailJob(nil), p.jobs...)
}

type fakeAssets struct {
	stored   map[string]string
	storeErr error
	urlErr   error
}

func (a *fakeAssets) StoreVideo(_ context.Context, courseID, filename, _ string, r io.Reader) (string, error) {
	if a.storeErr != nil {
		return "", a.storeErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	ref := "gs://videos/courses/" + courseID + "/lectures/" + filename
	if a.stored == nil {
		a.stored = map[string]string{}
	}
	a.stored[ref] = string(b)
	return ref, nil
}

func (a *fakeAssets) ResolvePlayableURL(_ context.Context, ref string, _ time.Duration) (string, error) {
	if a.urlErr != nil {
		return "", a.urlErr
	}
	return "https://signed.example/" + ref, nil
}

var errStoreDown = errors.New("store unavailable")

// flakyEnrollments fails the first n SavePending calls.
type flakyEnrollments struct {
	*memory.EnrollmentRepository
	mu    sync.Mutex
	fail  int
	saves int
}

func (f *flakyEnrollments) SavePending(ctx context.Context, e *entity.Enrollment) error {
	f.mu.Lock()
	f.saves++
	failing := f.saves <= f.fail
	f.mu.Unlock()
	if failing {
		return errStoreDown
	}
	return f.EnrollmentRepository.SavePending(ctx, e)
}

type fixture struct {
	store  *memory.Store
	admin  *entity.User
	buyer  *entity.User
	course *entity.Course
}

// newFixture seeds an admin, a buyer and one course priced 999.00 INR.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	f := &fixture{
		store: st,
		admin: &entity.User{ID: "admin-1", Email: "admin@example.com", Name: "Admin", Role: entity.RoleAdmin},
		buyer: &entity.User{ID: "user-1", Email: "buyer@example.com", Name: "Buyer", Role: entity.RoleUser},
		course: &entity.Course{
			ID:           "course-1",
			Title:        "Practical Go",
			Description:  "Services in Go",
			Price:        entity.NewMoney(99900, "INR"),
			InstructorID: "admin-1",
		},
	}
	for _, u := range []*entity.User{f.admin, f.buyer} {
		if err := st.Users().Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	if err := st.Courses().Create(ctx, f.course); err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return f
}

func (f *fixture) buyerCaller() entity.Caller {
	return entity.Caller{UserID: f.buyer.ID, Role: f.buyer.Role}
}

func (f *fixture) adminCaller() entity.Caller {
	return entity.Caller{UserID: f.admin.ID, Role: f.admin.Role}
}

func (f *fixture) orders(gw gateway.PaymentGateway) *OrderService {
	s := NewOrderService(f.store.Enrollments(), f.store.Courses(), gw, quietLogger(), time.Second, 3)
	s.RetryInterval = time.Millisecond
	return s
}

func (f *fixture) verifier(pub gateway.EventPublisher) *VerificationService {
	s := NewVerificationService(f.store.Enrollments(), f.store.Courses(), f.store.Users(), testSecret, pub, quietLogger())
	s.RetryInterval = time.Millisecond
	return s
}

func (f *fixture) enrollmentCount(t *testing.T) int64 {
	t.Helper()
	c, err := f.store.Courses().GetByID(context.Background(), f.course.ID)
	if err != nil {
		t.Fatalf("course lookup: %v", err)
	}
	return c.EnrollmentCount
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

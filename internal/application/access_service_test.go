package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

type accessFixture struct {
	*fixture
	lecture *entity.Lecture
	assets  *fakeAssets
	svc     *AccessService
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()
	f := newFixture(t)
	l := &entity.Lecture{ID: "lec-1", CourseID: f.course.ID, Title: "Intro", AssetRef: "gs://videos/courses/course-1/lectures/intro.mp4"}
	if err := f.store.Lectures().Create(context.Background(), l); err != nil {
		t.Fatalf("create lecture: %v", err)
	}
	assets := &fakeAssets{}
	ent := NewEntitlementService(f.store.Enrollments(), f.store.Courses(), nil, 0, quietLogger())
	svc := NewAccessService(ent, f.store.Lectures(), assets, 10*time.Minute, quietLogger())
	return &accessFixture{fixture: f, lecture: l, assets: assets, svc: svc}
}

func (a *accessFixture) purchase(t *testing.T) {
	t.Helper()
	openOrder(t, a.fixture)
	if _, err := a.verifier(nil).VerifyPayment(context.Background(), a.buyerCaller(), signed("order_abc", "pay_123")); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
}

func TestGetLectureAssetRequiresPurchase(t *testing.T) {
	a := newAccessFixture(t)
	ctx := context.Background()

	if _, err := a.svc.GetLectureAsset(ctx, a.buyerCaller(), a.course.ID, a.lecture.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unpaid: err = %v, want ErrForbidden", err)
	}
	// Unpaid callers cannot probe lecture ids.
	if _, err := a.svc.GetLectureAsset(ctx, a.buyerCaller(), a.course.ID, "missing"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("unpaid probe: err = %v, want ErrForbidden", err)
	}

	openOrder(t, a.fixture)
	if _, err := a.svc.GetLectureAsset(ctx, a.buyerCaller(), a.course.ID, a.lecture.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("pending: err = %v, want ErrForbidden", err)
	}
}

func TestGetLectureAssetAfterPurchase(t *testing.T) {
	a := newAccessFixture(t)
	a.purchase(t)

	got, err := a.svc.GetLectureAsset(context.Background(), a.buyerCaller(), a.course.ID, a.lecture.ID)
	if err != nil {
		t.Fatalf("GetLectureAsset: %v", err)
	}
	if got.AssetRef != a.lecture.AssetRef {
		t.Errorf("AssetRef = %q, want %q", got.AssetRef, a.lecture.AssetRef)
	}
	if !strings.HasSuffix(got.PlayableURL, a.lecture.AssetRef) {
		t.Errorf("PlayableURL = %q", got.PlayableURL)
	}
}

func TestGetLectureAssetWrongCourse(t *testing.T) {
	a := newAccessFixture(t)
	a.purchase(t)
	ctx := context.Background()

	other := &entity.Course{ID: "course-2", Title: "Other", Description: "x", Price: entity.NewMoney(100, "INR"), InstructorID: a.admin.ID}
	if err := a.store.Courses().Create(ctx, other); err != nil {
		t.Fatalf("create course: %v", err)
	}
	foreign := &entity.Lecture{ID: "lec-2", CourseID: other.ID, Title: "Other intro", AssetRef: "gs://videos/x"}
	if err := a.store.Lectures().Create(ctx, foreign); err != nil {
		t.Fatalf("create lecture: %v", err)
	}

	if _, err := a.svc.GetLectureAsset(ctx, a.buyerCaller(), a.course.ID, foreign.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign lecture: err = %v, want ErrNotFound", err)
	}
	if _, err := a.svc.GetLectureAsset(ctx, a.buyerCaller(), a.course.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing lecture: err = %v, want ErrNotFound", err)
	}
}

func TestGetLectureAssetURLFailureKeepsRef(t *testing.T) {
	a := newAccessFixture(t)
	a.purchase(t)
	a.assets.urlErr = errors.New("signer unavailable")

	got, err := a.svc.GetLectureAsset(context.Background(), a.buyerCaller(), a.course.ID, a.lecture.ID)
	if err != nil {
		t.Fatalf("GetLectureAsset: %v", err)
	}
	if got.PlayableURL != "" || got.AssetRef == "" {
		t.Errorf("got %+v, want ref without url", got)
	}
}

func TestGetLectureAssetAdminNotExempt(t *testing.T) {
	a := newAccessFixture(t)
	if _, err := a.svc.GetLectureAsset(context.Background(), a.adminCaller(), a.course.ID, a.lecture.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("admin without purchase: err = %v, want ErrForbidden", err)
	}
}

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/config"
	"github.com/oksasatya/course-marketplace/internal/container"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/gateway"
	"github.com/oksasatya/course-marketplace/internal/infrastructure/memory"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
	"github.com/oksasatya/course-marketplace/pkg/response"
	"github.com/oksasatya/course-marketplace/pkg/validation"
)

const gatewaySecret = "rzp_secret"

type stubGateway struct {
	mu sync.Mutex
	n  int
}

func (g *stubGateway) CreatePaymentIntent(_ context.Context, amount entity.Money, _ string) (*gateway.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	id := "order_abc"
	if g.n > 1 {
		id = fmt.Sprintf("order_%d", g.n)
	}
	return &gateway.PaymentIntent{OrderID: id, Amount: amount}, nil
}

type stubAssets struct{}

func (stubAssets) StoreVideo(_ context.Context, courseID, filename, _ string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "gs://videos/courses/" + courseID + "/lectures/" + filename, nil
}

func (stubAssets) ResolvePlayableURL(_ context.Context, ref string, _ time.Duration) (string, error) {
	return "https://signed.example/" + strings.TrimPrefix(ref, "gs://"), nil
}

type envelope struct {
	Version string          `json:"version"`
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func (a api) do(method, path, token string, body io.Reader, contentType string) (int, envelope) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	if env.Version != response.Version {
		a.t.Errorf("%s %s: version = %q", method, path, env.Version)
	}
	return w.Code, env
}

func (a api) json(method, path, token string, payload any) (int, envelope) {
	a.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			a.t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	return a.do(method, path, token, body, "application/json")
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func newTestAPI(t *testing.T) (api, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	st := memory.New()

	container.SetConfig(&config.Config{
		PaymentCurrency:      "INR",
		RazorpayKeyID:        "rzp_test_key",
		RazorpayKeySecret:    gatewaySecret,
		GatewayTimeout:       time.Second,
		OrderPersistAttempts: 3,
		GCSSignedURLTTL:      15 * time.Minute,
	})
	container.SetLogger(logger)
	container.SetRedis(nil)
	container.SetJWT(helpers.NewJWTManager("access", "refresh", 15*time.Minute, time.Hour))
	container.SetRepositories(container.Repositories{
		Users:       st.Users(),
		Courses:     st.Courses(),
		Lectures:    st.Lectures(),
		Enrollments: st.Enrollments(),
	})
	container.SetPaymentGateway(&stubGateway{})
	container.SetAssetStore(stubAssets{})
	container.SetPublisher(nil)

	engine := gin.New()
	reg := NewRegistry(engine)
	InitModules(reg)
	reg.RegisterAll()
	return api{t: t, engine: engine}, st
}

func seedAdmin(t *testing.T, st *memory.Store) {
	t.Helper()
	hash, err := helpers.HashPassword("admin-pass-1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := &entity.User{ID: "admin-1", Email: "admin@example.com", Password: hash, Name: "Admin", Role: entity.RoleAdmin}
	if err := st.Users().Create(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

type authData struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func TestPurchaseFlow(t *testing.T) {
	a, st := newTestAPI(t)
	seedAdmin(t, st)

	code, env := a.json(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "admin-pass-1"})
	if code != http.StatusOK {
		t.Fatalf("admin login: %d %s", code, env.Message)
	}
	adminToken := decode[authData](t, env).AccessToken

	code, env = a.json(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"name": "Buyer", "email": "buyer@example.com", "password": "buyer-pass-1"})
	if code != http.StatusCreated {
		t.Fatalf("register: %d %s", code, env.Message)
	}
	buyer := decode[authData](t, env)
	if buyer.User.Role != string(entity.RoleUser) {
		t.Errorf("registered role = %q", buyer.User.Role)
	}
	buyerToken := buyer.AccessToken

	// Catalog.
	code, env = a.json(http.MethodPost, "/api/v1/courses", buyerToken, map[string]string{"title": "Practical Go", "description": "Services", "price": "999.00"})
	if code != http.StatusForbidden {
		t.Fatalf("buyer create course: %d, want 403", code)
	}
	code, env = a.json(http.MethodPost, "/api/v1/courses", adminToken, map[string]string{"title": "Practical Go", "description": "Services", "price": "999.00"})
	if code != http.StatusCreated {
		t.Fatalf("create course: %d %s", code, env.Message)
	}
	course := decode[struct {
		ID    string `json:"id"`
		Price struct {
			Amount  int64  `json:"amount"`
			Display string `json:"display"`
		} `json:"price"`
	}](t, env)
	if course.Price.Amount != 99900 || course.Price.Display != "999.00" {
		t.Errorf("price = %+v", course.Price)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "Intro")
	fw, _ := mw.CreateFormFile("video", "intro.mp4")
	_, _ = fw.Write([]byte("frames"))
	_ = mw.Close()
	code, env = a.do(http.MethodPost, "/api/v1/courses/"+course.ID+"/lectures", adminToken, &buf, mw.FormDataContentType())
	if code != http.StatusCreated {
		t.Fatalf("upload lecture: %d %s", code, env.Message)
	}
	lecture := decode[struct {
		ID string `json:"id"`
	}](t, env)
	lecturePath := "/api/v1/courses/" + course.ID + "/lectures/" + lecture.ID

	if code, _ = a.json(http.MethodGet, lecturePath, buyerToken, nil); code != http.StatusForbidden {
		t.Fatalf("lecture before purchase: %d, want 403", code)
	}

	// Purchase.
	code, env = a.json(http.MethodPost, "/api/v1/payments/orders", buyerToken, map[string]string{"course_id": course.ID})
	if code != http.StatusCreated {
		t.Fatalf("create order: %d %s", code, env.Message)
	}
	order := decode[struct {
		OrderID string `json:"order_id"`
		KeyID   string `json:"key_id"`
	}](t, env)
	if order.OrderID != "order_abc" || order.KeyID != "rzp_test_key" {
		t.Errorf("order = %+v", order)
	}

	forged := map[string]string{"order_id": "order_abc", "payment_id": "pay_123", "signature": helpers.SignPayment("other", "order_abc", "pay_123")}
	if code, _ = a.json(http.MethodPost, "/api/v1/payments/verify", buyerToken, forged); code != http.StatusBadRequest {
		t.Fatalf("forged verify: %d, want 400", code)
	}

	callback := map[string]string{"order_id": "order_abc", "payment_id": "pay_123", "signature": helpers.SignPayment(gatewaySecret, "order_abc", "pay_123")}
	for i := 0; i < 2; i++ {
		code, env = a.json(http.MethodPost, "/api/v1/payments/verify", buyerToken, callback)
		if code != http.StatusOK {
			t.Fatalf("verify #%d: %d %s", i+1, code, env.Message)
		}
		e := decode[struct {
			Paid      bool   `json:"paid"`
			PaymentID string `json:"payment_id"`
		}](t, env)
		if !e.Paid || e.PaymentID != "pay_123" {
			t.Errorf("verify #%d: enrollment = %+v", i+1, e)
		}
	}

	code, env = a.json(http.MethodGet, lecturePath, buyerToken, nil)
	if code != http.StatusOK {
		t.Fatalf("lecture after purchase: %d %s", code, env.Message)
	}
	asset := decode[struct {
		AssetRef    string `json:"asset_ref"`
		PlayableURL string `json:"playable_url"`
	}](t, env)
	if asset.AssetRef == "" || !strings.HasPrefix(asset.PlayableURL, "https://signed.example/") {
		t.Errorf("asset = %+v", asset)
	}

	if code, _ = a.json(http.MethodPost, "/api/v1/payments/orders", buyerToken, map[string]string{"course_id": course.ID}); code != http.StatusConflict {
		t.Fatalf("repurchase: %d, want 409", code)
	}

	// Read models.
	code, env = a.json(http.MethodGet, "/api/v1/users/me/courses", buyerToken, nil)
	if code != http.StatusOK {
		t.Fatalf("my courses: %d", code)
	}
	if mine := decode[[]struct {
		ID string `json:"id"`
	}](t, env); len(mine) != 1 || mine[0].ID != course.ID {
		t.Errorf("my courses = %+v", mine)
	}

	code, env = a.json(http.MethodGet, "/api/v1/courses/"+course.ID, "", nil)
	if code != http.StatusOK {
		t.Fatalf("course details: %d", code)
	}
	details := decode[struct {
		EnrollmentCount int64 `json:"enrollment_count"`
		Lectures        []struct {
			ID string `json:"id"`
		} `json:"lectures"`
	}](t, env)
	if details.EnrollmentCount != 1 || len(details.Lectures) != 1 {
		t.Errorf("details = %+v", details)
	}
	if strings.Contains(string(env.Data), "gs://") {
		t.Error("public course view leaks asset refs")
	}

	if code, _ = a.json(http.MethodGet, "/api/v1/admin/sales", buyerToken, nil); code != http.StatusForbidden {
		t.Fatalf("buyer sales: %d, want 403", code)
	}
	code, env = a.json(http.MethodGet, "/api/v1/admin/sales", adminToken, nil)
	if code != http.StatusOK {
		t.Fatalf("sales: %d", code)
	}
	report := decode[struct {
		TotalRevenue struct {
			Amount int64 `json:"amount"`
		} `json:"total_revenue"`
		TotalEnrollments int `json:"total_enrollments"`
	}](t, env)
	if report.TotalEnrollments != 1 || report.TotalRevenue.Amount != 99900 {
		t.Errorf("report = %+v", report)
	}
}

func TestAuthRequired(t *testing.T) {
	a, _ := newTestAPI(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/payments/orders"},
		{http.MethodPost, "/api/v1/payments/verify"},
		{http.MethodGet, "/api/v1/users/me/courses"},
		{http.MethodGet, "/api/v1/admin/sales"},
		{http.MethodGet, "/api/v1/auth/me"},
	} {
		code, env := a.json(tc.method, tc.path, "", nil)
		if code != http.StatusUnauthorized || env.Success {
			t.Errorf("%s %s: %d, want 401", tc.method, tc.path, code)
		}
	}
	if code, _ := a.json(http.MethodGet, "/api/v1/users/me/courses", "not-a-token", nil); code != http.StatusUnauthorized {
		t.Errorf("garbage token: %d, want 401", code)
	}
}

func TestValidationErrors(t *testing.T) {
	a, _ := newTestAPI(t)

	code, env := a.json(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"name": "X", "email": "nope", "password": "short"})
	if code != http.StatusBadRequest || env.Success {
		t.Fatalf("register: %d, want 400", code)
	}

	code, env = a.json(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"name": "X", "email": "x@example.com", "password": "long-enough"})
	if code != http.StatusCreated {
		t.Fatalf("register: %d %s", code, env.Message)
	}
	token := decode[authData](t, env).AccessToken
	if code, _ = a.json(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"name": "Y", "email": "x@example.com", "password": "long-enough"}); code != http.StatusConflict {
		t.Errorf("duplicate email: %d, want 409", code)
	}

	if code, _ = a.json(http.MethodPost, "/api/v1/payments/orders", token, map[string]string{}); code != http.StatusBadRequest {
		t.Errorf("order without course: %d, want 400", code)
	}
	if code, _ = a.json(http.MethodPost, "/api/v1/payments/orders", token, map[string]string{"course_id": "missing"}); code != http.StatusNotFound {
		t.Errorf("order for unknown course: %d, want 404", code)
	}
	unknown := map[string]string{"order_id": "order_x", "payment_id": "pay_x", "signature": helpers.SignPayment(gatewaySecret, "order_x", "pay_x")}
	if code, _ = a.json(http.MethodPost, "/api/v1/payments/verify", token, unknown); code != http.StatusNotFound {
		t.Errorf("verify unknown order: %d, want 404", code)
	}
	if code, _ = a.json(http.MethodGet, "/api/v1/courses/missing", "", nil); code != http.StatusNotFound {
		t.Errorf("unknown course: %d, want 404", code)
	}
}

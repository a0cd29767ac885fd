package router

import (
	app "github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/container"
	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
	"github.com/oksasatya/course-marketplace/internal/router/modules"
)

// Services are the application services built from the container.
type Services struct {
	Users        *app.UserService
	Orders       *app.OrderService
	Verification *app.VerificationService
	Entitlements *app.EntitlementService
	Access       *app.AccessService
	Courses      *app.CourseService
	Sales        *app.SalesService
}

func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repos := container.GetRepositories()
	rdb := container.GetRedis()
	pub := container.GetPublisher()
	assets := container.GetAssetStore()

	entitlements := app.NewEntitlementService(repos.Enrollments, repos.Courses, rdb, cfg.EntitlementCacheTTL, logger)
	attempts := cfg.OrderPersistAttempts
	if attempts < 1 {
		attempts = 1
	}

	return Services{
		Users:        app.NewUserService(repos.Users, container.GetJWT(), rdb, pub, logger),
		Orders:       app.NewOrderService(repos.Enrollments, repos.Courses, container.GetPaymentGateway(), logger, cfg.GatewayTimeout, uint(attempts)),
		Verification: app.NewVerificationService(repos.Enrollments, repos.Courses, repos.Users, cfg.RazorpayKeySecret, pub, logger),
		Entitlements: entitlements,
		Access:       app.NewAccessService(entitlements, repos.Lectures, assets, cfg.GCSSignedURLTTL, logger),
		Courses:      app.NewCourseService(repos.Courses, repos.Lectures, assets, cfg.PaymentCurrency, logger),
		Sales:        app.NewSalesService(repos.Enrollments, repos.Courses, repos.Users, cfg.PaymentCurrency, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := BuildServices()
	auth := middleware.Auth(container.GetRedis(), container.GetJWT())

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Users, logger, cfg.CookieDomain, cfg.CookieSecure), auth))
	r.Add(modules.NewPaymentModule(handlers.NewPaymentHandler(svc.Orders, svc.Verification, cfg.RazorpayKeyID, logger), auth))
	r.Add(modules.NewCourseModule(handlers.NewCourseHandler(svc.Courses, svc.Access, logger), auth))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Entitlements, logger), auth))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(svc.Sales, logger), auth))
}

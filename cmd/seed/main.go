package main

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/config"
	app "github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/internal/domain/repository"
	pginfra "github.com/oksasatya/course-marketplace/internal/infrastructure/postgres"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

// seed provisions the admin account (the only way to obtain the admin role)
// and one sample course owned by it. Safe to re-run.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	email := getenv("SEED_ADMIN_EMAIL", "admin@example.com")
	password := getenv("SEED_ADMIN_PASSWORD", "password123")

	admin, err := users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		hash, herr := helpers.HashPassword(password)
		if herr != nil {
			logger.WithError(herr).Fatal("failed to hash password")
		}
		admin = &entity.User{ID: uuid.NewString(), Email: email, Password: hash, Name: "Admin", Role: entity.RoleAdmin}
		if err := users.Create(ctx, admin); err != nil {
			logger.WithError(err).Fatal("failed to seed admin")
		}
		logger.WithFields(logrus.Fields{"id": admin.ID, "email": email}).Info("seeded admin user")
	} else if err != nil {
		logger.WithError(err).Fatal("failed to look up admin")
	} else if admin.Role != entity.RoleAdmin {
		logger.WithField("email", email).Fatal("seed email belongs to a non-admin account")
	}

	courses := app.NewCourseService(pginfra.NewCourseRepository(pool), pginfra.NewLectureRepository(pool), nil, cfg.PaymentCurrency, logger)
	c, err := courses.CreateCourse(ctx, entity.Caller{UserID: admin.ID, Role: entity.RoleAdmin}, app.CreateCourseInput{
		Title:       "Practical Go",
		Description: "Build and ship production Go services.",
		Price:       "999.00",
	})
	switch {
	case errors.Is(err, app.ErrCourseTitleTaken):
		logger.Info("sample course already present")
	case err != nil:
		logger.WithError(err).Fatal("failed to seed course")
	default:
		logger.WithFields(logrus.Fields{"id": c.ID, "price": c.Price.String()}).Info("seeded sample course")
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

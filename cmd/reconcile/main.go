package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/course-marketplace/config"
	app "github.com/oksasatya/course-marketplace/internal/application"
	pginfra "github.com/oksasatya/course-marketplace/internal/infrastructure/postgres"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

// reconcile rewrites every course's enrollment counter from the paid
// enrollment rows. Run it after incidents where follow-up updates failed.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-reconcile", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	sales := app.NewSalesService(
		pginfra.NewEnrollmentRepository(pool),
		pginfra.NewCourseRepository(pool),
		pginfra.NewUserRepository(pool),
		cfg.PaymentCurrency,
		logger,
	)
	n, err := sales.Reconcile(ctx)
	if err != nil {
		logger.WithError(err).Fatal("reconcile failed")
	}
	logger.WithField("changed", n).Info("enrollment counters reconciled")
}

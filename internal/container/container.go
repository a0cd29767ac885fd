package container

import (
	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/course-marketplace/config"
	"github.com/oksasatya/course-marketplace/internal/domain/gateway"
	repo "github.com/oksasatya/course-marketplace/internal/domain/repository"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

// Repositories is the Ledger Store selected by STORE_DRIVER.
type Repositories struct {
	Users       repo.UserRepository
	Courses     repo.CourseRepository
	Lectures    repo.LectureRepository
	Enrollments repo.EnrollmentRepository
}

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	repositories Repositories
	payments     gateway.PaymentGateway
	assets       gateway.AssetStore
	publisher    gateway.EventPublisher
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetRepositories(r Repositories)             { repositories = r }
func GetRepositories() Repositories              { return repositories }
func SetPaymentGateway(g gateway.PaymentGateway) { payments = g }
func GetPaymentGateway() gateway.PaymentGateway  { return payments }
func SetAssetStore(s gateway.AssetStore)         { assets = s }
func GetAssetStore() gateway.AssetStore          { return assets }
func SetPublisher(p gateway.EventPublisher)      { publisher = p }
func GetPublisher() gateway.EventPublisher       { return publisher }

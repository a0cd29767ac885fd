package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the client that holds login sessions and the
// entitlement cache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// Timeout bounds dial, read and write. Zero keeps the library defaults.
	Timeout time.Duration
}

// NewRedisClient initializes a redis client. It does not connect; use
// PingRedis to check reachability.
func NewRedisClient(opt RedisOptions) *redis.Client {
	o := &redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
		PoolSize: opt.PoolSize,
	}
	if opt.Timeout > 0 {
		o.DialTimeout = opt.Timeout
		o.ReadTimeout = opt.Timeout
		o.WriteTimeout = opt.Timeout
	}
	return redis.NewClient(o)
}

// PingRedis reports whether the server answers within timeout.
func PingRedis(ctx context.Context, rdb *redis.Client, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return rdb.Ping(ctx).Err()
}

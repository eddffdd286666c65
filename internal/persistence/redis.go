package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-board/internal/config"
)

// Preference reads and writes are single hash commands, so short timeouts keep
// a stalled server from holding up a board keypress.
const (
	redisDialTimeout = 2 * time.Second
	redisIOTimeout   = time.Second
)

// Redis holds the client backing the redis preference backend. Client is nil
// when no address is configured.
type Redis struct {
	Client *redis.Client
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisIOTimeout,
		WriteTimeout: redisIOTimeout,
		PoolSize:     4,
	}
}

// NewRedis builds a client when an address is configured. An unreachable
// server is logged, not fatal: preference writes are best-effort.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Debug("REDIS_ADDR not provided; redis backend unavailable")
		return &Redis{}
	}

	client := redis.NewClient(redisOptions(cfg))
	fields := []zap.Field{zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB)}

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable; preference writes will be dropped", append(fields, zap.Error(err))...)
	} else {
		logger.Info("redis preference backend ready", fields...)
	}
	return &Redis{Client: client}
}

// Enabled reports whether a client was configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

func (r *Redis) Close() {
	if r.Enabled() {
		_ = r.Client.Close()
	}
}

// Ping is used by the readiness check.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

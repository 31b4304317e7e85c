package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"spin-raffle-backend/internal/common/config"
	"spin-raffle-backend/internal/common/logger"
)

// RedisClient is the subset of go-redis used by the read-model cache.
type RedisClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Close() error
}

var _ RedisClient = (*redis.Client)(nil)

// Open creates a Redis client from cfg and pings it to validate the connection.
func Open(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	logger.Info().Str("addr", addr).Int("db", cfg.Redis.DB).Msg("Redis client initialized")
	return c, nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"spin-raffle-backend/internal/platform/redis"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

const scanBatch = 100

// CacheService stores JSON encoded read models under a per-tenant prefix.
type CacheService struct {
	redisClient redis.RedisClient
	prefix      string
	ttl         time.Duration
}

func NewCacheService(redisClient redis.RedisClient, tenantID string, ttl time.Duration) *CacheService {
	return &CacheService{
		redisClient: redisClient,
		prefix:      fmt.Sprintf("raffle:%s:", tenantID),
		ttl:         ttl,
	}
}

func (c *CacheService) key(name string) string {
	return c.prefix + name
}

func (c *CacheService) Get(ctx context.Context, name string, dest interface{}) error {
	data, err := c.redisClient.Get(ctx, c.key(name)).Result()
	if errors.Is(err, goredis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

func (c *CacheService) Set(ctx context.Context, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redisClient.Set(ctx, c.key(name), string(data), c.ttl).Err()
}

// InvalidateTenant drops every cached read model of the tenant.
func (c *CacheService) InvalidateTenant(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.redisClient.Scan(ctx, cursor, c.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

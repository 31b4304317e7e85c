package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Ping(context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *goredis.StatusCmd {
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

// Scan returns one key per page to exercise cursor handling.
func (f *fakeRedis) Scan(_ context.Context, cursor uint64, match string, _ int64) *goredis.ScanCmd {
	prefix := strings.TrimSuffix(match, "*")
	var matched []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			matched = append(matched, k)
		}
	}
	if len(matched) == 0 {
		return goredis.NewScanCmdResult(nil, 0, nil)
	}
	return goredis.NewScanCmdResult(matched[:1], cursor+1, nil)
}

func (f *fakeRedis) Close() error { return nil }

type stats struct {
	TotalSpins int `json:"totalSpins"`
}

func TestCacheService_SetGet(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	c := NewCacheService(rdb, "loja", 5*time.Second)

	var out stats
	assert.ErrorIs(t, c.Get(ctx, "stats", &out), ErrMiss)

	require.NoError(t, c.Set(ctx, "stats", stats{TotalSpins: 7}))
	require.NoError(t, c.Get(ctx, "stats", &out))
	assert.Equal(t, 7, out.TotalSpins)
	assert.Equal(t, 5*time.Second, rdb.ttls["raffle:loja:stats"])
}

func TestCacheService_InvalidateTenant(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	c := NewCacheService(rdb, "loja", time.Second)
	other := NewCacheService(rdb, "outra", time.Second)

	require.NoError(t, c.Set(ctx, "stats", stats{}))
	require.NoError(t, c.Set(ctx, "history:10:0", stats{}))
	require.NoError(t, other.Set(ctx, "stats", stats{}))

	require.NoError(t, c.InvalidateTenant(ctx))

	var out stats
	assert.ErrorIs(t, c.Get(ctx, "stats", &out), ErrMiss)
	assert.ErrorIs(t, c.Get(ctx, "history:10:0", &out), ErrMiss)
	assert.NoError(t, other.Get(ctx, "stats", &out))
}

package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"talk/config"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNX mimics SET NX with a map; expiry is not modelled.
type fakeNX struct {
	keys map[string]time.Duration
	err  error
}

func (f *fakeNX) SetNX(_ context.Context, key string, _ any, expiration time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = expiration

	return redis.NewBoolResult(true, nil)
}

func (f *fakeNX) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, key := range keys {
		if _, ok := f.keys[key]; ok {
			delete(f.keys, key)
			n++
		}
	}

	return redis.NewIntResult(n, nil)
}

func TestRedisResendThrottle_Allow(t *testing.T) {
	fake := &fakeNX{keys: map[string]time.Duration{}}
	throttle := &redisResendThrottle{client: fake, prefix: "talk:"}
	ctx := context.Background()

	ok, err := throttle.Allow(ctx, "acc-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, fake.keys["talk:otp:resend:acc-1"])

	ok, err = throttle.Allow(ctx, "acc-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = throttle.Allow(ctx, "acc-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = throttle.Allow(ctx, "acc-1", 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisResendThrottle_Release(t *testing.T) {
	fake := &fakeNX{keys: map[string]time.Duration{}}
	throttle := &redisResendThrottle{client: fake, prefix: "talk:"}
	ctx := context.Background()

	ok, err := throttle.Allow(ctx, "acc-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, throttle.Release(ctx, "acc-1"))
	assert.NotContains(t, fake.keys, "talk:otp:resend:acc-1")

	ok, err = throttle.Allow(ctx, "acc-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisResendThrottle_Error(t *testing.T) {
	throttle := &redisResendThrottle{client: &fakeNX{err: errors.New("connection refused")}}

	ok, err := throttle.Allow(context.Background(), "acc-1", time.Minute)
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, throttle.Release(context.Background(), "acc-1"))
}

func TestNewResendThrottle_WithoutRedis(t *testing.T) {
	throttle := NewResendThrottle(nil, &config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for range 3 {
		ok, err := throttle.Allow(context.Background(), "acc-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

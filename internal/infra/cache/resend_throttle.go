package cache

import (
	"context"
	"log/slog"
	"time"

	"talk/config"
	"talk/internal/domain/service"
	"talk/internal/errors"

	"github.com/redis/go-redis/v9"
)

const throttleKeyPrefix = "otp:resend:"

type throttleClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// redisResendThrottle admits the first attempt per key and window using SET NX.
type redisResendThrottle struct {
	client throttleClient
	prefix string
}

// NewResendThrottle returns a Redis throttle, or one that always allows when
// client is nil.
func NewResendThrottle(client *redis.Client, cfg *config.Config, logger *slog.Logger) service.ResendThrottle {
	if client == nil {
		logger.Warn("Resend throttle disabled, Redis not configured")

		return noopThrottle{}
	}

	prefix := ""
	if cfg.Redis != nil {
		prefix = cfg.Redis.KeyPrefix
	}

	return &redisResendThrottle{client: client, prefix: prefix}
}

func (t *redisResendThrottle) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	if window <= 0 {
		return true, nil
	}

	ok, err := t.client.SetNX(ctx, t.prefix+throttleKeyPrefix+key, 1, window).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to record resend attempt")
	}

	return ok, nil
}

func (t *redisResendThrottle) Release(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, t.prefix+throttleKeyPrefix+key).Err(); err != nil {
		return errors.Wrap(err, "failed to release resend slot")
	}

	return nil
}

type noopThrottle struct{}

func (noopThrottle) Allow(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (noopThrottle) Release(context.Context, string) error {
	return nil
}

package service

import (
	"context"
	"time"
)

// ResendThrottle limits how often a verification code can be re-sent.
type ResendThrottle interface {
	// Allow records an attempt for key and reports whether it may proceed.
	// A second call inside window returns false.
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)

	// Release hands back the slot taken by Allow, for attempts that issued nothing.
	Release(ctx context.Context, key string) error
}

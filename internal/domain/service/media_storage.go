package service

import (
	"context"
	"time"
)

// MediaStorage keeps uploaded photos and logos.
type MediaStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	// URL returns a link clients can fetch key from, valid for at least ttl.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

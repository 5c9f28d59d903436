// Package storage keeps uploaded media in a gocloud.dev blob bucket.
package storage

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"talk/config"
	"talk/internal/domain/service"
	"talk/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets for local development
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets for tests
)

const (
	defaultBucketURL = "mem://"
	defaultURLTTL    = time.Hour
)

type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
}

// Params defines the required parameters
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and closes it on shutdown.
func New(params Params) (service.MediaStorage, error) {
	bucketURL := defaultBucketURL
	publicBaseURL := ""
	if cfg := params.Config.Storage; cfg != nil {
		if cfg.BucketURL != "" {
			bucketURL = cfg.BucketURL
		}
		publicBaseURL = cfg.PublicBaseURL
	}
	if bucketURL == defaultBucketURL {
		params.Logger.Warn("Storage bucket not configured, media is kept in memory")
	}

	bucket, err := blob.OpenBucket(params.Ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return NewBlobStorage(bucket, publicBaseURL), nil
}

// NewBlobStorage wraps an open bucket. When publicBaseURL is set, URL returns
// <publicBaseURL>/<key> instead of signing.
func NewBlobStorage(bucket *blob.Bucket, publicBaseURL string) service.MediaStorage {
	return &blobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *blobStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{
		ContentType:  contentType,
		CacheControl: "private, max-age=3600",
	})
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}

	return nil
}

// Delete removes key. A missing key is not an error.
func (s *blobStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if isNotFound(err) {
			return nil
		}

		return errors.Wrapf(err, "failed to delete %s", key)
	}

	return nil
}

func (s *blobStorage) URL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key, nil
	}
	if ttl <= 0 {
		ttl = defaultURLTTL
	}

	signed, err := s.bucket.SignedURL(ctx, key, &blob.SignedURLOptions{
		Expiry: ttl,
		Method: http.MethodGet,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign url for %s", key)
	}

	return signed, nil
}

package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestWatcher(buf *bytes.Buffer, samples ...sql.DBStats) *poolWatcher {
	i := 0
	return &poolWatcher{
		logger: slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		stats: func() sql.DBStats {
			s := samples[i]
			if i < len(samples)-1 {
				i++
			}

			return s
		},
		warnAfter: dbPoolWarnDurationThreshold,
	}
}

func TestPoolWatcher_Sample(t *testing.T) {
	t.Run("no waits logs nothing", func(t *testing.T) {
		var buf bytes.Buffer
		w := newTestWatcher(&buf, sql.DBStats{WaitCount: 0})

		_, logged := w.sample(context.Background())
		assert.False(t, logged)
		assert.Empty(t, buf.String())
	})

	t.Run("short waits log at debug", func(t *testing.T) {
		var buf bytes.Buffer
		w := newTestWatcher(&buf, sql.DBStats{WaitCount: 2, WaitDuration: 10 * time.Millisecond})

		level, logged := w.sample(context.Background())
		assert.True(t, logged)
		assert.Equal(t, slog.LevelDebug, level)
		assert.Contains(t, buf.String(), "waits=2")
	})

	t.Run("long waits log at warn", func(t *testing.T) {
		var buf bytes.Buffer
		w := newTestWatcher(&buf,
			sql.DBStats{WaitCount: 1, WaitDuration: time.Millisecond},
			sql.DBStats{WaitCount: 3, WaitDuration: 201 * time.Millisecond},
		)

		_, _ = w.sample(context.Background())
		level, logged := w.sample(context.Background())
		assert.True(t, logged)
		assert.Equal(t, slog.LevelWarn, level)
		assert.Contains(t, buf.String(), "avgWait=100ms")
	})

	t.Run("deltas are relative to the previous sample", func(t *testing.T) {
		var buf bytes.Buffer
		w := newTestWatcher(&buf, sql.DBStats{WaitCount: 4, WaitDuration: time.Second})
		w.last = sql.DBStats{WaitCount: 4, WaitDuration: time.Second}

		_, logged := w.sample(context.Background())
		assert.False(t, logged)
	})
}

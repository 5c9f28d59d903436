package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"talk/config"
	"talk/internal/domain/lifecycle"
	"talk/internal/errors"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// Params are the fx dependencies of New.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the primary/replica pool described by the postgres config section.
func New(params Params) (*gorm.DB, error) {
	if params.Config.Postgres == nil {
		return nil, errors.New("postgres config section is required")
	}

	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open account store")
	}
	// Multi-step writes go through TransactionManager.Execute.
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to unwrap account store pool")
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "account store unreachable")
			}

			go newPoolWatcher(params.Logger, sqlDB).run(monitorCtx, dbPoolMonitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// poolWatcher samples sql.DBStats and reports connection waits between samples.
type poolWatcher struct {
	logger    *slog.Logger
	stats     func() sql.DBStats
	warnAfter time.Duration
	last      sql.DBStats
}

func newPoolWatcher(logger *slog.Logger, sqlDB *sql.DB) *poolWatcher {
	return &poolWatcher{
		logger:    logger,
		stats:     sqlDB.Stats,
		warnAfter: dbPoolWarnDurationThreshold,
		last:      sqlDB.Stats(),
	}
}

func (w *poolWatcher) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sample(ctx)
		}
	}
}

// sample logs the waits accumulated since the previous sample. It returns
// the level it logged at, or false when no request waited.
func (w *poolWatcher) sample(ctx context.Context) (slog.Level, bool) {
	cur := w.stats()
	prev := w.last
	w.last = cur

	waits := cur.WaitCount - prev.WaitCount
	if waits <= 0 {
		return 0, false
	}
	waited := cur.WaitDuration - prev.WaitDuration

	level := slog.LevelDebug
	if waited >= w.warnAfter {
		level = slog.LevelWarn
	}
	w.logger.LogAttrs(ctx, level, "account store pool wait",
		slog.Int64("waits", waits),
		slog.Duration("waited", waited),
		slog.Duration("avgWait", waited/time.Duration(waits)),
		slog.Int("open", cur.OpenConnections),
		slog.Int("inUse", cur.InUse),
		slog.Int("idle", cur.Idle),
		slog.Int("maxOpen", cur.MaxOpenConnections),
	)

	return level, true
}

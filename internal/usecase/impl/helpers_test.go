package impl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"talk/config"
	"talk/internal/domain/entity"
	"talk/internal/domain/repository"
	"talk/internal/domain/service"
	"talk/internal/infra/auth"
	"talk/internal/infra/identity"
	"talk/internal/infra/persistence/postgres"
	"talk/internal/infra/storage"
	"talk/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testPassword   = "Str0ng!Pass"
	testCDN        = "https://cdn.talk.test"
	testAccessKey  = "access-secret"
	testRefreshKey = "refresh-secret"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{Access: testAccessKey, Refresh: testRefreshKey},
		Auth: &config.AuthConfig{
			BcryptCost:      bcrypt.MinCost,
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			ResetTokenTTL:   15 * time.Minute,
			ClientSiteURL:   "https://talk.test",
		},
		PasswordStrength: config.DefaultPasswordStrength(),
		OTP: &config.OTPConfig{
			TTL:          entity.OTPTTL,
			ResendWindow: time.Minute,
			Retention:    24 * time.Hour,
		},
		Storage: &config.StorageConfig{URLTTL: time.Hour, PublicBaseURL: testCDN},
	}
}

// recordingPublisher keeps every published event and fails when err is set.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*service.MailEvent
	err    error
}

func (p *recordingPublisher) PublishMailEvent(_ context.Context, event *service.MailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) last() *service.MailEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.events) == 0 {
		return nil
	}

	return p.events[len(p.events)-1]
}

// scriptedTalkIDs returns its ids in order and then repeats the last one.
type scriptedTalkIDs struct {
	ids   []entity.TalkID
	calls int
}

func (g *scriptedTalkIDs) Generate(_, _ string) (entity.TalkID, error) {
	id := g.ids[min(g.calls, len(g.ids)-1)]
	g.calls++

	return id, nil
}

// sequenceCodes hands out codes in order, then falls back to zero padded counters.
type sequenceCodes struct {
	codes []string
	next  int
}

func (g *sequenceCodes) NewCode() (string, error) {
	defer func() { g.next++ }()
	if g.next < len(g.codes) {
		return g.codes[g.next], nil
	}

	return fmt.Sprintf("%06d", g.next), nil
}

// brokenCodes fails every draw.
type brokenCodes struct{}

func (brokenCodes) NewCode() (string, error) {
	return "", errors.New("entropy exhausted")
}

type fakeThrottle struct {
	allow    bool
	err      error
	keys     []string
	released []string
}

func (t *fakeThrottle) Allow(_ context.Context, key string, _ time.Duration) (bool, error) {
	t.keys = append(t.keys, key)

	return t.allow, t.err
}

func (t *fakeThrottle) Release(_ context.Context, key string) error {
	t.released = append(t.released, key)

	return nil
}

// testEnv wires the services against an in-memory sqlite database.
type testEnv struct {
	t         *testing.T
	db        *gorm.DB
	cfg       *config.Config
	txManager repository.TransactionManager
	accounts  repository.AccountRepository
	otps      repository.OTPRepository
	refresh   repository.RefreshTokenRepository
	profiles  repository.RoleProfileRepository
	hasher    service.PasswordHasher
	tokens    service.TokenService
	talkIDs   service.TalkIDGenerator
	codes     service.OTPCodeGenerator
	publisher *recordingPublisher
	throttle  *fakeThrottle
	bucket    *blob.Bucket
	storage   service.MediaStorage
	logger    *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, postgres.Migrate(context.Background(), db))

	cfg := newTestConfig()
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	return &testEnv{
		t:         t,
		db:        db,
		cfg:       cfg,
		txManager: postgres.NewTransactionManager(db),
		accounts:  postgres.NewAccountRepository(db),
		otps:      postgres.NewOTPRepository(db),
		refresh:   postgres.NewRefreshTokenRepository(db),
		profiles:  postgres.NewRoleProfileRepository(db),
		hasher:    auth.NewBcryptHasher(cfg),
		tokens:    tokens,
		talkIDs:   identity.NewTalkIDGenerator(),
		codes:     identity.NewOTPCodeGenerator(),
		publisher: &recordingPublisher{},
		throttle:  &fakeThrottle{allow: true},
		bucket:    bucket,
		storage:   storage.NewBlobStorage(bucket, testCDN),
		logger:    newDiscardLogger(),
	}
}

func (e *testEnv) accountService() usecase.AccountUsecase {
	return NewAccountService(AccountServiceParams{
		TxManager:   e.txManager,
		AccountRepo: e.accounts,
		Hasher:      e.hasher,
		TalkIDs:     e.talkIDs,
		OTPCodes:    e.codes,
		Publisher:   e.publisher,
		Config:      e.cfg,
		Logger:      e.logger,
	})
}

func (e *testEnv) verificationService() *verificationService {
	return NewVerificationService(VerificationServiceParams{
		TxManager:   e.txManager,
		AccountRepo: e.accounts,
		Throttle:    e.throttle,
		OTPCodes:    e.codes,
		Publisher:   e.publisher,
		Config:      e.cfg,
		Logger:      e.logger,
	}).(*verificationService)
}

func (e *testEnv) composer() usecase.ProfileComposer {
	return NewProfileComposer(e.storage, e.cfg, e.logger)
}

func (e *testEnv) sessionService() *sessionService {
	return NewSessionService(SessionServiceParams{
		TxManager:        e.txManager,
		AccountRepo:      e.accounts,
		RefreshTokenRepo: e.refresh,
		Hasher:           e.hasher,
		TokenService:     e.tokens,
		Composer:         e.composer(),
		Publisher:        e.publisher,
		Config:           e.cfg,
		Logger:           e.logger,
	}).(*sessionService)
}

func (e *testEnv) profileService() usecase.ProfileUsecase {
	return NewProfileService(ProfileServiceParams{
		TxManager:   e.txManager,
		AccountRepo: e.accounts,
		Storage:     e.storage,
		Composer:    e.composer(),
		Logger:      e.logger,
	})
}

// register creates an account through the account service.
func (e *testEnv) register(email, first, last string) *entity.Account {
	e.t.Helper()

	out, err := e.accountService().Register(context.Background(), &usecase.RegisterInput{
		Email:     email,
		Password:  testPassword,
		FirstName: first,
		LastName:  last,
	})
	require.NoError(e.t, err)

	return out.Account
}

func (e *testEnv) withRole(account *entity.Account, role entity.Role) *entity.Account {
	e.t.Helper()

	updated, err := e.accountService().SetRole(context.Background(), account.ID, role.String())
	require.NoError(e.t, err)

	return updated
}

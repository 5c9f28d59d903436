package impl

import (
	"context"
	"testing"
	"time"

	"talk/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceService_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.codes = &sequenceCodes{codes: []string{"100001"}}
	account := env.register("purge@example.com", "Pu", "Rge")

	now := time.Now()
	stale := &entity.OneTimePassword{
		AccountID: account.ID,
		Code:      "200002",
		CreatedAt: now.Add(-48 * time.Hour),
		ExpiresAt: now.Add(-48*time.Hour + entity.OTPTTL),
	}
	require.NoError(t, env.otps.Create(ctx, stale))

	// Expired but still inside the retention window.
	recent := &entity.OneTimePassword{
		AccountID: account.ID,
		Code:      "300003",
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(-time.Hour + entity.OTPTTL),
	}
	require.NoError(t, env.otps.Create(ctx, recent))

	require.NoError(t, env.refresh.Create(ctx, &entity.RefreshToken{
		AccountID: account.ID,
		TokenHash: "expired-hash",
		ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, env.refresh.Create(ctx, &entity.RefreshToken{
		AccountID: account.ID,
		TokenHash: "live-hash",
		ExpiresAt: now.Add(time.Hour),
	}))

	result, err := NewMaintenanceService(env.txManager, env.cfg, env.logger).PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.OTPs)
	assert.EqualValues(t, 1, result.RefreshTokens)

	_, err = env.otps.FindLatestByCode(ctx, "200002")
	assert.Error(t, err)
	_, err = env.otps.FindLatestByCode(ctx, "300003")
	assert.NoError(t, err)
	_, err = env.otps.FindLatestByCode(ctx, "100001")
	assert.NoError(t, err)

	_, err = env.refresh.FindByHash(ctx, "live-hash")
	assert.NoError(t, err)
}

package impl

import (
	"context"
	"time"

	"talk/internal/domain/entity"
	"talk/internal/domain/repository"
	"talk/internal/domain/service"
	"talk/internal/errors"
)

// otpIssuer creates verification codes. It is always called with the
// repository of the transaction that created or changed the account.
type otpIssuer struct {
	codes service.OTPCodeGenerator
	ttl   time.Duration
	now   func() time.Time
}

func newOTPIssuer(codes service.OTPCodeGenerator, ttl time.Duration) *otpIssuer {
	if ttl <= 0 {
		ttl = entity.OTPTTL
	}

	return &otpIssuer{codes: codes, ttl: ttl, now: time.Now}
}

// issue stores a new unused code for account. Older codes stay valid.
func (i *otpIssuer) issue(ctx context.Context, otpRepo repository.OTPRepository, account *entity.Account) (*entity.OneTimePassword, error) {
	code, err := i.codes.NewCode()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate otp code")
	}

	now := i.now()
	otp := &entity.OneTimePassword{
		AccountID: account.ID,
		Code:      code,
		ExpiresAt: now.Add(i.ttl),
		CreatedAt: now,
	}
	if err := otpRepo.Create(ctx, otp); err != nil {
		return nil, translateRepoError(err, "failed to store otp")
	}

	return otp, nil
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// OTP defaults used when issuing verification codes.
const (
	OTPLength = 6
	OTPTTL    = 5 * time.Minute
)

// OneTimePassword is a short-lived numeric code proving control of an
// account's email address. Older rows stay around after a resend; a used or
// expired code can never validate again.
type OneTimePassword struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Code      string
	ExpiresAt time.Time
	IsUsed    bool
	CreatedAt time.Time
}

// IsExpired reports whether the code is past its expiry at now.
func (o *OneTimePassword) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}

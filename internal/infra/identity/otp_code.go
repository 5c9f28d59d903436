package identity

import (
	"crypto/rand"
	"io"

	"talk/internal/domain/entity"
	"talk/internal/domain/service"
)

type otpCodeGenerator struct {
	random io.Reader
	length int
}

// NewOTPCodeGenerator returns a generator of entity.OTPLength digit codes.
func NewOTPCodeGenerator() service.OTPCodeGenerator {
	return &otpCodeGenerator{random: rand.Reader, length: entity.OTPLength}
}

// NewCode returns a zero-padded numeric code; every digit is drawn independently.
func (g *otpCodeGenerator) NewCode() (string, error) {
	return randomDigits(g.random, g.length)
}

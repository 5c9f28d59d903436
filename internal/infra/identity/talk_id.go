// Package identity generates the random identifiers handed to members:
// talk_id candidates and OTP codes.
package identity

import (
	"crypto/rand"
	"io"
	"math/big"
	"strings"
	"unicode"

	"talk/internal/domain/entity"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	talkIDDigits = 5

	// fallbackInitial stands in for a name whose first letter has no A-Z form.
	fallbackInitial = 'X'
)

// talkIDGenerator builds candidates as two initials plus random digits.
type talkIDGenerator struct {
	random io.Reader
}

// NewTalkIDGenerator returns a generator backed by crypto/rand.
func NewTalkIDGenerator() service.TalkIDGenerator {
	return &talkIDGenerator{random: rand.Reader}
}

// Generate returns UPPER(first[0]) + UPPER(last[0]) + 5 random digits.
func (g *talkIDGenerator) Generate(firstName, lastName string) (entity.TalkID, error) {
	first, ok := initial(firstName)
	if !ok {
		return "", domainerrors.ErrValidationFailed.WithDetails("first name is required for talk_id")
	}
	last, ok := initial(lastName)
	if !ok {
		return "", domainerrors.ErrValidationFailed.WithDetails("last name is required for talk_id")
	}

	digits, err := randomDigits(g.random, talkIDDigits)
	if err != nil {
		return "", err
	}

	return entity.TalkID(string([]rune{first, last}) + digits), nil
}

// initial folds the first letter of name to an ASCII capital. "Émile"
// becomes 'E'; a script without a Latin form yields fallbackInitial.
func initial(name string) (rune, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}

	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}

	for _, r := range folded {
		r = unicode.ToUpper(r)
		if r >= 'A' && r <= 'Z' {
			return r, true
		}

		return fallbackInitial, true
	}

	return 0, false
}

// randomDigits returns n uniformly random decimal digits.
func randomDigits(random io.Reader, n int) (string, error) {
	var b strings.Builder
	b.Grow(n)

	ten := big.NewInt(10)
	for range n {
		d, err := rand.Int(random, ten)
		if err != nil {
			return "", errors.Wrap(err, "failed to read random digit")
		}
		b.WriteByte(byte('0' + d.Int64()))
	}

	return b.String(), nil
}

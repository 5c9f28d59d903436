package entity

import (
	"regexp"
)

// TalkIDPattern is the canonical shape of a talk_id: two initials and five digits.
var TalkIDPattern = regexp.MustCompile(`^[A-Z]{2}\d{5}$`)

// TalkID is the short human readable account identifier, e.g. "JD04217".
type TalkID string

// String returns the string representation of the TalkID.
func (t TalkID) String() string {
	return string(t)
}

// IsValid reports whether t has the canonical format.
func (t TalkID) IsValid() bool {
	return TalkIDPattern.MatchString(string(t))
}

// Prefix returns the two initials of t.
func (t TalkID) Prefix() string {
	if len(t) < 2 {
		return string(t)
	}

	return string(t[:2])
}

// ParseTalkID validates an externally supplied talk_id.
func ParseTalkID(s string) (TalkID, bool) {
	id := TalkID(s)
	if !id.IsValid() {
		return "", false
	}

	return id, true
}

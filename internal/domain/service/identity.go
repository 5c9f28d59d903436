package service

import "talk/internal/domain/entity"

// TalkIDGenerator derives talk_id candidates from a name. Candidates are not
// unique by themselves; uniqueness is settled by the account store.
type TalkIDGenerator interface {
	Generate(firstName, lastName string) (entity.TalkID, error)
}

// OTPCodeGenerator produces fixed-length numeric verification codes.
type OTPCodeGenerator interface {
	NewCode() (string, error)
}

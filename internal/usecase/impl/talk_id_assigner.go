package impl

import (
	"context"
	"log/slog"

	"talk/internal/domain/entity"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/repository"
	"talk/internal/domain/service"
	"talk/internal/errors"
)

const maxTalkIDAttempts = 10

// talkIDAssigner settles talk_id uniqueness against the accounts index.
type talkIDAssigner struct {
	generator service.TalkIDGenerator
}

// persist runs write (a repository Create or Update) and, when the account
// can take a talk_id, assigns one: each attempt uses a fresh candidate and a
// talk_id unique violation triggers another attempt. Any other error ends
// the loop. On failure the account's talk_id is left unset.
func (a *talkIDAssigner) persist(
	ctx context.Context,
	logger *slog.Logger,
	account *entity.Account,
	write func(context.Context, *entity.Account) error,
) error {
	if !account.NeedsTalkID() {
		return write(ctx, account)
	}

	for attempt := 1; attempt <= maxTalkIDAttempts; attempt++ {
		candidate, err := a.generator.Generate(account.FirstName, account.LastName)
		if err != nil {
			return errors.Wrap(err, "failed to generate talk_id")
		}

		account.TalkID = candidate
		err = write(ctx, account)
		if err == nil {
			return nil
		}

		account.TalkID = ""
		if !errors.Is(err, repository.ErrDuplicateTalkID) {
			return err
		}

		logger.Debug("talk_id collision, retrying",
			slog.String("candidate", candidate.String()),
			slog.Int("attempt", attempt),
		)
	}

	logger.Error("talk_id attempts exhausted",
		slog.String("accountID", account.ID.String()),
		slog.Int("attempts", maxTalkIDAttempts),
	)

	return domainerrors.ErrTalkIDExhausted
}

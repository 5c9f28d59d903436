package impl

import (
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/repository"
	"talk/internal/errors"
)

// translateRepoError maps repository sentinels onto domain errors. Errors that
// already carry a domain code pass through; anything else is wrapped with msg.
func translateRepoError(err error, msg string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return domainerrors.ErrAccountNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return domainerrors.ErrEmailAlreadyRegistered
	case errors.Is(err, repository.ErrDuplicateTalkID):
		return domainerrors.ErrTalkIDTaken
	case errors.Is(err, repository.ErrDuplicateBusinessEmail):
		return domainerrors.ErrBusinessEmailTaken
	case errors.Is(err, repository.ErrProfileNotFound):
		return domainerrors.ErrProfileNotFound
	case errors.Is(err, repository.ErrProfileExists):
		return domainerrors.ErrProfileAlreadyExists
	case errors.Is(err, repository.ErrOTPNotFound):
		return domainerrors.ErrOTPNotFound
	}

	if _, ok := domainerrors.AsAppError(err); ok {
		return err
	}

	return errors.Wrap(err, msg)
}

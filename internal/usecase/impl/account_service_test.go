package impl

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"talk/internal/domain/entity"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns talk_id from initials and sends a code", func(t *testing.T) {
		env := newTestEnv(t)
		env.codes = &sequenceCodes{codes: []string{"482913"}}

		out, err := env.accountService().Register(ctx, &usecase.RegisterInput{
			Email:     "  John.Doe@Example.com ",
			Password:  testPassword,
			FirstName: "John",
			LastName:  "Doe",
		})
		require.NoError(t, err)

		account := out.Account
		assert.Equal(t, "john.doe@example.com", account.Email)
		assert.Regexp(t, regexp.MustCompile(`^JD\d{5}$`), account.TalkID.String())
		assert.Equal(t, entity.RoleNone, account.Role)
		assert.False(t, account.EmailVerified)
		assert.True(t, out.OTPDispatched)
		assert.Empty(t, out.Warnings)

		otp, err := env.otps.FindLatestByCode(ctx, "482913")
		require.NoError(t, err)
		assert.Equal(t, account.ID, otp.AccountID)
		assert.False(t, otp.IsUsed)
		assert.Equal(t, entity.OTPTTL, otp.ExpiresAt.Sub(otp.CreatedAt))

		event := env.publisher.last()
		require.NotNil(t, event)
		assert.Equal(t, entity.MailKindVerification, event.Kind)
		assert.Equal(t, "john.doe@example.com", event.Message.To)
		assert.Contains(t, event.Message.HTMLBody, "482913")
		assert.Equal(t, account.ID.String(), event.AccountID)
	})

	t.Run("without both names leaves talk_id empty", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.accountService().Register(ctx, &usecase.RegisterInput{
			Email:     "mono@example.com",
			Password:  testPassword,
			FirstName: "Mono",
		})
		require.NoError(t, err)
		assert.Empty(t, out.Account.TalkID)
	})

	t.Run("duplicate email ignores case", func(t *testing.T) {
		env := newTestEnv(t)
		env.register("ada@example.com", "Ada", "Lovelace")

		_, err := env.accountService().Register(ctx, &usecase.RegisterInput{
			Email:     "ADA@Example.com",
			Password:  testPassword,
			FirstName: "Ada",
			LastName:  "Byron",
		})
		assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accountService().Register(ctx, &usecase.RegisterInput{
			Email:    "weak@example.com",
			Password: "short",
		})
		assert.ErrorIs(t, err, domainerrors.ErrPasswordPolicy)
	})

	t.Run("invalid input fails validation", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accountService().Register(ctx, &usecase.RegisterInput{
			Email:    "not-an-email",
			Password: testPassword,
			Gender:   "other",
		})
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accountService().Register(ctx, &usecase.RegisterInput{
			Email:    "role@example.com",
			Password: testPassword,
			Role:     "admin",
		})
		assert.ErrorIs(t, err, domainerrors.ErrInvalidRole)
	})

	t.Run("publish failure becomes a warning", func(t *testing.T) {
		env := newTestEnv(t)
		env.publisher.err = errors.New("bus down")

		out, err := env.accountService().Register(ctx, &usecase.RegisterInput{
			Email:     "grace@example.com",
			Password:  testPassword,
			FirstName: "Grace",
			LastName:  "Hopper",
		})
		require.NoError(t, err)
		assert.False(t, out.OTPDispatched)
		require.Len(t, out.Warnings, 1)
		assert.Equal(t, usecase.WarningMailDispatchFailed, out.Warnings[0].Code)

		stored, err := env.accounts.FindByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
		assert.Equal(t, out.Account.TalkID, stored.TalkID)
	})
}

func TestAccountService_TalkIDCollisions(t *testing.T) {
	ctx := context.Background()

	t.Run("retries with a fresh candidate", func(t *testing.T) {
		env := newTestEnv(t)
		env.talkIDs = &scriptedTalkIDs{ids: []entity.TalkID{"JD00001"}}
		env.register("first@example.com", "Jane", "Doe")

		generator := &scriptedTalkIDs{ids: []entity.TalkID{"JD00001", "JD00001", "JD00002"}}
		env.talkIDs = generator

		account := env.register("second@example.com", "John", "Doe")
		assert.Equal(t, entity.TalkID("JD00002"), account.TalkID)
		assert.Equal(t, 3, generator.calls)
	})

	t.Run("gives up after ten attempts and stores nothing", func(t *testing.T) {
		env := newTestEnv(t)
		env.talkIDs = &scriptedTalkIDs{ids: []entity.TalkID{"JD00001"}}
		env.register("first@example.com", "Jane", "Doe")

		generator := &scriptedTalkIDs{ids: []entity.TalkID{"JD00001"}}
		env.talkIDs = generator

		_, err := env.accountService().Register(ctx, &usecase.RegisterInput{
			Email:     "second@example.com",
			Password:  testPassword,
			FirstName: "John",
			LastName:  "Doe",
		})
		assert.ErrorIs(t, err, domainerrors.ErrTalkIDExhausted)
		assert.Equal(t, maxTalkIDAttempts, generator.calls)

		_, err = env.accounts.FindByEmail(ctx, "second@example.com")
		assert.Error(t, err)
		assert.Len(t, env.publisher.events, 1)
	})
}

func TestAccountService_ImportAccount(t *testing.T) {
	ctx := context.Background()

	input := func(talkID string) *usecase.ImportAccountInput {
		return &usecase.ImportAccountInput{
			Email:         "imported@example.com",
			Password:      testPassword,
			FirstName:     "Alan",
			LastName:      "Turing",
			TalkID:        talkID,
			Role:          "individuals",
			EmailVerified: true,
		}
	}

	t.Run("keeps the supplied talk_id", func(t *testing.T) {
		env := newTestEnv(t)

		out, err := env.accountService().ImportAccount(ctx, input("AT31337"))
		require.NoError(t, err)
		assert.Equal(t, entity.TalkID("AT31337"), out.Account.TalkID)
		assert.Equal(t, entity.RoleIndividual, out.Account.Role)
		assert.True(t, out.Account.EmailVerified)
		assert.False(t, out.OTPDispatched)
		assert.Nil(t, env.publisher.last())
	})

	t.Run("trims the email before validating it", func(t *testing.T) {
		env := newTestEnv(t)
		in := input("AT27182")
		in.Email = "  Imported@Example.com  "

		out, err := env.accountService().ImportAccount(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "imported@example.com", out.Account.Email)
		assert.Equal(t, "  Imported@Example.com  ", in.Email)
	})

	t.Run("malformed talk_id", func(t *testing.T) {
		env := newTestEnv(t)

		for _, talkID := range []string{"at31337", "AT3133", "A131337", "AT313377"} {
			_, err := env.accountService().ImportAccount(ctx, input(talkID))
			assert.ErrorIs(t, err, domainerrors.ErrInvalidTalkID, talkID)
		}
	})

	t.Run("talk_id already owned", func(t *testing.T) {
		env := newTestEnv(t)
		env.talkIDs = &scriptedTalkIDs{ids: []entity.TalkID{"AT31337"}}
		env.register("owner@example.com", "Ada", "Turing")

		_, err := env.accountService().ImportAccount(ctx, input("AT31337"))
		assert.ErrorIs(t, err, domainerrors.ErrTalkIDTaken)
	})
}

func TestAccountService_SetRole(t *testing.T) {
	ctx := context.Background()

	t.Run("selects a role", func(t *testing.T) {
		env := newTestEnv(t)
		account := env.register("role@example.com", "Rita", "Levi")

		updated, err := env.accountService().SetRole(ctx, account.ID, "service providers")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleServiceProvider, updated.Role)

		again, err := env.accountService().SetRole(ctx, account.ID, "service_provider")
		require.NoError(t, err)
		assert.Equal(t, entity.RoleServiceProvider, again.Role)
	})

	t.Run("rejects roles that cannot be chosen", func(t *testing.T) {
		env := newTestEnv(t)
		account := env.register("role@example.com", "Rita", "Levi")

		for _, role := range []string{"", "none", "admin"} {
			_, err := env.accountService().SetRole(ctx, account.ID, role)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidRole, role)
		}
	})

	t.Run("locked once the other profile exists", func(t *testing.T) {
		env := newTestEnv(t)
		account := env.withRole(env.register("role@example.com", "Rita", "Levi"), entity.RoleIndividual)

		_, err := env.profileService().CreateIndividualProfile(ctx, account.ID, &usecase.IndividualProfileInput{
			PhoneNumber: "+2348012345678",
			DateOfBirth: "2001-04-09",
		})
		require.NoError(t, err)

		_, err = env.accountService().SetRole(ctx, account.ID, "service_provider")
		assert.ErrorIs(t, err, domainerrors.ErrRoleLocked)
	})

	t.Run("unknown account", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accountService().SetRole(ctx, uuid.New(), "individual")
		assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)
	})
}

func TestAccountService_UpdateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("backfills talk_id once names are complete", func(t *testing.T) {
		env := newTestEnv(t)
		out, err := env.accountService().Register(ctx, &usecase.RegisterInput{
			Email:    "late@example.com",
			Password: testPassword,
		})
		require.NoError(t, err)
		require.Empty(t, out.Account.TalkID)

		first, last := "Kwame", "Nkrumah"
		updated, err := env.accountService().UpdateAccount(ctx, out.Account.ID, &usecase.UpdateAccountInput{
			FirstName: &first,
			LastName:  &last,
		})
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^KN\d{5}$`), updated.Account.TalkID.String())

		renamed := "Zed"
		again, err := env.accountService().UpdateAccount(ctx, out.Account.ID, &usecase.UpdateAccountInput{
			FirstName: &renamed,
		})
		require.NoError(t, err)
		assert.Equal(t, updated.Account.TalkID, again.Account.TalkID)
	})

	t.Run("email change resets verification", func(t *testing.T) {
		env := newTestEnv(t)
		env.codes = &sequenceCodes{codes: []string{"111111", "222222"}}
		account := env.register("old@example.com", "Ola", "Day")

		_, err := env.verificationService().VerifyOTP(ctx, "111111")
		require.NoError(t, err)

		email := "New@Example.com"
		out, err := env.accountService().UpdateAccount(ctx, account.ID, &usecase.UpdateAccountInput{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", out.Account.Email)
		assert.False(t, out.Account.EmailVerified)
		assert.True(t, out.OTPDispatched)
		assert.Equal(t, "new@example.com", env.publisher.last().Message.To)

		_, err = env.otps.FindLatestByCode(ctx, "222222")
		assert.NoError(t, err)
	})

	t.Run("email change burns codes sent to the old address", func(t *testing.T) {
		env := newTestEnv(t)
		env.codes = &sequenceCodes{codes: []string{"111111", "333333", "222222"}}
		account := env.register("mine@example.com", "Mia", "Ne")

		_, err := env.verificationService().ResendOTP(ctx, "mine@example.com")
		require.NoError(t, err)

		email := "other@example.com"
		_, err = env.accountService().UpdateAccount(ctx, account.ID, &usecase.UpdateAccountInput{Email: &email})
		require.NoError(t, err)

		for _, code := range []string{"111111", "333333"} {
			_, err = env.verificationService().VerifyOTP(ctx, code)
			assert.ErrorIs(t, err, domainerrors.ErrOTPAlreadyUsed, code)
		}

		stored, err := env.accounts.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.False(t, stored.EmailVerified)

		verified, err := env.verificationService().VerifyOTP(ctx, "222222")
		require.NoError(t, err)
		assert.Equal(t, "other@example.com", verified.Email)
		assert.True(t, verified.EmailVerified)
	})

	t.Run("padded email is trimmed before validation", func(t *testing.T) {
		env := newTestEnv(t)
		account := env.register("pad@example.com", "Pa", "Dd")

		email := "  Padded@Example.com "
		out, err := env.accountService().UpdateAccount(ctx, account.ID, &usecase.UpdateAccountInput{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "padded@example.com", out.Account.Email)
	})

	t.Run("same email in another case is not a change", func(t *testing.T) {
		env := newTestEnv(t)
		env.codes = &sequenceCodes{codes: []string{"111111"}}
		account := env.register("same@example.com", "Sa", "Me")

		email := " SAME@example.com"
		out, err := env.accountService().UpdateAccount(ctx, account.ID, &usecase.UpdateAccountInput{Email: &email})
		require.NoError(t, err)
		assert.False(t, out.OTPDispatched)

		_, err = env.verificationService().VerifyOTP(ctx, "111111")
		assert.NoError(t, err)
	})

	t.Run("email taken by another account", func(t *testing.T) {
		env := newTestEnv(t)
		env.register("taken@example.com", "Tia", "Ken")
		account := env.register("mine@example.com", "Mia", "Ine")

		email := "TAKEN@example.com"
		_, err := env.accountService().UpdateAccount(ctx, account.ID, &usecase.UpdateAccountInput{Email: &email})
		assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
	})

	t.Run("plain fields", func(t *testing.T) {
		env := newTestEnv(t)
		account := env.register("fields@example.com", "Fay", "Ield")

		availability, level, marketing := "busy", "graduate", true
		out, err := env.accountService().UpdateAccount(ctx, account.ID, &usecase.UpdateAccountInput{
			Availability:    &availability,
			Level:           &level,
			MarketingEmails: &marketing,
		})
		require.NoError(t, err)
		assert.False(t, out.OTPDispatched)

		stored, err := env.accountService().GetAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.AvailabilityBusy, stored.Availability)
		assert.Equal(t, entity.LevelGraduate, stored.Level)
		assert.True(t, stored.MarketingEmails)
		assert.Equal(t, account.TalkID, stored.TalkID)
	})

	t.Run("invalid availability", func(t *testing.T) {
		env := newTestEnv(t)
		account := env.register("fields@example.com", "Fay", "Ield")

		availability := "away"
		_, err := env.accountService().UpdateAccount(ctx, account.ID, &usecase.UpdateAccountInput{Availability: &availability})
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	})
}

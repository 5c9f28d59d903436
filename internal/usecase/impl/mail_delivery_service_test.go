package impl

import (
	"context"
	"errors"
	"testing"

	"talk/internal/domain/entity"
	domainerrors "talk/internal/domain/errors"
	"talk/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg entity.MailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func verificationEvent() *service.MailEvent {
	return &service.MailEvent{
		EventID:   "evt-1",
		Kind:      entity.MailKindVerification,
		AccountID: "acc-1",
		Message: entity.MailMessage{
			To:       "ada@x.com",
			Subject:  verificationSubject,
			HTMLBody: "<p>123456</p>",
		},
	}
}

func TestMailDeliveryService_Deliver(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the message", func(t *testing.T) {
		mailer := &mockMailer{}
		event := verificationEvent()
		mailer.On("Send", mock.Anything, event.Message).Return(nil).Once()

		err := NewMailDeliveryService(mailer, newDiscardLogger()).Deliver(ctx, event)
		require.NoError(t, err)
		mailer.AssertExpectations(t)
	})

	t.Run("rejection stays recognisable", func(t *testing.T) {
		mailer := &mockMailer{}
		mailer.On("Send", mock.Anything, mock.Anything).Return(errors.Join(service.ErrMailRejected, errors.New("550 no such user")))

		err := NewMailDeliveryService(mailer, newDiscardLogger()).Deliver(ctx, verificationEvent())
		assert.ErrorIs(t, err, service.ErrMailRejected)
	})

	t.Run("transient failures are returned", func(t *testing.T) {
		mailer := &mockMailer{}
		mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		err := NewMailDeliveryService(mailer, newDiscardLogger()).Deliver(ctx, verificationEvent())
		require.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrMailRejected)
	})

	t.Run("malformed events are not sent", func(t *testing.T) {
		mailer := &mockMailer{}
		srv := NewMailDeliveryService(mailer, newDiscardLogger())

		noRecipient := verificationEvent()
		noRecipient.Message.To = ""
		unknownKind := verificationEvent()
		unknownKind.Kind = "newsletter"

		for _, event := range []*service.MailEvent{nil, noRecipient, unknownKind} {
			assert.ErrorIs(t, srv.Deliver(ctx, event), domainerrors.ErrValidationFailed)
		}
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

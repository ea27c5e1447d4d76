package services_test

import (
	"context"
	"errors"
	"testing"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/internal/whatsapp"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) SendMessage(ctx context.Context, to, body string) (whatsapp.MessageResult, error) {
	args := m.Called(ctx, to, body)
	return args.Get(0).(whatsapp.MessageResult), args.Error(1)
}

func (m *mockProvider) Name() string { return "mock" }

func TestNotificationService_SendReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("Not configured", func(t *testing.T) {
		f := newFixture(t)
		svc := services.NewNotificationService(nil, f.mem, f.svc, f.clock)
		assert.False(t, svc.Status().Configured)

		_, err := svc.SendReceipt(ctx, f.renter.ID, march2025, "", "")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("Success records delivery", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
		require.NoError(t, err)

		provider := new(mockProvider)
		provider.On("SendMessage", mock.Anything, "+919876543210", "Paid, thanks\nReceipt: https://r.example/x").
			Return(whatsapp.MessageResult{ID: "SM1", Status: "queued"}, nil).Once()

		svc := services.NewNotificationService(provider, f.mem, f.svc, f.clock)
		assert.Equal(t, models.WhatsAppStatus{Configured: true, Provider: "mock"}, svc.Status())

		res, err := svc.SendReceipt(ctx, f.renter.ID, march2025, "Paid, thanks", "https://r.example/x")
		require.NoError(t, err)
		assert.Equal(t, "SM1", res.MessageID)
		assert.True(t, res.Recorded)

		rec := f.mem.Record(f.renter.ID, march2025, models.PaymentTypeRent)
		assert.NotNil(t, rec.WhatsAppSentAt)
		provider.AssertExpectations(t)
	})

	t.Run("Default message and no rent record", func(t *testing.T) {
		f := newFixture(t)
		provider := new(mockProvider)
		provider.On("SendMessage", mock.Anything, "+919876543210", mock.MatchedBy(func(body string) bool {
			return body == "Hi Asha, your payment for March 2025 has been received. Thank you!"
		})).Return(whatsapp.MessageResult{ID: "SM2"}, nil).Once()

		svc := services.NewNotificationService(provider, f.mem, f.svc, f.clock)
		res, err := svc.SendReceipt(ctx, f.renter.ID, march2025, "", "")
		require.NoError(t, err)
		assert.False(t, res.Recorded)
		assert.Empty(t, f.mem.Records())
		provider.AssertExpectations(t)
	})

	t.Run("Provider failure", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
		require.NoError(t, err)

		provider := new(mockProvider)
		provider.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).
			Return(whatsapp.MessageResult{}, &whatsapp.APIError{Provider: "Twilio", StatusCode: 400, Message: "bad number"})

		svc := services.NewNotificationService(provider, f.mem, f.svc, f.clock)
		_, err = svc.SendReceipt(ctx, f.renter.ID, march2025, "hi", "")
		assert.ErrorIs(t, err, models.ErrUpstream)
		assert.Equal(t, "Twilio error: bad number", models.Message(err))

		rec := f.mem.Record(f.renter.ID, march2025, models.PaymentTypeRent)
		assert.Nil(t, rec.WhatsAppSentAt)
	})

	t.Run("Network failure", func(t *testing.T) {
		f := newFixture(t)
		provider := new(mockProvider)
		provider.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).
			Return(whatsapp.MessageResult{}, errors.New("dial tcp: timeout"))

		svc := services.NewNotificationService(provider, f.mem, f.svc, f.clock)
		_, err := svc.SendReceipt(ctx, f.renter.ID, march2025, "hi", "")
		assert.ErrorIs(t, err, models.ErrUpstream)
	})

	t.Run("Renter without phone", func(t *testing.T) {
		f := newFixture(t)
		silent := f.mem.AddRenter(f.block.ID, "Dev", "", "500")
		provider := new(mockProvider)

		svc := services.NewNotificationService(provider, f.mem, f.svc, f.clock)
		_, err := svc.SendReceipt(ctx, silent.ID, march2025, "hi", "")
		assert.ErrorIs(t, err, models.ErrValidation)
		provider.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown renter", func(t *testing.T) {
		f := newFixture(t)
		svc := services.NewNotificationService(new(mockProvider), f.mem, f.svc, f.clock)
		_, err := svc.SendReceipt(ctx, uuid.New(), march2025, "hi", "")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

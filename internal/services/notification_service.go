package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"rental-backend/internal/ledger"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
	"rental-backend/internal/whatsapp"

	"github.com/google/uuid"
)

// NotificationRecorder stamps a delivered notification on the ledger.
type NotificationRecorder interface {
	RecordNotificationSent(ctx context.Context, renterID uuid.UUID, period models.Period) (bool, error)
}

// NotificationService sends payment receipts to renters over WhatsApp.
type NotificationService struct {
	Provider whatsapp.Provider // nil when WhatsApp is not configured
	Tx       ledger.TxRunner
	Recorder NotificationRecorder
	Clock    timeutil.Clock
}

func NewNotificationService(provider whatsapp.Provider, tx ledger.TxRunner, recorder NotificationRecorder, clock timeutil.Clock) *NotificationService {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &NotificationService{Provider: provider, Tx: tx, Recorder: recorder, Clock: clock}
}

func (s *NotificationService) Status() models.WhatsAppStatus {
	if s.Provider == nil {
		return models.WhatsAppStatus{}
	}
	return models.WhatsAppStatus{Configured: true, Provider: s.Provider.Name()}
}

// SendReceipt messages the renter and then records the delivery on the
// period's rent record. An empty message gets a default text.
func (s *NotificationService) SendReceipt(ctx context.Context, renterID uuid.UUID, period models.Period, message, receiptURL string) (*models.NotificationResult, error) {
	if s.Provider == nil {
		return nil, models.Validation("WhatsApp is not configured")
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	renter, err := s.Tx.Stores().Directory.GetRenter(ctx, renterID)
	if err != nil {
		return nil, err
	}
	if renter.PhoneNumber == "" {
		return nil, models.Validation("renter phone number is required")
	}
	to, err := whatsapp.NormalizePhone(renter.PhoneNumber)
	if err != nil {
		return nil, err
	}

	if message == "" {
		message = fmt.Sprintf("Hi %s, your payment for %s has been received. Thank you!", renter.Name, period.Label())
	}
	if receiptURL != "" {
		message += "\nReceipt: " + receiptURL
	}

	res, err := s.Provider.SendMessage(ctx, to, message)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		log.Printf("[WhatsApp] Send to %s failed: %v", to, err)
		var apiErr *whatsapp.APIError
		if errors.As(err, &apiErr) {
			return nil, models.Upstream(err, "%s error: %s", apiErr.Provider, apiErr.Message)
		}
		return nil, models.Upstream(err, "WhatsApp provider unreachable")
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	log.Printf("[WhatsApp] Sent to %s, id %s, status %s", to, res.ID, res.Status)

	recorded, err := s.Recorder.RecordNotificationSent(ctx, renterID, period)
	if err != nil {
		// The message is already out; report it without the ledger stamp.
		log.Printf("[WhatsApp] Could not record delivery for renter %s: %v", renterID, err)
	}

	return &models.NotificationResult{
		MessageID: res.ID,
		Status:    res.Status,
		Phone:     to,
		Recorded:  recorded,
		SentAt:    s.Clock.Now(),
	}, nil
}

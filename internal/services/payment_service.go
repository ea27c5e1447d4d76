package services

import (
	"context"
	"errors"

	"rental-backend/internal/ledger"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Operation names used in events and metrics.
const (
	OpSetAmount        = "set_amount"
	OpSetPaidStatus    = "set_paid_status"
	OpSyncToggle       = "sync_toggle"
	OpNotificationSent = "notification_sent"
)

// PaymentService is the payment ledger: every read and write of payment
// records goes through it.
type PaymentService struct {
	Tx     ledger.TxRunner
	Cache  ReportCache
	Events EventPublisher
	Clock  timeutil.Clock
}

func NewPaymentService(tx ledger.TxRunner, cache ReportCache, events EventPublisher, clock timeutil.Clock) *PaymentService {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &PaymentService{
		Tx:     tx,
		Cache:  cacheOrNoop(cache),
		Events: publisherOrNoop(events),
		Clock:  clock,
	}
}

// GetRenterPaymentsView returns every renter of the block with the derived
// state of all three payment types for the period, ordered by name.
func (s *PaymentService) GetRenterPaymentsView(ctx context.Context, blockID uuid.UUID, period models.Period) ([]models.RenterPaymentView, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	stores := s.Tx.Stores()
	if _, err := stores.Directory.GetBlock(ctx, blockID); err != nil {
		return nil, err
	}
	renters, err := stores.Directory.ListRenters(ctx, blockID)
	if err != nil {
		return nil, err
	}
	records, err := stores.Payments.ListForRenters(ctx, ledger.RenterIDs(renters), period)
	if err != nil {
		return nil, err
	}
	return ledger.BuildViews(renters, period, records), nil
}

// SetAmount records a bill amount without touching its paid status.
func (s *PaymentService) SetAmount(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.Decimal) (*models.PaymentRecord, error) {
	if err := ledger.ValidateKey(period, t); err != nil {
		return nil, err
	}
	amount, err := ledger.NormalizeAmount(amount)
	if err != nil {
		return nil, err
	}

	var (
		renter *models.Renter
		rec    *models.PaymentRecord
	)
	err = s.Tx.WithinTx(ctx, func(ctx context.Context, tx ledger.Stores) error {
		var err error
		if renter, err = tx.Directory.LockRenter(ctx, renterID); err != nil {
			return err
		}
		rec, err = tx.Payments.UpsertAmount(ctx, renterID, period, t, amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, OpSetAmount, renter.BlockID, *rec)
	return rec, nil
}

// SetPaidStatus toggles one payment type. amount, when valid and positive,
// replaces the recorded amount. A utility bill cannot be marked paid without
// a positive amount.
func (s *PaymentService) SetPaidStatus(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.NullDecimal, isPaid bool) (*models.PaymentRecord, error) {
	if err := ledger.ValidateKey(period, t); err != nil {
		return nil, err
	}
	amount, err := ledger.NormalizeOptionalAmount(amount)
	if err != nil {
		return nil, err
	}

	var (
		renter *models.Renter
		rec    *models.PaymentRecord
	)
	err = s.Tx.WithinTx(ctx, func(ctx context.Context, tx ledger.Stores) error {
		var err error
		if renter, err = tx.Directory.LockRenter(ctx, renterID); err != nil {
			return err
		}
		if isPaid && t.IsUtility() {
			existing, err := tx.Payments.Find(ctx, renterID, period, t)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return err
			}
			if !ledger.EffectiveAmount(existing, amount).IsPositive() {
				return models.ErrAmountRequired
			}
		}
		rec, err = tx.Payments.UpsertPaidStatus(ctx, renterID, period, t, amount, isPaid)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, OpSetPaidStatus, renter.BlockID, *rec)
	return rec, nil
}

// SyncTogglePaid marks rent paid or unpaid at the renter's current price and
// carries the same status and paid date onto utility bills that already have
// an amount. Missing or zero utility records are left as they are.
func (s *PaymentService) SyncTogglePaid(ctx context.Context, renterID uuid.UUID, period models.Period, isPaid bool) (*models.SyncResult, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	var (
		renter *models.Renter
		result models.SyncResult
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context, tx ledger.Stores) error {
		var err error
		if renter, err = tx.Directory.LockRenter(ctx, renterID); err != nil {
			return err
		}
		rentPrice, err := ledger.NormalizeAmount(renter.RentPrice)
		if err != nil {
			return err
		}
		rent, err := tx.Payments.UpsertPaidStatus(ctx, renterID, period, models.PaymentTypeRent, decimal.NewNullDecimal(rentPrice), isPaid)
		if err != nil {
			return err
		}
		utilities, err := tx.Payments.SyncPaidStatus(ctx, renterID, period, models.UtilityTypes, isPaid, rent.PaidDate)
		if err != nil {
			return err
		}
		result = models.SyncResult{Rent: rent, Utilities: utilities}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, OpSyncToggle, renter.BlockID, *result.Rent)
	for _, u := range result.Utilities {
		s.committed(ctx, OpSyncToggle, renter.BlockID, u)
	}
	return &result, nil
}

// RecordNotificationSent stamps the WhatsApp delivery time on the period's
// rent record. It reports false, with no error, when there is no rent record.
func (s *PaymentService) RecordNotificationSent(ctx context.Context, renterID uuid.UUID, period models.Period) (bool, error) {
	if err := period.Validate(); err != nil {
		return false, err
	}

	var (
		renter   *models.Renter
		recorded bool
	)
	err := s.Tx.WithinTx(ctx, func(ctx context.Context, tx ledger.Stores) error {
		var err error
		if renter, err = tx.Directory.LockRenter(ctx, renterID); err != nil {
			return err
		}
		recorded, err = tx.Payments.RecordNotificationSent(ctx, renterID, period)
		return err
	})
	if err != nil || !recorded {
		return false, err
	}

	s.Cache.InvalidatePeriod(ctx, period)
	s.Events.Publish(models.PaymentEvent{
		Operation: OpNotificationSent,
		BlockID:   renter.BlockID,
		RenterID:  renterID,
		Month:     period.Month,
		Year:      period.Year,
		Type:      models.PaymentTypeRent,
		At:        s.Clock.Now(),
	})
	return true, nil
}

// committed runs the post-commit side effects of one written record.
func (s *PaymentService) committed(ctx context.Context, op string, blockID uuid.UUID, rec models.PaymentRecord) {
	s.Cache.InvalidatePeriod(ctx, rec.Period)
	metrics.PaymentWritesTotal.WithLabelValues(op, string(rec.Type)).Inc()
	s.Events.Publish(models.PaymentEvent{
		Operation: op,
		BlockID:   blockID,
		RenterID:  rec.RenterID,
		Month:     rec.Period.Month,
		Year:      rec.Period.Year,
		Type:      rec.Type,
		Amount:    rec.Amount,
		IsPaid:    rec.IsPaid,
		At:        s.Clock.Now(),
	})
}

package ledger

import (
	"time"

	"rental-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewRecord is the state of a key that has never been written: no amount, unpaid.
func NewRecord(renterID uuid.UUID, period models.Period, t models.PaymentType, now time.Time) *models.PaymentRecord {
	return &models.PaymentRecord{
		ID:        uuid.New(),
		RenterID:  renterID,
		Period:    period,
		Type:      t,
		Amount:    decimal.Zero,
		CreatedAt: now,
	}
}

// ApplyAmount replaces the amount and leaves paid status alone.
func ApplyAmount(rec *models.PaymentRecord, amount decimal.Decimal) {
	rec.Amount = amount
}

// ApplyPaidStatus sets the paid flag. A strictly positive amount overwrites
// the recorded one; zero or absent keeps it. paidDate is stamped when the
// record becomes paid, kept while it stays paid and cleared on unpaid.
func ApplyPaidStatus(rec *models.PaymentRecord, amount decimal.NullDecimal, isPaid bool, now time.Time) {
	if amount.Valid && amount.Decimal.IsPositive() {
		rec.Amount = amount.Decimal
	}
	switch {
	case !isPaid:
		rec.PaidDate = nil
	case !rec.IsPaid || rec.PaidDate == nil:
		paid := now
		rec.PaidDate = &paid
	}
	rec.IsPaid = isPaid
}

// Syncable reports whether a sync toggle may carry the rent status onto a
// utility record. Bills without an amount are left alone.
func Syncable(rec *models.PaymentRecord) bool {
	return rec.Amount.IsPositive()
}

// ApplySyncedStatus copies the rent record's paid flag and paid date onto a
// utility record.
func ApplySyncedStatus(rec *models.PaymentRecord, isPaid bool, paidDate *time.Time) {
	rec.IsPaid = isPaid
	rec.PaidDate = nil
	if isPaid && paidDate != nil {
		paid := *paidDate
		rec.PaidDate = &paid
	}
}

// ApplyNotificationSent stamps a WhatsApp delivery on a rent record.
func ApplyNotificationSent(rec *models.PaymentRecord, now time.Time) {
	sent := now
	rec.WhatsAppSentAt = &sent
}

// EffectiveAmount is the amount a paid-status write would leave on rec.
func EffectiveAmount(rec *models.PaymentRecord, amount decimal.NullDecimal) decimal.Decimal {
	if amount.Valid && amount.Decimal.IsPositive() {
		return amount.Decimal
	}
	if rec == nil {
		return decimal.Zero
	}
	return rec.Amount
}

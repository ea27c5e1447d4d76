package ledger

import (
	"rental-backend/internal/models"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places kept on amounts.
const AmountScale = 2

// NormalizeAmount rejects negative amounts and rounds to two places.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, models.Validation("amount must not be negative, got %s", amount.String())
	}
	return amount.Round(AmountScale), nil
}

// NormalizeOptionalAmount is NormalizeAmount for an optional amount.
func NormalizeOptionalAmount(amount decimal.NullDecimal) (decimal.NullDecimal, error) {
	if !amount.Valid {
		return amount, nil
	}
	d, err := NormalizeAmount(amount.Decimal)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

// ValidateKey checks a (period, type) pair before any store access.
func ValidateKey(period models.Period, t models.PaymentType) error {
	if err := period.Validate(); err != nil {
		return err
	}
	if !t.Valid() {
		return models.Validation("unknown payment type %q", string(t))
	}
	return nil
}

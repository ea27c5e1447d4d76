// Package ledger holds the payment ledger rules: the store contracts, the
// record state transitions and the pure view and report builders.
package ledger

import (
	"context"
	"time"

	"rental-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStore is keyed access to payment records. At most one record exists
// per (renter, period, type); every write is an upsert.
type PaymentStore interface {
	Find(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType) (*models.PaymentRecord, error)
	UpsertAmount(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.Decimal) (*models.PaymentRecord, error)
	UpsertPaidStatus(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.NullDecimal, isPaid bool) (*models.PaymentRecord, error)
	// SyncPaidStatus updates only records that already exist with a positive
	// amount, giving them isPaid and paidDate.
	SyncPaidStatus(ctx context.Context, renterID uuid.UUID, period models.Period, types []models.PaymentType, isPaid bool, paidDate *time.Time) ([]models.PaymentRecord, error)
	ListForRenters(ctx context.Context, renterIDs []uuid.UUID, period models.Period) ([]models.PaymentRecord, error)
	ListAllForRenters(ctx context.Context, renterIDs []uuid.UUID) ([]models.PaymentRecord, error)
	// RecordNotificationSent reports false when the period has no rent record.
	RecordNotificationSent(ctx context.Context, renterID uuid.UUID, period models.Period) (bool, error)
}

// Directory is the read side of blocks and renters.
type Directory interface {
	GetBlock(ctx context.Context, id uuid.UUID) (*models.Block, error)
	GetRenter(ctx context.Context, id uuid.UUID) (*models.Renter, error)
	// LockRenter reads the renter and holds it against deletion until the
	// surrounding transaction ends.
	LockRenter(ctx context.Context, id uuid.UUID) (*models.Renter, error)
	ListRenters(ctx context.Context, blockID uuid.UUID) ([]models.Renter, error)
	ListBlocks(ctx context.Context) ([]models.Block, error)
	ListAllRenters(ctx context.Context) ([]models.Renter, error)
}

// Stores bundles the stores bound to one connection or transaction.
type Stores struct {
	Payments  PaymentStore
	Directory Directory
}

// TxRunner opens units of work over the stores.
type TxRunner interface {
	// Stores returns stores bound outside any transaction, for reads.
	Stores() Stores
	// WithinTx runs fn in one transaction. A uniqueness or serialization
	// failure is retried once, then reported as models.ErrConflict.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error
}

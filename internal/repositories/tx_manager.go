package repositories

import (
	"context"
	"errors"
	"log"

	"rental-backend/internal/ledger"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
)

// Beginner is the part of *pgxpool.Pool the transaction manager needs.
type Beginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxManager hands out ledger stores bound to the pool or to a transaction.
// Transactions run at read committed; writers serialize on row locks.
type TxManager struct {
	Pool  Beginner
	Clock timeutil.Clock
}

var _ ledger.TxRunner = (*TxManager)(nil)

func NewTxManager(pool Beginner, clock timeutil.Clock) *TxManager {
	return &TxManager{Pool: pool, Clock: clock}
}

func (m *TxManager) bind(db DBTX) ledger.Stores {
	return ledger.Stores{
		Payments:  NewPaymentRepository(db, m.Clock),
		Directory: NewDirectoryRepository(db, m.Clock),
	}
}

func (m *TxManager) Stores() ledger.Stores {
	return m.bind(m.Pool)
}

// WithinTx retries a conflicting transaction once. Two writers racing on a
// brand new key resolve on the retry because the row exists by then.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Stores) error) error {
	err := m.runOnce(ctx, fn)
	if !errors.Is(err, models.ErrConflict) {
		return err
	}
	log.Printf("[Ledger] Transaction conflict, retrying once: %v", err)

	err = m.runOnce(ctx, fn)
	if errors.Is(err, models.ErrConflict) {
		return &models.Error{Kind: models.ErrConflict, Message: "payment was modified concurrently, try again", Err: err}
	}
	return err
}

func (m *TxManager) runOnce(ctx context.Context, fn func(ctx context.Context, tx ledger.Stores) error) error {
	tx, err := m.Pool.Begin(ctx)
	if err != nil {
		return classify(err, "begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, m.bind(tx)); err != nil {
		return err
	}
	return classify(tx.Commit(ctx), "commit transaction")
}

// Package ledgertest provides an in-memory ledger for tests. It applies the
// same transition functions as the Postgres store.
package ledgertest

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"rental-backend/internal/ledger"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type key struct {
	renterID uuid.UUID
	period   models.Period
	typ      models.PaymentType
}

// Memory implements ledger.TxRunner. Transactions are serialized and rolled
// back when fn fails.
type Memory struct {
	Clock timeutil.Clock

	txMu sync.Mutex
	mu   sync.Mutex

	blocks   map[uuid.UUID]models.Block
	renters  map[uuid.UUID]models.Renter
	payments map[key]models.PaymentRecord

	failNext []error
	commits  int
}

var _ ledger.TxRunner = (*Memory)(nil)

func NewMemory(clock timeutil.Clock) *Memory {
	if clock == nil {
		clock = timeutil.NewFixedClock(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	}
	return &Memory{
		Clock:    clock,
		blocks:   make(map[uuid.UUID]models.Block),
		renters:  make(map[uuid.UUID]models.Renter),
		payments: make(map[key]models.PaymentRecord),
	}
}

func (m *Memory) AddBlock(name string) models.Block {
	b := models.Block{ID: uuid.New(), Name: name, CreatedAt: m.Clock.Now()}
	m.mu.Lock()
	m.blocks[b.ID] = b
	m.mu.Unlock()
	return b
}

func (m *Memory) AddRenter(blockID uuid.UUID, name, phone, rentPrice string) models.Renter {
	r := models.Renter{
		ID:          uuid.New(),
		BlockID:     blockID,
		Name:        name,
		PhoneNumber: phone,
		RentPrice:   decimal.RequireFromString(rentPrice),
		CreatedAt:   m.Clock.Now(),
	}
	m.mu.Lock()
	m.renters[r.ID] = r
	m.mu.Unlock()
	return r
}

// DeleteRenter removes a renter and cascades to its payments.
func (m *Memory) DeleteRenter(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.renters, id)
	for k := range m.payments {
		if k.renterID == id {
			delete(m.payments, k)
		}
	}
}

// PutRecord stores rec as is, replacing any record with the same key.
func (m *Memory) PutRecord(rec models.PaymentRecord) {
	m.mu.Lock()
	m.payments[key{rec.RenterID, rec.Period, rec.Type}] = rec
	m.mu.Unlock()
}

// Records returns a snapshot of every stored record.
func (m *Memory) Records() []models.PaymentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Collect(maps.Values(m.payments))
}

// Record returns the stored record for a key, or nil.
func (m *Memory) Record(renterID uuid.UUID, period models.Period, t models.PaymentType) *models.PaymentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.payments[key{renterID, period, t}]
	if !ok {
		return nil
	}
	return &rec
}

// FailNextTx makes the next WithinTx calls return errs in order without
// running fn.
func (m *Memory) FailNextTx(errs ...error) {
	m.mu.Lock()
	m.failNext = append(m.failNext, errs...)
	m.mu.Unlock()
}

// Commits counts successful transactions.
func (m *Memory) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

func (m *Memory) Stores() ledger.Stores {
	return ledger.Stores{Payments: &payments{m: m}, Directory: &directory{m: m}}
}

func (m *Memory) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Stores) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	if len(m.failNext) > 0 {
		err := m.failNext[0]
		m.failNext = m.failNext[1:]
		m.mu.Unlock()
		return err
	}
	snapshot := maps.Clone(m.payments)
	m.mu.Unlock()

	if err := fn(ctx, m.Stores()); err != nil {
		m.mu.Lock()
		m.payments = snapshot
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.commits++
	m.mu.Unlock()
	return nil
}

type payments struct{ m *Memory }

func (p *payments) Find(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType) (*models.PaymentRecord, error) {
	if rec := p.m.Record(renterID, period, t); rec != nil {
		return rec, nil
	}
	return nil, models.NotFound("no %s record for %s", t, period)
}

// upsert mirrors the SQL path: ensure the row, then mutate it in place.
func (p *payments) upsert(renterID uuid.UUID, period models.Period, t models.PaymentType, apply func(*models.PaymentRecord)) (*models.PaymentRecord, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()

	if _, ok := p.m.renters[renterID]; !ok {
		return nil, models.NotFound("renter %s no longer exists", renterID)
	}
	k := key{renterID, period, t}
	rec, ok := p.m.payments[k]
	if !ok {
		rec = *ledger.NewRecord(renterID, period, t, p.m.Clock.Now())
	}
	apply(&rec)
	p.m.payments[k] = rec
	return &rec, nil
}

func (p *payments) UpsertAmount(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.Decimal) (*models.PaymentRecord, error) {
	return p.upsert(renterID, period, t, func(rec *models.PaymentRecord) {
		ledger.ApplyAmount(rec, amount)
	})
}

func (p *payments) UpsertPaidStatus(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.NullDecimal, isPaid bool) (*models.PaymentRecord, error) {
	now := p.m.Clock.Now()
	return p.upsert(renterID, period, t, func(rec *models.PaymentRecord) {
		ledger.ApplyPaidStatus(rec, amount, isPaid, now)
	})
}

func (p *payments) SyncPaidStatus(ctx context.Context, renterID uuid.UUID, period models.Period, types []models.PaymentType, isPaid bool, paidDate *time.Time) ([]models.PaymentRecord, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()

	var out []models.PaymentRecord
	for _, t := range types {
		k := key{renterID, period, t}
		rec, ok := p.m.payments[k]
		if !ok || !ledger.Syncable(&rec) {
			continue
		}
		ledger.ApplySyncedStatus(&rec, isPaid, paidDate)
		p.m.payments[k] = rec
		out = append(out, rec)
	}
	return out, nil
}

func (p *payments) ListForRenters(ctx context.Context, renterIDs []uuid.UUID, period models.Period) ([]models.PaymentRecord, error) {
	var out []models.PaymentRecord
	for _, rec := range p.listAll(renterIDs) {
		if rec.Period == period {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (p *payments) ListAllForRenters(ctx context.Context, renterIDs []uuid.UUID) ([]models.PaymentRecord, error) {
	return p.listAll(renterIDs), nil
}

func (p *payments) listAll(renterIDs []uuid.UUID) []models.PaymentRecord {
	want := make(map[uuid.UUID]bool, len(renterIDs))
	for _, id := range renterIDs {
		want[id] = true
	}
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var out []models.PaymentRecord
	for k, rec := range p.m.payments {
		if want[k.renterID] {
			out = append(out, rec)
		}
	}
	return out
}

func (p *payments) RecordNotificationSent(ctx context.Context, renterID uuid.UUID, period models.Period) (bool, error) {
	now := p.m.Clock.Now()
	p.m.mu.Lock()
	defer p.m.mu.Unlock()

	k := key{renterID, period, models.PaymentTypeRent}
	rec, ok := p.m.payments[k]
	if !ok {
		return false, nil
	}
	ledger.ApplyNotificationSent(&rec, now)
	p.m.payments[k] = rec
	return true, nil
}

type directory struct{ m *Memory }

func (d *directory) GetBlock(ctx context.Context, id uuid.UUID) (*models.Block, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	b, ok := d.m.blocks[id]
	if !ok {
		return nil, models.NotFound("block %s not found", id)
	}
	return &b, nil
}

func (d *directory) GetRenter(ctx context.Context, id uuid.UUID) (*models.Renter, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	r, ok := d.m.renters[id]
	if !ok {
		return nil, models.NotFound("renter %s not found", id)
	}
	return &r, nil
}

func (d *directory) LockRenter(ctx context.Context, id uuid.UUID) (*models.Renter, error) {
	return d.GetRenter(ctx, id)
}

func (d *directory) ListRenters(ctx context.Context, blockID uuid.UUID) ([]models.Renter, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	var out []models.Renter
	for _, r := range d.m.renters {
		if r.BlockID == blockID {
			out = append(out, r)
		}
	}
	return ledger.SortRenters(out), nil
}

func (d *directory) ListBlocks(ctx context.Context) ([]models.Block, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	return ledger.SortBlocks(slices.Collect(maps.Values(d.m.blocks))), nil
}

func (d *directory) ListAllRenters(ctx context.Context) ([]models.Renter, error) {
	d.m.mu.Lock()
	defer d.m.mu.Unlock()
	return ledger.SortRenters(slices.Collect(maps.Values(d.m.renters))), nil
}

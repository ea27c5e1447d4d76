package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"rental-backend/internal/cache"
	"rental-backend/internal/ledger/ledgertest"
	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2025 = models.Period{Month: 3, Year: 2025}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func some(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

// recordingCache mirrors the Redis cache: invalidation bumps a generation and
// leaves old entries in place.
type recordingCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	gens        map[models.Period]int
	periods     []models.Period
	invalidated int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{data: map[string][]byte{}, gens: map[models.Period]int{}}
}

func (c *recordingCache) Generation(_ context.Context, p models.Period) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("g%d.%d", c.invalidated, c.gens[p]), true
}

// key is the entry a reader would look up right now.
func (c *recordingCache) key(base string, p models.Period) string {
	gen, _ := c.Generation(context.Background(), p)
	return cache.Versioned(base, gen)
}

func (c *recordingCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok
}

func (c *recordingCache) Set(_ context.Context, key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

func (c *recordingCache) InvalidatePeriod(_ context.Context, p models.Period) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.periods = append(c.periods, p)
	c.gens[p]++
}

func (c *recordingCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
}

func (c *recordingCache) Periods() []models.Period {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Period(nil), c.periods...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.PaymentEvent
}

func (p *recordingPublisher) Publish(e models.PaymentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []models.PaymentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.PaymentEvent(nil), p.events...)
}

type fixture struct {
	clock  *timeutil.FixedClock
	mem    *ledgertest.Memory
	svc    *services.PaymentService
	cache  *recordingCache
	events *recordingPublisher
	block  models.Block
	renter models.Renter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := timeutil.NewFixedClock(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC))
	mem := ledgertest.NewMemory(clock)
	block := mem.AddBlock("Block A")
	renter := mem.AddRenter(block.ID, "Asha", "+919876543210", "1200")
	cache := newRecordingCache()
	events := &recordingPublisher{}
	return &fixture{
		clock:  clock,
		mem:    mem,
		svc:    services.NewPaymentService(mem, cache, events, clock),
		cache:  cache,
		events: events,
		block:  block,
		renter: renter,
	}
}

func (f *fixture) view(t *testing.T) models.RenterPaymentView {
	t.Helper()
	views, err := f.svc.GetRenterPaymentsView(context.Background(), f.block.ID, march2025)
	require.NoError(t, err)
	require.Len(t, views, 1)
	return views[0]
}

func TestPaymentService_RentScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v := f.view(t)
	assert.True(t, v.Rent.Amount.Equal(dec("1200")))
	assert.False(t, v.Rent.IsPaid)
	assert.False(t, v.Rent.Recorded)

	_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
	require.NoError(t, err)

	v = f.view(t)
	assert.True(t, v.Rent.IsPaid)
	assert.NotNil(t, v.Rent.PaidDate)
	assert.True(t, v.Rent.Amount.Equal(dec("1200")))
	assert.True(t, v.Electricity.Amount.IsZero())
	assert.False(t, v.Electricity.IsPaid)
	assert.True(t, v.Water.Amount.IsZero())
	assert.False(t, v.Water.IsPaid)

	assert.Len(t, f.mem.Records(), 1)
}

func TestPaymentService_ElectricityScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetAmount(ctx, f.renter.ID, march2025, models.PaymentTypeElectricity, dec("85.50"))
	require.NoError(t, err)
	rec, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeElectricity, some("85.50"), true)
	require.NoError(t, err)

	assert.True(t, rec.Amount.Equal(dec("85.5")))
	assert.True(t, rec.IsPaid)

	v := f.view(t)
	assert.True(t, v.Electricity.Amount.Equal(dec("85.50")))
	assert.True(t, v.Electricity.IsPaid)
	assert.False(t, v.Rent.IsPaid)
}

func TestPaymentService_SetAmount(t *testing.T) {
	ctx := context.Background()

	t.Run("Keeps paid status", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeElectricity, some("80"), true)
		require.NoError(t, err)

		rec, err := f.svc.SetAmount(ctx, f.renter.ID, march2025, models.PaymentTypeElectricity, dec("95"))
		require.NoError(t, err)
		assert.True(t, rec.IsPaid)
		assert.True(t, rec.Amount.Equal(dec("95")))
	})

	t.Run("Rounds to cents", func(t *testing.T) {
		f := newFixture(t)
		rec, err := f.svc.SetAmount(ctx, f.renter.ID, march2025, models.PaymentTypeWater, dec("12.345"))
		require.NoError(t, err)
		assert.Equal(t, "12.35", rec.Amount.StringFixed(2))
	})

	t.Run("Rejects negative", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetAmount(ctx, f.renter.ID, march2025, models.PaymentTypeWater, dec("-1"))
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Empty(t, f.mem.Records())
		assert.Zero(t, f.mem.Commits())
	})

	t.Run("Rejects bad period and type", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetAmount(ctx, f.renter.ID, models.Period{Month: 13, Year: 2025}, models.PaymentTypeRent, dec("1"))
		assert.ErrorIs(t, err, models.ErrValidation)
		_, err = f.svc.SetAmount(ctx, f.renter.ID, march2025, models.PaymentType("gas"), dec("1"))
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Zero(t, f.mem.Commits())
	})

	t.Run("Unknown renter", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetAmount(ctx, uuid.New(), march2025, models.PaymentTypeRent, dec("1"))
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Empty(t, f.mem.Records())
		assert.Empty(t, f.events.Events())
	})
}

func TestPaymentService_SetPaidStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Utility needs an amount", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeWater, decimal.NullDecimal{}, true)
		assert.ErrorIs(t, err, models.ErrAmountRequired)
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Empty(t, f.mem.Records())
		assert.Empty(t, f.events.Events())
	})

	t.Run("Utility uses recorded amount", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetAmount(ctx, f.renter.ID, march2025, models.PaymentTypeWater, dec("40"))
		require.NoError(t, err)
		rec, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeWater, decimal.NullDecimal{}, true)
		require.NoError(t, err)
		assert.True(t, rec.Amount.Equal(dec("40")))
		assert.True(t, rec.IsPaid)
	})

	t.Run("Utility can be marked unpaid without amount", func(t *testing.T) {
		f := newFixture(t)
		rec, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeWater, decimal.NullDecimal{}, false)
		require.NoError(t, err)
		assert.False(t, rec.IsPaid)
	})

	t.Run("Rent can be marked paid without amount", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, decimal.NullDecimal{}, true)
		require.NoError(t, err)
		v := f.view(t)
		assert.True(t, v.Rent.IsPaid)
		assert.True(t, v.Rent.Amount.Equal(dec("1200")))
	})

	t.Run("Zero amount keeps recorded amount", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1100"), true)
		require.NoError(t, err)
		rec, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("0"), false)
		require.NoError(t, err)
		assert.True(t, rec.Amount.Equal(dec("1100")))
	})

	t.Run("Idempotent toggle keeps the first paid date", func(t *testing.T) {
		f := newFixture(t)
		first, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
		require.NoError(t, err)
		f.clock.Advance(48 * time.Hour)
		second, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		require.NotNil(t, second.PaidDate)
		assert.True(t, first.PaidDate.Equal(*second.PaidDate))
		assert.Len(t, f.mem.Records(), 1)
	})

	t.Run("Paid and unpaid round trip", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
		require.NoError(t, err)
		rec, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, decimal.NullDecimal{}, false)
		require.NoError(t, err)
		assert.False(t, rec.IsPaid)
		assert.Nil(t, rec.PaidDate)
		assert.True(t, rec.Amount.Equal(dec("1200")))

		f.clock.Advance(time.Hour)
		rec, err = f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, decimal.NullDecimal{}, true)
		require.NoError(t, err)
		assert.True(t, rec.IsPaid)
		require.NotNil(t, rec.PaidDate)
		assert.True(t, rec.PaidDate.Equal(f.clock.Now()))
	})

	t.Run("Conflict is surfaced", func(t *testing.T) {
		f := newFixture(t)
		f.mem.FailNextTx(models.Conflict("payment was modified concurrently, try again"))
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
		assert.ErrorIs(t, err, models.ErrConflict)
		assert.Empty(t, f.mem.Records())
	})

	t.Run("Deleted renter", func(t *testing.T) {
		f := newFixture(t)
		f.mem.DeleteRenter(f.renter.ID)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.Empty(t, f.mem.Records())
	})
}

func TestPaymentService_ConcurrentWritesKeepOneRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), i%2 == 0)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records := f.mem.Records()
	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.Equal(dec("1200")))
	assert.Equal(t, 50, f.mem.Commits())
}

func TestPaymentService_SyncTogglePaid(t *testing.T) {
	ctx := context.Background()

	t.Run("Does not create utility records", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.svc.SyncTogglePaid(ctx, f.renter.ID, march2025, true)
		require.NoError(t, err)

		require.NotNil(t, res.Rent)
		assert.True(t, res.Rent.IsPaid)
		assert.True(t, res.Rent.Amount.Equal(dec("1200")))
		assert.Empty(t, res.Utilities)
		assert.Len(t, f.mem.Records(), 1)
		assert.Nil(t, f.mem.Record(f.renter.ID, march2025, models.PaymentTypeElectricity))
	})

	t.Run("Propagates to existing utilities", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetAmount(ctx, f.renter.ID, march2025, models.PaymentTypeElectricity, dec("85.50"))
		require.NoError(t, err)

		res, err := f.svc.SyncTogglePaid(ctx, f.renter.ID, march2025, true)
		require.NoError(t, err)
		require.Len(t, res.Utilities, 1)
		assert.Equal(t, models.PaymentTypeElectricity, res.Utilities[0].Type)
		assert.True(t, res.Utilities[0].IsPaid)
		assert.Nil(t, f.mem.Record(f.renter.ID, march2025, models.PaymentTypeWater))

		res, err = f.svc.SyncTogglePaid(ctx, f.renter.ID, march2025, false)
		require.NoError(t, err)
		assert.False(t, res.Rent.IsPaid)
		assert.False(t, f.mem.Record(f.renter.ID, march2025, models.PaymentTypeElectricity).IsPaid)
	})

	t.Run("Skips utilities without an amount", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeWater, decimal.NullDecimal{}, false)
		require.NoError(t, err)

		res, err := f.svc.SyncTogglePaid(ctx, f.renter.ID, march2025, true)
		require.NoError(t, err)
		assert.Empty(t, res.Utilities)

		water := f.mem.Record(f.renter.ID, march2025, models.PaymentTypeWater)
		require.NotNil(t, water)
		assert.False(t, water.IsPaid)
		assert.Nil(t, water.PaidDate)

		_, err = f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeWater, decimal.NullDecimal{}, true)
		assert.ErrorIs(t, err, models.ErrAmountRequired)
	})

	t.Run("Copies the rent paid date", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeElectricity, some("85.50"), true)
		require.NoError(t, err)

		f.clock.Advance(72 * time.Hour)
		res, err := f.svc.SyncTogglePaid(ctx, f.renter.ID, march2025, true)
		require.NoError(t, err)

		require.NotNil(t, res.Rent.PaidDate)
		assert.Equal(t, time.Date(2025, 3, 18, 10, 0, 0, 0, time.UTC), *res.Rent.PaidDate)
		elec := f.mem.Record(f.renter.ID, march2025, models.PaymentTypeElectricity)
		require.NotNil(t, elec.PaidDate)
		assert.Equal(t, *res.Rent.PaidDate, *elec.PaidDate)
	})

	t.Run("Uses current rent price", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetAmount(ctx, f.renter.ID, march2025, models.PaymentTypeRent, dec("900"))
		require.NoError(t, err)
		res, err := f.svc.SyncTogglePaid(ctx, f.renter.ID, march2025, true)
		require.NoError(t, err)
		assert.True(t, res.Rent.Amount.Equal(dec("1200")))
	})

	t.Run("Rolls back as a unit", func(t *testing.T) {
		f := newFixture(t)
		f.mem.FailNextTx(models.Unavailable(nil, "database unavailable"))
		_, err := f.svc.SyncTogglePaid(ctx, f.renter.ID, march2025, true)
		assert.ErrorIs(t, err, models.ErrUnavailable)
		assert.Empty(t, f.mem.Records())
	})
}

func TestPaymentService_RecordNotificationSent(t *testing.T) {
	ctx := context.Background()

	t.Run("No rent record is a no-op", func(t *testing.T) {
		f := newFixture(t)
		ok, err := f.svc.RecordNotificationSent(ctx, f.renter.ID, march2025)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, f.mem.Records())
		assert.Empty(t, f.events.Events())
	})

	t.Run("Stamps rent record", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
		require.NoError(t, err)

		ok, err := f.svc.RecordNotificationSent(ctx, f.renter.ID, march2025)
		require.NoError(t, err)
		assert.True(t, ok)

		rec := f.mem.Record(f.renter.ID, march2025, models.PaymentTypeRent)
		require.NotNil(t, rec.WhatsAppSentAt)
		assert.True(t, rec.WhatsAppSentAt.Equal(f.clock.Now()))
		assert.NotNil(t, f.view(t).WhatsAppSentAt)
	})

	t.Run("Unknown renter", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RecordNotificationSent(ctx, uuid.New(), march2025)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestPaymentService_SideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, march2025, models.PaymentTypeRent, some("1200"), true)
	require.NoError(t, err)

	assert.Equal(t, []models.Period{march2025}, f.cache.Periods())

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, services.OpSetPaidStatus, events[0].Operation)
	assert.Equal(t, f.block.ID, events[0].BlockID)
	assert.Equal(t, f.renter.ID, events[0].RenterID)
	assert.Equal(t, 3, events[0].Month)
	assert.Equal(t, 2025, events[0].Year)
	assert.True(t, events[0].IsPaid)
}

func TestPaymentService_GetRenterPaymentsView(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown block", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GetRenterPaymentsView(ctx, uuid.New(), march2025)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Empty block", func(t *testing.T) {
		f := newFixture(t)
		empty := f.mem.AddBlock("Empty")
		views, err := f.svc.GetRenterPaymentsView(ctx, empty.ID, march2025)
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("Other periods do not leak", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SetPaidStatus(ctx, f.renter.ID, models.Period{Month: 2, Year: 2025}, models.PaymentTypeRent, some("1000"), true)
		require.NoError(t, err)
		v := f.view(t)
		assert.False(t, v.Rent.IsPaid)
		assert.True(t, v.Rent.Amount.Equal(dec("1200")))
	})
}

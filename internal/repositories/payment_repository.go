package repositories

import (
	"context"
	"errors"
	"time"

	"rental-backend/internal/ledger"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, renter_id, month, year, type, amount, is_paid, paid_date, whatsapp_sent_at, created_at`

// PaymentRepository is the Postgres payment store. Upserts must run inside a
// transaction for the row lock to hold until commit.
type PaymentRepository struct {
	DB    DBTX
	Clock timeutil.Clock
}

var _ ledger.PaymentStore = (*PaymentRepository)(nil)

func NewPaymentRepository(db DBTX, clock timeutil.Clock) *PaymentRepository {
	return &PaymentRepository{DB: db, Clock: clock}
}

func scanPayment(row pgx.Row) (*models.PaymentRecord, error) {
	var rec models.PaymentRecord
	var typ string
	err := row.Scan(
		&rec.ID,
		&rec.RenterID,
		&rec.Period.Month,
		&rec.Period.Year,
		&typ,
		&rec.Amount,
		&rec.IsPaid,
		&rec.PaidDate,
		&rec.WhatsAppSentAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Type = models.PaymentType(typ)
	return &rec, nil
}

func collectPayments(rows pgx.Rows) ([]models.PaymentRecord, error) {
	defer rows.Close()
	var out []models.PaymentRecord
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *PaymentRepository) Find(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType) (*models.PaymentRecord, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE renter_id = $1 AND month = $2 AND year = $3 AND type = $4`,
		renterID, period.Month, period.Year, string(t))
	rec, err := scanPayment(row)
	if err != nil {
		return nil, classify(err, "no %s record for %s", t, period)
	}
	return rec, nil
}

// lockOrCreate makes sure the key has a row and locks it. Concurrent writers
// of the same new key block on the unique index until the first commits.
func (r *PaymentRepository) lockOrCreate(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType) (*models.PaymentRecord, error) {
	fresh := ledger.NewRecord(renterID, period, t, r.Clock.Now())
	_, err := r.DB.Exec(ctx,
		`INSERT INTO payments (id, renter_id, month, year, type, amount, is_paid, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, false, $7)
		 ON CONFLICT (renter_id, month, year, type) DO NOTHING`,
		fresh.ID, renterID, period.Month, period.Year, string(t), fresh.Amount, fresh.CreatedAt)
	if err != nil {
		return nil, classify(err, "create %s record", t)
	}

	row := r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE renter_id = $1 AND month = $2 AND year = $3 AND type = $4
		 FOR UPDATE`,
		renterID, period.Month, period.Year, string(t))
	rec, err := scanPayment(row)
	if err != nil {
		return nil, classify(err, "lock %s record", t)
	}
	return rec, nil
}

func (r *PaymentRepository) save(ctx context.Context, rec *models.PaymentRecord) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payments
		 SET amount = $2, is_paid = $3, paid_date = $4, whatsapp_sent_at = $5
		 WHERE id = $1`,
		rec.ID, rec.Amount, rec.IsPaid, rec.PaidDate, rec.WhatsAppSentAt)
	return classify(err, "update %s record", rec.Type)
}

func (r *PaymentRepository) UpsertAmount(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.Decimal) (*models.PaymentRecord, error) {
	rec, err := r.lockOrCreate(ctx, renterID, period, t)
	if err != nil {
		return nil, err
	}
	ledger.ApplyAmount(rec, amount)
	if err := r.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PaymentRepository) UpsertPaidStatus(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType, amount decimal.NullDecimal, isPaid bool) (*models.PaymentRecord, error) {
	rec, err := r.lockOrCreate(ctx, renterID, period, t)
	if err != nil {
		return nil, err
	}
	ledger.ApplyPaidStatus(rec, amount, isPaid, r.Clock.Now())
	if err := r.save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *PaymentRepository) SyncPaidStatus(ctx context.Context, renterID uuid.UUID, period models.Period, types []models.PaymentType, isPaid bool, paidDate *time.Time) ([]models.PaymentRecord, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE renter_id = $1 AND month = $2 AND year = $3 AND type = ANY($4::text[]) AND amount > 0
		 ORDER BY type
		 FOR UPDATE`,
		renterID, period.Month, period.Year, names)
	if err != nil {
		return nil, classify(err, "lock records for sync")
	}
	existing, err := collectPayments(rows)
	if err != nil {
		return nil, classify(err, "read records for sync")
	}

	for i := range existing {
		ledger.ApplySyncedStatus(&existing[i], isPaid, paidDate)
		if err := r.save(ctx, &existing[i]); err != nil {
			return nil, err
		}
	}
	return existing, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (r *PaymentRepository) ListForRenters(ctx context.Context, renterIDs []uuid.UUID, period models.Period) ([]models.PaymentRecord, error) {
	if len(renterIDs) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE renter_id = ANY($1::uuid[]) AND month = $2 AND year = $3
		 ORDER BY renter_id, type`,
		uuidStrings(renterIDs), period.Month, period.Year)
	if err != nil {
		return nil, classify(err, "list payments for %s", period)
	}
	recs, err := collectPayments(rows)
	return recs, classify(err, "scan payments for %s", period)
}

func (r *PaymentRepository) ListAllForRenters(ctx context.Context, renterIDs []uuid.UUID) ([]models.PaymentRecord, error) {
	if len(renterIDs) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE renter_id = ANY($1::uuid[])
		 ORDER BY year DESC, month DESC, renter_id, type`,
		uuidStrings(renterIDs))
	if err != nil {
		return nil, classify(err, "list payment history")
	}
	recs, err := collectPayments(rows)
	return recs, classify(err, "scan payment history")
}

func (r *PaymentRepository) RecordNotificationSent(ctx context.Context, renterID uuid.UUID, period models.Period) (bool, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE renter_id = $1 AND month = $2 AND year = $3 AND type = $4
		 FOR UPDATE`,
		renterID, period.Month, period.Year, string(models.PaymentTypeRent))
	rec, err := scanPayment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify(err, "lock rent record")
	}

	ledger.ApplyNotificationSent(rec, r.Clock.Now())
	if err := r.save(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

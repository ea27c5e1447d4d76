package repositories

import (
	"context"

	"rental-backend/internal/ledger"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const renterColumns = `id, block_id, name, phone_number, rent_price, created_at, updated_at`

// DirectoryRepository stores blocks and renters.
type DirectoryRepository struct {
	DB    DBTX
	Clock timeutil.Clock
}

var _ ledger.Directory = (*DirectoryRepository)(nil)

func NewDirectoryRepository(db DBTX, clock timeutil.Clock) *DirectoryRepository {
	return &DirectoryRepository{DB: db, Clock: clock}
}

func scanRenter(row pgx.Row) (*models.Renter, error) {
	var r models.Renter
	err := row.Scan(&r.ID, &r.BlockID, &r.Name, &r.PhoneNumber, &r.RentPrice, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectRenters(rows pgx.Rows) ([]models.Renter, error) {
	defer rows.Close()
	var out []models.Renter
	for rows.Next() {
		r, err := scanRenter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (r *DirectoryRepository) GetBlock(ctx context.Context, id uuid.UUID) (*models.Block, error) {
	var b models.Block
	err := r.DB.QueryRow(ctx, `SELECT id, name, created_at FROM blocks WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.CreatedAt)
	if err != nil {
		return nil, classify(err, "block %s not found", id)
	}
	return &b, nil
}

func (r *DirectoryRepository) GetRenter(ctx context.Context, id uuid.UUID) (*models.Renter, error) {
	renter, err := scanRenter(r.DB.QueryRow(ctx, `SELECT `+renterColumns+` FROM renters WHERE id = $1`, id))
	if err != nil {
		return nil, classify(err, "renter %s not found", id)
	}
	return renter, nil
}

// LockRenter takes a share lock so a concurrent delete waits for the
// payment write to commit.
func (r *DirectoryRepository) LockRenter(ctx context.Context, id uuid.UUID) (*models.Renter, error) {
	renter, err := scanRenter(r.DB.QueryRow(ctx, `SELECT `+renterColumns+` FROM renters WHERE id = $1 FOR SHARE`, id))
	if err != nil {
		return nil, classify(err, "renter %s not found", id)
	}
	return renter, nil
}

func (r *DirectoryRepository) ListRenters(ctx context.Context, blockID uuid.UUID) ([]models.Renter, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+renterColumns+` FROM renters WHERE block_id = $1 ORDER BY name, id`, blockID)
	if err != nil {
		return nil, classify(err, "list renters")
	}
	renters, err := collectRenters(rows)
	if err != nil {
		return nil, classify(err, "scan renters")
	}
	return ledger.SortRenters(renters), nil
}

func (r *DirectoryRepository) ListAllRenters(ctx context.Context) ([]models.Renter, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+renterColumns+` FROM renters ORDER BY name, id`)
	if err != nil {
		return nil, classify(err, "list renters")
	}
	renters, err := collectRenters(rows)
	if err != nil {
		return nil, classify(err, "scan renters")
	}
	return ledger.SortRenters(renters), nil
}

func (r *DirectoryRepository) ListBlocks(ctx context.Context) ([]models.Block, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, created_at FROM blocks ORDER BY name, id`)
	if err != nil {
		return nil, classify(err, "list blocks")
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		var b models.Block
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt); err != nil {
			return nil, classify(err, "scan blocks")
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "scan blocks")
	}
	return ledger.SortBlocks(blocks), nil
}

// ListBlockSummaries returns blocks with their renter count and total rent.
func (r *DirectoryRepository) ListBlockSummaries(ctx context.Context) ([]models.BlockSummary, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT b.id, b.name, b.created_at, COUNT(r.id), COALESCE(SUM(r.rent_price), 0)
		 FROM blocks b
		 LEFT JOIN renters r ON r.block_id = b.id
		 GROUP BY b.id, b.name, b.created_at
		 ORDER BY b.name, b.id`)
	if err != nil {
		return nil, classify(err, "list block summaries")
	}
	defer rows.Close()

	var out []models.BlockSummary
	for rows.Next() {
		var s models.BlockSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.RenterCount, &s.TotalRent); err != nil {
			return nil, classify(err, "scan block summaries")
		}
		out = append(out, s)
	}
	return out, classify(rows.Err(), "scan block summaries")
}

func (r *DirectoryRepository) CreateBlock(ctx context.Context, b *models.Block) error {
	b.ID = uuid.New()
	b.CreatedAt = r.Clock.Now()
	_, err := r.DB.Exec(ctx, `INSERT INTO blocks (id, name, created_at) VALUES ($1, $2, $3)`, b.ID, b.Name, b.CreatedAt)
	return classify(err, "create block")
}

func (r *DirectoryRepository) UpdateBlock(ctx context.Context, b *models.Block) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE blocks SET name = $2 WHERE id = $1 RETURNING created_at`, b.ID, b.Name).Scan(&b.CreatedAt)
	return classify(err, "block %s not found", b.ID)
}

// DeleteBlock removes the block; renters and payments go with it.
func (r *DirectoryRepository) DeleteBlock(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM blocks WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete block")
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("block %s not found", id)
	}
	return nil
}

func (r *DirectoryRepository) CreateRenter(ctx context.Context, renter *models.Renter) error {
	renter.ID = uuid.New()
	renter.CreatedAt = r.Clock.Now()
	_, err := r.DB.Exec(ctx,
		`INSERT INTO renters (id, block_id, name, phone_number, rent_price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		renter.ID, renter.BlockID, renter.Name, renter.PhoneNumber, renter.RentPrice, renter.CreatedAt)
	return classify(err, "create renter")
}

func (r *DirectoryRepository) UpdateRenter(ctx context.Context, renter *models.Renter) error {
	now := r.Clock.Now()
	err := r.DB.QueryRow(ctx,
		`UPDATE renters SET name = $2, phone_number = $3, rent_price = $4, updated_at = $5
		 WHERE id = $1
		 RETURNING block_id, created_at`,
		renter.ID, renter.Name, renter.PhoneNumber, renter.RentPrice, now).Scan(&renter.BlockID, &renter.CreatedAt)
	if err != nil {
		return classify(err, "renter %s not found", renter.ID)
	}
	renter.UpdatedAt = &now
	return nil
}

// DeleteRenter removes the renter and, by cascade, all its payments.
func (r *DirectoryRepository) DeleteRenter(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM renters WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete renter")
	}
	if tag.RowsAffected() == 0 {
		return models.NotFound("renter %s not found", id)
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Block is a named group of renters, e.g. a building or a wing.
type Block struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockSummary is a block listing row with its renter totals.
type BlockSummary struct {
	Block
	RenterCount int             `json:"renter_count"`
	TotalRent   decimal.Decimal `json:"total_rent"`
}

type Renter struct {
	ID          uuid.UUID       `json:"id"`
	BlockID     uuid.UUID       `json:"block_id"`
	Name        string          `json:"name"`
	PhoneNumber string          `json:"phone_number"`
	RentPrice   decimal.Decimal `json:"rent_price"` // contractual monthly rent
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`
}

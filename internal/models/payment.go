package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType is the closed set of things a renter pays for each period.
type PaymentType string

const (
	PaymentTypeRent        PaymentType = "rent"
	PaymentTypeElectricity PaymentType = "electricity"
	PaymentTypeWater       PaymentType = "water"
)

// AllPaymentTypes lists every type in display order.
var AllPaymentTypes = []PaymentType{PaymentTypeRent, PaymentTypeElectricity, PaymentTypeWater}

// UtilityTypes are the metered bills with no contractual default amount.
var UtilityTypes = []PaymentType{PaymentTypeElectricity, PaymentTypeWater}

func ParsePaymentType(s string) (PaymentType, error) {
	t := PaymentType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", Validation("unknown payment type %q", s)
	}
	return t, nil
}

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeRent, PaymentTypeElectricity, PaymentTypeWater:
		return true
	}
	return false
}

func (t PaymentType) IsUtility() bool {
	return t == PaymentTypeElectricity || t == PaymentTypeWater
}

// Title is used on receipts and exports.
func (t PaymentType) Title() string {
	switch t {
	case PaymentTypeRent:
		return "Rent"
	case PaymentTypeElectricity:
		return "Electricity"
	case PaymentTypeWater:
		return "Water"
	}
	return string(t)
}

// PaymentRecord is one ledger row: one renter, one period, one type.
type PaymentRecord struct {
	ID             uuid.UUID       `json:"id"`
	RenterID       uuid.UUID       `json:"renter_id"`
	Period         Period          `json:"period"`
	Type           PaymentType     `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	IsPaid         bool            `json:"is_paid"`
	PaidDate       *time.Time      `json:"paid_date"`
	WhatsAppSentAt *time.Time      `json:"whatsapp_sent_at"` // rent records only
	CreatedAt      time.Time       `json:"created_at"`
}

// PaymentEvent is broadcast to realtime subscribers after a committed write.
type PaymentEvent struct {
	Operation string          `json:"operation"`
	BlockID   uuid.UUID       `json:"block_id"`
	RenterID  uuid.UUID       `json:"renter_id"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Type      PaymentType     `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	IsPaid    bool            `json:"is_paid"`
	At        time.Time       `json:"at"`
}

// SyncResult reports every record touched by a synchronized toggle.
type SyncResult struct {
	Rent      *PaymentRecord  `json:"rent"`
	Utilities []PaymentRecord `json:"utilities"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentItem is the derived state of one payment type for one renter and period.
type PaymentItem struct {
	Type     PaymentType     `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	IsPaid   bool            `json:"is_paid"`
	PaidDate *time.Time      `json:"paid_date"`
	Recorded bool            `json:"recorded"` // false when no ledger row exists yet
}

// RenterPaymentView is the per-renter snapshot shown on the payments page.
type RenterPaymentView struct {
	RenterID       uuid.UUID       `json:"renter_id"`
	RenterName     string          `json:"renter_name"`
	PhoneNumber    string          `json:"phone_number"`
	RentPrice      decimal.Decimal `json:"rent_price"`
	Period         Period          `json:"period"`
	Rent           PaymentItem     `json:"rent"`
	Electricity    PaymentItem     `json:"electricity"`
	Water          PaymentItem     `json:"water"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	WhatsAppSentAt *time.Time      `json:"whatsapp_sent_at"`
}

// Item returns the sub-item for t.
func (v RenterPaymentView) Item(t PaymentType) PaymentItem {
	switch t {
	case PaymentTypeElectricity:
		return v.Electricity
	case PaymentTypeWater:
		return v.Water
	default:
		return v.Rent
	}
}

type TypeSummary struct {
	Paid      int             `json:"paid"`
	Unpaid    int             `json:"unpaid"`
	Collected decimal.Decimal `json:"collected"`
}

// BlockReport rolls up one block for one period.
type BlockReport struct {
	BlockID         uuid.UUID       `json:"block_id"`
	BlockName       string          `json:"block_name"`
	Period          Period          `json:"period"`
	RenterCount     int             `json:"renter_count"`
	TotalRent       decimal.Decimal `json:"total_rent"`
	Rent            TypeSummary     `json:"rent"`
	Electricity     TypeSummary     `json:"electricity"`
	Water           TypeSummary     `json:"water"`
	TotalCollected  decimal.Decimal `json:"total_collected"`
	PaidRenters     int             `json:"paid_renters"`
	UnpaidRenters   int             `json:"unpaid_renters"`
	TotalUnpaidRent decimal.Decimal `json:"total_unpaid_rent"`
}

// Summary returns the rollup for t.
func (b BlockReport) Summary(t PaymentType) TypeSummary {
	switch t {
	case PaymentTypeElectricity:
		return b.Electricity
	case PaymentTypeWater:
		return b.Water
	default:
		return b.Rent
	}
}

// RenterReport is the drill-down row of a block report.
type RenterReport struct {
	RenterID    uuid.UUID       `json:"renter_id"`
	RenterName  string          `json:"renter_name"`
	PhoneNumber string          `json:"phone_number"`
	Period      Period          `json:"period"`
	Rent        PaymentItem     `json:"rent"`
	Electricity PaymentItem     `json:"electricity"`
	Water       PaymentItem     `json:"water"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	IsPaid      bool            `json:"is_paid"`    // rent status
	FullyPaid   bool            `json:"fully_paid"` // rent and every entered utility bill paid
}

// MonthlyRecord counts the ledger rows of one period.
type MonthlyRecord struct {
	Period      Period          `json:"period"`
	PaidCount   int             `json:"paid_count"`
	UnpaidCount int             `json:"unpaid_count"`
	Collected   decimal.Decimal `json:"collected"`
}

// Receipt is a stored receipt PDF.
type Receipt struct {
	ID            string `json:"id"`
	ReceiptNumber string `json:"receipt_number"`
	FileName      string `json:"file_name"`
	URL           string `json:"url"`
}

type WhatsAppStatus struct {
	Configured bool   `json:"configured"`
	Provider   string `json:"provider,omitempty"`
}

type NotificationResult struct {
	MessageID string    `json:"message_id"`
	Status    string    `json:"status"`
	Phone     string    `json:"phone"`
	Recorded  bool      `json:"recorded"` // false when the period has no rent record yet
	SentAt    time.Time `json:"sent_at"`
}

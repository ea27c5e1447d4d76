package models

import "github.com/shopspring/decimal"

// SetAmountRequest edits a bill amount without touching its paid status.
type SetAmountRequest struct {
	Month  int             `json:"month" validate:"required,min=1,max=12"`
	Year   int             `json:"year" validate:"required,min=2000,max=9999"`
	Type   string          `json:"type" validate:"required,oneof=rent electricity water"`
	Amount decimal.Decimal `json:"amount"`
}

// SetPaidStatusRequest toggles one payment type. Amount is optional.
type SetPaidStatusRequest struct {
	Month  int              `json:"month" validate:"required,min=1,max=12"`
	Year   int              `json:"year" validate:"required,min=2000,max=9999"`
	Type   string           `json:"type" validate:"required,oneof=rent electricity water"`
	Amount *decimal.Decimal `json:"amount"`
	IsPaid *bool            `json:"is_paid" validate:"required"`
}

// SyncToggleRequest marks a whole period paid or unpaid.
type SyncToggleRequest struct {
	Month  int   `json:"month" validate:"required,min=1,max=12"`
	Year   int   `json:"year" validate:"required,min=2000,max=9999"`
	IsPaid *bool `json:"is_paid" validate:"required"`
}

type CreateReceiptRequest struct {
	Month int    `json:"month" validate:"required,min=1,max=12"`
	Year  int    `json:"year" validate:"required,min=2000,max=9999"`
	Type  string `json:"type" validate:"required,oneof=rent electricity water"`
}

type SendReceiptRequest struct {
	RenterID   string `json:"renter_id" validate:"required,uuid"`
	Month      int    `json:"month" validate:"required,min=1,max=12"`
	Year       int    `json:"year" validate:"required,min=2000,max=9999"`
	Message    string `json:"message" validate:"max=1000"`
	ReceiptURL string `json:"receipt_url" validate:"omitempty,url"`
}

type BlockRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type RenterRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	PhoneNumber string          `json:"phone_number" validate:"max=20"`
	RentPrice   decimal.Decimal `json:"rent_price"`
}

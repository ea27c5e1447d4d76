package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"rental-backend/internal/ledger"
	"rental-backend/internal/models"
	"rental-backend/internal/storage"
	"rental-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"
)

// ReceiptData is everything printed on one payment receipt.
type ReceiptData struct {
	ReceiptNumber string
	BlockName     string
	RenterName    string
	PhoneNumber   string
	Period        models.Period
	Type          models.PaymentType
	Amount        decimal.Decimal
	PaidDate      *time.Time
	GeneratedAt   time.Time
}

type ReceiptService struct {
	Tx            ledger.TxRunner
	Store         storage.ReceiptStore
	PublicBaseURL string
	Clock         timeutil.Clock
}

func NewReceiptService(tx ledger.TxRunner, store storage.ReceiptStore, publicBaseURL string, clock timeutil.Clock) *ReceiptService {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &ReceiptService{
		Tx:            tx,
		Store:         store,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		Clock:         clock,
	}
}

// ReceiptNumber is the first eight renter id characters, the type and the
// period, e.g. 1A2B3C4D-RENT-202503.
func ReceiptNumber(renterID uuid.UUID, t models.PaymentType, period models.Period) string {
	return fmt.Sprintf("%s-%s-%s",
		strings.ToUpper(renterID.String()[:8]), strings.ToUpper(string(t)), period.Compact())
}

// BuildReceipt collects the receipt of one paid item. Unpaid items have no receipt.
func (s *ReceiptService) BuildReceipt(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType) (*ReceiptData, error) {
	if err := ledger.ValidateKey(period, t); err != nil {
		return nil, err
	}
	stores := s.Tx.Stores()
	renter, err := stores.Directory.GetRenter(ctx, renterID)
	if err != nil {
		return nil, err
	}
	block, err := stores.Directory.GetBlock(ctx, renter.BlockID)
	if err != nil {
		return nil, err
	}
	records, err := stores.Payments.ListForRenters(ctx, []uuid.UUID{renterID}, period)
	if err != nil {
		return nil, err
	}

	item := ledger.BuildView(*renter, period, records).Item(t)
	if !item.IsPaid {
		return nil, models.Validation("%s for %s is not paid", t.Title(), period.Label())
	}

	return &ReceiptData{
		ReceiptNumber: ReceiptNumber(renterID, t, period),
		BlockName:     block.Name,
		RenterName:    renter.Name,
		PhoneNumber:   renter.PhoneNumber,
		Period:        period,
		Type:          t,
		Amount:        item.Amount,
		PaidDate:      item.PaidDate,
		GeneratedAt:   s.Clock.Now(),
	}, nil
}

// GenerateReceiptPDF renders a one page receipt.
func GenerateReceiptPDF(data *ReceiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(45, 106, 79)
	pdf.Rect(0, 0, 210, 44, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(10, 8)
	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(190, 10, strings.ToUpper(data.Type.Title())+" RECEIPT", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(190, 8, "Period: "+data.Period.Label(), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, "Generated: "+data.GeneratedAt.Format(timeutil.ReceiptLayout), "", 1, "C", false, 0, "")

	pdf.SetTextColor(26, 25, 23)
	pdf.SetXY(10, 55)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 8, "Receipt Details", "B", 1, "L", false, 0, "")
	pdf.Ln(4)

	phone := data.PhoneNumber
	if phone == "" {
		phone = "N/A"
	}
	rows := [][2]string{
		{"Block:", data.BlockName},
		{"Renter:", data.RenterName},
		{"Phone:", phone},
		{"Payment Type:", data.Type.Title()},
		{"Period:", data.Period.Label()},
		{"Amount:", data.Amount.StringFixed(2)},
		{"Status:", "PAID"},
	}
	if data.PaidDate != nil {
		rows = append(rows, [2]string{"Paid On:", data.PaidDate.Format(timeutil.ReceiptLayout)})
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(60, 10, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(130, 10, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFillColor(216, 243, 220)
	pdf.SetTextColor(45, 106, 79)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 12, "Payment Confirmed", "", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 8, "Thank you for your payment.", "", 1, "C", true, 0, "")

	pdf.SetTextColor(92, 88, 84)
	pdf.SetXY(10, 265)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 5, "Receipt ID: "+data.ReceiptNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 5, "House Rental Manager", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReceiptFileName is the download name, e.g. receipt-jane-doe-rent-march-2025.pdf.
func ReceiptFileName(data *ReceiptData) string {
	name := strings.ToLower(strings.Join(strings.Fields(data.RenterName), "-"))
	month := strings.ToLower(time.Month(data.Period.Month).String())
	return fmt.Sprintf("receipt-%s-%s-%s-%d.pdf", name, data.Type, month, data.Period.Year)
}

// CreateReceipt renders and stores the receipt and returns its public link.
func (s *ReceiptService) CreateReceipt(ctx context.Context, renterID uuid.UUID, period models.Period, t models.PaymentType) (*models.Receipt, error) {
	data, err := s.BuildReceipt(ctx, renterID, period, t)
	if err != nil {
		return nil, err
	}
	pdf, err := GenerateReceiptPDF(data)
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	id, err := s.Store.Save(ctx, pdf)
	if err != nil {
		return nil, err
	}
	return &models.Receipt{
		ID:            id,
		ReceiptNumber: data.ReceiptNumber,
		FileName:      ReceiptFileName(data),
		URL:           s.PublicBaseURL + "/api/receipts/" + id,
	}, nil
}

func (s *ReceiptService) OpenReceipt(ctx context.Context, id string) (io.ReadCloser, error) {
	return s.Store.Open(ctx, id)
}

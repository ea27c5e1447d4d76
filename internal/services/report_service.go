package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"

	"rental-backend/internal/cache"
	"rental-backend/internal/ledger"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf/v2"
)

type ReportService struct {
	Tx    ledger.TxRunner
	Cache ReportCache
	Clock timeutil.Clock
}

func NewReportService(tx ledger.TxRunner, cache ReportCache, clock timeutil.Clock) *ReportService {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &ReportService{Tx: tx, Cache: cacheOrNoop(cache), Clock: clock}
}

// cached serves key from the report cache, loading and storing it on a miss.
// The generation is taken before the load so a write that commits meanwhile
// retires the entry this call stores.
func cached[T any](ctx context.Context, c ReportCache, period models.Period, base string, load func() (T, error)) (T, error) {
	gen, ok := c.Generation(ctx, period)
	if !ok {
		return load()
	}
	key := cache.Versioned(base, gen)
	if data, ok := c.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			metrics.ReportCacheLookups.WithLabelValues("hit").Inc()
			return v, nil
		}
		log.Printf("[Reports] Dropping undecodable cache entry %s", key)
	}
	metrics.ReportCacheLookups.WithLabelValues("miss").Inc()

	v, err := load()
	if err != nil {
		return v, err
	}
	if data, err := json.Marshal(v); err == nil {
		c.Set(ctx, key, data)
	}
	return v, nil
}

// GetBlockReport rolls up one block for the period.
func (s *ReportService) GetBlockReport(ctx context.Context, blockID uuid.UUID, period models.Period) (*models.BlockReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return cached(ctx, s.Cache, period, cache.BlockKey(blockID, period), func() (*models.BlockReport, error) {
		stores := s.Tx.Stores()
		block, err := stores.Directory.GetBlock(ctx, blockID)
		if err != nil {
			return nil, err
		}
		renters, records, err := s.blockRecords(ctx, stores, blockID, period)
		if err != nil {
			return nil, err
		}
		rep := ledger.BuildBlockReport(*block, renters, records, period)
		return &rep, nil
	})
}

// GetReportSummary returns one independent report per block, ordered by name.
func (s *ReportService) GetReportSummary(ctx context.Context, period models.Period) ([]models.BlockReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return cached(ctx, s.Cache, period, cache.SummaryKey(period), func() ([]models.BlockReport, error) {
		stores := s.Tx.Stores()
		blocks, err := stores.Directory.ListBlocks(ctx)
		if err != nil {
			return nil, err
		}
		renters, err := stores.Directory.ListAllRenters(ctx)
		if err != nil {
			return nil, err
		}
		records, err := stores.Payments.ListForRenters(ctx, ledger.RenterIDs(renters), period)
		if err != nil {
			return nil, err
		}
		return ledger.BuildReportSummary(blocks, ledger.GroupRentersByBlock(renters), records, period), nil
	})
}

// GetRenterReport is the per-renter drill-down of a block.
func (s *ReportService) GetRenterReport(ctx context.Context, blockID uuid.UUID, period models.Period) ([]models.RenterReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return cached(ctx, s.Cache, period, cache.RentersKey(blockID, period), func() ([]models.RenterReport, error) {
		stores := s.Tx.Stores()
		if _, err := stores.Directory.GetBlock(ctx, blockID); err != nil {
			return nil, err
		}
		renters, records, err := s.blockRecords(ctx, stores, blockID, period)
		if err != nil {
			return nil, err
		}
		return ledger.BuildRenterReports(renters, period, records), nil
	})
}

// GetMonthlyHistory lists every period of the block that has payment records.
func (s *ReportService) GetMonthlyHistory(ctx context.Context, blockID uuid.UUID) ([]models.MonthlyRecord, error) {
	stores := s.Tx.Stores()
	if _, err := stores.Directory.GetBlock(ctx, blockID); err != nil {
		return nil, err
	}
	renters, err := stores.Directory.ListRenters(ctx, blockID)
	if err != nil {
		return nil, err
	}
	records, err := stores.Payments.ListAllForRenters(ctx, ledger.RenterIDs(renters))
	if err != nil {
		return nil, err
	}
	return ledger.BuildMonthlyHistory(records), nil
}

func (s *ReportService) blockRecords(ctx context.Context, stores ledger.Stores, blockID uuid.UUID, period models.Period) ([]models.Renter, []models.PaymentRecord, error) {
	renters, err := stores.Directory.ListRenters(ctx, blockID)
	if err != nil {
		return nil, nil, err
	}
	records, err := stores.Payments.ListForRenters(ctx, ledger.RenterIDs(renters), period)
	if err != nil {
		return nil, nil, err
	}
	return renters, records, nil
}

// GenerateBlockReportPDF renders the block summary and renter table.
func (s *ReportService) GenerateBlockReportPDF(ctx context.Context, blockID uuid.UUID, period models.Period) ([]byte, error) {
	summary, err := s.GetBlockReport(ctx, blockID, period)
	if err != nil {
		return nil, err
	}
	rows, err := s.GetRenterReport(ctx, blockID, period)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, fmt.Sprintf("%s - Payment Report", summary.BlockName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Period: %s", period.Label()), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", s.Clock.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Summary
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Summary", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Renters: %d", summary.RenterCount), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Total Rent: %s", summary.TotalRent.StringFixed(2)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Collected: %s", summary.TotalCollected.StringFixed(2)), "1", 1, "C", false, 0, "")
	for _, t := range models.AllPaymentTypes {
		ts := summary.Summary(t)
		pdf.CellFormat(63, 7, t.Title(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(63, 7, fmt.Sprintf("Paid %d / Unpaid %d", ts.Paid, ts.Unpaid), "1", 0, "C", false, 0, "")
		pdf.CellFormat(64, 7, ts.Collected.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// Renter table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(50, 7, "Renter", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Rent", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Electricity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Water", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		name := r.RenterName
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		pdf.CellFormat(50, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, itemCell(r.Rent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, itemCell(r.Electricity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, itemCell(r.Water), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, r.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(5)
	if summary.UnpaidRenters > 0 {
		pdf.SetFillColor(255, 200, 200) // Light red for outstanding
	} else {
		pdf.SetFillColor(200, 255, 200) // Light green for paid
	}
	pdf.SetFont("Arial", "B", 14)
	balanceText := fmt.Sprintf("Unpaid Rent: %s (%d renters)", summary.TotalUnpaidRent.StringFixed(2), summary.UnpaidRenters)
	if summary.UnpaidRenters == 0 {
		balanceText = "ALL RENT PAID"
	}
	pdf.CellFormat(190, 10, balanceText, "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func itemCell(item models.PaymentItem) string {
	if item.IsPaid {
		return item.Amount.StringFixed(2) + " (paid)"
	}
	return item.Amount.StringFixed(2)
}

// GenerateRenterReportCSV exports the renter drill-down as CSV.
func (s *ReportService) GenerateRenterReportCSV(ctx context.Context, blockID uuid.UUID, period models.Period) ([]byte, error) {
	rows, err := s.GetRenterReport(ctx, blockID, period)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{
		"Renter", "Phone", "Period",
		"Rent", "Rent Paid", "Electricity", "Electricity Paid", "Water", "Water Paid",
		"Total", "Fully Paid",
	})
	for _, r := range rows {
		w.Write([]string{
			r.RenterName, r.PhoneNumber, period.Key(),
			r.Rent.Amount.StringFixed(2), yesNo(r.Rent.IsPaid),
			r.Electricity.Amount.StringFixed(2), yesNo(r.Electricity.IsPaid),
			r.Water.Amount.StringFixed(2), yesNo(r.Water.IsPaid),
			r.TotalAmount.StringFixed(2), yesNo(r.FullyPaid),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

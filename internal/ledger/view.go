package ledger

import (
	"cmp"
	"slices"
	"strings"

	"rental-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type recordsByType map[models.PaymentType]*models.PaymentRecord

// indexRecords groups the records of one period by renter and type. Records
// of other periods are dropped.
func indexRecords(records []models.PaymentRecord, period models.Period) map[uuid.UUID]recordsByType {
	idx := make(map[uuid.UUID]recordsByType)
	for i := range records {
		rec := &records[i]
		if rec.Period != period || !rec.Type.Valid() {
			continue
		}
		byType, ok := idx[rec.RenterID]
		if !ok {
			byType = make(recordsByType, len(models.AllPaymentTypes))
			idx[rec.RenterID] = byType
		}
		byType[rec.Type] = rec
	}
	return idx
}

// BuildView renders one renter's payments for a period. Rent falls back to the
// renter's rent price when there is no record or the recorded amount is zero;
// utilities without a record show zero and unpaid.
func BuildView(renter models.Renter, period models.Period, records []models.PaymentRecord) models.RenterPaymentView {
	return buildView(renter, period, indexRecords(records, period)[renter.ID])
}

// BuildViews renders every renter in name order.
func BuildViews(renters []models.Renter, period models.Period, records []models.PaymentRecord) []models.RenterPaymentView {
	idx := indexRecords(records, period)
	sorted := SortRenters(renters)
	views := make([]models.RenterPaymentView, 0, len(sorted))
	for _, r := range sorted {
		views = append(views, buildView(r, period, idx[r.ID]))
	}
	return views
}

func buildView(renter models.Renter, period models.Period, byType recordsByType) models.RenterPaymentView {
	v := models.RenterPaymentView{
		RenterID:    renter.ID,
		RenterName:  renter.Name,
		PhoneNumber: renter.PhoneNumber,
		RentPrice:   renter.RentPrice,
		Period:      period,
		Rent:        itemFor(renter, models.PaymentTypeRent, byType[models.PaymentTypeRent]),
		Electricity: itemFor(renter, models.PaymentTypeElectricity, byType[models.PaymentTypeElectricity]),
		Water:       itemFor(renter, models.PaymentTypeWater, byType[models.PaymentTypeWater]),
	}
	if rent := byType[models.PaymentTypeRent]; rent != nil {
		v.WhatsAppSentAt = rent.WhatsAppSentAt
	}
	v.TotalAmount = v.Rent.Amount.Add(v.Electricity.Amount).Add(v.Water.Amount)
	return v
}

func itemFor(renter models.Renter, t models.PaymentType, rec *models.PaymentRecord) models.PaymentItem {
	item := models.PaymentItem{Type: t, Amount: decimal.Zero}
	if rec != nil {
		item.Amount = rec.Amount
		item.IsPaid = rec.IsPaid
		item.PaidDate = rec.PaidDate
		item.Recorded = true
	}
	if t == models.PaymentTypeRent && !item.Amount.IsPositive() {
		item.Amount = renter.RentPrice
	}
	return item
}

// SortRenters returns renters ordered by name, ties broken by id.
func SortRenters(renters []models.Renter) []models.Renter {
	out := slices.Clone(renters)
	slices.SortStableFunc(out, func(a, b models.Renter) int {
		if c := compareNames(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

// SortBlocks returns blocks ordered by name, ties broken by id.
func SortBlocks(blocks []models.Block) []models.Block {
	out := slices.Clone(blocks)
	slices.SortStableFunc(out, func(a, b models.Block) int {
		if c := compareNames(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

func compareNames(a, b string) int {
	if c := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// RenterIDs collects ids in input order.
func RenterIDs(renters []models.Renter) []uuid.UUID {
	ids := make([]uuid.UUID, len(renters))
	for i, r := range renters {
		ids[i] = r.ID
	}
	return ids
}

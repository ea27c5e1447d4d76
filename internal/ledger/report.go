package ledger

import (
	"slices"

	"rental-backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildBlockReport rolls up one block for one period. A renter without a
// record of some type counts as unpaid for that type. Collected sums the paid
// items, with rent using the same price fallback as the payment view.
func BuildBlockReport(block models.Block, renters []models.Renter, records []models.PaymentRecord, period models.Period) models.BlockReport {
	idx := indexRecords(records, period)

	rep := models.BlockReport{
		BlockID:         block.ID,
		BlockName:       block.Name,
		Period:          period,
		TotalRent:       decimal.Zero,
		TotalCollected:  decimal.Zero,
		TotalUnpaidRent: decimal.Zero,
	}
	summaries := map[models.PaymentType]*models.TypeSummary{
		models.PaymentTypeRent:        {Collected: decimal.Zero},
		models.PaymentTypeElectricity: {Collected: decimal.Zero},
		models.PaymentTypeWater:       {Collected: decimal.Zero},
	}

	for _, r := range renters {
		rep.RenterCount++
		rep.TotalRent = rep.TotalRent.Add(r.RentPrice)

		view := buildView(r, period, idx[r.ID])
		for _, t := range models.AllPaymentTypes {
			item := view.Item(t)
			if !item.IsPaid {
				continue
			}
			s := summaries[t]
			s.Paid++
			s.Collected = s.Collected.Add(item.Amount)
		}
		if view.Rent.IsPaid {
			rep.PaidRenters++
		} else {
			rep.TotalUnpaidRent = rep.TotalUnpaidRent.Add(view.Rent.Amount)
		}
	}

	for _, t := range models.AllPaymentTypes {
		s := summaries[t]
		s.Unpaid = rep.RenterCount - s.Paid
		rep.TotalCollected = rep.TotalCollected.Add(s.Collected)
	}
	rep.Rent = *summaries[models.PaymentTypeRent]
	rep.Electricity = *summaries[models.PaymentTypeElectricity]
	rep.Water = *summaries[models.PaymentTypeWater]
	rep.UnpaidRenters = rep.RenterCount - rep.PaidRenters
	return rep
}

// BuildRenterReport is the drill-down row for one renter.
func BuildRenterReport(renter models.Renter, period models.Period, records []models.PaymentRecord) models.RenterReport {
	return renterReport(buildView(renter, period, indexRecords(records, period)[renter.ID]))
}

// BuildRenterReports renders every renter of a block in name order.
func BuildRenterReports(renters []models.Renter, period models.Period, records []models.PaymentRecord) []models.RenterReport {
	views := BuildViews(renters, period, records)
	out := make([]models.RenterReport, len(views))
	for i, v := range views {
		out[i] = renterReport(v)
	}
	return out
}

func renterReport(v models.RenterPaymentView) models.RenterReport {
	fully := v.Rent.IsPaid
	for _, t := range models.UtilityTypes {
		item := v.Item(t)
		if item.Recorded && item.Amount.IsPositive() && !item.IsPaid {
			fully = false
		}
	}
	return models.RenterReport{
		RenterID:    v.RenterID,
		RenterName:  v.RenterName,
		PhoneNumber: v.PhoneNumber,
		Period:      v.Period,
		Rent:        v.Rent,
		Electricity: v.Electricity,
		Water:       v.Water,
		TotalAmount: v.TotalAmount,
		IsPaid:      v.Rent.IsPaid,
		FullyPaid:   fully,
	}
}

// BuildReportSummary builds one independent report per block, blocks in
// name order.
func BuildReportSummary(blocks []models.Block, rentersByBlock map[uuid.UUID][]models.Renter, records []models.PaymentRecord, period models.Period) []models.BlockReport {
	sorted := SortBlocks(blocks)
	out := make([]models.BlockReport, 0, len(sorted))
	for _, b := range sorted {
		out = append(out, BuildBlockReport(b, rentersByBlock[b.ID], records, period))
	}
	return out
}

// GroupRentersByBlock buckets renters under their block id.
func GroupRentersByBlock(renters []models.Renter) map[uuid.UUID][]models.Renter {
	out := make(map[uuid.UUID][]models.Renter)
	for _, r := range renters {
		out[r.BlockID] = append(out[r.BlockID], r)
	}
	return out
}

// BuildMonthlyHistory counts paid and unpaid records per period, newest
// period first. Periods without records are omitted.
func BuildMonthlyHistory(records []models.PaymentRecord) []models.MonthlyRecord {
	byPeriod := make(map[models.Period]*models.MonthlyRecord)
	for _, rec := range records {
		m, ok := byPeriod[rec.Period]
		if !ok {
			m = &models.MonthlyRecord{Period: rec.Period, Collected: decimal.Zero}
			byPeriod[rec.Period] = m
		}
		if rec.IsPaid {
			m.PaidCount++
			m.Collected = m.Collected.Add(rec.Amount)
		} else {
			m.UnpaidCount++
		}
	}

	out := make([]models.MonthlyRecord, 0, len(byPeriod))
	for _, m := range byPeriod {
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b models.MonthlyRecord) int {
		switch {
		case b.Period.Before(a.Period):
			return -1
		case a.Period.Before(b.Period):
			return 1
		}
		return 0
	})
	return out
}

package service

import (
	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
)

// fixedCostCharge is a period's fixed-cost expense. A monthly period charges
// the full monthly amount of every entry already switched on by that month.
// An annual period prorates each entry by the number of months it was active
// within the calendar year, not a flat yearly sum.
func fixedCostCharge(entries []domain.FixedCostEntry, period domain.Period) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if !e.Active || e.StartMonth.IsZero() {
			continue
		}
		if period.Annual() {
			if months := monthsActiveInYear(e.StartMonth, period.Year); months > 0 {
				total = total.Add(e.Amount.Mul(decimal.NewFromInt(int64(months))))
			}
		} else if !e.StartMonth.After(domain.YearMonth{Year: period.Year, Month: period.Month}) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func monthsActiveInYear(start domain.YearMonth, year int) int {
	switch {
	case start.Year > year:
		return 0
	case start.Year < year:
		return 12
	default:
		return 13 - int(start.Month) // max(January, start) through December
	}
}

// fixedCostAccrued is the cumulative charge of every active entry from its
// start month through the given month, used for as-of cash reconstruction.
func fixedCostAccrued(entries []domain.FixedCostEntry, through domain.YearMonth) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if !e.Active || e.StartMonth.IsZero() {
			continue
		}
		if n := e.StartMonth.MonthsThrough(through); n > 0 {
			total = total.Add(e.Amount.Mul(decimal.NewFromInt(int64(n))))
		}
	}
	return total
}

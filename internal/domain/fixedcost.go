package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// YearMonth identifies a calendar month without a day component.
type YearMonth struct {
	Year  int
	Month time.Month
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

func (ym YearMonth) After(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year > other.Year
	}
	return ym.Month > other.Month
}

// MonthsThrough counts calendar months from ym through other, inclusive.
// Zero when other precedes ym.
func (ym YearMonth) MonthsThrough(other YearMonth) int {
	n := (other.Year-ym.Year)*12 + int(other.Month) - int(ym.Month) + 1
	if n < 0 {
		return 0
	}
	return n
}

// FixedCostEntry is a recurring monthly obligation (rent, subscriptions)
// charged every month from StartMonth onward while Active. There is no end
// date in this model; deactivation is the only way to stop the charge.
type FixedCostEntry struct {
	Name       string
	Active     bool
	Amount     decimal.Decimal
	StartMonth YearMonth
}

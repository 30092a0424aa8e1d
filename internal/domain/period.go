package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Period selects either a whole calendar year (Month == 0) or a single month
// of that year.
type Period struct {
	Year  int
	Month time.Month // 0 means the whole year
}

func (p Period) Annual() bool {
	return p.Month == 0
}

// Contains reports whether t falls inside the period, comparing calendar year
// (and month, for monthly periods) only. Nil dates never match: a record
// without a date is simply not counted.
func (p Period) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	if t.Year() != p.Year {
		return false
	}
	return p.Annual() || t.Month() == p.Month
}

// AsOfDate is the balance-sheet cutoff for the period: the last calendar day
// of the period's month, or December 31 for an annual period.
func (p Period) AsOfDate() time.Time {
	m := p.Month
	if p.Annual() {
		m = time.December
	}
	// day 0 of the next month normalizes to the last day of m
	return time.Date(p.Year, m+1, 0, 0, 0, 0, 0, time.UTC)
}

// AsOfMonth is the month the as-of date falls in.
func (p Period) AsOfMonth() YearMonth {
	m := p.Month
	if p.Annual() {
		m = time.December
	}
	return YearMonth{Year: p.Year, Month: m}
}

// Previous steps back exactly one period: the previous month, the previous
// December for January, or the previous year for an annual period.
func (p Period) Previous() Period {
	switch {
	case p.Annual():
		return Period{Year: p.Year - 1}
	case p.Month == time.January:
		return Period{Year: p.Year - 1, Month: time.December}
	default:
		return Period{Year: p.Year, Month: p.Month - 1}
	}
}

func (p Period) String() string {
	if p.Annual() {
		return strconv.Itoa(p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// OnOrBefore reports whether t falls on or before cutoff, comparing calendar
// dates only (time-of-day is ignored). Nil dates never match.
func OnOrBefore(t *time.Time, cutoff time.Time) bool {
	if t == nil {
		return false
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := cutoff.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 <= d2
}

package repository

import (
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
)

// The ledgers are hand-edited spreadsheets, so cell parsing is deliberately
// lenient: blanks and garbage degrade to zero / "no date" instead of aborting
// statement generation. Malformed non-empty cells are logged with their
// table, row and field so data quality stays visible.

// ParseAmount converts a cell into an exact decimal amount. Currency symbols
// (¥, ￥, $), thousands separators, unit suffixes like 円 and surrounding
// whitespace are stripped; accounting-style parentheses mean negative.
// Empty or unparseable input yields zero.
func ParseAmount(cell string) decimal.Decimal {
	d, _ := parseAmount(cell)
	return d
}

func parseAmount(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return decimal.Zero, true
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		neg = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
			// everything else (¥, commas, 円, spaces) is decoration
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006-01-02 15:04:05",
	"01-02-06", // excelize default short date format
}

// ParseDate converts a cell into a calendar date. Blank cells yield nil,
// which period predicates treat as "never counted".
func ParseDate(cell string) *time.Time {
	t, _ := parseDate(cell)
	return t
}

func parseDate(cell string) (*time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t, true
		}
	}
	return nil, false
}

var yearMonthLayouts = []string{"2006-01", "2006/01", "2006/1", "2006-1", "Jan-06"}

// ParseYearMonth converts a cell like "2025-01" into a YearMonth. Blank or
// malformed cells yield the zero value, which calculators skip.
func ParseYearMonth(cell string) domain.YearMonth {
	ym, _ := parseYearMonth(cell)
	return ym
}

func parseYearMonth(cell string) (domain.YearMonth, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return domain.YearMonth{}, true
	}
	for _, layout := range yearMonthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.YearMonth{Year: t.Year(), Month: t.Month()}, true
		}
	}
	// a full date also identifies its month
	if t, ok := parseDate(s); ok && t != nil {
		return domain.YearMonth{Year: t.Year(), Month: t.Month()}, true
	}
	return domain.YearMonth{}, false
}

// ParseBool accepts the spellings that show up in hand-edited sheets.
// Anything unrecognized is false.
func ParseBool(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "true", "1", "yes", "y", "active", "on":
		return true
	}
	return false
}

func amountCell(table string, row int, field, cell string) decimal.Decimal {
	d, ok := parseAmount(cell)
	if !ok {
		log.Printf("[LEDGER] %s row %d: unparseable %s %q, counted as zero", table, row, field, cell)
	}
	return d
}

func dateCell(table string, row int, field, cell string) *time.Time {
	t, ok := parseDate(cell)
	if !ok {
		log.Printf("[LEDGER] %s row %d: unparseable %s %q, not counted", table, row, field, cell)
	}
	return t
}

func yearMonthCell(table string, row int, field, cell string) domain.YearMonth {
	ym, ok := parseYearMonth(cell)
	if !ok {
		log.Printf("[LEDGER] %s row %d: unparseable %s %q, entry will not accrue", table, row, field, cell)
	}
	return ym
}

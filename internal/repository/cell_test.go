package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		cell string
		want string
	}{
		{"12345", "12345"},
		{"¥12,345", "12345"},
		{"￥500,000", "500000"},
		{"50000円", "50000"},
		{" 1,234.56 ", "1234.56"},
		{"-300", "-300"},
		{"(300)", "-300"}, // accounting-style negative
		{"$99.99", "99.99"},
		{"", "0"},
		{"   ", "0"},
		{"n/a", "0"},
		{"abc", "0"},
	}
	for _, tc := range cases {
		want, err := decimal.NewFromString(tc.want)
		if err != nil {
			t.Fatalf("bad test case %q: %v", tc.want, err)
		}
		if got := ParseAmount(tc.cell); !got.Equal(want) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.cell, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)

	for _, cell := range []string{"2025-01-05", "2025/01/05", "2025/1/5", "2025-1-5", "01-05-25"} {
		got := ParseDate(cell)
		if got == nil {
			t.Errorf("ParseDate(%q) = nil", cell)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %s, want %s", cell, got, want)
		}
	}

	if got := ParseDate(""); got != nil {
		t.Errorf("blank cell must yield nil, got %s", got)
	}
	if got := ParseDate("not a date"); got != nil {
		t.Errorf("garbage cell must yield nil, got %s", got)
	}
}

func TestParseDateDropsTimeOfDay(t *testing.T) {
	got := ParseDate("2025-01-05 14:30:00")
	if got == nil {
		t.Fatal("datetime cell must parse")
	}
	want := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s, want midnight UTC %s", got, want)
	}
}

func TestParseYearMonth(t *testing.T) {
	want := domain.YearMonth{Year: 2025, Month: time.March}

	for _, cell := range []string{"2025-03", "2025/03", "2025/3", "2025-3", "2025-03-15"} {
		if got := ParseYearMonth(cell); got != want {
			t.Errorf("ParseYearMonth(%q) = %v, want %v", cell, got, want)
		}
	}

	if got := ParseYearMonth(""); !got.IsZero() {
		t.Errorf("blank cell must yield zero YearMonth, got %v", got)
	}
	if got := ParseYearMonth("soon"); !got.IsZero() {
		t.Errorf("garbage cell must yield zero YearMonth, got %v", got)
	}
}

func TestParseBool(t *testing.T) {
	for _, cell := range []string{"true", "TRUE", "1", "yes", "Y", "active", "on"} {
		if !ParseBool(cell) {
			t.Errorf("ParseBool(%q) = false, want true", cell)
		}
	}
	for _, cell := range []string{"", "false", "0", "no", "inactive", "whatever"} {
		if ParseBool(cell) {
			t.Errorf("ParseBool(%q) = true, want false", cell)
		}
	}
}

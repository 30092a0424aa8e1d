package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// parsePeriod validates the year/month query parameters before any
// computation starts. year is required; month is optional and means
// "annual" when absent.
func parsePeriod(r *http.Request) (domain.Period, error) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		return domain.Period{}, &ValidationError{Field: "year", Message: "year is required"}
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return domain.Period{}, &ValidationError{Field: "year", Message: "year must be an integer"}
	}

	period := domain.Period{Year: year}

	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			return domain.Period{}, &ValidationError{Field: "month", Message: "month must be an integer between 1 and 12"}
		}
		period.Month = time.Month(month)
	}

	return period, nil
}

// decimalParam parses an optional decimal query parameter, falling back to
// def when absent. Unlike ledger cells, malformed API input is an error.
func decimalParam(r *http.Request, name string, def decimal.Decimal) (decimal.Decimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: name, Message: name + " must be a decimal number"}
	}
	return d, nil
}

// optionalDecimalParam is decimalParam without a default: nil means the
// parameter was not supplied at all.
func optionalDecimalParam(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &ValidationError{Field: name, Message: name + " must be a decimal number"}
	}
	return &d, nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// PaymentRecord is one contract's billable amount and its collection state.
// Revenue is recognized on PaymentActualDate, not ContractDate.
type PaymentRecord struct {
	ContractAmount    decimal.Decimal
	ContractDate      *time.Time
	PaymentActualDate *time.Time
	PaymentStatus     PaymentStatus
}

// Outstanding reports whether the contracted amount has not yet been
// collected, so it still counts toward accounts receivable.
func (p PaymentRecord) Outstanding() bool {
	return p.PaymentActualDate == nil || p.PaymentStatus == PaymentStatusUnpaid
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenditureCategory string

const (
	CategoryExpense ExpenditureCategory = "expense"
	CategorySalary  ExpenditureCategory = "salary"
)

type PaymentMethod string

const (
	MethodCompanyCard   PaymentMethod = "company_card"
	MethodReimbursement PaymentMethod = "reimbursement"
	MethodBankTransfer  PaymentMethod = "bank_transfer"
	MethodCash          PaymentMethod = "cash"
	MethodInvoice       PaymentMethod = "invoice"
)

type SettlementStatus string

const (
	SettlementSettled   SettlementStatus = "settled"
	SettlementUnsettled SettlementStatus = "unsettled"
	SettlementNone      SettlementStatus = "none"
)

// ExpenditureRecord is a one-off outflow. Recurring fixed costs never appear
// here; they live in their own ledger.
type ExpenditureRecord struct {
	Date             *time.Time
	Amount           decimal.Decimal
	Category         ExpenditureCategory
	PaymentMethod    PaymentMethod
	SettlementStatus SettlementStatus
}

// CashOutflow reports whether the expenditure hit company cash directly.
// Reimbursed expenses are fronted by an employee and charged to cash only at
// settlement, which this model does not track by date.
func (e ExpenditureRecord) CashOutflow() bool {
	return e.PaymentMethod != MethodReimbursement
}

// UnsettledReimbursement reports whether the company still owes whoever
// fronted the expense, so the amount counts toward accounts payable.
func (e ExpenditureRecord) UnsettledReimbursement() bool {
	return e.PaymentMethod == MethodReimbursement && e.SettlementStatus == SettlementUnsettled
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSnapshot is one immutable read of all three source ledgers. Every
// statement is derived from a single snapshot so partial reads can never leak
// into a result. Version identifies the underlying data for cache keying.
type LedgerSnapshot struct {
	Version      string
	Payments     []PaymentRecord
	Expenditures []ExpenditureRecord
	FixedCosts   []FixedCostEntry
}

type ProfitAndLoss struct {
	Period          string          `json:"period"`
	Revenue         decimal.Decimal `json:"revenue"`
	CostOfSales     decimal.Decimal `json:"cost_of_sales"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	SalaryExpenses  decimal.Decimal `json:"salary_expenses"`
	FixedCosts      decimal.Decimal `json:"fixed_costs"`
	OperatingProfit decimal.Decimal `json:"operating_profit"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

type BalanceSheet struct {
	Period             string          `json:"period"`
	AsOfDate           string          `json:"as_of_date"`
	Cash               decimal.Decimal `json:"cash"`
	AccountsReceivable decimal.Decimal `json:"accounts_receivable"`
	TotalCurrentAssets decimal.Decimal `json:"total_current_assets"`
	TotalAssets        decimal.Decimal `json:"total_assets"`
	AccountsPayable    decimal.Decimal `json:"accounts_payable"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
	Capital            decimal.Decimal `json:"capital"`
	RetainedEarnings   decimal.Decimal `json:"retained_earnings"`
	TotalNetAssets     decimal.Decimal `json:"total_net_assets"`

	// CumulativeNetProfit is a reconciliation diagnostic: net profit summed
	// over the full ledger history through the as-of date. It is reported
	// next to the derived RetainedEarnings, never used to adjust it.
	CumulativeNetProfit decimal.Decimal `json:"cumulative_net_profit"`

	GeneratedAt time.Time `json:"generated_at"`
}

type CashFlowStatement struct {
	Period               string          `json:"period"`
	OpeningCash          decimal.Decimal `json:"opening_cash"`
	CashFromCustomers    decimal.Decimal `json:"cash_from_customers"`
	CashToSuppliers      decimal.Decimal `json:"cash_to_suppliers"`
	NetOperatingCashFlow decimal.Decimal `json:"net_operating_cash_flow"`
	NetInvestingCashFlow decimal.Decimal `json:"net_investing_cash_flow"`
	NetFinancingCashFlow decimal.Decimal `json:"net_financing_cash_flow"`
	NetCashFlow          decimal.Decimal `json:"net_cash_flow"`
	CashAtEnd            decimal.Decimal `json:"cash_at_end"`
	GeneratedAt          time.Time       `json:"generated_at"`
}

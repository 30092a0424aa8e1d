package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
)

type fakeLedger struct {
	snap *domain.LedgerSnapshot
}

func (f *fakeLedger) Snapshot(ctx context.Context) (*domain.LedgerSnapshot, error) {
	return f.snap, nil
}

func (f *fakeLedger) Version(ctx context.Context) (string, error) {
	return f.snap.Version, nil
}

func newService(snap *domain.LedgerSnapshot) *StatementService {
	return NewStatementService(&fakeLedger{snap: snap}, nil, decimal.Zero)
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func date(y int, m time.Month, day int) *time.Time {
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func jan(day int) *time.Time { return date(2025, time.January, day) }

// One contract of 500,000 collected in January plus a 50,000 monthly fixed
// cost starting that month, against 1,000,000 paid-in capital.
func startupSnapshot() *domain.LedgerSnapshot {
	return &domain.LedgerSnapshot{
		Version: "v1",
		Payments: []domain.PaymentRecord{
			{
				ContractAmount:    d(500000),
				ContractDate:      jan(5),
				PaymentActualDate: jan(20),
				PaymentStatus:     domain.PaymentStatusPaid,
			},
		},
		FixedCosts: []domain.FixedCostEntry{
			{
				Name:       "Rent",
				Active:     true,
				Amount:     d(50000),
				StartMonth: domain.YearMonth{Year: 2025, Month: time.January},
			},
		},
	}
}

func TestComputePL_CollectedPaymentAndFixedCost(t *testing.T) {
	svc := newService(startupSnapshot())

	pl, err := svc.ComputePL(context.Background(), domain.Period{Year: 2025, Month: time.January})
	if err != nil {
		t.Fatalf("computePL: %v", err)
	}

	if !pl.Revenue.Equal(d(500000)) {
		t.Fatalf("revenue %s, want 500000", pl.Revenue)
	}
	if !pl.FixedCosts.Equal(d(50000)) {
		t.Fatalf("fixed costs %s, want 50000", pl.FixedCosts)
	}
	if !pl.OperatingProfit.Equal(d(450000)) {
		t.Fatalf("operating profit %s, want 450000", pl.OperatingProfit)
	}
	if !pl.NetProfit.Equal(pl.OperatingProfit) {
		t.Fatalf("net profit %s must equal operating profit %s", pl.NetProfit, pl.OperatingProfit)
	}
	if pl.Period != "2025-01" {
		t.Fatalf("period %q, want 2025-01", pl.Period)
	}
}

func TestComputePL_RevenueFollowsActualDateNotContractDate(t *testing.T) {
	snap := startupSnapshot()
	// contracted in January, never collected
	snap.Payments = append(snap.Payments, domain.PaymentRecord{
		ContractAmount: d(300000),
		ContractDate:   jan(25),
		PaymentStatus:  domain.PaymentStatusUnpaid,
	})
	svc := newService(snap)

	pl, err := svc.ComputePL(context.Background(), domain.Period{Year: 2025, Month: time.January})
	if err != nil {
		t.Fatalf("computePL: %v", err)
	}
	if !pl.Revenue.Equal(d(500000)) {
		t.Fatalf("uncollected contract must not be revenue: got %s", pl.Revenue)
	}
}

func TestComputePL_SalarySplitFromCostOfSales(t *testing.T) {
	snap := startupSnapshot()
	snap.Expenditures = []domain.ExpenditureRecord{
		{Date: jan(10), Amount: d(80000), Category: domain.CategoryExpense, PaymentMethod: domain.MethodCompanyCard},
		{Date: jan(25), Amount: d(200000), Category: domain.CategorySalary, PaymentMethod: domain.MethodBankTransfer},
	}
	svc := newService(snap)

	pl, err := svc.ComputePL(context.Background(), domain.Period{Year: 2025, Month: time.January})
	if err != nil {
		t.Fatalf("computePL: %v", err)
	}
	if !pl.CostOfSales.Equal(d(80000)) {
		t.Fatalf("cost of sales %s, want 80000", pl.CostOfSales)
	}
	if !pl.SalaryExpenses.Equal(d(200000)) {
		t.Fatalf("salary expenses %s, want 200000", pl.SalaryExpenses)
	}
	if !pl.GrossProfit.Equal(d(420000)) {
		t.Fatalf("gross profit %s, want 420000", pl.GrossProfit)
	}
	// 420000 - 200000 salaries - 50000 fixed
	if !pl.OperatingProfit.Equal(d(170000)) {
		t.Fatalf("operating profit %s, want 170000", pl.OperatingProfit)
	}
}

func TestComputeBS_BalanceIdentity(t *testing.T) {
	svc := NewStatementService(&fakeLedger{snap: startupSnapshot()}, nil, d(1000000))

	bs, err := svc.ComputeBS(context.Background(), domain.Period{Year: 2025, Month: time.January}, decimal.Zero, d(1000000))
	if err != nil {
		t.Fatalf("computeBS: %v", err)
	}

	if !bs.Cash.Equal(d(450000)) {
		t.Fatalf("cash %s, want 450000", bs.Cash)
	}
	if !bs.AccountsReceivable.IsZero() {
		t.Fatalf("receivable %s, want 0", bs.AccountsReceivable)
	}
	if !bs.RetainedEarnings.Equal(d(-550000)) {
		t.Fatalf("retained earnings %s, want -550000", bs.RetainedEarnings)
	}
	if !bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalNetAssets)) {
		t.Fatalf("balance identity broken: assets %s, liabilities %s, net assets %s",
			bs.TotalAssets, bs.TotalLiabilities, bs.TotalNetAssets)
	}
	if bs.AsOfDate != "2025-01-31" {
		t.Fatalf("as-of date %q, want 2025-01-31", bs.AsOfDate)
	}
}

func TestComputeBS_OutstandingContractIsReceivable(t *testing.T) {
	snap := startupSnapshot()
	snap.Payments = append(snap.Payments, domain.PaymentRecord{
		ContractAmount: d(300000),
		ContractDate:   jan(25),
		PaymentStatus:  domain.PaymentStatusUnpaid,
	})
	svc := newService(snap)

	bs, err := svc.ComputeBS(context.Background(), domain.Period{Year: 2025, Month: time.January}, decimal.Zero, d(1000000))
	if err != nil {
		t.Fatalf("computeBS: %v", err)
	}
	if !bs.AccountsReceivable.Equal(d(300000)) {
		t.Fatalf("receivable %s, want 300000", bs.AccountsReceivable)
	}
	// cash untouched by the uncollected contract
	if !bs.Cash.Equal(d(450000)) {
		t.Fatalf("cash %s, want 450000", bs.Cash)
	}
	if !bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalNetAssets)) {
		t.Fatal("balance identity broken with receivables present")
	}
}

func TestComputeBS_UnsettledReimbursementIsPayableNotCash(t *testing.T) {
	snap := startupSnapshot()
	snap.Expenditures = []domain.ExpenditureRecord{
		{
			Date:             jan(18),
			Amount:           d(30000),
			Category:         domain.CategoryExpense,
			PaymentMethod:    domain.MethodReimbursement,
			SettlementStatus: domain.SettlementUnsettled,
		},
	}
	svc := newService(snap)

	bs, err := svc.ComputeBS(context.Background(), domain.Period{Year: 2025, Month: time.January}, decimal.Zero, d(1000000))
	if err != nil {
		t.Fatalf("computeBS: %v", err)
	}
	// the employee fronted the cash, so company cash is untouched
	if !bs.Cash.Equal(d(450000)) {
		t.Fatalf("cash %s, want 450000", bs.Cash)
	}
	if !bs.AccountsPayable.Equal(d(30000)) {
		t.Fatalf("payable %s, want 30000", bs.AccountsPayable)
	}
	if !bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalNetAssets)) {
		t.Fatal("balance identity broken with payables present")
	}
}

func TestComputeBS_AnnualEqualsDecember(t *testing.T) {
	snap := startupSnapshot()
	snap.Expenditures = []domain.ExpenditureRecord{
		{Date: date(2025, time.June, 3), Amount: d(70000), Category: domain.CategoryExpense, PaymentMethod: domain.MethodBankTransfer},
	}
	svc := newService(snap)
	ctx := context.Background()

	annual, err := svc.ComputeBS(ctx, domain.Period{Year: 2025}, decimal.Zero, d(1000000))
	if err != nil {
		t.Fatalf("annual computeBS: %v", err)
	}
	dec, err := svc.ComputeBS(ctx, domain.Period{Year: 2025, Month: time.December}, decimal.Zero, d(1000000))
	if err != nil {
		t.Fatalf("december computeBS: %v", err)
	}

	// same as-of date, so every position must agree
	if annual.AsOfDate != dec.AsOfDate {
		t.Fatalf("as-of dates differ: %s vs %s", annual.AsOfDate, dec.AsOfDate)
	}
	if !annual.Cash.Equal(dec.Cash) || !annual.RetainedEarnings.Equal(dec.RetainedEarnings) ||
		!annual.TotalAssets.Equal(dec.TotalAssets) {
		t.Fatalf("annual and December balance sheets diverge: %+v vs %+v", annual, dec)
	}
}

func TestComputeCF_AutoOpeningReconcilesWithBalanceSheet(t *testing.T) {
	snap := &domain.LedgerSnapshot{
		Version: "v1",
		Payments: []domain.PaymentRecord{
			{ContractAmount: d(100000), ContractDate: jan(3), PaymentActualDate: jan(15), PaymentStatus: domain.PaymentStatusPaid},
			{ContractAmount: d(250000), ContractDate: jan(20), PaymentActualDate: date(2025, time.February, 10), PaymentStatus: domain.PaymentStatusPaid},
		},
		Expenditures: []domain.ExpenditureRecord{
			{Date: jan(10), Amount: d(40000), Category: domain.CategoryExpense, PaymentMethod: domain.MethodCompanyCard},
		},
		FixedCosts: []domain.FixedCostEntry{
			{Name: "Rent", Active: true, Amount: d(50000), StartMonth: domain.YearMonth{Year: 2025, Month: time.January}},
		},
	}
	svc := newService(snap)
	ctx := context.Background()
	feb := domain.Period{Year: 2025, Month: time.February}

	cf, err := svc.ComputeCF(ctx, feb, nil)
	if err != nil {
		t.Fatalf("computeCF: %v", err)
	}

	// opening balance is January's closing cash: 100000 - 40000 - 50000
	if !cf.OpeningCash.Equal(d(10000)) {
		t.Fatalf("opening cash %s, want 10000", cf.OpeningCash)
	}
	if !cf.CashFromCustomers.Equal(d(250000)) {
		t.Fatalf("cash from customers %s, want 250000", cf.CashFromCustomers)
	}
	if !cf.CashToSuppliers.Equal(d(50000)) {
		t.Fatalf("cash to suppliers %s, want 50000", cf.CashToSuppliers)
	}
	if !cf.NetCashFlow.Equal(d(200000)) {
		t.Fatalf("net cash flow %s, want 200000", cf.NetCashFlow)
	}

	bs, err := svc.ComputeBS(ctx, feb, decimal.Zero, d(1000000))
	if err != nil {
		t.Fatalf("computeBS: %v", err)
	}
	if !cf.CashAtEnd.Equal(bs.Cash) {
		t.Fatalf("cash flow closing %s must equal balance sheet cash %s", cf.CashAtEnd, bs.Cash)
	}
}

func TestComputeCF_ExplicitOpeningOverrides(t *testing.T) {
	svc := newService(startupSnapshot())
	opening := d(999)

	cf, err := svc.ComputeCF(context.Background(), domain.Period{Year: 2025, Month: time.January}, &opening)
	if err != nil {
		t.Fatalf("computeCF: %v", err)
	}
	if !cf.OpeningCash.Equal(opening) {
		t.Fatalf("opening cash %s, want 999", cf.OpeningCash)
	}
	if !cf.CashAtEnd.Equal(d(450999)) {
		t.Fatalf("cash at end %s, want 450999", cf.CashAtEnd)
	}
}

func TestComputeCF_ReimbursementExcludedFromSuppliers(t *testing.T) {
	snap := startupSnapshot()
	snap.Expenditures = []domain.ExpenditureRecord{
		{Date: jan(18), Amount: d(30000), Category: domain.CategoryExpense, PaymentMethod: domain.MethodReimbursement, SettlementStatus: domain.SettlementUnsettled},
		{Date: jan(19), Amount: d(20000), Category: domain.CategoryExpense, PaymentMethod: domain.MethodCash},
	}
	svc := newService(snap)

	cf, err := svc.ComputeCF(context.Background(), domain.Period{Year: 2025, Month: time.January}, nil)
	if err != nil {
		t.Fatalf("computeCF: %v", err)
	}
	// 20000 cash expense + 50000 fixed; the reimbursement never hit the bank
	if !cf.CashToSuppliers.Equal(d(70000)) {
		t.Fatalf("cash to suppliers %s, want 70000", cf.CashToSuppliers)
	}
}

func TestMonthlyPartitionSumsToAnnual(t *testing.T) {
	snap := &domain.LedgerSnapshot{
		Version: "v1",
		Payments: []domain.PaymentRecord{
			{ContractAmount: d(500000), PaymentActualDate: jan(20), PaymentStatus: domain.PaymentStatusPaid},
			{ContractAmount: d(200000), PaymentActualDate: date(2025, time.May, 2), PaymentStatus: domain.PaymentStatusPaid},
			{ContractAmount: d(350000), PaymentActualDate: date(2025, time.November, 28), PaymentStatus: domain.PaymentStatusPaid},
			// previous year, must not leak into 2025 anywhere
			{ContractAmount: d(123456), PaymentActualDate: date(2024, time.December, 30), PaymentStatus: domain.PaymentStatusPaid},
		},
		Expenditures: []domain.ExpenditureRecord{
			{Date: date(2025, time.March, 4), Amount: d(80000), Category: domain.CategoryExpense, PaymentMethod: domain.MethodBankTransfer},
			{Date: date(2025, time.July, 15), Amount: d(60000), Category: domain.CategorySalary, PaymentMethod: domain.MethodBankTransfer},
		},
		FixedCosts: []domain.FixedCostEntry{
			{Name: "Rent", Active: true, Amount: d(50000), StartMonth: domain.YearMonth{Year: 2024, Month: time.June}},
			{Name: "CRM", Active: true, Amount: d(10000), StartMonth: domain.YearMonth{Year: 2025, Month: time.March}},
		},
	}
	svc := newService(snap)
	ctx := context.Background()

	annual, err := svc.ComputePL(ctx, domain.Period{Year: 2025})
	if err != nil {
		t.Fatalf("annual computePL: %v", err)
	}

	revenue, costOfSales, salaries, fixed := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for m := time.January; m <= time.December; m++ {
		pl, err := svc.ComputePL(ctx, domain.Period{Year: 2025, Month: m})
		if err != nil {
			t.Fatalf("computePL %s: %v", m, err)
		}
		revenue = revenue.Add(pl.Revenue)
		costOfSales = costOfSales.Add(pl.CostOfSales)
		salaries = salaries.Add(pl.SalaryExpenses)
		fixed = fixed.Add(pl.FixedCosts)
	}

	if !revenue.Equal(annual.Revenue) {
		t.Fatalf("monthly revenue sum %s != annual %s", revenue, annual.Revenue)
	}
	if !costOfSales.Equal(annual.CostOfSales) {
		t.Fatalf("monthly cost of sales sum %s != annual %s", costOfSales, annual.CostOfSales)
	}
	if !salaries.Equal(annual.SalaryExpenses) {
		t.Fatalf("monthly salary sum %s != annual %s", salaries, annual.SalaryExpenses)
	}
	// the annual fixed charge prorates by active months, so it must equal
	// the sum of the monthly charges: 12*50000 + 10*10000
	if !fixed.Equal(annual.FixedCosts) {
		t.Fatalf("monthly fixed cost sum %s != annual %s", fixed, annual.FixedCosts)
	}
	if !fixed.Equal(d(700000)) {
		t.Fatalf("fixed cost total %s, want 700000", fixed)
	}
	if !annual.Revenue.Equal(d(1050000)) {
		t.Fatalf("annual revenue %s, want 1050000", annual.Revenue)
	}
}

func TestFixedCostsInactiveOrUnscheduledIgnored(t *testing.T) {
	snap := &domain.LedgerSnapshot{
		Version: "v1",
		FixedCosts: []domain.FixedCostEntry{
			{Name: "Cancelled", Active: false, Amount: d(10000), StartMonth: domain.YearMonth{Year: 2025, Month: time.January}},
			{Name: "Unscheduled", Active: true, Amount: d(20000)},
			{Name: "Future", Active: true, Amount: d(30000), StartMonth: domain.YearMonth{Year: 2025, Month: time.June}},
		},
	}
	svc := newService(snap)

	pl, err := svc.ComputePL(context.Background(), domain.Period{Year: 2025, Month: time.January})
	if err != nil {
		t.Fatalf("computePL: %v", err)
	}
	if !pl.FixedCosts.IsZero() {
		t.Fatalf("january fixed costs %s, want 0", pl.FixedCosts)
	}

	june, err := svc.ComputePL(context.Background(), domain.Period{Year: 2025, Month: time.June})
	if err != nil {
		t.Fatalf("computePL: %v", err)
	}
	if !june.FixedCosts.Equal(d(30000)) {
		t.Fatalf("june fixed costs %s, want 30000", june.FixedCosts)
	}
}

func TestComputeBS_Deterministic(t *testing.T) {
	svc := newService(startupSnapshot())
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.January}

	a, err := svc.ComputeBS(ctx, period, decimal.Zero, d(1000000))
	if err != nil {
		t.Fatalf("first computeBS: %v", err)
	}
	b, err := svc.ComputeBS(ctx, period, decimal.Zero, d(1000000))
	if err != nil {
		t.Fatalf("second computeBS: %v", err)
	}

	// everything but the generation timestamp must be identical
	if a.Period != b.Period || a.AsOfDate != b.AsOfDate ||
		!a.Cash.Equal(b.Cash) ||
		!a.AccountsReceivable.Equal(b.AccountsReceivable) ||
		!a.AccountsPayable.Equal(b.AccountsPayable) ||
		!a.RetainedEarnings.Equal(b.RetainedEarnings) ||
		!a.TotalAssets.Equal(b.TotalAssets) ||
		!a.TotalNetAssets.Equal(b.TotalNetAssets) ||
		!a.CumulativeNetProfit.Equal(b.CumulativeNetProfit) {
		t.Fatalf("re-derivation is not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestDefaultCapitalFallback(t *testing.T) {
	svc := NewStatementService(&fakeLedger{snap: startupSnapshot()}, nil, decimal.Zero)
	if !svc.DefaultCapitalValue().Equal(DefaultCapital) {
		t.Fatalf("zero capital must fall back to the default, got %s", svc.DefaultCapitalValue())
	}

	custom := NewStatementService(&fakeLedger{snap: startupSnapshot()}, nil, d(5000000))
	if !custom.DefaultCapitalValue().Equal(d(5000000)) {
		t.Fatalf("explicit capital must be kept, got %s", custom.DefaultCapitalValue())
	}
}

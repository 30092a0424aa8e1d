package repository

import (
	"context"
	"log"
	"strings"

	"pubops-finance/internal/domain"
	"pubops-finance/internal/sheets"
)

// Column positions within each source sheet are fixed by convention; the
// dashboard spreadsheets have always been laid out this way.
const (
	// payments sheet
	colContractDate = iota
	colContractAmount
	colPaymentStatus
	colPaymentActualDate
)

const (
	// expenditures sheet
	colExpDate = iota
	colExpCategory
	colExpAmount
	colExpMethod
	colExpSettlement
)

const (
	// fixed costs sheet
	colFixedName = iota
	colFixedAmount
	colFixedStartMonth
	colFixedActive
)

// SheetTables names the three ledger sheets inside the workbook.
type SheetTables struct {
	Payments     string
	Expenditures string
	FixedCosts   string
}

func DefaultSheetTables() SheetTables {
	return SheetTables{
		Payments:     "payments",
		Expenditures: "expenditures",
		FixedCosts:   "fixed_costs",
	}
}

// SheetLedger reads the three transaction ledgers from a spreadsheet
// workbook. Each Snapshot call opens the workbook once and maps every sheet
// from that single revision, so one statement never mixes two edits.
type SheetLedger struct {
	src    sheets.Source
	tables SheetTables
}

func NewSheetLedger(src sheets.Source, tables SheetTables) *SheetLedger {
	if tables == (SheetTables{}) {
		tables = DefaultSheetTables()
	}
	return &SheetLedger{src: src, tables: tables}
}

func (l *SheetLedger) Version(ctx context.Context) (string, error) {
	return l.src.Version(ctx)
}

func (l *SheetLedger) Snapshot(ctx context.Context) (*domain.LedgerSnapshot, error) {
	wb, err := sheets.Open(ctx, l.src)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	payRows, err := wb.Rows(l.tables.Payments)
	if err != nil {
		return nil, err
	}
	expRows, err := wb.Rows(l.tables.Expenditures)
	if err != nil {
		return nil, err
	}
	fixedRows, err := wb.Rows(l.tables.FixedCosts)
	if err != nil {
		return nil, err
	}

	snap := &domain.LedgerSnapshot{Version: wb.Version()}

	for i, row := range payRows {
		rowNum := i + 2 // 1-based, after the header
		snap.Payments = append(snap.Payments, domain.PaymentRecord{
			ContractDate:      dateCell(l.tables.Payments, rowNum, "contract_date", cellAt(row, colContractDate)),
			ContractAmount:    amountCell(l.tables.Payments, rowNum, "contract_amount", cellAt(row, colContractAmount)),
			PaymentStatus:     paymentStatusCell(l.tables.Payments, rowNum, cellAt(row, colPaymentStatus)),
			PaymentActualDate: dateCell(l.tables.Payments, rowNum, "payment_actual_date", cellAt(row, colPaymentActualDate)),
		})
	}

	for i, row := range expRows {
		rowNum := i + 2
		snap.Expenditures = append(snap.Expenditures, domain.ExpenditureRecord{
			Date:             dateCell(l.tables.Expenditures, rowNum, "date", cellAt(row, colExpDate)),
			Category:         categoryCell(l.tables.Expenditures, rowNum, cellAt(row, colExpCategory)),
			Amount:           amountCell(l.tables.Expenditures, rowNum, "amount", cellAt(row, colExpAmount)),
			PaymentMethod:    methodCell(l.tables.Expenditures, rowNum, cellAt(row, colExpMethod)),
			SettlementStatus: settlementCell(cellAt(row, colExpSettlement)),
		})
	}

	for i, row := range fixedRows {
		rowNum := i + 2
		snap.FixedCosts = append(snap.FixedCosts, domain.FixedCostEntry{
			Name:       strings.TrimSpace(cellAt(row, colFixedName)),
			Amount:     amountCell(l.tables.FixedCosts, rowNum, "amount", cellAt(row, colFixedAmount)),
			StartMonth: yearMonthCell(l.tables.FixedCosts, rowNum, "start_month", cellAt(row, colFixedStartMonth)),
			Active:     ParseBool(cellAt(row, colFixedActive)),
		})
	}

	return snap, nil
}

// cellAt tolerates short rows: excelize drops trailing empty cells.
func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func paymentStatusCell(table string, row int, cell string) domain.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "paid":
		return domain.PaymentStatusPaid
	case "unpaid", "":
		return domain.PaymentStatusUnpaid
	default:
		log.Printf("[LEDGER] %s row %d: unknown payment_status %q, treated as unpaid", table, row, cell)
		return domain.PaymentStatusUnpaid
	}
}

func categoryCell(table string, row int, cell string) domain.ExpenditureCategory {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "salary":
		return domain.CategorySalary
	case "expense", "":
		return domain.CategoryExpense
	default:
		log.Printf("[LEDGER] %s row %d: unknown category %q, treated as expense", table, row, cell)
		return domain.CategoryExpense
	}
}

func methodCell(table string, row int, cell string) domain.PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "company_card":
		return domain.MethodCompanyCard
	case "reimbursement":
		return domain.MethodReimbursement
	case "cash":
		return domain.MethodCash
	case "invoice":
		return domain.MethodInvoice
	case "bank_transfer", "":
		return domain.MethodBankTransfer
	default:
		log.Printf("[LEDGER] %s row %d: unknown payment_method %q, treated as bank_transfer", table, row, cell)
		return domain.MethodBankTransfer
	}
}

func settlementCell(cell string) domain.SettlementStatus {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "settled":
		return domain.SettlementSettled
	case "unsettled":
		return domain.SettlementUnsettled
	default:
		return domain.SettlementNone
	}
}

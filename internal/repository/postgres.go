package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
)

// PostgresLedger serves the same three record shapes from typed tables
// instead of a workbook. Each snapshot runs inside one repeatable-read
// transaction so the three reads see a single consistent state.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

const ledgerVersionQuery = `SELECT
	(SELECT count(*) FROM payment_records),
	(SELECT count(*) FROM expenditures),
	(SELECT count(*) FROM fixed_costs),
	(SELECT coalesce(max(updated_at)::text, '') FROM (
		SELECT updated_at FROM payment_records
		UNION ALL SELECT updated_at FROM expenditures
		UNION ALL SELECT updated_at FROM fixed_costs
	) t)`

func (l *PostgresLedger) Version(ctx context.Context) (string, error) {
	var np, ne, nf int64
	var maxUpdated string
	if err := l.db.QueryRowContext(ctx, ledgerVersionQuery).Scan(&np, &ne, &nf, &maxUpdated); err != nil {
		return "", fmt.Errorf("ledger version: %w", err)
	}
	return fmt.Sprintf("%d-%d-%d-%s", np, ne, nf, maxUpdated), nil
}

func (l *PostgresLedger) Snapshot(ctx context.Context) (*domain.LedgerSnapshot, error) {
	tx, err := l.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin ledger snapshot: %w", err)
	}
	defer tx.Rollback()

	snap := &domain.LedgerSnapshot{}

	var np, ne, nf int64
	var maxUpdated string
	if err := tx.QueryRowContext(ctx, ledgerVersionQuery).Scan(&np, &ne, &nf, &maxUpdated); err != nil {
		return nil, fmt.Errorf("ledger version: %w", err)
	}
	snap.Version = fmt.Sprintf("%d-%d-%d-%s", np, ne, nf, maxUpdated)

	if snap.Payments, err = l.payments(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Expenditures, err = l.expenditures(ctx, tx); err != nil {
		return nil, err
	}
	if snap.FixedCosts, err = l.fixedCosts(ctx, tx); err != nil {
		return nil, err
	}

	return snap, nil
}

func (l *PostgresLedger) payments(ctx context.Context, tx *sql.Tx) ([]domain.PaymentRecord, error) {
	rows, err := tx.QueryContext(ctx, `SELECT contract_amount, contract_date, payment_actual_date, payment_status FROM payment_records`)
	if err != nil {
		return nil, fmt.Errorf("read payment_records: %w", err)
	}
	defer rows.Close()

	var out []domain.PaymentRecord
	for rows.Next() {
		var p domain.PaymentRecord
		var amount decimal.NullDecimal
		var contractDate, actualDate sql.NullTime
		var status sql.NullString
		if err := rows.Scan(&amount, &contractDate, &actualDate, &status); err != nil {
			return nil, fmt.Errorf("scan payment_records: %w", err)
		}
		p.ContractAmount = amount.Decimal
		if contractDate.Valid {
			d := contractDate.Time
			p.ContractDate = &d
		}
		if actualDate.Valid {
			d := actualDate.Time
			p.PaymentActualDate = &d
		}
		if status.String == string(domain.PaymentStatusPaid) {
			p.PaymentStatus = domain.PaymentStatusPaid
		} else {
			p.PaymentStatus = domain.PaymentStatusUnpaid
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (l *PostgresLedger) expenditures(ctx context.Context, tx *sql.Tx) ([]domain.ExpenditureRecord, error) {
	rows, err := tx.QueryContext(ctx, `SELECT date, amount, category, payment_method, settlement_status FROM expenditures`)
	if err != nil {
		return nil, fmt.Errorf("read expenditures: %w", err)
	}
	defer rows.Close()

	var out []domain.ExpenditureRecord
	for rows.Next() {
		var e domain.ExpenditureRecord
		var date sql.NullTime
		var amount decimal.NullDecimal
		var category, method, settlement sql.NullString
		if err := rows.Scan(&date, &amount, &category, &method, &settlement); err != nil {
			return nil, fmt.Errorf("scan expenditures: %w", err)
		}
		if date.Valid {
			d := date.Time
			e.Date = &d
		}
		e.Amount = amount.Decimal
		e.Category = domain.ExpenditureCategory(category.String)
		if e.Category == "" {
			e.Category = domain.CategoryExpense
		}
		e.PaymentMethod = domain.PaymentMethod(method.String)
		if e.PaymentMethod == "" {
			e.PaymentMethod = domain.MethodBankTransfer
		}
		e.SettlementStatus = domain.SettlementStatus(settlement.String)
		if e.SettlementStatus == "" {
			e.SettlementStatus = domain.SettlementNone
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (l *PostgresLedger) fixedCosts(ctx context.Context, tx *sql.Tx) ([]domain.FixedCostEntry, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name, active, amount, start_month FROM fixed_costs`)
	if err != nil {
		return nil, fmt.Errorf("read fixed_costs: %w", err)
	}
	defer rows.Close()

	var out []domain.FixedCostEntry
	for rows.Next() {
		var f domain.FixedCostEntry
		var name sql.NullString
		var amount decimal.NullDecimal
		var start sql.NullTime
		if err := rows.Scan(&name, &f.Active, &amount, &start); err != nil {
			return nil, fmt.Errorf("scan fixed_costs: %w", err)
		}
		f.Name = name.String
		f.Amount = amount.Decimal
		if start.Valid {
			f.StartMonth = domain.YearMonth{Year: start.Time.Year(), Month: start.Time.Month()}
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
)

// ComputePL aggregates revenue and cost buckets for the period. Revenue
// follows PaymentActualDate; records without one are simply not revenue yet.
// Absent data yields zeros, never an error.
func (s *StatementService) ComputePL(ctx context.Context, period domain.Period) (domain.ProfitAndLoss, error) {
	key := s.cacheKey(ctx, "pl", period.String())
	var pl domain.ProfitAndLoss
	if s.cacheGet(ctx, key, &pl) {
		return pl, nil
	}

	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return domain.ProfitAndLoss{}, fmt.Errorf("profit and loss %s: %w", period, err)
	}

	pl = buildPL(snap, period)
	s.cachePut(ctx, key, pl)
	return pl, nil
}

func buildPL(snap *domain.LedgerSnapshot, period domain.Period) domain.ProfitAndLoss {
	revenue := decimal.Zero
	for _, p := range snap.Payments {
		if period.Contains(p.PaymentActualDate) {
			revenue = revenue.Add(p.ContractAmount)
		}
	}

	costOfSales := decimal.Zero
	salaries := decimal.Zero
	for _, e := range snap.Expenditures {
		if !period.Contains(e.Date) {
			continue
		}
		switch e.Category {
		case domain.CategorySalary:
			salaries = salaries.Add(e.Amount)
		default:
			costOfSales = costOfSales.Add(e.Amount)
		}
	}

	fixed := fixedCostCharge(snap.FixedCosts, period)

	gross := revenue.Sub(costOfSales)
	operating := gross.Sub(salaries).Sub(fixed)

	return domain.ProfitAndLoss{
		Period:          period.String(),
		Revenue:         revenue,
		CostOfSales:     costOfSales,
		GrossProfit:     gross,
		SalaryExpenses:  salaries,
		FixedCosts:      fixed,
		OperatingProfit: operating,
		// no tax or extraordinary items in this model
		NetProfit:   operating,
		GeneratedAt: time.Now().UTC(),
	}
}

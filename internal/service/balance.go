package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
)

// ComputeBS reconstructs the balance sheet as of the last day of the period.
// Cash is re-derived from the supplied baseline over the full ledger history
// on every call; retained earnings is the residual that forces
// totalAssets == totalLiabilities + totalNetAssets to hold.
func (s *StatementService) ComputeBS(ctx context.Context, period domain.Period, initialCash, capital decimal.Decimal) (domain.BalanceSheet, error) {
	key := s.cacheKey(ctx, "bs", period.String(), initialCash.String(), capital.String())
	var bs domain.BalanceSheet
	if s.cacheGet(ctx, key, &bs) {
		return bs, nil
	}

	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return domain.BalanceSheet{}, fmt.Errorf("balance sheet %s: %w", period, err)
	}

	bs = buildBS(snap, period, initialCash, capital)
	s.cachePut(ctx, key, bs)
	return bs, nil
}

func buildBS(snap *domain.LedgerSnapshot, period domain.Period, initialCash, capital decimal.Decimal) domain.BalanceSheet {
	asOf := period.AsOfDate()

	cash := initialCash
	receivable := decimal.Zero
	for _, p := range snap.Payments {
		if domain.OnOrBefore(p.PaymentActualDate, asOf) {
			cash = cash.Add(p.ContractAmount)
		}
		// contracted but not yet collected
		if domain.OnOrBefore(p.ContractDate, asOf) && p.Outstanding() {
			receivable = receivable.Add(p.ContractAmount)
		}
	}

	payable := decimal.Zero
	spentAll := decimal.Zero
	for _, e := range snap.Expenditures {
		if !domain.OnOrBefore(e.Date, asOf) {
			continue
		}
		spentAll = spentAll.Add(e.Amount)
		if e.CashOutflow() {
			cash = cash.Sub(e.Amount)
		}
		if e.UnsettledReimbursement() {
			payable = payable.Add(e.Amount)
		}
	}

	fixedAccrued := fixedCostAccrued(snap.FixedCosts, period.AsOfMonth())
	cash = cash.Sub(fixedAccrued)

	totalCurrentAssets := cash.Add(receivable)
	totalAssets := totalCurrentAssets // no fixed assets in this model
	totalLiabilities := payable

	retained := totalAssets.Sub(totalLiabilities).Sub(capital)
	netAssets := capital.Add(retained)

	// Reconciliation diagnostic: net profit accumulated over the whole
	// ledger history through the as-of date. Divergence from the derived
	// retained earnings is reported, never corrected; it usually reflects
	// unmodeled items (opening baselines, uncollected contracts) rather
	// than a broken ledger, but it should stay visible.
	collected := decimal.Zero
	for _, p := range snap.Payments {
		if domain.OnOrBefore(p.PaymentActualDate, asOf) {
			collected = collected.Add(p.ContractAmount)
		}
	}
	cumulativeNetProfit := collected.Sub(spentAll).Sub(fixedAccrued)
	if !retained.Equal(cumulativeNetProfit) {
		log.Printf("[BS] %s: derived retained earnings %s diverge from cumulative net profit %s (diff %s)",
			period, retained, cumulativeNetProfit, retained.Sub(cumulativeNetProfit))
	}

	return domain.BalanceSheet{
		Period:              period.String(),
		AsOfDate:            asOf.Format("2006-01-02"),
		Cash:                cash,
		AccountsReceivable:  receivable,
		TotalCurrentAssets:  totalCurrentAssets,
		TotalAssets:         totalAssets,
		AccountsPayable:     payable,
		TotalLiabilities:    totalLiabilities,
		Capital:             capital,
		RetainedEarnings:    retained,
		TotalNetAssets:      netAssets,
		CumulativeNetProfit: cumulativeNetProfit,
		GeneratedAt:         time.Now().UTC(),
	}
}

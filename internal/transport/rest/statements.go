package rest

import (
	"log"
	"net/http"

	"github.com/shopspring/decimal"
)

func (h *Handler) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	pl, err := h.statements.ComputePL(r.Context(), period)
	if err != nil {
		log.Printf("[HTTP] computePL %s error: %v", period, err)
		ErrorInternal(w, "failed to compute profit and loss")
		return
	}

	Success(w, "", pl)
}

func (h *Handler) balanceSheet(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	initialCash, err := decimalParam(r, "initial_cash", decimal.Zero)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}
	capital, err := decimalParam(r, "capital", h.statements.DefaultCapitalValue())
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	bs, err := h.statements.ComputeBS(r.Context(), period, initialCash, capital)
	if err != nil {
		log.Printf("[HTTP] computeBS %s error: %v", period, err)
		ErrorInternal(w, "failed to compute balance sheet")
		return
	}

	Success(w, "", bs)
}

func (h *Handler) cashFlow(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r)
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	openingCash, err := optionalDecimalParam(r, "opening_cash")
	if err != nil {
		ErrorBadRequest(w, err.Error())
		return
	}

	cf, err := h.statements.ComputeCF(r.Context(), period, openingCash)
	if err != nil {
		log.Printf("[HTTP] computeCF %s error: %v", period, err)
		ErrorInternal(w, "failed to compute cash flow statement")
		return
	}

	Success(w, "", cf)
}

package rest

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
	"pubops-finance/internal/service"
)

type statementsExportRequest struct {
	Year        int     `json:"year"`
	Month       *int    `json:"month"`
	InitialCash *string `json:"initial_cash"`
	Capital     *string `json:"capital"`
}

func (h *Handler) exportStatements(w http.ResponseWriter, r *http.Request) {
	var req statementsExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	if req.Year == 0 {
		ErrorBadRequest(w, "year is required")
		return
	}
	period := domain.Period{Year: req.Year}
	if req.Month != nil {
		if *req.Month < 1 || *req.Month > 12 {
			ErrorBadRequest(w, "month must be an integer between 1 and 12")
			return
		}
		period.Month = time.Month(*req.Month)
	}

	initialCash := decimal.Zero
	if req.InitialCash != nil && *req.InitialCash != "" {
		d, err := decimal.NewFromString(*req.InitialCash)
		if err != nil {
			ErrorBadRequest(w, "initial_cash must be a decimal number")
			return
		}
		initialCash = d
	}
	capital := h.statements.DefaultCapitalValue()
	if req.Capital != nil && *req.Capital != "" {
		d, err := decimal.NewFromString(*req.Capital)
		if err != nil {
			ErrorBadRequest(w, "capital must be a decimal number")
			return
		}
		capital = d
	}

	exportID, err := h.exports.StartStatementsExport(r.Context(), service.StatementsExportParams{
		Period:      period,
		InitialCash: initialCash,
		Capital:     capital,
	})
	if err != nil {
		log.Printf("[HTTP] startStatementsExport error: %v", err)
		ErrorInternal(w, "failed to start export")
		return
	}

	SuccessAccepted(w, "Export queued", map[string]interface{}{"export_id": exportID})
}

func (h *Handler) listExports(w http.ResponseWriter, r *http.Request) {
	exports, err := h.exports.GetExports(r.Context())
	if err != nil {
		log.Printf("[HTTP] listExports error: %v", err)
		ErrorInternal(w, "failed to get exports")
		return
	}

	Success(w, "", exports)
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	exportIDParam := chi.URLParam(r, "export_id")
	if exportIDParam == "" {
		ErrorBadRequest(w, "export_id is required")
		return
	}
	exportID := "exports:" + exportIDParam

	export, err := h.exports.GetExport(r.Context(), exportID)
	if err != nil {
		log.Printf("[HTTP] getExport error: %v", err)
		ErrorNotFound(w, "export not found")
		return
	}

	Success(w, "", export)
}

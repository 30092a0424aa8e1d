package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"pubops-finance/internal/domain"
	"pubops-finance/internal/service"
)

type StatementService interface {
	ComputePL(ctx context.Context, period domain.Period) (domain.ProfitAndLoss, error)
	ComputeBS(ctx context.Context, period domain.Period, initialCash, capital decimal.Decimal) (domain.BalanceSheet, error)
	ComputeCF(ctx context.Context, period domain.Period, openingCash *decimal.Decimal) (domain.CashFlowStatement, error)
	DefaultCapitalValue() decimal.Decimal
}

type ExportService interface {
	StartStatementsExport(ctx context.Context, p service.StatementsExportParams) (string, error)
	GetExports(ctx context.Context) ([]map[string]any, error)
	GetExport(ctx context.Context, exportID string) (map[string]any, error)
}

type Handler struct {
	statements StatementService
	exports    ExportService
}

func NewHandler(statements StatementService, exports ExportService) *Handler {
	return &Handler{
		statements: statements,
		exports:    exports,
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	return h.InitRouterWithAuth(nil)
}

func (h *Handler) InitRouterWithAuth(authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}

	r.Route("/statements", func(r chi.Router) {
		r.Get("/pl", h.profitAndLoss)
		r.Get("/bs", h.balanceSheet)
		r.Get("/cf", h.cashFlow)
	})

	r.Route("/export", func(r chi.Router) {
		r.Get("/", h.listExports)
		r.Get("/{export_id}", h.getExport)
		r.Post("/statements", h.exportStatements)
	})

	return r
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"pubops-finance/internal/clients"
	"pubops-finance/internal/domain"
)

type ExportStatus struct {
	Key      string    `json:"key"`
	Type     string    `json:"type"`
	Params   any       `json:"params"`
	Progress float64   `json:"progress"`
	FileURL  *string   `json:"file_url"`
	Error    *string   `json:"error,omitempty"`
	Created  time.Time `json:"created_at"`
}

const (
	exportSetKey = "export_ids"
	exportTTL    = 20 * time.Minute
)

// StatementComputer is what the export pipeline needs from the engine.
type StatementComputer interface {
	ComputePL(ctx context.Context, period domain.Period) (domain.ProfitAndLoss, error)
	ComputeBS(ctx context.Context, period domain.Period, initialCash, capital decimal.Decimal) (domain.BalanceSheet, error)
	ComputeCF(ctx context.Context, period domain.Period, openingCash *decimal.Decimal) (domain.CashFlowStatement, error)
}

// ExportService renders the three statements for a period into a workbook,
// saves it through the storage client and tracks job status in redis so the
// dashboard can poll or listen on the websocket.
type ExportService struct {
	statements StatementComputer
	redis      *clients.RedisClient
	storage    *clients.StorageClient
	ws         *clients.WebSocketClient
}

func NewExportService(statements StatementComputer, redis *clients.RedisClient, storage *clients.StorageClient, ws *clients.WebSocketClient) *ExportService {
	return &ExportService{statements: statements, redis: redis, storage: storage, ws: ws}
}

type StatementsExportParams struct {
	Period      domain.Period
	InitialCash decimal.Decimal
	Capital     decimal.Decimal
}

func (s *ExportService) saveExportStatus(ctx context.Context, st *ExportStatus) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, st.Key, string(data), exportTTL); err != nil {
		return err
	}
	return s.redis.SAdd(ctx, exportSetKey, st.Key)
}

func (s *ExportService) StartStatementsExport(ctx context.Context, p StatementsExportParams) (string, error) {
	exportID := fmt.Sprintf("exports:%s", uuid.NewString())

	status := &ExportStatus{
		Key:  exportID,
		Type: "statements",
		Params: map[string]any{
			"period":       p.Period.String(),
			"initial_cash": p.InitialCash.String(),
			"capital":      p.Capital.String(),
		},
		Progress: 0,
		Created:  time.Now(),
	}
	_ = s.saveExportStatus(ctx, status)

	go s.runStatementsExport(context.Background(), status, p)

	return exportID, nil
}

func (s *ExportService) runStatementsExport(ctx context.Context, status *ExportStatus, p StatementsExportParams) {
	fail := func(err error) {
		errStr := err.Error()
		log.Printf("export %s: %s", status.Key, errStr)
		status.Error = &errStr
		status.Progress = 100
		_ = s.saveExportStatus(ctx, status)
		if s.ws != nil {
			_ = s.ws.NotifyExportFailed(ctx, status.Key, errStr)
		}
	}

	pl, err := s.statements.ComputePL(ctx, p.Period)
	if err != nil {
		fail(err)
		return
	}
	s.progress(ctx, status, 25, "generating")

	bs, err := s.statements.ComputeBS(ctx, p.Period, p.InitialCash, p.Capital)
	if err != nil {
		fail(err)
		return
	}
	s.progress(ctx, status, 50, "generating")

	cf, err := s.statements.ComputeCF(ctx, p.Period, nil)
	if err != nil {
		fail(err)
		return
	}
	s.progress(ctx, status, 75, "generating")

	f := renderStatementsWorkbook(pl, bs, cf)
	buf, err := f.WriteToBuffer()
	if err != nil {
		fail(fmt.Errorf("render workbook: %w", err))
		return
	}

	s.progress(ctx, status, 95, "uploading")

	fileName := fmt.Sprintf("statements_%s_%s.xlsx", p.Period, time.Now().Format("20060102_150405"))
	saved, err := s.storage.Save(ctx, fileName, buf.Bytes())
	if err != nil {
		fail(fmt.Errorf("save export: %w", err))
		return
	}

	url := s.storage.GetURL(saved)
	status.FileURL = &url
	status.Progress = 100
	_ = s.saveExportStatus(ctx, status)
	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, status.Key, 100, "ready")
		_ = s.ws.NotifyExportComplete(ctx, status.Key, url, fileName)
	}
}

func (s *ExportService) progress(ctx context.Context, status *ExportStatus, pct float64, stage string) {
	status.Progress = pct
	_ = s.saveExportStatus(ctx, status)
	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, status.Key, pct, stage)
	}
}

type statementRow struct {
	Label string
	Value decimal.Decimal
}

func renderStatementsWorkbook(pl domain.ProfitAndLoss, bs domain.BalanceSheet, cf domain.CashFlowStatement) *excelize.File {
	f := excelize.NewFile()

	writeSheet(f, "P&L", pl.Period, []statementRow{
		{"Revenue", pl.Revenue},
		{"Cost of Sales", pl.CostOfSales},
		{"Gross Profit", pl.GrossProfit},
		{"Salary Expenses", pl.SalaryExpenses},
		{"Fixed Costs", pl.FixedCosts},
		{"Operating Profit", pl.OperatingProfit},
		{"Net Profit", pl.NetProfit},
	})
	writeSheet(f, "Balance Sheet", bs.Period+" (as of "+bs.AsOfDate+")", []statementRow{
		{"Cash", bs.Cash},
		{"Accounts Receivable", bs.AccountsReceivable},
		{"Total Current Assets", bs.TotalCurrentAssets},
		{"Total Assets", bs.TotalAssets},
		{"Accounts Payable", bs.AccountsPayable},
		{"Total Liabilities", bs.TotalLiabilities},
		{"Capital", bs.Capital},
		{"Retained Earnings", bs.RetainedEarnings},
		{"Total Net Assets", bs.TotalNetAssets},
	})
	writeSheet(f, "Cash Flow", cf.Period, []statementRow{
		{"Opening Cash", cf.OpeningCash},
		{"Cash from Customers", cf.CashFromCustomers},
		{"Cash to Suppliers", cf.CashToSuppliers},
		{"Net Operating Cash Flow", cf.NetOperatingCashFlow},
		{"Net Investing Cash Flow", cf.NetInvestingCashFlow},
		{"Net Financing Cash Flow", cf.NetFinancingCashFlow},
		{"Net Cash Flow", cf.NetCashFlow},
		{"Cash at End", cf.CashAtEnd},
	})

	// the default sheet was renamed to P&L above; nothing to delete
	return f
}

func writeSheet(f *excelize.File, sheet, title string, rows []statementRow) {
	if sheet == "P&L" {
		f.SetSheetName(f.GetSheetName(0), sheet)
	} else {
		_, _ = f.NewSheet(sheet)
	}

	_ = f.SetCellValue(sheet, "A1", title)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetCellValue(sheet, cell, row.Label)
		cell, _ = excelize.CoordinatesToCellName(2, i+2)
		_ = f.SetCellValue(sheet, cell, row.Value.InexactFloat64())
	}
}

func (s *ExportService) GetExports(ctx context.Context) ([]map[string]any, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	keys, err := s.redis.SMembers(ctx, exportSetKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get export keys: %w", err)
	}

	var statuses []ExportStatus
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key)
		if err != nil {
			continue // expired
		}
		var status ExportStatus
		if err := json.Unmarshal([]byte(data), &status); err != nil {
			continue
		}
		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Created.After(statuses[j].Created)
	})

	out := make([]map[string]any, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, exportMap(status))
	}
	return out, nil
}

func (s *ExportService) GetExport(ctx context.Context, exportID string) (map[string]any, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	data, err := s.redis.Get(ctx, exportID)
	if err != nil {
		return nil, errors.New("export not found")
	}

	var status ExportStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("failed to parse export status: %w", err)
	}

	return exportMap(status), nil
}

func exportMap(status ExportStatus) map[string]any {
	return map[string]any{
		"key":        status.Key,
		"type":       status.Type,
		"params":     status.Params,
		"progress":   status.Progress,
		"file_url":   status.FileURL,
		"error":      status.Error,
		"created_at": humanizeAgo(status.Created),
	}
}

func humanizeAgo(t time.Time) string {
	now := time.Now()
	if t.After(now) {
		return "just now"
	}

	diff := now.Sub(t)
	minutes := int(diff.Minutes())
	switch {
	case minutes < 1:
		return "just now"
	case minutes == 1:
		return "1 minute ago"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	hours := minutes / 60
	switch {
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := hours / 24
	if days == 1 {
		return "1 day ago"
	}
	if days < 30 {
		return fmt.Sprintf("%d days ago", days)
	}
	return t.Format("2006-01-02 15:04")
}

package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"pubops-finance/internal/clients"
	"pubops-finance/internal/domain"
)

// Ledger is a single logical read over the three transaction ledgers. One
// Snapshot backs one statement, so a half-edited spreadsheet can never leak
// into a result. Version must be cheap; it only gates the statement cache.
type Ledger interface {
	Snapshot(ctx context.Context) (*domain.LedgerSnapshot, error)
	Version(ctx context.Context) (string, error)
}

// DefaultCapital is the paid-in capital assumed when a caller supplies none.
var DefaultCapital = decimal.NewFromInt(1_000_000)

const statementCacheTTL = 2 * time.Minute

// StatementService derives P&L, Balance Sheet and Cash Flow statements from
// ledger snapshots. Every call re-derives full history from raw records;
// the redis cache is a pure optimization keyed by (statement, period,
// baseline, ledger version) and a nil client disables it.
type StatementService struct {
	ledger  Ledger
	redis   *clients.RedisClient
	capital decimal.Decimal
}

func NewStatementService(ledger Ledger, redis *clients.RedisClient, defaultCapital decimal.Decimal) *StatementService {
	if defaultCapital.IsZero() {
		defaultCapital = DefaultCapital
	}
	return &StatementService{ledger: ledger, redis: redis, capital: defaultCapital}
}

// DefaultCapitalValue is the capital used when the caller omits the
// parameter, and for the one-step-back opening balance recursion.
func (s *StatementService) DefaultCapitalValue() decimal.Decimal {
	return s.capital
}

func (s *StatementService) cacheKey(ctx context.Context, kind string, parts ...string) string {
	if s.redis == nil {
		return ""
	}
	version, err := s.ledger.Version(ctx)
	if err != nil {
		// upstream will surface the real failure on Snapshot
		return ""
	}
	key := "stmt:" + kind
	for _, p := range parts {
		key += ":" + p
	}
	return key + ":" + version
}

func (s *StatementService) cacheGet(ctx context.Context, key string, v any) bool {
	if s.redis == nil || key == "" {
		return false
	}
	data, err := s.redis.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		log.Printf("[STMT] cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (s *StatementService) cachePut(ctx context.Context, key string, v any) {
	if s.redis == nil || key == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, string(data), statementCacheTTL); err != nil {
		log.Printf("[STMT] cache write %s: %v", key, err)
	}
}

package config

import (
	"log"
	"os"
	"strconv"
)

// Ledger backends. The workbook backends read the three ledger sheets from
// an xlsx file; postgres reads the same shapes from typed tables.
const (
	BackendXLSX     = "xlsx"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout int
	Timeout     int
	Prefix      string
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Object          string
	UseSSL          bool
	Region          string
}

type LedgerConfig struct {
	Backend      string
	WorkbookPath string
	Payments     string
	Expenditures string
	FixedCosts   string
}

type AppConfig struct {
	Port     string
	APIToken string

	Ledger   LedgerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	S3       S3Config

	ExportDir         string
	FilesPublicPrefix string
	ExternalURL       string

	// DefaultCapital is the paid-in capital assumed when a request omits it.
	DefaultCapital string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int value %q: %v", s, err)
	}
	return i
}

func mustBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		log.Fatalf("invalid bool value %q: %v", s, err)
	}
	return b
}

// Load reads the whole configuration from the environment once, in main.
// Everything below cmd/ receives explicit values so the engine can be
// exercised in tests without touching process env.
func Load() AppConfig {
	return AppConfig{
		Port:     getenv("APP_PORT", "8020"),
		APIToken: getenv("API_TOKEN", ""),
		Ledger: LedgerConfig{
			Backend:      getenv("LEDGER_BACKEND", BackendXLSX),
			WorkbookPath: getenv("LEDGER_WORKBOOK", "./ledger.xlsx"),
			Payments:     getenv("LEDGER_SHEET_PAYMENTS", "payments"),
			Expenditures: getenv("LEDGER_SHEET_EXPENDITURES", "expenditures"),
			FixedCosts:   getenv("LEDGER_SHEET_FIXED_COSTS", "fixed_costs"),
		},
		Postgres: PostgresConfig{
			Host:     getenv("PG_HOST", "127.0.0.1"),
			Port:     mustAtoi(getenv("PG_PORT", "5432")),
			User:     getenv("PG_USER", "root"),
			Password: getenv("PG_PASSWORD", ""),
			DBName:   getenv("PG_DB", "pubops"),
			SSLMode:  getenv("PG_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:        getenv("REDIS_ADDR", ""),
			Password:    getenv("REDIS_PASSWORD", ""),
			DB:          mustAtoi(getenv("REDIS_DB", "0")),
			MaxRetries:  mustAtoi(getenv("REDIS_MAX_RETRIES", "5")),
			DialTimeout: mustAtoi(getenv("REDIS_DIAL_TIMEOUT", "10")),
			Timeout:     mustAtoi(getenv("REDIS_TIMEOUT", "5")),
			Prefix:      getenv("REDIS_PREFIX", "pubops_finance_"),
		},
		S3: S3Config{
			Endpoint:        getenv("S3_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getenv("S3_ACCESS_KEY", "minio"),
			SecretAccessKey: getenv("S3_SECRET_KEY", "minio123"),
			Bucket:          getenv("S3_BUCKET", "ledgers"),
			Object:          getenv("S3_OBJECT", "ledger.xlsx"),
			Region:          getenv("S3_REGION", "us-east-1"),
			UseSSL:          mustBool(getenv("S3_USE_SSL", "false")),
		},
		ExportDir:         getenv("EXPORT_DIR", "./exports"),
		FilesPublicPrefix: getenv("FILES_PUBLIC_PREFIX", "/files"),
		ExternalURL:       getenv("EXTERNAL_URL", ""),
		DefaultCapital:    getenv("DEFAULT_CAPITAL", "1000000"),
	}
}

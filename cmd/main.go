package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"pubops-finance/internal/clients"
	"pubops-finance/internal/config"
	"pubops-finance/internal/repository"
	"pubops-finance/internal/service"
	"pubops-finance/internal/sheets"
	"pubops-finance/internal/transport/auth"
	"pubops-finance/internal/transport/rest"
	"pubops-finance/internal/transport/websocket"
	"pubops-finance/pkg/database/postgres"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env or defaults")
	}

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Load()

	ledger, dbClose := mustInitLedger(cfg)
	if dbClose != nil {
		defer dbClose()
	}

	var redisClient *clients.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient = mustInitRedis(cfg.Redis)
		defer redisClient.Close()
	} else {
		log.Println("REDIS_ADDR not set: statement cache and export tracking disabled")
	}

	storageClient, err := clients.NewLocalStorage(cfg.ExportDir, cfg.FilesPublicPrefix, cfg.ExternalURL)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)
	wsClient := clients.NewWebSocketClient(wsHub)

	capital, err := decimal.NewFromString(cfg.DefaultCapital)
	if err != nil {
		log.Fatalf("invalid DEFAULT_CAPITAL %q: %v", cfg.DefaultCapital, err)
	}

	statementSvc := service.NewStatementService(ledger, redisClient, capital)
	exportSvc := service.NewExportService(statementSvc, redisClient, storageClient, wsClient)

	tokenMiddleware := auth.TokenMiddleware(cfg.APIToken)

	handler := rest.NewHandler(statementSvc, exportSvc)
	router := handler.InitRouterWithAuth(tokenMiddleware)

	// public root router with the protected API mounted underneath so
	// /files and /health stay reachable without a token
	root := chi.NewRouter()

	root.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	// serve generated statement workbooks
	root.Get("/files/{file}", func(w http.ResponseWriter, r *http.Request) {
		file := chi.URLParam(r, "file")
		path := filepath.Join(storageClient.BaseDir, file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "failed to access file", http.StatusInternalServerError)
			return
		}

		// prefer original filename in Content-Disposition (strip random prefix)
		orig := file
		if idx := strings.IndexByte(file, '_'); idx >= 0 {
			orig = file[idx+1:]
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orig))

		http.ServeFile(w, r, path)
	})

	// protected websocket endpoint for dashboard live updates
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		wsHub.HandleWebSocket(w, r)
	})

	root.Mount("/", router)

	corsHandler := withCORS(root)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on :%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	// delete generated exports older than 30 minutes
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := storageClient.CleanupOlderThan(30 * time.Minute); err != nil {
					log.Printf("storage cleanup error: %v", err)
				}
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("Shutdown signal received: %v", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server Shutdown error: %v", err)
		}

		// cancel top-level context so background services (websocket hub) stop
		cancel()

		log.Println("Shutdown complete")
	}
}

// mustInitLedger builds the snapshot source for the configured backend.
// The second return closes the postgres pool when that backend is in use.
func mustInitLedger(cfg config.AppConfig) (service.Ledger, func()) {
	tables := repository.SheetTables{
		Payments:     cfg.Ledger.Payments,
		Expenditures: cfg.Ledger.Expenditures,
		FixedCosts:   cfg.Ledger.FixedCosts,
	}

	switch cfg.Ledger.Backend {
	case config.BackendXLSX:
		return repository.NewSheetLedger(sheets.FileSource{Path: cfg.Ledger.WorkbookPath}, tables), nil

	case config.BackendS3:
		src, err := sheets.NewS3Source(sheets.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			Object:          cfg.S3.Object,
			UseSSL:          cfg.S3.UseSSL,
			Region:          cfg.S3.Region,
		})
		if err != nil {
			log.Fatalf("s3 ledger init error: %v", err)
		}
		return repository.NewSheetLedger(src, tables), nil

	case config.BackendPostgres:
		db := mustInitPostgres(cfg.Postgres)
		return repository.NewPostgresLedger(db), func() { postgres.Close(db) }

	default:
		log.Fatalf("unknown LEDGER_BACKEND %q", cfg.Ledger.Backend)
		return nil, nil
	}
}

func mustInitPostgres(cfg config.PostgresConfig) *sql.DB {
	db, err := postgres.NewPostgresConnection(postgres.ConnectionInfo{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
		Password: cfg.Password,
	})
	if err != nil {
		log.Fatalf("postgres init error: %v", err)
	}
	return db
}

func mustInitRedis(cfg config.RedisConfig) *clients.RedisClient {
	client, err := clients.NewRedisClient(clients.RedisConfig{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: time.Duration(cfg.DialTimeout) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		Prefix:      cfg.Prefix,
	})
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	return client
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

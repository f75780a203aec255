// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listing-credit-ledger/internal/config"
	pg "listing-credit-ledger/internal/infra/db/postgres"
	"listing-credit-ledger/internal/infra/logging"
	"listing-credit-ledger/internal/infra/metrics"
	red "listing-credit-ledger/internal/infra/redis"
	"listing-credit-ledger/internal/infra/sched"
	"listing-credit-ledger/internal/infra/web"
	"listing-credit-ledger/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, int32(cfg.Database.PoolSize))
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	typeRepo := pg.NewCreditTypeRepoCacheDecorator(pg.NewCreditTypeRepo(pool), redisClient, cfg.Redis.TTL)
	creditRepo := pg.NewCreditRepo(pool)
	consumptionRepo := pg.NewConsumptionRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Use cases ----
	typeUC := usecase.NewCreditTypeUseCase(typeRepo, logger)
	creditUC := usecase.NewCreditUseCase(typeRepo, creditRepo, logger)
	consumeUC := usecase.NewConsumptionUseCase(creditRepo, consumptionRepo, txManager, logger)
	availUC := usecase.NewAvailabilityUseCase(typeRepo, creditRepo, consumptionRepo, logger)
	statsUC := usecase.NewStatsUseCase(creditRepo, consumptionRepo, logger)

	// ---- Metrics ----
	metrics.MustRegister()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				totals, err := statsUC.Totals(ctx)
				if err != nil {
					logger.Warn().Err(err).Msg("metrics refresh failed")
					continue
				}
				metrics.SetLedgerOutstanding(totals.Outstanding)
				metrics.SetCreditsBySKU(totals.CreditsBySKU)
			}
		}
	}()

	// ---- Refill worker ----
	if cfg.Ledger.RefillEnabled {
		worker := sched.NewRefillWorker(cfg.Ledger.RefillInterval, cfg.Ledger.RefillPeriod, creditRepo, creditUC, locker, logger)
		go func() { _ = worker.Run(ctx) }()
	}

	// ---- Admin API ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, cfg.Admin.SessionTTL)
	srv := web.NewServer(typeUC, creditUC, consumeUC, availUC, statsUC, auth, cfg.Admin.Password, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}

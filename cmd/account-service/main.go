package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	ahttp "github.com/h2w/wager-platform/internal/account/http"
	arepo "github.com/h2w/wager-platform/internal/account/repo"
	"github.com/h2w/wager-platform/internal/ledger"
	"github.com/h2w/wager-platform/internal/shared/config"
	"github.com/h2w/wager-platform/internal/shared/db"
	"github.com/h2w/wager-platform/internal/shared/logger"
	"github.com/h2w/wager-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("account-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Postgres: diretório de usuários + criação da conta no ledger
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	led := ledger.NewPostgres(pg)
	dir := arepo.NewPostgres(pg, led)
	api := ahttp.NewServer(log, dir, cfg.JWTSecret)

	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("account-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}

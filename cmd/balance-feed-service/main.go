package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/h2w/wager-platform/internal/balancefeed/ws"
	"github.com/h2w/wager-platform/internal/shared/cache"
	"github.com/h2w/wager-platform/internal/shared/config"
	"github.com/h2w/wager-platform/internal/shared/logger"
	"github.com/h2w/wager-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("balance-feed-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Redis: fonte das notificações de saldo
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	hub := ws.NewHub(ws.AllowOrigins(cfg.Env, cfg.WSAllowedOrigins))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ws.RunRedisSubscriber(ctx, log, rdb, cfg.RedisPubSubChannel, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/balance", hub.HandleWS)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("balance-feed listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.Fatal("ws srv", zap.Error(err))
	}
}

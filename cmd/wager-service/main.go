package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/h2w/wager-platform/internal/game"
	"github.com/h2w/wager-platform/internal/history"
	"github.com/h2w/wager-platform/internal/ledger"
	"github.com/h2w/wager-platform/internal/shared/cache"
	"github.com/h2w/wager-platform/internal/shared/config"
	"github.com/h2w/wager-platform/internal/shared/db"
	skafka "github.com/h2w/wager-platform/internal/shared/kafka"
	"github.com/h2w/wager-platform/internal/shared/logger"
	"github.com/h2w/wager-platform/internal/shared/metrics"
	"github.com/h2w/wager-platform/internal/wager"
	whttp "github.com/h2w/wager-platform/internal/wager/http"
	kpub "github.com/h2w/wager-platform/internal/wager/producer"
	"github.com/h2w/wager-platform/internal/wager/pubsub"
	wrepo "github.com/h2w/wager-platform/internal/wager/repo"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("wager-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Postgres: ledger de saldo + rodadas
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	// Redis: canal de notificação de saldo
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Kafka writer (topic wager_settled)
	writer := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerSettled)
	defer writer.Close()

	// deps do core
	led := ledger.NewPostgres(pg)
	rounds := wrepo.NewPostgres(pg, led)
	drawer := game.NewGenerator(game.NewSeedManager())
	plays := history.NewPostgres(pg)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicWagerSettled)
	notif := pubsub.NewRedisBroadcaster(rdb, cfg.RedisPubSubChannel)

	core := wager.NewService(log, led, rounds, drawer, plays, publ, notif)

	// HTTP público
	api := whttp.NewServer(log, core)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(cfg.JWTSecret),
	}

	// metrics/health em porta separada
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	log.Info("wager-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}

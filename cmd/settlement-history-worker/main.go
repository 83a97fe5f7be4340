package main

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/h2w/wager-platform/internal/history"
	"github.com/h2w/wager-platform/internal/shared/config"
	"github.com/h2w/wager-platform/internal/shared/db"
	"github.com/h2w/wager-platform/internal/shared/kafka"
	"github.com/h2w/wager-platform/internal/shared/logger"
	"github.com/h2w/wager-platform/internal/shared/metrics"
	ev "github.com/h2w/wager-platform/pkg/contracts/events"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("settlement-history-worker", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres para materializar o histórico de partidas
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()
	repo := history.NewPostgres(pg)

	// Kafka consumer: eventos wager_settled
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicWagerSettled, "settlement-history")
	defer reader.Close()

	// DLQ para mensagens que não puderam ser gravadas
	var dlqWriter *kafkago.Writer
	if cfg.TopicWagerSettledDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicWagerSettledDLQ)
		defer dlqWriter.Close()
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("settlement-history-worker started",
		zap.String("consume", cfg.TopicWagerSettled),
	)

	ctx := context.Background()

	// Loop principal: consome eventos do Kafka e grava o histórico
	for {
		key, value, err := kafka.ReadNext(ctx, reader)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var settled ev.WagerSettled
		if jerr := json.Unmarshal(value, &settled); jerr != nil {
			log.Error("unmarshal wager_settled", zap.Error(jerr))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, string(key), value)
			}
			continue
		}

		if err := processOne(ctx, repo, &settled); err != nil {
			log.Error("record settlement", zap.String("roundId", settled.RoundID), zap.Error(err))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, settled.RoundID, value)
			}
			// Backoff simples para evitar flood em caso de erro
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// processOne grava a liquidação no histórico com retry limitado.
// O insert é idempotente por round_id, então retry é sempre seguro.
func processOne(ctx context.Context, repo *history.Postgres, settled *ev.WagerSettled) error {
	const retries = 3
	var err error
	for i := 0; i < retries; i++ {
		if err = repo.InsertSettlement(ctx, settled); err == nil {
			return nil
		}
		time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
	}
	return err
}

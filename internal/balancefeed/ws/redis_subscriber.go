package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/h2w/wager-platform/pkg/contracts/events"
)

// RunRedisSubscriber consome o canal pub/sub de mudanças de saldo e
// repassa para o hub. Bloqueia até o contexto ser cancelado.
func RunRedisSubscriber(ctx context.Context, log *zap.Logger, rdb *redis.Client, channel string, hub *Hub) {
	sub := rdb.Subscribe(ctx, channel)
	defer sub.Close()

	log.Info("subscribed to balance channel", zap.String("channel", channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var e events.BalanceChanged
			if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
				log.Warn("bad balance_changed payload", zap.Error(err))
				continue
			}
			hub.Broadcast(BalanceUpdate{
				AccountID:    e.AccountID,
				BalanceCents: e.BalanceCents,
				Version:      e.Version,
				Reason:       e.Reason,
			})
		}
	}
}

package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/h2w/wager-platform/pkg/contracts/events"
)

const ChannelBalanceBroadcast = "balance_updates_broadcast"

// RedisBroadcaster publica notificações de saldo no canal pub/sub que o
// balance-feed-service assina.
type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	if channel == "" {
		channel = ChannelBalanceBroadcast
	}
	return &RedisBroadcaster{r: r, channel: channel}
}

func (b *RedisBroadcaster) PublishBalanceChanged(ctx context.Context, e events.BalanceChanged) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.r.Publish(ctx, b.channel, payload).Err()
}

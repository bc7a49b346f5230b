package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"

	"hospital-admin-go/internal/config"
	"hospital-admin-go/pkg/logger"
)

// RedisBroker fans events out across instances with Redis pub/sub, one
// channel per table.
type RedisBroker struct {
	client *redis.Client
	prefix string
	log    logger.Logger
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisBroker(client *redis.Client, prefix string, log logger.Logger) *RedisBroker {
	return &RedisBroker{
		client: client,
		prefix: prefix,
		log:    log,
	}
}

func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.prefix+event.Table, payload).Err()
}

func (b *RedisBroker) Run(ctx context.Context, deliver func(Event)) error {
	pubsub := b.client.PSubscribe(ctx, b.prefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("redis psubscribe: %w", err)
	}
	b.log.Info("realtime: redis subscribed", "pattern", b.prefix+"*")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.log.Warn("realtime: bad payload", "channel", msg.Channel, "err", err)
				continue
			}
			if event.Table == "" {
				event.Table = strings.TrimPrefix(msg.Channel, b.prefix)
			}
			deliver(event)
		}
	}
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

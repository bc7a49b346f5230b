package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-admin-go/internal/config"
	"hospital-admin-go/pkg/logger"
)

func TestRedisBrokerRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewRedisClient(config.RedisConfig{Addr: mr.Addr()})
	broker := NewRedisBroker(client, "realtime:", logger.Nop())
	require.NoError(t, broker.Ping(context.Background()))

	hub := NewHub(broker, 8, logger.Nop())
	sub, err := hub.Subscribe(TableSchedules)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	// The pattern subscription is asynchronous; keep publishing until the
	// first delivery arrives.
	var got Event
	require.Eventually(t, func() bool {
		hub.Notify(context.Background(), TableSchedules, "UPDATE", "sch-1")
		select {
		case got = <-sub.Events():
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, TableSchedules, got.Table)
	assert.Equal(t, "UPDATE", got.Action)
	assert.Equal(t, "sch-1", got.ID)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, hub.Close())
}

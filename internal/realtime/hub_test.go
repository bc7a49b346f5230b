package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-admin-go/pkg/logger"
)

func TestHubDispatchesOnlyToMatchingTable(t *testing.T) {
	hub := NewHub(nil, 4, logger.Nop())

	cards, err := hub.Subscribe(TableCardRecords)
	require.NoError(t, err)
	defer cards.Close()
	schedules, err := hub.Subscribe(TableSchedules)
	require.NoError(t, err)
	defer schedules.Close()

	hub.Notify(context.Background(), TableCardRecords, "INSERT", "rec-1")

	select {
	case event := <-cards.Events():
		assert.Equal(t, TableCardRecords, event.Table)
		assert.Equal(t, "INSERT", event.Action)
		assert.Equal(t, "rec-1", event.ID)
		assert.False(t, event.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected event")
	}

	select {
	case event := <-schedules.Events():
		t.Fatalf("unexpected event %+v", event)
	default:
	}
}

func TestHubRejectsUnknownTable(t *testing.T) {
	hub := NewHub(nil, 1, logger.Nop())
	_, err := hub.Subscribe("pg_catalog")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub(nil, 1, logger.Nop())
	sub, err := hub.Subscribe(TableCards)
	require.NoError(t, err)

	hub.Dispatch(Event{Table: TableCards, Action: "UPDATE"})
	hub.Dispatch(Event{Table: TableCards, Action: "UPDATE"})

	assert.Equal(t, 0, hub.SubscriberCount(TableCards))

	_, ok := <-sub.Events()
	assert.True(t, ok, "buffered event still readable")
	_, ok = <-sub.Events()
	assert.False(t, ok, "channel closed after drop")

	sub.Close()
}

func TestHubRunsMemoryBroker(t *testing.T) {
	hub := NewHub(NewMemoryBroker(8), 4, logger.Nop())
	sub, err := hub.Subscribe(TableEmployees)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	hub.Notify(ctx, TableEmployees, "DELETE", "emp-9")

	select {
	case event := <-sub.Events():
		assert.Equal(t, "emp-9", event.ID)
	case <-time.After(time.Second):
		t.Fatal("expected event from broker")
	}

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, hub.Close())
	assert.Equal(t, 0, hub.SubscriberCount(TableEmployees))
}

func TestMemoryBrokerFull(t *testing.T) {
	broker := NewMemoryBroker(1)
	require.NoError(t, broker.Publish(context.Background(), Event{Table: TableCards}))
	assert.ErrorIs(t, broker.Publish(context.Background(), Event{Table: TableCards}), ErrBrokerFull)
}

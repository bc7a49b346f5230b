package realtime

import (
	"context"
	"sync"
	"time"

	"hospital-admin-go/pkg/logger"
)

// Broker moves events between processes. Run delivers every received event
// to deliver until ctx is done.
type Broker interface {
	Publish(ctx context.Context, event Event) error
	Run(ctx context.Context, deliver func(Event)) error
	Close() error
}

type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	broker Broker
	buffer int
	log    logger.Logger
}

type Subscription struct {
	table string
	ch    chan Event
	hub   *Hub
	once  sync.Once
}

func NewHub(broker Broker, buffer int, log logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		broker: broker,
		buffer: buffer,
		log:    log,
	}
}

func (h *Hub) Subscribe(table string) (*Subscription, error) {
	if !IsKnownTable(table) {
		return nil, ErrUnknownTable
	}

	sub := &Subscription{
		table: table,
		ch:    make(chan Event, h.buffer),
		hub:   h,
	}

	h.mu.Lock()
	set, ok := h.subs[table]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[table] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	return sub, nil
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Table() string {
	return s.table
}

// Close detaches the subscription and closes its channel. Safe to call more
// than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

func (h *Hub) remove(sub *Subscription) {
	sub.once.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[sub.table]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(h.subs, sub.table)
			}
		}
		close(sub.ch)
	})
}

func (h *Hub) SubscriberCount(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[table])
}

// Dispatch fans an event out to local subscribers. A subscriber whose buffer
// is full is dropped.
func (h *Hub) Dispatch(event Event) {
	// Sends happen under the read lock so remove cannot close a channel
	// mid-send.
	var slow []*Subscription
	h.mu.RLock()
	for sub := range h.subs[event.Table] {
		select {
		case sub.ch <- event:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.log.Warn("realtime: dropping slow subscriber", "table", event.Table)
		h.remove(sub)
	}
}

// Notify publishes a change through the broker. Failures are logged only.
func (h *Hub) Notify(ctx context.Context, table, action, id string) {
	event := Event{
		Table:  table,
		Action: action,
		ID:     id,
		At:     time.Now().UTC(),
	}

	if h.broker == nil {
		h.Dispatch(event)
		return
	}
	if err := h.broker.Publish(context.WithoutCancel(ctx), event); err != nil {
		h.log.Error("realtime: publish failed", "table", table, "action", action, "id", id, "err", err)
	}
}

// Run pumps broker deliveries into local subscribers until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	if h.broker == nil {
		<-ctx.Done()
		return nil
	}
	return h.broker.Run(ctx, h.Dispatch)
}

func (h *Hub) Close() error {
	h.mu.Lock()
	var all []*Subscription
	for _, set := range h.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range all {
		h.remove(sub)
	}

	if h.broker == nil {
		return nil
	}
	return h.broker.Close()
}

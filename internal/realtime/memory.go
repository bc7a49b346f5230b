package realtime

import (
	"context"
	"errors"
)

var ErrBrokerFull = errors.New("realtime broker queue full")

// MemoryBroker keeps events inside the process.
type MemoryBroker struct {
	queue chan Event
}

func NewMemoryBroker(size int) *MemoryBroker {
	if size <= 0 {
		size = 256
	}
	return &MemoryBroker{queue: make(chan Event, size)}
}

func (b *MemoryBroker) Publish(ctx context.Context, event Event) error {
	select {
	case b.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBrokerFull
	}
}

func (b *MemoryBroker) Run(ctx context.Context, deliver func(Event)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-b.queue:
			deliver(event)
		}
	}
}

func (b *MemoryBroker) Close() error {
	return nil
}

package audit

import (
	"context"
	"errors"
	"time"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// ErrQueueFull is returned by QueuePublisher when the worker is behind.
var ErrQueueFull = errors.New("audit queue full")

// Publisher captures structured audit events synchronously. It is append-only
// and delegates persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
	clock func() time.Time
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store, clock: time.Now}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	return p.store.Append(ctx, stamp(event, p.clock))
}

// QueuePublisher hands events to a Worker without blocking the caller.
type QueuePublisher struct {
	queue chan<- Event
	clock func() time.Time
}

func NewQueuePublisher(queue chan<- Event) *QueuePublisher {
	return &QueuePublisher{queue: queue, clock: time.Now}
}

func (p *QueuePublisher) Emit(_ context.Context, event Event) error {
	select {
	case p.queue <- stamp(event, p.clock):
		return nil
	default:
		return ErrQueueFull
	}
}

func stamp(event Event, clock func() time.Time) Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = clock()
	}
	event.Category = event.Action.Category()
	return event
}

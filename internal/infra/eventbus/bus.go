// Package eventbus is the process-wide, in-memory publish/subscribe channel between the
// workflow coordinator and its subscribers.
//
// Delivery is at-most-once: Publish never blocks, an event that does not fit in the queue is
// dropped and logged, and a failing subscriber is neither retried nor reported back to the
// publisher.
package eventbus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/pkg/errs"
)

var ErrClosed = errs.New("event bus already closed")

type Handler func(ctx context.Context, evt event.Event) error

type subscription struct {
	name    string
	types   map[event.Type]struct{}
	handler Handler
}

func (s subscription) wants(t event.Type) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[t]
	return ok
}

type Bus struct {
	logger  *slog.Logger
	workers int
	queue   chan event.Event

	mu   sync.RWMutex
	subs []subscription

	wg      sync.WaitGroup
	started atomic.Bool
	closed  atomic.Bool
	sendMu  sync.RWMutex
	dropped atomic.Int64

	pendingMu sync.Mutex
	pending   int
	idle      chan struct{}
}

func New(logger *slog.Logger, buffer, workers int) *Bus {
	if buffer <= 0 {
		buffer = 1
	}
	if workers <= 0 {
		workers = 1
	}
	idle := make(chan struct{})
	close(idle)
	return &Bus{
		logger:  logger,
		workers: workers,
		queue:   make(chan event.Event, buffer),
		idle:    idle,
	}
}

// Subscribe registers a named handler. With no types the handler receives every event.
// Subscribers are expected to register at startup, before Start.
func (b *Bus) Subscribe(name string, h Handler, types ...event.Type) {
	set := make(map[event.Type]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}

	b.mu.Lock()
	b.subs = append(b.subs, subscription{name: name, types: set, handler: h})
	b.mu.Unlock()

	b.logger.Info("event subscriber registered", "subscriber", name, "types", len(types))
}

// Publish enqueues evt and returns immediately.
func (b *Bus) Publish(evt event.Event) {
	b.sendMu.RLock()
	defer b.sendMu.RUnlock()

	if b.closed.Load() {
		b.drop(evt, "bus closed")
		return
	}

	b.track(1)
	select {
	case b.queue <- evt:
	default:
		b.track(-1)
		b.drop(evt, "queue full")
	}
}

func (b *Bus) Start(ctx context.Context) {
	if !b.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.work(context.WithoutCancel(ctx), i)
	}
	b.logger.Info("event bus started", "workers", b.workers, "buffer", cap(b.queue))
}

// Close stops accepting events, lets the workers drain what is queued and waits for them.
func (b *Bus) Close() error {
	b.sendMu.Lock()
	if !b.closed.CompareAndSwap(false, true) {
		b.sendMu.Unlock()
		return ErrClosed
	}
	close(b.queue)
	b.sendMu.Unlock()

	if !b.started.Load() {
		for range b.queue {
			b.track(-1)
		}
	}
	b.wg.Wait()
	b.logger.Info("event bus closed", "dropped", b.dropped.Load())
	return nil
}

// Flush blocks until every event accepted so far has been handled.
func (b *Bus) Flush(ctx context.Context) error {
	for {
		b.pendingMu.Lock()
		if b.pending == 0 {
			b.pendingMu.Unlock()
			return nil
		}
		idle := b.idle
		b.pendingMu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *Bus) work(ctx context.Context, id int) {
	defer b.wg.Done()
	for evt := range b.queue {
		b.deliver(ctx, evt)
		b.track(-1)
	}
	b.logger.Debug("event bus worker stopped", "worker", id)
}

func (b *Bus) deliver(ctx context.Context, evt event.Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, s := range subs {
		if !s.wants(evt.Type) {
			continue
		}
		if err := safeExecute(ctx, s.handler, evt); err != nil {
			b.logger.Error("event subscriber failed",
				"subscriber", s.name,
				"event_type", evt.Type,
				"event_id", evt.ID,
				"error", err.Error())
		}
	}
}

func (b *Bus) track(delta int) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()

	before := b.pending
	b.pending += delta
	switch {
	case before == 0 && b.pending > 0:
		b.idle = make(chan struct{})
	case before > 0 && b.pending == 0:
		close(b.idle)
	}
}

func (b *Bus) drop(evt event.Event, reason string) {
	b.dropped.Add(1)
	b.logger.Warn("event dropped", "event_type", evt.Type, "event_id", evt.ID, "reason", reason)
}

func safeExecute(ctx context.Context, h Handler, evt event.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Newf("subscriber panic: %v", r)
		}
	}()
	return h(ctx, evt)
}

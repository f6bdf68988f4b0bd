package events

import (
	"context"
	"errors"
	"sync"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/google/uuid"
)

// InMemoryBus dispatches events to handlers registered in the same process.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
	wg       sync.WaitGroup
}

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for an event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish runs every handler in its own goroutine. Handler errors and panics are logged.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	for _, handler := range b.handlersFor(event.EventName()) {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			defer b.recoverHandler(event)
			if err := h.Handle(context.WithoutCancel(ctx), event); err != nil {
				b.logHandlerError(event, err)
			}
		}(handler)
	}
}

// PublishSync runs handlers in registration order and joins their errors.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, handler := range b.handlersFor(event.EventName()) {
		if err := handler.Handle(ctx, event); err != nil {
			b.logHandlerError(event, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait blocks until all asynchronously published handlers have returned.
func (b *InMemoryBus) Wait() {
	b.wg.Wait()
}

func (b *InMemoryBus) handlersFor(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[eventName]...)
}

func (b *InMemoryBus) recoverHandler(event Event) {
	if r := recover(); r != nil && b.log != nil {
		b.log.Error("event handler panicked", append(eventAttrs(event), "panic", r)...)
	}
}

func (b *InMemoryBus) logHandlerError(event Event, err error) {
	if b.log != nil {
		b.log.Error("event handler failed", append(eventAttrs(event), "error", err)...)
	}
}

func eventAttrs(event Event) []any {
	attrs := []any{"event", event.EventName()}
	if identified, ok := event.(interface{ EventID() uuid.UUID }); ok {
		attrs = append(attrs, "eventId", identified.EventID())
	}
	return attrs
}

var _ Bus = (*InMemoryBus)(nil)

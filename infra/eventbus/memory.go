package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/urbanbank/pkg/eventbus"
)

// MemoryEventBus dispatches events to in-process handlers. With recording
// enabled it also keeps a copy of everything emitted.
type MemoryEventBus struct {
	handlers  map[string][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	record    bool
	published []eventbus.Event
}

// MemoryOption configures a MemoryEventBus.
type MemoryOption func(*MemoryEventBus)

// WithRecording keeps every emitted event for Published.
func WithRecording() MemoryOption {
	return func(b *MemoryEventBus) { b.record = true }
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger, opts ...MemoryOption) *MemoryEventBus {
	b := &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit dispatches the event to all registered handlers for its type.
// Handler errors are logged and do not stop dispatch.
func (b *MemoryEventBus) Emit(ctx context.Context, event eventbus.Event) error {
	b.mu.Lock()
	if b.record {
		b.published = append(b.published, event)
	}
	handlers := b.handlers[event.Type()]
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Warn("Event handler failed", "type", event.Type(), "error", err)
		}
	}
	return nil
}

// Published returns a copy of every recorded event. It is always empty
// unless the bus was created WithRecording.
func (b *MemoryEventBus) Published() []eventbus.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]eventbus.Event, len(b.published))
	copy(out, b.published)
	return out
}

package eventbus

import "context"

// Event is a domain event that can be published.
type Event interface {
	Type() string
}

// HandlerFunc reacts to an emitted event.
type HandlerFunc func(ctx context.Context, e Event) error

// Bus publishes domain events.
type Bus interface {
	Emit(ctx context.Context, event Event) error
}

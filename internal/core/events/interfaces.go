package events

import "time"

// Event types published by the agent loop.
const (
	FrameProcessed     = "frame.processed"
	StateChanged       = "state.changed"
	PerceptionRejected = "perception.rejected"
)

// Bus is a thread-safe, in-process pub/sub bus.
//
// Delivery is synchronous: Publish calls handlers in the caller goroutine and
// joins their errors. Handlers should return quickly; the frame loop waits
// for them.
type Bus interface {
	Publish(event Event) error
	Subscribe(eventType string, handler Handler) (Subscription, error)
	// Unsubscribe is safe to call with nil.
	Unsubscribe(Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	// Metrics are collected only while at least one observer is registered.
	Metrics() Metrics
}

// Event is an immutable message. Data carries the typed payload; consumers
// type-assert it by Type.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type Handler func(event Event) error

type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is notified about every publish and its delivery outcome.
type Observer interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, took time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}

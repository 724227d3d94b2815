package bus

import "time"

// EventBus is a frame-deferred pub/sub bus for engine events.
//
// Key characteristics:
//   - Type-based fan-out: handlers subscribe by Event.Type() string.
//   - Deferred delivery: Enqueue stores events, Dispatch delivers them in the
//     caller goroutine.
//   - Ordered delivery: handlers of one event type run in subscription order and
//     queued events are dispatched in the order they were enqueued.
//   - Error aggregation: handler errors are joined and returned.
//   - Optional observability: metrics are produced only when observers are registered.
//
// Notes:
//   - The frame loop enqueues while systems run and dispatches once the scene is
//     consistent again, so handlers may freely query or mutate the scene.
//   - Events enqueued by handlers during Dispatch are delivered by the next Dispatch.
//   - All methods are safe for concurrent use.
type EventBus interface {
	// Enqueue stores the event for the next Dispatch.
	Enqueue(event Event)
	// Dispatch delivers every queued event and returns the joined handler errors.
	Dispatch() error
	// Pending returns the number of queued events.
	Pending() int

	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error

	// AddObserver registers an observer to receive metrics callbacks.
	AddObserver(obs EventBusObserver)
	// RemoveObserver unregisters a previously added observer.
	RemoveObserver(obs EventBusObserver)
	// GetMetrics returns a snapshot of accumulated metrics.
	GetMetrics() EventBusMetrics
}

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	// Frame is the simulation frame that produced the event.
	Frame() uint64
	Data() any
	Metadata() map[string]any
}

// EventHandler is invoked per delivered event. Returned errors are joined.
type EventHandler func(event Event) error

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler from the bus. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is notified about queued and delivered events.
type EventBusObserver interface {
	OnEnqueue(event Event)
	OnDelivered(event Event, handlers int, err error, duration time.Duration)
}

// EventBusMetrics is updated only when at least one observer is registered.
type EventBusMetrics struct {
	Queued            uint64
	Delivered         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}

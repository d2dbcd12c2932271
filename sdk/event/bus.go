// Package event carries progress notifications out of long SDK workflows.
package event

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/harmonyconnect/harmony-sdk-go/sdk/log"
)

const defaultMaxWorkers = 16

// Handler is a function that processes events
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	subscribers      map[EventType][]Handler
	wildcardHandlers []Handler
	mu               sync.RWMutex
	logger           log.Logger
	workerPool       chan struct{} // limits concurrent handler goroutines
	maxWorkers       int
}

// NewBus creates a new event bus
func NewBus(logger log.Logger, maxWorkers int) *Bus {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	return &Bus{
		subscribers: make(map[EventType][]Handler),
		logger:      logger,
		workerPool:  make(chan struct{}, maxWorkers),
		maxWorkers:  maxWorkers,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wildcardHandlers = append(b.wildcardHandlers, handler)
}

func (b *Bus) dispatch(handler Handler, e Event) {
	b.workerPool <- struct{}{}

	go func() {
		defer func() {
			<-b.workerPool
			if r := recover(); r != nil {
				b.logger.Error(context.Background(), "Event handler panicked",
					"error", r,
					"eventType", e.Type,
					"stackTrace", string(debug.Stack()))
			}
		}()
		handler(copyEvent(e))
	}()
}

func copyEvent(e Event) Event {
	copied := e
	copied.Data = make(map[string]interface{}, len(e.Data))
	for k, v := range e.Data {
		copied.Data[k] = v
	}
	return copied
}

// Publish sends an event to all relevant subscribers. Handlers run
// asynchronously; use WaitForHandlers to wait for them.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.logger.Debug(ctx, "Publishing event", "type", e.Type, "step", e.Step)

	for _, handler := range b.subscribers[e.Type] {
		b.dispatch(handler, e)
	}
	for _, handler := range b.wildcardHandlers {
		b.dispatch(handler, e)
	}
}

// WaitForHandlers blocks until every running handler has returned.
func (b *Bus) WaitForHandlers() {
	for i := 0; i < b.maxWorkers; i++ {
		b.workerPool <- struct{}{}
	}
	for i := 0; i < b.maxWorkers; i++ {
		<-b.workerPool
	}
}

// Close releases resources used by the event bus
func (b *Bus) Close() {
	b.WaitForHandlers()
}

package events

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/orris-inc/templink/internal/shared/goroutine"
	"github.com/orris-inc/templink/internal/shared/logger"
)

var (
	ErrDispatcherNotRunning = errors.New("event dispatcher is not running")
	ErrDispatcherRunning    = errors.New("event dispatcher is already running")
	ErrEventBufferFull      = errors.New("event buffer is full")
)

// InMemoryEventDispatcher queues events on a buffered channel and delivers
// them on a single goroutine, so handlers see events in publish order.
type InMemoryEventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	running  bool
	stopCh   chan struct{}
	eventCh  chan DomainEvent
	wg       sync.WaitGroup
	dropped  atomic.Int64
	logger   logger.Interface
}

func NewInMemoryEventDispatcher(bufferSize int, log logger.Interface) *InMemoryEventDispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}

	return &InMemoryEventDispatcher{
		handlers: make(map[string][]EventHandler),
		eventCh:  make(chan DomainEvent, bufferSize),
		logger:   log,
	}
}

// Publish queues an event without blocking. When the buffer is full the
// event is dropped and counted.
func (d *InMemoryEventDispatcher) Publish(event DomainEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running {
		return ErrDispatcherNotRunning
	}

	select {
	case d.eventCh <- event:
		return nil
	default:
		d.dropped.Add(1)
		return ErrEventBufferFull
	}
}

// Subscribe registers handler for eventType. Handlers may be added while running.
func (d *InMemoryEventDispatcher) Subscribe(eventType string, handler EventHandler) error {
	if eventType == "" {
		return errors.New("event type cannot be empty")
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	d.mu.Unlock()
	return nil
}

func (d *InMemoryEventDispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return ErrDispatcherRunning
	}

	d.running = true
	d.stopCh = make(chan struct{})
	d.wg.Add(1)
	go d.processEvents(d.stopCh)

	return nil
}

// Stop delivers the events still queued and then returns.
func (d *InMemoryEventDispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrDispatcherNotRunning
	}
	d.running = false
	close(d.stopCh)
	d.mu.Unlock()

	d.wg.Wait()

	if dropped := d.dropped.Load(); dropped > 0 {
		d.logger.Warnw("events dropped on full buffer", "count", dropped)
	}
	return nil
}

// Dropped returns how many events were lost to a full buffer.
func (d *InMemoryEventDispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *InMemoryEventDispatcher) processEvents(stopCh <-chan struct{}) {
	defer d.wg.Done()

	for {
		select {
		case <-stopCh:
			for {
				select {
				case event := <-d.eventCh:
					d.deliver(event)
				default:
					return
				}
			}
		case event := <-d.eventCh:
			d.deliver(event)
		}
	}
}

func (d *InMemoryEventDispatcher) deliver(event DomainEvent) {
	d.mu.RLock()
	handlers := d.handlers[event.GetEventType()]
	d.mu.RUnlock()

	for _, handler := range handlers {
		goroutine.Run(d.logger, "event-handler-"+event.GetEventType(), func() {
			if err := handler.Handle(event); err != nil {
				d.logger.Errorw("failed to handle event",
					"event_type", event.GetEventType(),
					"aggregate_id", event.GetAggregateID(),
					"error", err,
				)
			}
		})
	}
}

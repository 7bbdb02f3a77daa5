package event

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// EventQueueSize is the buffer size of each subscriber channel.
const EventQueueSize = 20

type EventType string

type EventSubscriberId int

// Event wraps a typed payload with the time it was published.
type Event struct {
	Timestamp time.Time
	Data      any
	Type      EventType
}

func NewEvent(eventType EventType, eventData any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      eventData,
	}
}

// EventBus delivers events to channel subscribers keyed by event type.
// Delivery is synchronous: Publish blocks until every subscriber channel
// has accepted the event.
type EventBus struct {
	subscribers map[EventType]map[EventSubscriberId]chan Event
	metrics     *eventMetrics
	lastSubId   EventSubscriberId
	mu          sync.RWMutex
	logger      *zap.Logger
}

// NewEventBus creates a new EventBus. The prometheus registerer may be nil,
// in which case no metrics are recorded.
func NewEventBus(promRegistry prometheus.Registerer, logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &EventBus{
		subscribers: make(map[EventType]map[EventSubscriberId]chan Event),
		logger:      logger,
	}
	if promRegistry != nil {
		e.initMetrics(promRegistry)
	}
	return e
}

// Subscribe registers a subscriber for a particular event type and returns
// the subscriber ID and the channel events will be delivered on.
func (e *EventBus) Subscribe(eventType EventType) (EventSubscriberId, <-chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastSubId++
	subId := e.lastSubId
	if _, ok := e.subscribers[eventType]; !ok {
		e.subscribers[eventType] = make(map[EventSubscriberId]chan Event)
	}
	ch := make(chan Event, EventQueueSize)
	e.subscribers[eventType][subId] = ch
	return subId, ch
}

// Unsubscribe removes a subscriber for a particular event type.
func (e *EventBus) Unsubscribe(eventType EventType, subId EventSubscriberId) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if subs, ok := e.subscribers[eventType]; ok {
		if ch, ok := subs[subId]; ok {
			close(ch)
			delete(subs, subId)
		}
	}
}

// Publish delivers an event to all subscribers of the given type.
func (e *EventBus) Publish(eventType EventType, evt Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	e.metrics.publish(eventType)
	for _, ch := range e.subscribers[eventType] {
		ch <- evt
	}
	e.logger.Debug("published event",
		zap.String("type", string(eventType)),
		zap.Int("subscribers", len(e.subscribers[eventType])),
	)
}

// Stop closes all subscriber channels.
func (e *EventBus) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for eventType, subs := range e.subscribers {
		for subId, ch := range subs {
			close(ch)
			delete(subs, subId)
		}
		delete(e.subscribers, eventType)
	}
}

type eventMetrics struct {
	published *prometheus.CounterVec
}

func (e *EventBus) initMetrics(registry prometheus.Registerer) {
	e.metrics = &eventMetrics{
		published: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "governance_events_published_total",
				Help: "Total number of events published, by event type",
			},
			[]string{"type"},
		),
	}
	registry.MustRegister(e.metrics.published)
}

func (m *eventMetrics) publish(eventType EventType) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(string(eventType)).Inc()
}

package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/mergington/activities/internal/metrics"
)

// EventType represents the type of event
type EventType string

const (
	// Membership events
	EventSignedUp     EventType = "activity.signed_up"
	EventUnregistered EventType = "activity.unregistered"

	// System events
	EventHeartbeat EventType = "heartbeat"
)

// AllActivities is the subscription filter that matches every activity
const AllActivities = ""

// DefaultHeartbeatInterval is how often idle streams receive a heartbeat
const DefaultHeartbeatInterval = 30 * time.Second

// Event represents a server-sent event
type Event struct {
	Type     EventType   `json:"type"`
	Data     interface{} `json:"data"`
	Activity string      `json:"-"` // Used for routing, not sent to client
}

// Format returns the SSE formatted string
func (e *Event) Format() string {
	data, _ := json.Marshal(e.Data)
	return "event: " + string(e.Type) + "\ndata: " + string(data) + "\n\n"
}

// Subscriber represents a connected SSE client
type Subscriber struct {
	ID       string
	Activity string // AllActivities or an exact activity name
	Events   chan *Event
	Done     chan struct{}
}

func (s *Subscriber) wants(event *Event) bool {
	return s.Activity == AllActivities || event.Activity == "" || s.Activity == event.Activity
}

// EventHub manages SSE subscriptions and event broadcasting
type EventHub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber // subscriberID -> subscriber
	heartbeat   *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

// NewEventHub creates a new event hub. A non-positive interval uses DefaultHeartbeatInterval.
func NewEventHub(heartbeatInterval time.Duration) *EventHub {
	if heartbeatInterval <= 0 {
		heartbeatInterval = DefaultHeartbeatInterval
	}
	hub := &EventHub{
		subscribers: make(map[string]*Subscriber),
		done:        make(chan struct{}),
	}
	hub.heartbeat = time.NewTicker(heartbeatInterval)
	go hub.sendHeartbeats()
	return hub
}

// Subscribe adds a new subscriber, optionally filtered to one activity
func (h *EventHub) Subscribe(activity, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:       subscriberID,
		Activity: activity,
		Events:   make(chan *Event, 100), // Buffer to prevent blocking
		Done:     make(chan struct{}),
	}
	h.subscribers[subscriberID] = sub
	metrics.EventSubscribers.Set(float64(len(h.subscribers)))

	return sub
}

// Unsubscribe removes a subscriber
func (h *EventHub) Unsubscribe(subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[subscriberID]; ok {
		close(sub.Done)
		close(sub.Events)
		delete(h.subscribers, subscriberID)
	}
	metrics.EventSubscribers.Set(float64(len(h.subscribers)))
}

// Publish sends an event to every interested subscriber.
// Subscribers with a full buffer miss the event.
func (h *EventHub) Publish(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers {
		if !sub.wants(event) {
			continue
		}
		select {
		case sub.Events <- event:
		default:
		}
	}
}

// sendHeartbeats sends periodic heartbeats to all subscribers
func (h *EventHub) sendHeartbeats() {
	for {
		select {
		case <-h.heartbeat.C:
			h.Publish(&Event{
				Type: EventHeartbeat,
				Data: map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				},
			})
		case <-h.done:
			return
		}
	}
}

// Close stops the event hub and disconnects every subscriber
func (h *EventHub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
		h.heartbeat.Stop()

		h.mu.Lock()
		defer h.mu.Unlock()

		for id, sub := range h.subscribers {
			close(sub.Done)
			close(sub.Events)
			delete(h.subscribers, id)
		}
		metrics.EventSubscribers.Set(0)
	})
}

// SubscriberCount returns the number of connected subscribers
func (h *EventHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers)
}

// NewActivityEvent creates a membership event for an activity
func NewActivityEvent(eventType EventType, activity string, data interface{}) *Event {
	return &Event{
		Type:     eventType,
		Activity: activity,
		Data:     data,
	}
}

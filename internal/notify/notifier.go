// Package notify publishes order transition events to interested
// collaborators. Publishing is fire-and-forget: a notifier failure is
// logged and never rolls back the transition that produced the event.
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds published on successful engine operations.
const (
	EventCustomerOrderCreated = "CustomerOrderCreated"
	EventRestockOrderCreated  = "RestockOrderCreated"
	EventOrderTransitioned    = "OrderTransitioned"
)

// Event is the envelope published for every successful order mutation.
// Events for one order share a partition key so consumers see them in order.
type Event struct {
	EventID    uuid.UUID  `json:"eventId"`
	EventType  string     `json:"eventType"`
	OccurredAt time.Time  `json:"occurredAt"`
	OrderID    uuid.UUID  `json:"orderId"`
	OrderKind  string     `json:"orderKind"` // "customer" or "restock"
	Status     string     `json:"status"`
	ActorID    *uuid.UUID `json:"actorId,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

// NewEvent builds an event envelope for an order mutation.
func NewEvent(eventType, orderKind string, orderID uuid.UUID, status string, actorID *uuid.UUID, reason string) Event {
	return Event{
		EventID:    uuid.New(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		OrderID:    orderID,
		OrderKind:  orderKind,
		Status:     status,
		ActorID:    actorID,
		Reason:     reason,
	}
}

// Notifier publishes order events. Implementations must not block the
// caller on broker availability.
type Notifier interface {
	// Publish enqueues an event for delivery.
	Publish(event Event)

	// Close flushes pending events and releases resources.
	Close() error
}

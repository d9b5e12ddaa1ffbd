package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	orderID := uuid.New()
	actorID := uuid.New()

	event := NewEvent(EventOrderTransitioned, "restock", orderID, "ENTREGADA", &actorID, "recibido")

	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.Equal(t, EventOrderTransitioned, event.EventType)
	assert.Equal(t, orderID, event.OrderID)
	assert.Equal(t, "restock", event.OrderKind)
	assert.Equal(t, "ENTREGADA", event.Status)
	assert.Equal(t, &actorID, event.ActorID)
	assert.Equal(t, "recibido", event.Reason)
	assert.WithinDuration(t, time.Now().UTC(), event.OccurredAt, 5*time.Second)
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	orderID := uuid.New()

	a := NewEvent(EventCustomerOrderCreated, "customer", orderID, "CREADA", nil, "")
	b := NewEvent(EventCustomerOrderCreated, "customer", orderID, "CREADA", nil, "")

	assert.NotEqual(t, a.EventID, b.EventID)
}

func TestNopNotifier(t *testing.T) {
	n := NewNopNotifier()

	// Publishing to the nop notifier must never block or panic
	n.Publish(NewEvent(EventRestockOrderCreated, "restock", uuid.New(), "ENVIADA", nil, ""))
	assert.NoError(t, n.Close())
}

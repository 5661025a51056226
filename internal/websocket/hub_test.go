package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroadcastEventQueuesPayload(t *testing.T) {
	hub := NewHub()

	hub.BroadcastEvent(Event{
		Type:      EventInvoiceSent,
		InvoiceID: "inv-1",
		UserID:    "user-1",
		Status:    "sent",
	})

	payload := <-hub.Broadcast
	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))
	require.Equal(t, EventInvoiceSent, event.Type)
	require.Equal(t, "inv-1", event.InvoiceID)
}

func TestBroadcastEventDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()

	// fill the queue past capacity; the publisher must never block
	for i := 0; i < cap(hub.Broadcast)+5; i++ {
		hub.BroadcastEvent(Event{Type: EventInvoiceCreated, InvoiceID: "inv-1", UserID: "user-1"})
	}
	require.Len(t, hub.Broadcast, cap(hub.Broadcast))
}

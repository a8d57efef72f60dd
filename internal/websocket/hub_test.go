package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestClient(t *testing.T, hub *Hub, storeID uuid.UUID) *Client {
	t.Helper()
	client := &Client{Hub: hub, Send: make(chan []byte, 16), StoreID: storeID}
	hub.register <- client
	return client
}

func receiveEvent(t *testing.T, client *Client) OrderEvent {
	t.Helper()
	select {
	case payload := <-client.Send:
		var event OrderEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ws event")
		return OrderEvent{}
	}
}

func TestBroadcastOrderEvent_OnlyReachesOwnStore(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	storeA := uuid.New()
	storeB := uuid.New()
	clientA := registerTestClient(t, hub, storeA)
	clientB := registerTestClient(t, hub, storeB)

	hub.BroadcastOrderEvent(storeA, OrderEvent{
		Event: "order_created",
		Data:  map[string]interface{}{"order_id": uuid.NewString(), "status": "pending"},
	})

	event := receiveEvent(t, clientA)
	assert.Equal(t, "order_created", event.Event)
	assert.Equal(t, "pending", event.Data["status"])

	select {
	case payload := <-clientB.Send:
		t.Fatalf("store B received store A's event: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastOrderEvent_AllStaffOfStoreReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	storeID := uuid.New()
	first := registerTestClient(t, hub, storeID)
	second := registerTestClient(t, hub, storeID)

	hub.BroadcastOrderEvent(storeID, OrderEvent{Event: "order_status_changed"})

	assert.Equal(t, "order_status_changed", receiveEvent(t, first).Event)
	assert.Equal(t, "order_status_changed", receiveEvent(t, second).Event)
}

func TestUnregister_ClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := registerTestClient(t, hub, uuid.New())
	hub.unregister <- client

	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

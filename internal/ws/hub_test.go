package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBroadcastIntake(t *testing.T) {
	h := NewHub(testLogger())
	go h.Run()

	client := &Client{hub: h, send: make(chan []byte, 1)}
	h.register <- client

	h.BroadcastIntake(&entity.Project{UUID: "p-1", Service: entity.ServiceRental})

	raw := <-client.send
	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, "intake_completed", event.Type)

	data, err := json.Marshal(event.Data)
	require.NoError(t, err)
	assert.Contains(t, string(data), "p-1")
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	h := NewHub(testLogger())
	go h.Run()

	healthy := &Client{hub: h, send: make(chan []byte, 1)}
	slow := &Client{hub: h, send: make(chan []byte)} // nobody reading
	h.register <- healthy
	h.register <- slow

	h.BroadcastIntake(&entity.Project{UUID: "p-2"})

	<-healthy.send

	// The slow client's channel is closed when it is dropped.
	_, open := <-slow.send
	assert.False(t, open)

	h.mu.RLock()
	defer h.mu.RUnlock()
	assert.Contains(t, h.clients, healthy)
	assert.NotContains(t, h.clients, slow)
}

func TestUnregisterClosesSend(t *testing.T) {
	h := NewHub(testLogger())
	go h.Run()

	client := &Client{hub: h, send: make(chan []byte, 1)}
	h.register <- client
	h.unregister <- client

	_, open := <-client.send
	assert.False(t, open)
}

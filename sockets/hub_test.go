package sockets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d connected clients, have %d", want, hub.ClientCount())
}

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	url := strings.Replace(server.URL, "http", "ws", 1)
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	return conn
}

func TestHubBroadcastReachesClient(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer server.Close()

	conn := dialHub(t, server)
	defer conn.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, hub, 1)

	hub.BroadcastProductStock(42, 7)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	kind, payload, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, kind)

	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, EventProductStockUpdated, event.Event)

	data, ok := event.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(42), data["productId"])
	assert.Equal(t, float64(7), data["stock"])
}

func TestHubBroadcastReachesEveryClient(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer server.Close()

	first := dialHub(t, server)
	defer first.Close(websocket.StatusNormalClosure, "")
	second := dialHub(t, server)
	defer second.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, hub, 2)

	hub.BroadcastOrderStatus(9, "SHIPPED")

	for _, conn := range []*websocket.Conn{first, second} {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, payload, err := conn.Read(ctx)
		cancel()
		require.NoError(t, err)

		var event Event
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, EventOrderStatusUpdated, event.Event)
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub()
	server := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer server.Close()

	conn := dialHub(t, server)
	waitForClients(t, hub, 1)

	conn.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, hub, 0)
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	// Must not panic or block with nobody listening.
	hub.Broadcast(EventProductStockUpdated, map[string]any{"productId": 1, "stock": 0})
	assert.Equal(t, 0, hub.ClientCount())
}

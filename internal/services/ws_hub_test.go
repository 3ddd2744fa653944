package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *WSHub, connID string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(connID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not registered")
	}
	return client
}

func TestWSHub_NotifyQueueChangedBroadcasts(t *testing.T) {
	hub := NewWSHub()
	a := dialHub(t, hub, "a")
	b := dialHub(t, hub, "b")
	require.Equal(t, 2, hub.Count())

	hub.NotifyQueueChanged(QueueReports, "9", "ban")

	for _, c := range []*websocket.Conn{a, b} {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := c.ReadMessage()
		require.NoError(t, err)

		var msg WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "queue_changed", msg.Type)
		assert.Equal(t, QueueReports, msg.Queue)
		assert.Equal(t, "9", msg.ItemID)
		assert.Equal(t, "ban", msg.Action)
	}
}

func TestWSHub_SendAndUnregister(t *testing.T) {
	hub := NewWSHub()
	c := dialHub(t, hub, "a")

	require.NoError(t, hub.Send("a", WSMessage{Type: "hello"}))
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hello"`)

	hub.Unregister("a")
	assert.Equal(t, 0, hub.Count())
	assert.Error(t, hub.Send("a", WSMessage{Type: "hello"}))
}

func TestWSHub_CloseAllSendsGoingAway(t *testing.T) {
	hub := NewWSHub()
	c := dialHub(t, hub, "a")

	hub.CloseAll()
	assert.Equal(t, 0, hub.Count())

	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := c.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway))
}

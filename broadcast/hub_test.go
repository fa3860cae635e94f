// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/live-poll/testutil"
)

// newTestServer serves a hub where every inbound frame is echoed back to
// its sender as an "echo" event
func newTestServer(t *testing.T) (*Hub, *httptest.Server, chan string) {
	t.Helper()

	hub := NewHub()
	ids := make(chan string, 16)
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := hub.Register(conn)
		ids <- client.ID
		defer hub.Unregister(client.ID)

		client.ReadPump(func(data []byte) {
			hub.Send(client.ID, "echo", json.RawMessage(data))
		})
	}))
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return hub, server, ids
}

func connect(t *testing.T, server *httptest.Server, ids chan string) (*websocket.Conn, string) {
	t.Helper()
	conn := testutil.DialWebSocket(t, server, "/")
	select {
	case id := <-ids:
		return conn, id
	case <-time.After(testutil.ReadTimeout):
		t.Fatal("client was not registered")
		return nil, ""
	}
}

func TestHub_BroadcastOrderIsSameForEveryClient(t *testing.T) {
	hub, server, ids := newTestServer(t)
	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		conn, _ := connect(t, server, ids)
		conns = append(conns, conn)
	}
	require.Equal(t, 3, hub.Len())

	const n = 50
	for i := 0; i < n; i++ {
		hub.Broadcast("tick", i)
	}

	for _, conn := range conns {
		for i := 0; i < n; i++ {
			env := testutil.ReadEnvelope(t, conn)
			require.Equal(t, "tick", env.Event)
			var got int
			require.NoError(t, json.Unmarshal(env.Data, &got))
			require.Equal(t, i, got)
		}
	}
}

func TestHub_SendReachesOnlyTarget(t *testing.T) {
	hub, server, ids := newTestServer(t)
	alice, aliceID := connect(t, server, ids)
	bob, _ := connect(t, server, ids)

	hub.Send(aliceID, "private", map[string]string{"secret": "42"})
	hub.Broadcast("public", nil)

	env := testutil.ReadEnvelope(t, alice)
	assert.Equal(t, "private", env.Event)
	assert.JSONEq(t, `{"secret":"42"}`, string(env.Data))
	assert.Equal(t, "public", testutil.ReadEnvelope(t, alice).Event)

	assert.Equal(t, "public", testutil.ReadEnvelope(t, bob).Event, "bob never sees the private frame")
}

func TestHub_ReadPumpDeliversFrames(t *testing.T) {
	_, server, ids := newTestServer(t)
	conn, _ := connect(t, server, ids)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"hello":"world"}`)))

	env := testutil.ReadEnvelope(t, conn)
	assert.Equal(t, "echo", env.Event)
	assert.JSONEq(t, `{"hello":"world"}`, string(env.Data))
}

func TestHub_DisconnectFlushesQueuedFrames(t *testing.T) {
	hub, server, ids := newTestServer(t)
	conn, id := connect(t, server, ids)

	hub.Send(id, "kicked_out", struct{}{})
	hub.Disconnect(id)

	assert.Equal(t, "kicked_out", testutil.ReadEnvelope(t, conn).Event)

	conn.SetReadDeadline(time.Now().Add(testutil.ReadTimeout))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "expected normal close, got %v", err)

	assert.Eventually(t, func() bool { return hub.Len() == 0 }, testutil.ReadTimeout, 10*time.Millisecond)
}

func TestHub_UnknownClientIsIgnored(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		hub.Send("missing", "event", nil)
		hub.Disconnect("missing")
		hub.Unregister("missing")
	})
}

func TestHub_ClientCloseUnregisters(t *testing.T) {
	hub, server, ids := newTestServer(t)
	conn, _ := connect(t, server, ids)
	require.Equal(t, 1, hub.Len())

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	assert.Eventually(t, func() bool { return hub.Len() == 0 }, testutil.ReadTimeout, 10*time.Millisecond)
}

func TestHub_UnencodablePayloadIsDropped(t *testing.T) {
	hub, server, ids := newTestServer(t)
	conn, _ := connect(t, server, ids)

	hub.Broadcast("bad", make(chan int))
	hub.Broadcast("good", 1)

	assert.Equal(t, "good", testutil.ReadEnvelope(t, conn).Event)
	assert.Equal(t, 1, hub.Len())
}

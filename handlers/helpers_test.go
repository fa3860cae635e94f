// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/live-poll/broadcast"
	"github.com/danielhkuo/live-poll/cliparse"
	"github.com/danielhkuo/live-poll/db"
	"github.com/danielhkuo/live-poll/models"
	"github.com/danielhkuo/live-poll/session"
	"github.com/danielhkuo/live-poll/testutil"
)

type testServer struct {
	*httptest.Server
	sess    *session.Session
	hub     *broadcast.Hub
	history session.HistoryStore
}

// newTestServer wires a session, hub and handlers behind a real listener
func newTestServer(t *testing.T, cfg cliparse.Config, history session.HistoryStore) *testServer {
	t.Helper()

	if history == nil {
		history = db.NewMemoryHistory()
	}
	hub := broadcast.NewHub()
	sess := session.New(hub, history)

	pollHandler := NewPollHandler(sess, history)
	socketHandler := NewSocketHandler(sess, hub, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", socketHandler.ServeWS)
	mux.HandleFunc("GET /api/health", pollHandler.Health)
	mux.HandleFunc("GET /api/poll/current", pollHandler.CurrentPoll)
	mux.HandleFunc("GET /api/poll/history", pollHandler.History)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		sess.Shutdown()
		hub.Close()
		server.Close()
	})
	return &testServer{Server: server, sess: sess, hub: hub, history: history}
}

// joinAs connects and joins, returning once the joiner has its poll_state
func joinAs(t *testing.T, server *testServer, name string, role models.Role) (*websocket.Conn, models.PollStatePayload) {
	t.Helper()

	conn := testutil.DialWebSocket(t, server.Server, "/ws")
	testutil.SendCommand(t, conn, models.CommandJoin, models.JoinRequest{Name: name, UserType: role})

	var state models.PollStatePayload
	testutil.ReadUntil(t, conn, models.EventPollState, &state)
	return conn, state
}

// readUntilMatch skips frames until event arrives with data accepted by match
func readUntilMatch(t *testing.T, conn *websocket.Conn, event string, match func(data json.RawMessage) bool) json.RawMessage {
	t.Helper()

	for {
		env := testutil.ReadEnvelope(t, conn)
		if env.Event == event && match(env.Data) {
			return env.Data
		}
	}
}

// readError returns the message of the next error event
func readError(t *testing.T, conn *websocket.Conn) string {
	t.Helper()

	var payload models.ErrorPayload
	testutil.ReadUntil(t, conn, models.EventError, &payload)
	return payload.Message
}

func intPtr(i int) *int {
	return &i
}

type failingHistory struct{}

func (failingHistory) Append(context.Context, models.HistoryEntry) error {
	return errors.New("disk on fire")
}

func (failingHistory) List(context.Context) ([]models.HistoryEntry, error) {
	return nil, errors.New("disk on fire")
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/live-poll/models"
)

// ReadTimeout bounds every websocket read in tests
const ReadTimeout = 2 * time.Second

// DialWebSocket connects to path on a test server and closes the
// connection when the test ends
func DialWebSocket(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial %s: %v", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// SendCommand writes a command envelope
func SendCommand(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to encode %s payload: %v", event, err)
	}
	if err := conn.WriteJSON(models.Envelope{Event: event, Data: raw}); err != nil {
		t.Fatalf("Failed to send %s: %v", event, err)
	}
}

// ReadEnvelope reads the next frame
func ReadEnvelope(t *testing.T, conn *websocket.Conn) models.Envelope {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(ReadTimeout))
	var env models.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("Failed to read frame: %v", err)
	}
	return env
}

// ReadUntil reads frames until one named event arrives, decoding its data into v
func ReadUntil(t *testing.T, conn *websocket.Conn, event string, v interface{}) {
	t.Helper()

	for {
		env := ReadEnvelope(t, conn)
		if env.Event != event {
			continue
		}
		if v != nil {
			if err := json.Unmarshal(env.Data, v); err != nil {
				t.Fatalf("Failed to decode %s: %v", event, err)
			}
		}
		return
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/live-poll/db"
	"github.com/danielhkuo/live-poll/models"
)

// sentEvent is one dispatcher call; To is empty for broadcasts
type sentEvent struct {
	To    string
	Event string
	Data  json.RawMessage
}

// recorder is a Dispatcher that keeps every event in call order
type recorder struct {
	mu           sync.Mutex
	events       []sentEvent
	disconnected []string
}

func (r *recorder) record(to, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, sentEvent{To: to, Event: event, Data: data})
}

func (r *recorder) Broadcast(event string, payload any) { r.record("", event, payload) }

func (r *recorder) Send(connID, event string, payload any) { r.record(connID, event, payload) }

func (r *recorder) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnected = append(r.disconnected, connID)
}

// named returns the events with the given name
func (r *recorder) named(event string) []sentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sentEvent
	for _, e := range r.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// sequence returns broadcast event names in order
func (r *recorder) sequence() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.To == "" {
			out = append(out, e.Event)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.disconnected = nil
}

func decode[T any](t *testing.T, e sentEvent) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(e.Data, &v))
	return v
}

// manualTimer never fires on its own
type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (m *manualTimer) Stop() bool {
	was := !m.stopped
	m.stopped = true
	return was
}

type manualTimers struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (m *manualTimers) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	m.timers = append(m.timers, t)
	return t
}

func (m *manualTimers) last(t *testing.T) *manualTimer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.timers, "no timer scheduled")
	return m.timers[len(m.timers)-1]
}

// failingHistory rejects every call
type failingHistory struct{}

func (failingHistory) Append(context.Context, models.HistoryEntry) error {
	return errors.New("disk full")
}

func (failingHistory) List(context.Context) ([]models.HistoryEntry, error) {
	return nil, errors.New("disk full")
}

type fixture struct {
	sess    *Session
	out     *recorder
	timers  *manualTimers
	history *db.MemoryHistory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		out:     &recorder{},
		timers:  &manualTimers{},
		history: db.NewMemoryHistory(),
	}
	f.sess = New(f.out, f.history, WithAfterFunc(f.timers.AfterFunc))
	return f
}

func (f *fixture) join(t *testing.T, connID, name string, role models.Role) {
	t.Helper()
	require.NoError(t, f.sess.Join(connID, name, role))
}

func (f *fixture) createPoll(t *testing.T, question string, timeLimit int, options ...string) {
	t.Helper()
	require.NoError(t, f.sess.CreatePoll("teacher", models.CreatePollRequest{
		Question:  question,
		Options:   options,
		TimeLimit: timeLimit,
	}))
}

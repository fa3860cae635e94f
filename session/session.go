// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/live-poll/auth"
	"github.com/danielhkuo/live-poll/models"
)

// Dispatcher pushes events to connected clients. It is the only writer to
// the transport; calls must not block on slow clients.
type Dispatcher interface {
	Broadcast(event string, payload any)
	Send(connID string, event string, payload any)
	Disconnect(connID string)
}

// HistoryStore is the append-only archive of closed polls
type HistoryStore interface {
	Append(ctx context.Context, entry models.HistoryEntry) error
	List(ctx context.Context) ([]models.HistoryEntry, error)
}

// Timer is a pending closure that can be cancelled
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d
type AfterFunc func(d time.Duration, f func()) Timer

type Option func(*Session)

// WithAfterFunc replaces the timer source used for poll closure
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Session) {
		s.afterFunc = fn
	}
}

// WithClock replaces the time source used for ids and timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithStoreTimeout bounds each history store call
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.storeTimeout = d
	}
}

// Session is the single serialization domain for one classroom. Every
// state change and the broadcasts it causes happen under mu, so all clients
// observe poll events in the same order.
type Session struct {
	mu sync.Mutex

	dispatcher Dispatcher
	history    HistoryStore

	participants *registry
	ledger       *voteLedger
	poll         *models.Poll
	timer        Timer
	lastPollID   int64

	afterFunc    AfterFunc
	now          func() time.Time
	storeTimeout time.Duration
}

func New(dispatcher Dispatcher, history HistoryStore, opts ...Option) *Session {
	s := &Session{
		dispatcher:   dispatcher,
		history:      history,
		participants: newRegistry(),
		ledger:       newVoteLedger(),
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		now:          time.Now,
		storeTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// requester looks up the caller and checks it may perform action
func (s *Session) requester(connID string, action auth.Action) (models.Participant, error) {
	p, ok := s.participants.get(connID)
	if !ok || !auth.Allowed(p.Role, action) {
		return models.Participant{}, ErrPermissionDenied
	}
	return p, nil
}

// Join registers connID and sends it the current poll state
func (s *Session) Join(connID, name string, role models.Role) error {
	name, err := auth.NormalizeName(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParticipant, err)
	}
	if err := auth.ValidateRole(role); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParticipant, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants.join(connID, name, role)
	slog.Info("participant joined", "conn_id", connID, "name", name, "role", role)

	state := models.PollStatePayload{
		Poll:     s.poll,
		HasVoted: role == models.RoleStudent && s.poll != nil && s.ledger.hasVoted(name),
		Results:  ComputeResults(s.poll, s.ledger.size()),
	}
	s.dispatcher.Send(connID, models.EventPollState, state)
	s.broadcastParticipantsLocked()
	return nil
}

// Leave removes connID. Unknown connections are ignored.
func (s *Session) Leave(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants.get(connID)
	if !ok {
		return
	}
	s.participants.leave(connID)
	slog.Info("participant left", "conn_id", connID, "name", p.Name, "role", p.Role)
	s.broadcastParticipantsLocked()
}

// Kick disconnects every connection using targetName. Registry removal is
// immediate; the transport closes asynchronously.
func (s *Session) Kick(connID, targetName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	requester, err := s.requester(connID, auth.ActionKick)
	if err != nil {
		return err
	}

	targets := s.participants.connectionsNamed(strings.TrimSpace(targetName))
	if len(targets) == 0 {
		return fmt.Errorf("%w: %q", ErrParticipantNotFound, targetName)
	}

	for _, id := range targets {
		s.dispatcher.Send(id, models.EventKickedOut, models.KickedOutPayload{})
		s.participants.leave(id)
		s.dispatcher.Disconnect(id)
	}
	slog.Info("participant kicked", "by", requester.Name, "target", targetName, "connections", len(targets))

	s.broadcastParticipantsLocked()
	return nil
}

// Participants sends the participant list to connID only
func (s *Session) Participants(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requester(connID, auth.ActionViewParticipants); err != nil {
		return err
	}
	s.dispatcher.Send(connID, models.EventParticipantsUpdate, s.participants.list())
	return nil
}

// PollHistory sends the archived polls to connID only
func (s *Session) PollHistory(ctx context.Context, connID string) error {
	s.mu.Lock()
	_, err := s.requester(connID, auth.ActionViewHistory)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	entries, err := s.history.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list poll history: %w", err)
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	s.dispatcher.Send(connID, models.EventPollHistory, entries)
	return nil
}

// SendChat broadcasts a chat line from connID to everyone
func (s *Session) SendChat(connID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidMessage)
	}
	if utf8.RuneCountInString(text) > models.MaxChatLength {
		return fmt.Errorf("%w: message must be at most %d characters", ErrInvalidMessage, models.MaxChatLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.requester(connID, auth.ActionChat)
	if err != nil {
		return err
	}

	s.dispatcher.Broadcast(models.EventChatMessage, models.ChatMessage{
		ID:        auth.NewID(),
		User:      p.Name,
		UserType:  p.Role,
		Message:   text,
		Timestamp: s.now(),
	})
	return nil
}

// Snapshot returns the current poll, vote total and results
func (s *Session) Snapshot() models.CurrentPollResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.CurrentPollResponse{
		Poll:       s.poll.Clone(),
		TotalVotes: s.ledger.size(),
		Results:    ComputeResults(s.poll, s.ledger.size()),
	}
}

// Shutdown cancels any pending closure timer
func (s *Session) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *Session) broadcastParticipantsLocked() {
	s.dispatcher.Broadcast(models.EventUserCountUpdate, s.participants.counts())
	s.dispatcher.Broadcast(models.EventParticipantsUpdate, s.participants.list())
}

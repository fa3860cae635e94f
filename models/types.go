// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// Role is the part a participant plays in the session
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Poll limits
const (
	MaxNameLength     = 50
	MaxQuestionLength = 200
	MaxOptionLength   = 100
	MaxChatLength     = 500
	MinOptions        = 2
	MaxOptions        = 6
	DefaultTimeLimit  = 60
)

// AllowedTimeLimits lists the accepted poll durations in seconds
var AllowedTimeLimits = []int{30, 60, 90, 120}

// Commands sent by clients
const (
	CommandJoin            = "join"
	CommandCreatePoll      = "create_poll"
	CommandSubmitVote      = "submit_vote"
	CommandGetParticipants = "get_participants"
	CommandGetPollHistory  = "get_poll_history"
	CommandKickUser        = "kick_user"
	CommandSendChat        = "send_chat_message"
)

// Events pushed to clients
const (
	EventPollState          = "poll_state"
	EventNewPoll            = "new_poll"
	EventPollUpdate         = "poll_update"
	EventPollEnded          = "poll_ended"
	EventVoteConfirmed      = "vote_confirmed"
	EventUserCountUpdate    = "user_count_update"
	EventParticipantsUpdate = "participants_update"
	EventPollHistory        = "poll_history"
	EventChatMessage        = "chat_message"
	EventKickedOut          = "kicked_out"
	EventError              = "error"
)

// Envelope is a single websocket frame in either direction
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Command payloads

type JoinRequest struct {
	Name     string `json:"name"`
	UserType Role   `json:"userType"`
}

type CreatePollRequest struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"timeLimit"`
}

// SubmitVoteRequest keeps OptionIndex a pointer so a missing index is
// distinguishable from option 0
type SubmitVoteRequest struct {
	OptionIndex *int `json:"optionIndex"`
}

type KickUserRequest struct {
	TargetUser string `json:"targetUser"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// Domain types

// Participant is one live connection's identity
type Participant struct {
	ConnectionID string `json:"-"`
	Name         string `json:"name"`
	Role         Role   `json:"type"`
}

type PollOption struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type Poll struct {
	ID        int64        `json:"id"`
	Question  string       `json:"question"`
	Options   []PollOption `json:"options"`
	TimeLimit int          `json:"timeLimit"`
	CreatedAt time.Time    `json:"createdAt"`
	IsActive  bool         `json:"isActive"`
}

// Clone returns a deep copy so callers can hold a poll outside the session lock
func (p *Poll) Clone() *Poll {
	if p == nil {
		return nil
	}
	c := *p
	c.Options = append([]PollOption(nil), p.Options...)
	return &c
}

// OptionResult is the aggregate for one option, in poll option order
type OptionResult struct {
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

// HistoryEntry is an immutable record of a closed poll
type HistoryEntry struct {
	PollID      int64          `json:"id"`
	Question    string         `json:"question"`
	Options     []OptionResult `json:"options"`
	TotalVotes  int            `json:"totalVotes"`
	CompletedAt time.Time      `json:"completedAt"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	UserType  Role      `json:"userType"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Event payloads

type PollStatePayload struct {
	Poll     *Poll          `json:"poll"`
	HasVoted bool           `json:"hasVoted"`
	Results  []OptionResult `json:"results"`
}

type PollUpdatePayload struct {
	TotalVotes int            `json:"totalVotes"`
	Results    []OptionResult `json:"results"`
}

type PollEndedPayload struct {
	Poll       *Poll          `json:"poll"`
	Results    []OptionResult `json:"results"`
	TotalVotes int            `json:"totalVotes"`
}

type VoteConfirmedPayload struct {
	OptionIndex int `json:"optionIndex"`
}

type UserCountPayload struct {
	Teachers int `json:"teachers"`
	Students int `json:"students"`
}

type KickedOutPayload struct{}

type ErrorPayload struct {
	Message string `json:"message"`
}

// REST response types

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type CurrentPollResponse struct {
	Poll       *Poll          `json:"poll"`
	TotalVotes int            `json:"totalVotes"`
	Results    []OptionResult `json:"results"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/live-poll/auth"
	"github.com/danielhkuo/live-poll/models"
)

// CreatePoll starts a new poll on behalf of a teacher
func (s *Session) CreatePoll(connID string, req models.CreatePollRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	requester, err := s.requester(connID, auth.ActionCreatePoll)
	if err != nil {
		return err
	}
	question, options, timeLimit, err := validatePoll(req)
	if err != nil {
		return err
	}
	if !s.acceptingNewPollLocked() {
		return ErrPollStillActive
	}

	// The previous poll may still be flagged active when every connected
	// student voted without triggering closure (e.g. a student left).
	s.closeLocked("replaced")

	s.ledger.reset()
	s.stopTimerLocked()

	now := s.now()
	id := max(s.lastPollID+1, now.UnixMilli())
	s.lastPollID = id

	pollOptions := make([]models.PollOption, len(options))
	for i, text := range options {
		pollOptions[i] = models.PollOption{Text: text}
	}
	s.poll = &models.Poll{
		ID:        id,
		Question:  question,
		Options:   pollOptions,
		TimeLimit: timeLimit,
		CreatedAt: now,
		IsActive:  true,
	}

	s.timer = s.afterFunc(time.Duration(timeLimit)*time.Second, func() {
		s.expire(id)
	})

	slog.Info("poll created", "poll_id", id, "by", requester.Name, "options", len(options), "time_limit", timeLimit)
	s.dispatcher.Broadcast(models.EventNewPoll, s.poll)
	return nil
}

// SubmitVote records a student's single, final vote
func (s *Session) SubmitVote(connID string, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voter, err := s.requester(connID, auth.ActionSubmitVote)
	if err != nil {
		return err
	}
	if s.poll == nil || !s.poll.IsActive {
		return ErrNoActivePoll
	}
	if s.ledger.hasVoted(voter.Name) {
		return ErrAlreadyVoted
	}
	if optionIndex < 0 || optionIndex >= len(s.poll.Options) {
		return fmt.Errorf("%w: %d", ErrInvalidOption, optionIndex)
	}

	s.ledger.record(voter.Name, optionIndex)
	s.poll.Options[optionIndex].Votes++

	s.dispatcher.Send(connID, models.EventVoteConfirmed, models.VoteConfirmedPayload{OptionIndex: optionIndex})
	s.dispatcher.Broadcast(models.EventPollUpdate, models.PollUpdatePayload{
		TotalVotes: s.ledger.size(),
		Results:    ComputeResults(s.poll, s.ledger.size()),
	})
	slog.Info("vote recorded", "poll_id", s.poll.ID, "voter", voter.Name, "option", optionIndex)

	students := s.participants.counts().Students
	if students > 0 && s.ledger.size() >= students {
		s.closeLocked("all students voted")
	}
	return nil
}

// expire is the timer path into closure. A timer left over from an older
// poll finds a different id and does nothing.
func (s *Session) expire(pollID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poll == nil || s.poll.ID != pollID {
		return
	}
	s.closeLocked("time limit reached")
}

// acceptingNewPollLocked reports whether a new poll may replace the current
// one: there is none, it is closed, or every connected student has voted.
func (s *Session) acceptingNewPollLocked() bool {
	if s.poll == nil || !s.poll.IsActive {
		return true
	}
	for _, name := range s.participants.students() {
		if !s.ledger.hasVoted(name) {
			return false
		}
	}
	return true
}

// closeLocked ends the active poll exactly once. The check-and-flip of
// IsActive happens under mu, the same lock that guards vote recording.
func (s *Session) closeLocked(reason string) {
	if s.poll == nil || !s.poll.IsActive {
		return
	}
	s.poll.IsActive = false
	s.stopTimerLocked()

	totalVotes := s.ledger.size()
	results := ComputeResults(s.poll, totalVotes)

	entry := models.HistoryEntry{
		PollID:      s.poll.ID,
		Question:    s.poll.Question,
		Options:     results,
		TotalVotes:  totalVotes,
		CompletedAt: s.now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
	defer cancel()
	if err := s.history.Append(ctx, entry); err != nil {
		slog.Error("failed to archive poll", "poll_id", s.poll.ID, "error", err)
	}

	slog.Info("poll ended", "poll_id", s.poll.ID, "reason", reason, "total_votes", totalVotes)
	s.dispatcher.Broadcast(models.EventPollEnded, models.PollEndedPayload{
		Poll:       s.poll,
		Results:    results,
		TotalVotes: totalVotes,
	})
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// validatePoll trims and checks a create request
func validatePoll(req models.CreatePollRequest) (string, []string, int, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return "", nil, 0, fmt.Errorf("%w: question is required", ErrInvalidPollSpec)
	}
	if utf8.RuneCountInString(question) > models.MaxQuestionLength {
		return "", nil, 0, fmt.Errorf("%w: question must be at most %d characters", ErrInvalidPollSpec, models.MaxQuestionLength)
	}

	if len(req.Options) < models.MinOptions || len(req.Options) > models.MaxOptions {
		return "", nil, 0, fmt.Errorf("%w: need between %d and %d options", ErrInvalidPollSpec, models.MinOptions, models.MaxOptions)
	}
	options := make([]string, len(req.Options))
	for i, opt := range req.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return "", nil, 0, fmt.Errorf("%w: option %d is empty", ErrInvalidPollSpec, i+1)
		}
		if utf8.RuneCountInString(opt) > models.MaxOptionLength {
			return "", nil, 0, fmt.Errorf("%w: option %d must be at most %d characters", ErrInvalidPollSpec, i+1, models.MaxOptionLength)
		}
		options[i] = opt
	}

	timeLimit := req.TimeLimit
	if timeLimit == 0 {
		timeLimit = models.DefaultTimeLimit
	}
	if !slices.Contains(models.AllowedTimeLimits, timeLimit) {
		return "", nil, 0, fmt.Errorf("%w: time limit must be one of %v seconds", ErrInvalidPollSpec, models.AllowedTimeLimits)
	}

	return question, options, timeLimit, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "errors"

// Command errors. Each is reported only to the connection that issued the
// command and leaves session state untouched.
var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNoActivePoll        = errors.New("no active poll")
	ErrAlreadyVoted        = errors.New("you have already voted")
	ErrInvalidOption       = errors.New("invalid option")
	ErrInvalidPollSpec     = errors.New("invalid poll")
	ErrPollStillActive     = errors.New("the current poll is still accepting votes")
	ErrInvalidParticipant  = errors.New("invalid participant")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrInvalidMessage      = errors.New("invalid chat message")
)

var publicErrors = []error{
	ErrPermissionDenied,
	ErrNoActivePoll,
	ErrAlreadyVoted,
	ErrInvalidOption,
	ErrInvalidPollSpec,
	ErrPollStillActive,
	ErrInvalidParticipant,
	ErrParticipantNotFound,
	ErrInvalidMessage,
}

// IsCommandError reports whether err is one of the session's command errors,
// meaning its message is safe to show to the client.
func IsCommandError(err error) bool {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

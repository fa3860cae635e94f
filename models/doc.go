// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, wire and response types shared by the server.

# Wire Envelope

Every websocket frame in either direction is an Envelope:

	{"event": "submit_vote", "data": {"optionIndex": 1}}

# Command Payloads

Types for decoding client commands:

  - JoinRequest: name, userType
  - CreatePollRequest: question, options, timeLimit
  - SubmitVoteRequest: optionIndex
  - KickUserRequest: targetUser
  - ChatRequest: message

# Event Payloads

Types pushed to clients:

  - PollStatePayload: poll, hasVoted, results (joining connection only)
  - PollUpdatePayload: totalVotes, results
  - PollEndedPayload: poll, results, totalVotes
  - VoteConfirmedPayload: optionIndex (submitter only)
  - UserCountPayload: teachers, students
  - ErrorPayload: message (originating connection only)

# Domain Types

  - Participant: connection identity with display name and role
  - Poll: question, options with vote counts, time limit, active flag
  - OptionResult: votes and rounded percentage for one option
  - HistoryEntry: immutable record of a closed poll
  - ChatMessage: server-stamped chat line

# Constants

Roles:

	RoleTeacher = "teacher"
	RoleStudent = "student"

Accepted time limits (seconds):

	AllowedTimeLimits = []int{30, 60, 90, 120}
*/
package models

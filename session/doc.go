// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session coordinates one live classroom poll.

A Session owns the participant registry, the current poll, its vote ledger
and the closure timer. All of them are guarded by a single mutex, and every
broadcast caused by a state change is issued while that mutex is held, so
clients see new_poll, poll_update and poll_ended in causal order.

# Lifecycle

	NoActivePoll --CreatePoll--> PollActive --closure--> NoActivePoll

Closure is triggered by the time limit or by every connected student having
voted. Both paths flip Poll.IsActive under the lock, so a poll is archived
and announced exactly once.

# Wiring

	sess := session.New(hub, historyStore)
	err := sess.Join(connID, "Ada", models.RoleStudent)
	err = sess.SubmitVote(connID, 0)

Errors returned by commands are sentinel values (ErrAlreadyVoted,
ErrPollStillActive, ...) meant for the originating connection only; a
failed command leaves the session unchanged.
*/
package session

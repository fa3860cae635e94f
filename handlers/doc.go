// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the websocket and HTTP handlers for the live poll
server.

# Handler Types

  - SocketHandler: upgrades /ws, registers the connection with the hub and
    turns each inbound frame into a session command
  - PollHandler: read-only JSON views of the current poll and the history

	socketHandler := handlers.NewSocketHandler(sess, hub, cfg)
	pollHandler := handlers.NewPollHandler(sess, history)

# Commands

Every frame is {"event": name, "data": payload}:

	join              {name, userType}
	create_poll       {question, options, timeLimit}   teacher
	submit_vote       {optionIndex}                    student
	get_participants  {}
	get_poll_history  {}
	kick_user         {targetUser}                     teacher
	send_chat_message {message}

# Errors

A rejected command produces an "error" event for the sender only. Session
command errors carry their own message; malformed frames say what was wrong;
anything else, including a recovered panic, becomes "Something went wrong"
and is logged.

# Connection Lifetime

The read loop runs on the HTTP handler goroutine. When it ends the session
processes a leave and the hub drops the client. Origins are checked against
cliparse.Config.AllowedOrigins with middleware.OriginAllowed.
*/
package handlers

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package broadcast fans session events out to websocket clients.

Hub implements the session's Dispatcher. Every frame is JSON:

	{"event": "poll_update", "data": {"totalVotes": 3, "results": [...]}}

Each client gets a buffered queue and a single writer goroutine, so the
hub never blocks the session on a slow network. A client whose queue fills
up is dropped; its read loop then ends and the session sees a normal leave.

# Usage

	hub := broadcast.NewHub()
	client := hub.Register(conn)
	defer hub.Unregister(client.ID)
	client.ReadPump(func(data []byte) { ... })

Disconnect closes a client after the frames already queued for it, which is
how a kicked_out notice reaches the kicked participant before the socket
closes.
*/
package broadcast

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the live poll server.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(sess, hub, history, cfg)

# Endpoints

Inspection (read-only JSON):

	GET /api/health       - Liveness and server time
	GET /api/poll/current - Current poll with live results
	GET /api/poll/history - Closed polls, oldest first

Live session:

	GET /ws - Websocket upgrade; all commands and events flow here

# Handler Initialization

The router creates handler instances with dependency injection:

	pollHandler := handlers.NewPollHandler(sess, history)
	socketHandler := handlers.NewSocketHandler(sess, hub, cfg)

Every route is wrapped in middleware.WithLogging. CORS is applied around the
whole mux in main.
*/
package router

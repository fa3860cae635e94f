// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/live-poll/broadcast"
	"github.com/danielhkuo/live-poll/cliparse"
	"github.com/danielhkuo/live-poll/handlers"
	"github.com/danielhkuo/live-poll/middleware"
	"github.com/danielhkuo/live-poll/session"
)

func NewRouter(sess *session.Session, hub *broadcast.Hub, history session.HistoryStore, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(sess, history)
	socketHandler := handlers.NewSocketHandler(sess, hub, cfg)

	// Out-of-band inspection
	mux.HandleFunc("GET /api/health", middleware.WithLogging(pollHandler.Health))
	mux.HandleFunc("GET /api/poll/current", middleware.WithLogging(middleware.WithRecovery(pollHandler.CurrentPoll)))
	mux.HandleFunc("GET /api/poll/history", middleware.WithLogging(middleware.WithRecovery(pollHandler.History)))

	// Live session; the connection is hijacked so no recovery wrapper
	mux.HandleFunc("GET /ws", middleware.WithLogging(socketHandler.ServeWS))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("live-poll API v1"))
	})

	return mux
}

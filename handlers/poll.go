// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/live-poll/middleware"
	"github.com/danielhkuo/live-poll/models"
	"github.com/danielhkuo/live-poll/session"
)

type PollHandler struct {
	sess    *session.Session
	history session.HistoryStore
}

func NewPollHandler(sess *session.Session, history session.HistoryStore) *PollHandler {
	return &PollHandler{sess: sess, history: history}
}

// Health handles GET /api/health
func (h *PollHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
	})
}

// CurrentPoll handles GET /api/poll/current
// Returns the current poll (or null) with live results
func (h *PollHandler) CurrentPoll(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.sess.Snapshot())
}

// History handles GET /api/poll/history
// Returns every closed poll, oldest first
func (h *PollHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.List(r.Context())
	if err != nil {
		slog.Error("failed to list poll history", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	middleware.JSONResponse(w, http.StatusOK, entries)
}

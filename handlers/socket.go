// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/live-poll/broadcast"
	"github.com/danielhkuo/live-poll/cliparse"
	"github.com/danielhkuo/live-poll/middleware"
	"github.com/danielhkuo/live-poll/models"
	"github.com/danielhkuo/live-poll/session"
)

const genericErrorMessage = "Something went wrong"

var errMalformedCommand = errors.New("malformed command")

type SocketHandler struct {
	sess     *session.Session
	hub      *broadcast.Hub
	upgrader websocket.Upgrader
}

func NewSocketHandler(sess *session.Session, hub *broadcast.Hub, cfg cliparse.Config) *SocketHandler {
	return &SocketHandler{
		sess: sess,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin
				return origin == "" || middleware.OriginAllowed(cfg.AllowedOrigins, origin)
			},
		},
	}
}

// ServeWS handles GET /ws
// Upgrades the connection and runs its command loop until it closes
func (h *SocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		slog.Warn("websocket upgrade failed", "remote", middleware.GetClientIP(r), "error", err)
		return
	}

	client := h.hub.Register(conn)
	defer func() {
		h.sess.Leave(client.ID)
		h.hub.Unregister(client.ID)
	}()

	ctx := r.Context()
	client.ReadPump(func(data []byte) {
		h.handleFrame(ctx, client.ID, data)
	})
}

// handleFrame runs one command. Failures are reported to the sender only.
func (h *SocketHandler) handleFrame(ctx context.Context, connID string, data []byte) {
	var event string
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("command panicked", "conn_id", connID, "event", event, "panic", rec)
			h.hub.Send(connID, models.EventError, models.ErrorPayload{Message: genericErrorMessage})
		}
	}()

	var env models.Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
		h.reportError(connID, "", fmt.Errorf("%w: expected {\"event\", \"data\"}", errMalformedCommand))
		return
	}
	event = env.Event

	if err := h.dispatch(ctx, connID, env); err != nil {
		h.reportError(connID, event, err)
	}
}

func (h *SocketHandler) dispatch(ctx context.Context, connID string, env models.Envelope) error {
	switch env.Event {
	case models.CommandJoin:
		var req models.JoinRequest
		if err := decodeData(env.Data, &req); err != nil {
			return err
		}
		return h.sess.Join(connID, req.Name, req.UserType)

	case models.CommandCreatePoll:
		var req models.CreatePollRequest
		if err := decodeData(env.Data, &req); err != nil {
			return err
		}
		return h.sess.CreatePoll(connID, req)

	case models.CommandSubmitVote:
		var req models.SubmitVoteRequest
		if err := decodeData(env.Data, &req); err != nil {
			return err
		}
		if req.OptionIndex == nil {
			return fmt.Errorf("%w: optionIndex is required", session.ErrInvalidOption)
		}
		return h.sess.SubmitVote(connID, *req.OptionIndex)

	case models.CommandGetParticipants:
		return h.sess.Participants(connID)

	case models.CommandGetPollHistory:
		return h.sess.PollHistory(ctx, connID)

	case models.CommandKickUser:
		var req models.KickUserRequest
		if err := decodeData(env.Data, &req); err != nil {
			return err
		}
		return h.sess.Kick(connID, req.TargetUser)

	case models.CommandSendChat:
		var req models.ChatRequest
		if err := decodeData(env.Data, &req); err != nil {
			return err
		}
		return h.sess.SendChat(connID, req.Message)

	default:
		return fmt.Errorf("%w: unknown command %q", errMalformedCommand, env.Event)
	}
}

// reportError sends the error's message for rejected commands and a generic
// one for internal faults
func (h *SocketHandler) reportError(connID, event string, err error) {
	message := genericErrorMessage
	if session.IsCommandError(err) || errors.Is(err, errMalformedCommand) {
		message = err.Error()
		slog.Info("command rejected", "conn_id", connID, "event", event, "error", err)
	} else {
		slog.Error("command failed", "conn_id", connID, "event", event, "error", err)
	}
	h.hub.Send(connID, models.EventError, models.ErrorPayload{Message: message})
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", errMalformedCommand)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errMalformedCommand, err)
	}
	return nil
}

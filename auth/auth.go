// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/live-poll/models"
)

var (
	ErrInvalidRole = errors.New("role must be teacher or student")
	ErrInvalidName = errors.New("invalid display name")
)

// Action is a command a participant may attempt
type Action string

const (
	ActionCreatePoll       Action = "create_poll"
	ActionSubmitVote       Action = "submit_vote"
	ActionKick             Action = "kick_user"
	ActionChat             Action = "send_chat_message"
	ActionViewParticipants Action = "get_participants"
	ActionViewHistory      Action = "get_poll_history"
)

var permissions = map[Action][]models.Role{
	ActionCreatePoll:       {models.RoleTeacher},
	ActionKick:             {models.RoleTeacher},
	ActionSubmitVote:       {models.RoleStudent},
	ActionChat:             {models.RoleTeacher, models.RoleStudent},
	ActionViewParticipants: {models.RoleTeacher, models.RoleStudent},
	ActionViewHistory:      {models.RoleTeacher, models.RoleStudent},
}

// Allowed reports whether role may perform action.
// Unknown roles and unknown actions are never allowed.
func Allowed(role models.Role, action Action) bool {
	for _, r := range permissions[action] {
		if r == role {
			return true
		}
	}
	return false
}

// ValidateRole checks that role is one of the known roles
func ValidateRole(role models.Role) error {
	switch role {
	case models.RoleTeacher, models.RoleStudent:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidRole, role)
}

// NormalizeName trims a display name and checks its length
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > models.MaxNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrInvalidName, models.MaxNameLength)
	}
	return name, nil
}

// NewID returns a random opaque identifier for connections and chat messages
func NewID() string {
	return uuid.NewString()
}

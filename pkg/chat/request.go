package chat

import (
	"fmt"
	"strings"
)

// Request represents the body of a POST /chat call.
type Request struct {
	Messages []Message `json:"messages"` // Conversation history, oldest first
}

// Validate checks the request shape top-down: the messages array must be
// present and non-empty, then each message in order must carry a known role
// and non-empty content. The first violation is returned as a
// *ValidationError and no further checks run.
func (r *Request) Validate() error {
	if len(r.Messages) == 0 {
		return &ValidationError{Reason: "messages must be a non-empty array"}
	}

	for i, msg := range r.Messages {
		switch msg.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return &ValidationError{
				Reason: fmt.Sprintf("messages[%d]: role must be one of system, user, assistant", i),
			}
		}
		if strings.TrimSpace(msg.Content) == "" {
			return &ValidationError{
				Reason: fmt.Sprintf("messages[%d]: content must not be empty", i),
			}
		}
	}

	return nil
}

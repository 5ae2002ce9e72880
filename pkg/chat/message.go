// Package chat provides the wire types exchanged with relay clients and the
// validation rules applied to incoming requests before anything is forwarded
// upstream.
package chat

// Roles accepted in a conversation.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // The message content
}

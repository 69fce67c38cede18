package models

// Role identifies the author of a chat message
type Role string

// Message roles used by the chat store
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single entry in the conversation.
// Formatted is true when Content already carries markup produced by the
// formatting transform.
type Message struct {
	Role      Role
	Content   string
	Formatted bool
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

package models

import "time"

// Role tags a conversation entry with its author
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
)

// Message is a single role-tagged entry in a conversation
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time // Stamped locally when appended, display only
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

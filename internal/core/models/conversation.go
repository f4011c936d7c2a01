package models

import (
	"errors"
	"time"
)

var (
	ErrEmptyID           = errors.New("conversation id cannot be empty")
	ErrIDAlreadyAssigned = errors.New("conversation id already assigned")
)

// Conversation is a thread of prompts and replies bound to one assistant.
//
// A conversation created locally has no ID until the backend acknowledges the
// first prompt. Listings from the backend never carry message history, so
// Messages only holds what was exchanged in this process.
type Conversation struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"name"`
	Assistant string    `json:"assistant"` // Assistant name, not the record
	Messages  []Message `json:"-"`
}

// NewConversation returns a conversation that the backend has not seen yet
func NewConversation(title, assistant string) *Conversation {
	return &Conversation{
		Title:     title,
		Assistant: assistant,
		Messages:  []Message{},
	}
}

// HasID reports whether the backend has assigned an id
func (c *Conversation) HasID() bool {
	return c.ID != ""
}

// AssignID sets the backend id. The id moves from none to a value once and
// never changes afterwards; assigning the current value again is a no-op.
func (c *Conversation) AssignID(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if c.ID == id {
		return nil
	}
	if c.ID != "" {
		return ErrIDAlreadyAssigned
	}
	c.ID = id
	return nil
}

// Append adds an entry at the end of the history
func (c *Conversation) Append(role Role, content string) Message {
	msg := Message{Role: role, Content: content, Timestamp: time.Now()}
	c.Messages = append(c.Messages, msg)
	return msg
}

// LastReply returns the most recent assistant message, if any
func (c *Conversation) LastReply() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// Package cache holds the conversations exchanged during this process.
package cache

import (
	"errors"
	"sort"
	"sync"

	"github.com/neilberkman/majordomo/internal/core/models"
)

var ErrNoID = errors.New("cannot cache a conversation without an id")

// Conversations maps conversation id to the live record so that returning to
// a conversation shows the history accumulated so far. Entries are never
// removed and never written to disk.
type Conversations struct {
	mu      sync.RWMutex
	entries map[string]*models.Conversation
}

// New creates an empty cache; it lives as long as its owner
func New() *Conversations {
	return &Conversations{
		entries: make(map[string]*models.Conversation),
	}
}

// Get returns the cached conversation for id
func (c *Conversations) Get(id string) (*models.Conversation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conv, ok := c.entries[id]
	return conv, ok
}

// Upsert stores conv under its id, replacing any previous record
func (c *Conversations) Upsert(conv *models.Conversation) error {
	if conv == nil || !conv.HasID() {
		return ErrNoID
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[conv.ID] = conv
	return nil
}

// Len returns the number of cached conversations
func (c *Conversations) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// IDs returns the cached ids in sorted order
func (c *Conversations) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/neilberkman/majordomo/internal/core/models"
)

func TestUpsertAndGet(t *testing.T) {
	c := New()

	if _, ok := c.Get("thread_1"); ok {
		t.Fatal("Get() on empty cache should miss")
	}

	conv := &models.Conversation{ID: "thread_1", Title: "one", Assistant: "PyDev"}
	if err := c.Upsert(conv); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	got, ok := c.Get("thread_1")
	if !ok || got != conv {
		t.Fatalf("Get() = %v, %v; want cached record", got, ok)
	}

	// Upsert replaces, it does not add
	replacement := &models.Conversation{ID: "thread_1", Title: "renamed", Assistant: "PyDev"}
	if err := c.Upsert(replacement); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if got, _ := c.Get("thread_1"); got.Title != "renamed" {
		t.Errorf("Title = %q, want renamed", got.Title)
	}
}

func TestUpsertRejectsLocalConversation(t *testing.T) {
	c := New()
	tests := []struct {
		name string
		conv *models.Conversation
	}{
		{name: "nil", conv: nil},
		{name: "no id", conv: models.NewConversation("draft", "PyDev")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Upsert(tt.conv); err != ErrNoID {
				t.Errorf("Upsert() error = %v, want %v", err, ErrNoID)
			}
		})
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestConcurrentUpserts(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("thread_%02d", i%10)
			_ = c.Upsert(&models.Conversation{ID: id, Title: id})
			c.Get(id)
		}(i)
	}
	wg.Wait()

	ids := c.IDs()
	if len(ids) != 10 {
		t.Fatalf("IDs() = %v, want 10 ids", ids)
	}
	if ids[0] != "thread_00" || ids[9] != "thread_09" {
		t.Errorf("IDs() not sorted: %v", ids)
	}
}

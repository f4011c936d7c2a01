package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/neilberkman/majordomo/internal/core/config"
	"github.com/neilberkman/majordomo/internal/core/models"
)

func sampleConversation() *models.Conversation {
	conv := &models.Conversation{ID: "thread_1", Title: "Refactor the parser", Assistant: "PyDev"}
	at := time.Date(2025, 5, 3, 9, 30, 0, 0, time.UTC)
	conv.Messages = []models.Message{
		{Role: models.RoleUser, Content: "Where is the tokenizer?", Timestamp: at},
		{Role: models.RoleAssistant, Content: "In `pkg/parser/parser.go`.", Timestamp: at.Add(time.Minute)},
	}
	return conv
}

func TestMarkdown(t *testing.T) {
	now := time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)
	out, err := Markdown(sampleConversation(), "majordomo", config.DefaultExportTemplate, now)
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}

	for _, want := range []string{
		"# Refactor the parser",
		"`thread_1`",
		"**Project:** majordomo",
		"**Assistant:** PyDev",
		"**Messages:** 2",
		"**USER** _May 03, 2025 09:30:00_",
		"**ASSISTANT** _May 03, 2025 09:31:00_",
		"In `pkg/parser/parser.go`.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown() missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "**USER**") > strings.Index(out, "**ASSISTANT**") {
		t.Error("messages out of order")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		conv *models.Conversation
		want string
	}{
		{name: "with id", conv: &models.Conversation{ID: "thread_abc", Title: "x"}, want: "conversation-thread_abc.md"},
		{name: "unsaved", conv: models.NewConversation("My New Idea!", "PyDev"), want: "conversation-my-new-idea.md"},
		{name: "no usable title", conv: models.NewConversation("???", "PyDev"), want: "conversation-untitled.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileName(tt.conv); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := WriteFile(dir, sampleConversation(), "majordomo", "{{{title}}} ({{count}})")
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if path != filepath.Join(dir, "conversation-thread_1.md") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Refactor the parser (2)" {
		t.Errorf("content = %q", data)
	}
}

// Package export writes a conversation transcript to markdown.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/cbroglie/mustache"

	"github.com/neilberkman/majordomo/internal/core/models"
)

const timeFormat = "Jan 02, 2006 15:04:05"

// Markdown renders conv through a mustache template. The template sees
// title, id, project, assistant, exported, count and a messages list with
// role, time and content.
func Markdown(conv *models.Conversation, project, tmpl string, now time.Time) (string, error) {
	id := conv.ID
	if id == "" {
		id = "unsaved"
	}

	messages := make([]map[string]string, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		messages = append(messages, map[string]string{
			"role":    string(msg.Role),
			"time":    msg.Timestamp.Format(timeFormat),
			"content": msg.Content,
		})
	}

	out, err := mustache.Render(tmpl, map[string]any{
		"title":     conv.Title,
		"id":        id,
		"project":   project,
		"assistant": conv.Assistant,
		"exported":  now.Format(timeFormat),
		"count":     len(conv.Messages),
		"messages":  messages,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render transcript: %w", err)
	}
	return out, nil
}

// FileName returns conversation-<id>.md, or a name built from the title for
// a conversation the backend has not seen yet
func FileName(conv *models.Conversation) string {
	if conv.HasID() {
		return fmt.Sprintf("conversation-%s.md", slug(conv.ID))
	}
	return fmt.Sprintf("conversation-%s.md", slug(conv.Title))
}

// WriteFile renders conv into dir and returns the path written
func WriteFile(dir string, conv *models.Conversation, project, tmpl string) (string, error) {
	content, err := Markdown(conv, project, tmpl, time.Now())
	if err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(conv))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteRune('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "untitled"
	}
	return out
}

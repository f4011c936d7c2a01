package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/neilberkman/majordomo/internal/core/models"
)

func (m Model) openChat(conv *models.Conversation) (tea.Model, tea.Cmd) {
	m.conv = conv
	m.mode = chatView
	m.input.Reset()
	cmd := m.input.Focus()
	m = m.refreshChat()
	return m, cmd
}

// chatMessages is the transcript to draw. While an ask is in flight conv
// belongs to the ask, so the snapshot taken at send time is used instead.
func (m Model) chatMessages() []models.Message {
	if m.asking {
		return m.pending
	}
	if m.conv == nil {
		return nil
	}
	return m.conv.Messages
}

func (m Model) refreshChat() Model {
	m = m.ensureRenderer()
	m.viewport.SetContent(renderMessages(m.chatMessages(), m.width, m.renderer))
	m.viewport.GotoBottom()
	return m
}

// ensureRenderer rebuilds the markdown renderer when the wrap width changes
func (m Model) ensureRenderer() Model {
	width := wrapWidth(m.width)
	if m.renderer != nil && m.rendererWidth == width {
		return m
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.renderer = nil
		return m
	}
	m.renderer = r
	m.rendererWidth = width
	return m
}

func wrapWidth(width int) int {
	w := width - 10
	if w < 40 {
		w = 40
	}
	return w
}

func (m Model) send() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.input.Value())
	if prompt == "" || m.asking || m.conv == nil {
		return m, nil
	}

	m.pending = append(slices.Clone(m.conv.Messages), models.Message{
		Role:      models.RoleUser,
		Content:   prompt,
		Timestamp: time.Now(),
	})
	m.asking = true
	m.input.Reset()
	m = m.refreshChat()
	return m, tea.Batch(askAssistant(m.svc, m.conv, prompt), m.spinner.Tick)
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input.Focused() {
		switch msg.String() {
		case "esc", "tab":
			m.input.Blur()
			return m, nil
		case "enter":
			return m.send()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		if m.asking {
			m.status = "Waiting for the assistant..."
			return m, nil
		}
		m.mode = conversationsView
		m = m.rebuildConversations()
		return m, nil

	case "i", "tab", "enter":
		cmd := m.input.Focus()
		return m, cmd

	case "y":
		if m.asking {
			return m, nil
		}
		reply, ok := m.conv.LastReply()
		if !ok {
			m.status = "No reply to copy yet"
			return m, nil
		}
		return m, copyReply(reply.Content)

	case "e":
		if m.asking {
			return m, nil
		}
		snapshot := *m.conv
		snapshot.Messages = slices.Clone(m.conv.Messages)
		return m, exportConversation(snapshot, m.project, m.opts.ExportDir, m.opts.ExportTemplate)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewChat() string {
	if m.conv == nil {
		return ""
	}

	var b strings.Builder
	// The title and assistant never change during an ask
	b.WriteString(titleStyle.Render(fmt.Sprintf("Majordomo › %s › %s", m.project, m.conv.Title)))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render("Assistant: " + m.conv.Assistant))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.asking {
		b.WriteString(m.spinner.View() + " " + m.conv.Assistant + " is thinking...")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

// renderMessages draws the transcript: assistant replies as markdown, user
// text word wrapped
func renderMessages(messages []models.Message, width int, renderer *glamour.TermRenderer) string {
	if len(messages) == 0 {
		return helpStyle.Render("No messages yet. Type a prompt below to start.")
	}

	rule := ""
	if width > 0 {
		rule = strings.Repeat("─", width)
	}

	var b strings.Builder
	for _, msg := range messages {
		var style lipgloss.Style
		switch msg.Role {
		case models.RoleUser:
			style = userStyle
		case models.RoleAssistant:
			style = assistantStyle
		default:
			style = lipgloss.NewStyle()
		}

		// Render message header
		b.WriteString(style.Render(fmt.Sprintf("▸ %s", msg.Role)))
		b.WriteString(" ")
		b.WriteString(timestampStyle.Render(humanize.Time(msg.Timestamp)))
		b.WriteString("\n")

		content := wordwrap.String(msg.Content, wrapWidth(width))
		if !msg.IsUser() && renderer != nil {
			if rendered, err := renderer.Render(msg.Content); err == nil {
				content = strings.Trim(rendered, "\n")
			}
		}
		b.WriteString(content)
		b.WriteString("\n\n")
		if rule != "" {
			b.WriteString(rule + "\n\n")
		}
	}
	return b.String()
}

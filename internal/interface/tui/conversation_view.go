package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/majordomo/internal/core/models"
)

// conversationListItem copies what it displays; the record itself may be
// written by an ask running on another goroutine
type conversationListItem struct {
	conv      *models.Conversation
	title     string
	id        string
	assistant string
}

func newConversationListItem(c *models.Conversation) conversationListItem {
	return conversationListItem{conv: c, title: c.Title, id: c.ID, assistant: c.Assistant}
}

func (i conversationListItem) FilterValue() string { return i.title }

func (i conversationListItem) Title() string { return i.title }

func (i conversationListItem) Description() string {
	id := i.id
	if id == "" {
		id = "unsaved"
	}
	return fmt.Sprintf("%s | %s", i.assistant, id)
}

func (i conversationListItem) highlight() (bool, bool) { return false, i.id == "" }

// rebuildConversations lists this session's local conversations first, then
// the fetched ones, once per id
func (m Model) rebuildConversations() Model {
	seen := make(map[string]bool, len(m.fetched))
	for _, c := range m.fetched {
		seen[c.ID] = true
	}

	var items []list.Item
	for _, c := range m.local[m.project] {
		if c.HasID() && seen[c.ID] {
			continue
		}
		items = append(items, newConversationListItem(c))
	}
	for _, c := range m.fetched {
		items = append(items, newConversationListItem(c))
	}

	cursor := m.conversations.Index()
	m.conversations = newList(items, m.width, m.listHeight())
	if cursor < len(items) {
		m.conversations.Select(cursor)
	}
	return m
}

func (m Model) updateConversations(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if selected, ok := m.conversations.SelectedItem().(conversationListItem); ok {
			return m.openChat(selected.conv)
		}
		return m, nil

	case "n":
		return m.openForm()

	case "esc":
		m.mode = projectsView
		return m, nil
	}

	var cmd tea.Cmd
	m.conversations, cmd = m.conversations.Update(msg)
	return m, cmd
}

func (m Model) viewConversations() string {
	header := titleStyle.Render("Majordomo › " + m.project)
	if !m.convsLoaded {
		return header + "\n\nLoading conversations..."
	}
	if len(m.conversations.Items()) == 0 {
		return header + "\n\nNo conversations yet. Press 'n' to start one."
	}
	return header + "\n\n" + m.conversations.View()
}

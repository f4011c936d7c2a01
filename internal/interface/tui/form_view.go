package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/majordomo/internal/core/models"
)

type assistantListItem struct {
	assistant models.Assistant
}

func (i assistantListItem) FilterValue() string { return i.assistant.Name }

func (i assistantListItem) Title() string { return i.assistant.Name }

func (i assistantListItem) Description() string {
	if i.assistant.Instructions == "" {
		return i.assistant.Model
	}
	return i.assistant.Model + " | " + firstLine(i.assistant.Instructions, 60)
}

func createAssistantList(assistants []models.Assistant, width, height int) list.Model {
	items := make([]list.Item, len(assistants))
	for i, a := range assistants {
		items[i] = assistantListItem{assistant: a}
	}
	return newList(items, width, height)
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	m.mode = newConversationView
	m.titleInput.Reset()
	m.titleInput.Blur()
	m.titleFocused = false
	if m.assistantsLoaded {
		return m, nil
	}
	return m, loadAssistants(m.svc)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.titleFocused = !m.titleFocused
		if m.titleFocused {
			cmd := m.titleInput.Focus()
			return m, cmd
		}
		m.titleInput.Blur()
		return m, nil

	case "esc":
		m.mode = conversationsView
		m.titleInput.Blur()
		m.titleFocused = false
		return m, nil

	case "enter":
		selected, ok := m.assistants.SelectedItem().(assistantListItem)
		if !ok {
			m.status = "No assistant selected"
			return m, nil
		}
		title := strings.TrimSpace(m.titleInput.Value())
		if title == "" {
			title = defaultTitle
		}
		return m, createConversation(m.svc, title, selected.assistant.Name)
	}

	var cmd tea.Cmd
	if m.titleFocused {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.assistants, cmd = m.assistants.Update(msg)
	}
	return m, cmd
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Majordomo › " + m.project + " › New conversation"))
	b.WriteString("\n\n")
	b.WriteString(m.titleInput.View())
	b.WriteString("\n\n")

	switch {
	case !m.assistantsLoaded:
		b.WriteString("Loading assistants...")
	case len(m.assistants.Items()) == 0:
		b.WriteString("No assistants available. Press 'r' to retry.")
	default:
		b.WriteString(m.assistants.View())
	}
	return b.String()
}

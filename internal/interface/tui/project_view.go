package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/majordomo/internal/core/models"
)

// highlighter marks items drawn with activeItemStyle or unsavedStyle
type highlighter interface {
	list.DefaultItem
	highlight() (bool, bool) // active, unsaved
}

type projectListItem struct {
	project models.Project
	active  bool
}

func (i projectListItem) FilterValue() string { return i.project.Name }

func (i projectListItem) Title() string {
	if i.active {
		return i.project.Name + " (active)"
	}
	return i.project.Name
}

func (i projectListItem) Description() string {
	parts := []string{}
	if i.project.Description != "" {
		parts = append(parts, firstLine(i.project.Description, 60))
	}
	if i.project.Location != "" {
		parts = append(parts, i.project.Location)
	}
	return strings.Join(parts, " | ")
}

func (i projectListItem) highlight() (bool, bool) { return i.active, false }

// Custom delegate to handle active and unsaved highlighting
type itemDelegate struct {
	list.DefaultDelegate
}

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	s, ok := item.(highlighter)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := s.Title()
	desc := s.Description()
	active, unsaved := s.highlight()

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	case active:
		title = itemStyle.Render(activeItemStyle.Render(title))
		desc = itemStyle.Render(desc)
	case unsaved:
		title = itemStyle.Render(unsavedStyle.Render(title))
		desc = itemStyle.Render(desc)
	default:
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func newList(items []list.Item, width, height int) list.Model {
	delegate := itemDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(items, delegate, width, height)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	// esc means "back" here, never "quit"
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func createProjectList(projects []models.Project, active string, width, height int) list.Model {
	items := make([]list.Item, len(projects))
	cursor := 0
	for i, p := range projects {
		items[i] = projectListItem{project: p, active: p.Name == active}
		if p.Name == active {
			cursor = i
		}
	}

	l := newList(items, width, height)
	l.Select(cursor)
	return l
}

func (m Model) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if selected, ok := m.projects.SelectedItem().(projectListItem); ok {
			m.project = selected.project.Name
			m.mode = conversationsView
			m.convsLoaded = false
			m.fetched = nil
			m.conversations = newList(nil, m.width, m.listHeight())
			return m, loadConversations(m.svc, m.project)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.projects, cmd = m.projects.Update(msg)
	return m, cmd
}

func (m Model) viewProjects() string {
	header := titleStyle.Render("Majordomo › Projects")
	if !m.projectsLoaded {
		return header + "\n\nLoading projects..."
	}
	if len(m.projects.Items()) == 0 {
		return header + "\n\nNo projects found. Press 'r' to retry."
	}
	return header + "\n\n" + m.projects.View()
}

func firstLine(s string, maxLen int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len([]rune(s)) > maxLen {
		return string([]rune(s)[:maxLen]) + "..."
	}
	return s
}

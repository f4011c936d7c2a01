package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?":
		m.mode = m.prevMode
		return m, nil
	}

	return m, nil
}

func (m Model) viewHelp() string {
	help := `
Majordomo - Help
════════════════

PROJECTS
────────
  ↑/↓, j/k     Navigate projects
  Enter        Show the project's conversations
  r            Refresh listings from the server
  q            Quit

CONVERSATIONS
─────────────
  Enter        Open conversation
  n            Start a new conversation
  r            Refresh
  esc          Back to projects

NEW CONVERSATION
────────────────
  tab          Switch between assistant list and title
  Enter        Create the conversation
  esc          Back to conversations

CHAT
────
  Enter        Send prompt (while typing)
  esc          Leave the prompt / back to conversations
  i            Start typing
  y            Copy last reply to clipboard
  e            Export transcript as markdown
  j/k          Scroll line by line
  d/u          Scroll half page

Press ? or esc to return
`

	return helpStyle.Render(help)
}

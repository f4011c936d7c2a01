package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/neilberkman/majordomo/internal/core/api"
	"github.com/neilberkman/majordomo/internal/core/models"
	"github.com/neilberkman/majordomo/internal/core/session"
)

type viewMode int

const (
	projectsView viewMode = iota
	conversationsView
	newConversationView
	chatView
	helpView
)

const defaultTitle = "New Conversation"

// Options carries the presentation settings from the config file
type Options struct {
	ExportDir      string
	ExportTemplate string
}

type Model struct {
	svc      *session.Service
	notes    <-chan *api.ResponseError
	opts     Options
	mode     viewMode
	prevMode viewMode
	width    int
	height   int

	// Project view
	projects       list.Model
	projectsLoaded bool
	activeProject  string

	// Conversation view
	project       string
	conversations list.Model
	convsLoaded   bool
	fetched       []*models.Conversation
	local         map[string][]*models.Conversation // created here, newest first

	// New conversation form
	assistants       list.Model
	assistantsLoaded bool
	titleInput       textinput.Model
	titleFocused     bool

	// Chat view
	conv          *models.Conversation
	viewport      viewport.Model
	input         textarea.Model
	spinner       spinner.Model
	asking        bool
	pending       []models.Message // what to show while an ask owns conv
	renderer      *glamour.TermRenderer
	rendererWidth int

	notice *api.ResponseError
	status string
}

// New creates the root model. notes delivers notifications raised by svc.
func New(svc *session.Service, notes <-chan *api.ResponseError, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = defaultTitle
	ti.CharLimit = 120
	ti.Prompt = "Title: "

	ta := textarea.New()
	ta.Placeholder = "Ask the assistant... (Enter to send, Esc to leave the prompt)"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = assistantStyle

	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	return Model{
		svc:           svc,
		notes:         notes,
		opts:          opts,
		mode:          projectsView,
		projects:      newList(nil, 0, 0),
		conversations: newList(nil, 0, 0),
		assistants:    newList(nil, 0, 0),
		local:         make(map[string][]*models.Conversation),
		titleInput:    ti,
		input:         ta,
		spinner:       sp,
		viewport:      viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadProjects(m.svc), waitForNotification(m.notes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.resize()
		return m, nil

	case tea.KeyMsg:
		m.notice = nil
		m.status = ""

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.typing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "?":
				if m.mode != helpView {
					m.prevMode = m.mode
					m.mode = helpView
					return m, nil
				}
			case "r":
				if m.mode != helpView {
					return m.refresh()
				}
			}
		}

		// Mode-specific key handling
		switch m.mode {
		case projectsView:
			return m.updateProjects(msg)
		case conversationsView:
			return m.updateConversations(msg)
		case newConversationView:
			return m.updateForm(msg)
		case chatView:
			return m.updateChat(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case projectsLoadedMsg:
		m.projectsLoaded = true
		m.activeProject = msg.active
		m.projects = createProjectList(msg.projects, msg.active, m.width, m.listHeight())
		return m, nil

	case conversationsLoadedMsg:
		if msg.project != m.project {
			return m, nil
		}
		m.convsLoaded = true
		m.fetched = msg.conversations
		m = m.rebuildConversations()
		return m, nil

	case assistantsLoadedMsg:
		m.assistantsLoaded = true
		m.assistants = createAssistantList(msg.assistants, m.width, m.listHeight()-2)
		return m, nil

	case conversationCreatedMsg:
		m.local[m.project] = append([]*models.Conversation{msg.conv}, m.local[m.project]...)
		return m.openChat(msg.conv)

	case askDoneMsg:
		if msg.conv != m.conv {
			return m, nil
		}
		m.asking = false
		m.pending = nil
		m = m.refreshChat()
		return m, nil

	case spinner.TickMsg:
		if m.asking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case notificationMsg:
		m.notice = msg.err
		return m, waitForNotification(m.notes)

	case statusMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = msg.text
		}
		return m, nil
	}

	// Cursor blink and other component messages
	if m.mode == chatView {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	if m.mode == newConversationView {
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	var body string
	switch m.mode {
	case projectsView:
		body = m.viewProjects()
	case conversationsView:
		body = m.viewConversations()
	case newConversationView:
		body = m.viewForm()
	case chatView:
		body = m.viewChat()
	case helpView:
		return m.viewHelp()
	}
	return body + "\n" + m.viewFooter()
}

// typing reports whether keys go to a text field
func (m Model) typing() bool {
	switch m.mode {
	case chatView:
		return m.input.Focused()
	case newConversationView:
		return m.titleFocused
	}
	return false
}

// refresh drops the memoized listings and reloads what the current view shows
func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.svc.Refresh()
	switch m.mode {
	case projectsView:
		m.projectsLoaded = false
		return m, loadProjects(m.svc)
	case conversationsView:
		m.convsLoaded = false
		return m, loadConversations(m.svc, m.project)
	case newConversationView:
		m.assistantsLoaded = false
		return m, loadAssistants(m.svc)
	}
	m.status = "Listings refreshed"
	return m, nil
}

// listHeight is the room left for a list after header and footer
func (m Model) listHeight() int {
	h := m.height - 4
	if h < 0 {
		return 0
	}
	return h
}

func (m Model) resize() Model {
	m.projects.SetSize(m.width, m.listHeight())
	m.conversations.SetSize(m.width, m.listHeight())
	m.assistants.SetSize(m.width, m.listHeight()-2)
	m.titleInput.Width = m.width - len(m.titleInput.Prompt) - 2

	m.input.SetWidth(m.width - 2)
	m.viewport.Width = m.width
	vh := m.height - 3 - m.input.Height() - 3
	if vh < 1 {
		vh = 1
	}
	m.viewport.Height = vh
	if m.mode == chatView {
		m = m.refreshChat()
	}
	return m
}

func (m Model) viewFooter() string {
	if m.notice != nil {
		return errorTitleStyle.Render(m.notice.Title) + " " + errorBodyStyle.Render(m.notice.Message)
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return helpStyle.Render(m.helpLine())
}

func (m Model) helpLine() string {
	switch m.mode {
	case projectsView:
		return "↑/k up • ↓/j down • enter open • r refresh • q quit • ? more"
	case conversationsView:
		return "enter open • n new • r refresh • esc back • q quit • ? more"
	case newConversationView:
		return "tab switch field • enter create • esc back"
	case chatView:
		if m.input.Focused() {
			return "enter send • esc leave prompt"
		}
		return "i prompt • y copy reply • e export • j/k scroll • esc back • q quit"
	}
	return ""
}

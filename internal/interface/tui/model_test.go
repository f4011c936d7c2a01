package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/majordomo/internal/core/api"
	"github.com/neilberkman/majordomo/internal/core/models"
	"github.com/neilberkman/majordomo/internal/core/notify"
	"github.com/neilberkman/majordomo/internal/core/session"
)

// scriptedClient answers every call from fixed data
type scriptedClient struct {
	listing       models.ProjectListing
	assistants    []models.Assistant
	conversations []*models.Conversation
	prompt        api.Result[api.PromptResponse]
}

func (c *scriptedClient) FetchProjects(ctx context.Context) api.Result[models.ProjectListing] {
	return api.Result[models.ProjectListing]{Value: c.listing}
}

func (c *scriptedClient) FetchAssistants(ctx context.Context) api.Result[[]models.Assistant] {
	return api.Result[[]models.Assistant]{Value: c.assistants}
}

func (c *scriptedClient) FetchConversations(ctx context.Context, projectKey string) api.Result[[]*models.Conversation] {
	out := make([]*models.Conversation, 0, len(c.conversations))
	for _, conv := range c.conversations {
		cp := *conv
		cp.Messages = []models.Message{}
		out = append(out, &cp)
	}
	return api.Result[[]*models.Conversation]{Value: out}
}

func (c *scriptedClient) SubmitPrompt(ctx context.Context, req api.PromptRequest) api.Result[api.PromptResponse] {
	return c.prompt
}

func newTestModel(t *testing.T, client *scriptedClient) (Model, *notify.Channel) {
	t.Helper()
	notes := notify.NewChannel(8)
	svc := session.New(client, nil, notes)
	m := New(svc, notes.C(), Options{ExportDir: t.TempDir()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), notes
}

func defaultClient() *scriptedClient {
	return &scriptedClient{
		listing: models.ProjectListing{
			ActiveProject: "gpt4-go",
			Projects: []models.Project{
				{Name: "majordomo", Description: "assistant"},
				{Name: "gpt4-go", Location: "/src/gpt4-go"},
			},
		},
		assistants: []models.Assistant{{ID: "asst_1", Name: "GoDev", Model: "gpt-4"}},
		conversations: []*models.Conversation{
			{ID: "thread_1", Title: "Parser", Assistant: "GoDev"},
		},
		prompt: api.Result[api.PromptResponse]{Value: api.PromptResponse{
			Status: api.StatusSuccess, Message: "Use **bufio.Scanner**.", ThreadID: "thread_new",
		}},
	}
}

// run executes cmd synchronously and feeds its message back into the model
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(key(k))
	return next.(Model), cmd
}

func TestProjectCursorStartsOnActive(t *testing.T) {
	m, _ := newTestModel(t, defaultClient())
	m = run(t, m, loadProjects(m.svc))

	if got := m.projects.Index(); got != 1 {
		t.Errorf("cursor = %d, want 1 (active project)", got)
	}
	if view := m.View(); !strings.Contains(view, "gpt4-go (active)") {
		t.Errorf("view does not mark the active project:\n%s", view)
	}
}

func TestNewConversationAndAsk(t *testing.T) {
	m, _ := newTestModel(t, defaultClient())
	m = run(t, m, loadProjects(m.svc))

	m, cmd := press(m, "enter")
	if m.mode != conversationsView || m.project != "gpt4-go" {
		t.Fatalf("mode = %v project = %q", m.mode, m.project)
	}
	m = run(t, m, cmd)
	if n := len(m.conversations.Items()); n != 1 {
		t.Fatalf("conversations = %d, want 1", n)
	}

	m, cmd = press(m, "n")
	m = run(t, m, cmd)
	m, _ = press(m, "tab")
	m.titleInput.SetValue("Reading files")
	m, cmd = press(m, "enter")
	m = run(t, m, cmd)

	if m.mode != chatView || m.conv == nil || m.conv.Title != "Reading files" || m.conv.HasID() {
		t.Fatalf("expected chat on a new local conversation, got mode %v conv %+v", m.mode, m.conv)
	}

	m.input.SetValue("How do I read a file line by line?")
	m, cmd = press(m, "enter")
	if !m.asking || len(m.pending) != 1 {
		t.Fatalf("asking = %v pending = %d", m.asking, len(m.pending))
	}
	if !strings.Contains(m.View(), "is thinking") {
		t.Error("spinner line missing while asking")
	}

	// The batch holds the ask followed by the spinner tick
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("send returned %T, want a batch", cmd())
	}
	m = run(t, m, batch[0])
	if m.asking {
		t.Fatal("still asking after askDoneMsg")
	}
	if m.conv.ID != "thread_new" || len(m.conv.Messages) != 2 {
		t.Errorf("conv = %+v", m.conv)
	}
	if !strings.Contains(m.viewport.View(), "bufio.Scanner") {
		t.Errorf("reply not rendered:\n%s", m.viewport.View())
	}

	m, _ = press(m, "esc") // leave the prompt
	m, _ = press(m, "esc") // back to the list
	if m.mode != conversationsView {
		t.Fatalf("mode = %v, want conversations", m.mode)
	}
	items := m.conversations.Items()
	if len(items) != 2 {
		t.Fatalf("conversations = %d, want local + fetched", len(items))
	}
	if first := items[0].(conversationListItem); first.id != "thread_new" {
		t.Errorf("first item id = %q, want thread_new", first.id)
	}
}

func TestAskRunsOnce(t *testing.T) {
	m, _ := newTestModel(t, defaultClient())
	conv := m.svc.CreateLocalConversation("Once", "GoDev")
	next, _ := m.openChat(conv)
	m = next.(Model)

	m.input.SetValue("hello")
	m, _ = press(m, "enter")
	m = run(t, m, askAssistant(m.svc, m.conv, "hello"))

	if conv.ID != "thread_new" {
		t.Errorf("ID = %q, want thread_new", conv.ID)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(conv.Messages))
	}
	if _, ok := m.svc.Cache().Get("thread_new"); !ok {
		t.Error("conversation not cached after the first exchange")
	}
}

func TestNotificationBar(t *testing.T) {
	m, notes := newTestModel(t, defaultClient())
	notes.Notify(&api.ResponseError{Kind: api.KindConnection, Title: api.TitleConnection, Message: "connection refused"})

	m = run(t, m, waitForNotification(notes.C()))
	view := m.View()
	if !strings.Contains(view, "Connection Error") || !strings.Contains(view, "connection refused") {
		t.Errorf("notification not shown:\n%s", view)
	}

	// The bar clears on the next key press and the view stays put
	m, _ = press(m, "j")
	if m.notice != nil || m.mode != projectsView {
		t.Errorf("notice = %v mode = %v", m.notice, m.mode)
	}
}

func TestUnknownAssistantNotifies(t *testing.T) {
	m, notes := newTestModel(t, defaultClient())
	if msg := createConversation(m.svc, "x", "Nobody")(); msg != nil {
		t.Fatalf("createConversation() = %#v, want nil", msg)
	}

	select {
	case err := <-notes.C():
		if err.Title != "Assistant Not Found" {
			t.Errorf("Title = %q", err.Title)
		}
	default:
		t.Fatal("no notification for unknown assistant")
	}
}

func TestRenderMessages(t *testing.T) {
	at := time.Now().Add(-3 * time.Minute)
	messages := []models.Message{
		{Role: models.RoleUser, Content: strings.Repeat("word ", 30), Timestamp: at},
		{Role: models.RoleAssistant, Content: "plain answer", Timestamp: at},
	}

	out := renderMessages(messages, 60, nil)
	for _, want := range []string{"USER", "ASSISTANT", "3 minutes ago", "plain answer"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "word") && len(line) > wrapWidth(60) {
			t.Errorf("user line not wrapped: %q", line)
		}
	}

	if got := renderMessages(nil, 60, nil); !strings.Contains(got, "No messages yet") {
		t.Errorf("empty transcript = %q", got)
	}
}

package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/majordomo/internal/core/api"
	"github.com/neilberkman/majordomo/internal/core/export"
	"github.com/neilberkman/majordomo/internal/core/models"
	"github.com/neilberkman/majordomo/internal/core/session"
)

type projectsLoadedMsg struct {
	active   string
	projects []models.Project
}

type conversationsLoadedMsg struct {
	project       string
	conversations []*models.Conversation
}

type assistantsLoadedMsg struct {
	assistants []models.Assistant
}

type conversationCreatedMsg struct {
	conv *models.Conversation
}

type askDoneMsg struct {
	conv  *models.Conversation
	reply models.Message
	ok    bool
}

type notificationMsg struct {
	err *api.ResponseError
}

// statusMsg is a one-line confirmation such as "copied"
type statusMsg struct {
	text string
	err  error
}

func loadProjects(svc *session.Service) tea.Cmd {
	return func() tea.Msg {
		active, projects := svc.ListProjects(context.Background())
		return projectsLoadedMsg{active: active, projects: projects}
	}
}

func loadConversations(svc *session.Service, project string) tea.Cmd {
	return func() tea.Msg {
		return conversationsLoadedMsg{
			project:       project,
			conversations: svc.ListConversations(context.Background(), project),
		}
	}
}

func loadAssistants(svc *session.Service) tea.Cmd {
	return func() tea.Msg {
		return assistantsLoadedMsg{assistants: svc.ListAssistants(context.Background())}
	}
}

// createConversation checks the assistant exists before making the local record.
// A miss is reported through the notifier and yields no message.
func createConversation(svc *session.Service, title, assistant string) tea.Cmd {
	return func() tea.Msg {
		if _, ok := svc.AssistantByName(context.Background(), assistant); !ok {
			return nil
		}
		return conversationCreatedMsg{conv: svc.CreateLocalConversation(title, assistant)}
	}
}

func askAssistant(svc *session.Service, conv *models.Conversation, prompt string) tea.Cmd {
	return func() tea.Msg {
		reply, ok := svc.AskAssistant(context.Background(), prompt, conv)
		return askDoneMsg{conv: conv, reply: reply, ok: ok}
	}
}

// waitForNotification blocks until the next notification arrives
func waitForNotification(ch <-chan *api.ResponseError) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg{err: err}
	}
}

func copyReply(content string) tea.Cmd {
	return func() tea.Msg {
		// Use cross-platform clipboard library
		if err := clipboard.WriteAll(content); err != nil {
			return statusMsg{err: fmt.Errorf("clipboard unavailable: %w", err)}
		}
		return statusMsg{text: "Reply copied to clipboard!"}
	}
}

// exportConversation renders from a snapshot so the conversation is never
// read concurrently with an ask
func exportConversation(snapshot models.Conversation, project, dir, tmpl string) tea.Cmd {
	return func() tea.Msg {
		path, err := export.WriteFile(dir, &snapshot, project, tmpl)
		if err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "Exported to " + path}
	}
}

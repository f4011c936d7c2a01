package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/neilberkman/majordomo/internal/core/api"
	"github.com/neilberkman/majordomo/internal/core/models"
	"github.com/neilberkman/majordomo/internal/core/session"
)

const defaultTitle = "New Conversation"

// ListConversationsArgs defines arguments for the list_conversations tool
type ListConversationsArgs struct {
	Project string `json:"project" jsonschema:"description=Project name,required"`
}

// AskArgs defines arguments for the ask_majordomo tool
type AskArgs struct {
	Prompt    string `json:"prompt" jsonschema:"description=Question or instruction for the assistant,required"`
	Assistant string `json:"assistant" jsonschema:"description=Assistant name,required"`
	ThreadID  string `json:"thread_id,omitempty" jsonschema:"description=Existing conversation to continue"`
	Title     string `json:"title,omitempty" jsonschema:"description=Title for a new conversation"`
}

// ProjectSummary represents a project in the list_projects result
type ProjectSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Active      bool   `json:"active"`
}

// ConversationSummary represents a conversation in the list_conversations result
type ConversationSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Assistant string `json:"assistant"`
}

// AskResult is the answer returned by ask_majordomo
type AskResult struct {
	ThreadID  string `json:"thread_id"`
	Assistant string `json:"assistant"`
	Answer    string `json:"answer"`
}

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// NewServer registers the Majordomo tools on a fresh MCP server
func NewServer(client session.RemoteClient, version string) *server.MCPServer {
	s := server.NewMCPServer("Majordomo", version)

	projectsTool := mcp.NewTool("list_projects",
		mcp.WithDescription("List the projects configured on the Majordomo server and which one is active"),
	)
	s.AddTool(projectsTool, makeListProjectsHandler(client))

	assistantsTool := mcp.NewTool("list_assistants",
		mcp.WithDescription("List the coding assistants available on the Majordomo server"),
	)
	s.AddTool(assistantsTool, makeListAssistantsHandler(client))

	conversationsTool := mcp.NewTool("list_conversations",
		mcp.WithDescription("List the saved conversations of a project"),
		mcp.WithString("project",
			mcp.Required(),
			mcp.Description("Project name")),
	)
	s.AddTool(conversationsTool, makeListConversationsHandler(client))

	askTool := mcp.NewTool("ask_majordomo",
		mcp.WithDescription("Ask a Majordomo assistant a question. Pass thread_id to continue an earlier conversation; the answer includes the thread id to reuse."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Question or instruction for the assistant")),
		mcp.WithString("assistant",
			mcp.Required(),
			mcp.Description("Assistant name, see list_assistants")),
		mcp.WithString("thread_id",
			mcp.Description("Existing conversation to continue")),
		mcp.WithString("title",
			mcp.Description("Title for a new conversation (default: New Conversation)")),
	)
	s.AddTool(askTool, makeAskHandler(client))

	return s
}

// StartServer serves the Majordomo tools over stdio
func StartServer(client session.RemoteClient, version string) error {
	return server.ServeStdio(NewServer(client, version))
}

func makeListProjectsHandler(client session.RemoteClient) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := client.FetchProjects(ctx)
		if !res.OK() {
			return errorResult(res.Err), nil
		}
		listing := res.Value

		projects := make([]ProjectSummary, 0, len(listing.Projects))
		for _, p := range listing.Projects {
			projects = append(projects, ProjectSummary{
				Name:        p.Name,
				Description: p.Description,
				Location:    p.Location,
				Active:      p.Name == listing.ActiveProject,
			})
		}
		return jsonResult(map[string]interface{}{
			"active_project": listing.ActiveProject,
			"projects":       projects,
		})
	}
}

func makeListAssistantsHandler(client session.RemoteClient) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := client.FetchAssistants(ctx)
		if !res.OK() {
			return errorResult(res.Err), nil
		}
		return jsonResult(map[string]interface{}{
			"assistants": res.Value,
		})
	}
}

func makeListConversationsHandler(client session.RemoteClient) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListConversationsArgs
		if err := bindArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if strings.TrimSpace(args.Project) == "" {
			return mcp.NewToolResultError("project is required"), nil
		}

		res := client.FetchConversations(ctx, args.Project)
		if !res.OK() {
			return errorResult(res.Err), nil
		}

		conversations := make([]ConversationSummary, 0, len(res.Value))
		for _, c := range res.Value {
			conversations = append(conversations, ConversationSummary{
				ID:        c.ID,
				Title:     c.Title,
				Assistant: c.Assistant,
			})
		}
		return jsonResult(map[string]interface{}{
			"project":       args.Project,
			"conversations": conversations,
		})
	}
}

func makeAskHandler(client session.RemoteClient) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args AskArgs
		if err := bindArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if strings.TrimSpace(args.Prompt) == "" || strings.TrimSpace(args.Assistant) == "" {
			return mcp.NewToolResultError("prompt and assistant are required"), nil
		}

		title := args.Title
		if title == "" {
			title = defaultTitle
		}
		conv := models.NewConversation(title, args.Assistant)
		conv.ID = args.ThreadID

		res := client.SubmitPrompt(ctx, api.NewPromptRequest(args.Prompt, conv))
		if !res.OK() {
			return errorResult(res.Err), nil
		}

		threadID := conv.ID
		if threadID == "" {
			threadID = res.Value.ThreadID
		}
		if threadID == "" {
			return mcp.NewToolResultError(api.TitleDecoding + ": response carried no thread id"), nil
		}
		return jsonResult(AskResult{
			ThreadID:  threadID,
			Assistant: args.Assistant,
			Answer:    res.Value.Message,
		})
	}
}

// bindArgs decodes the loosely typed tool arguments into v
func bindArgs(request mcp.CallToolRequest, v any) error {
	argsBytes, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(argsBytes, v)
}

func errorResult(err *api.ResponseError) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", err.Title, err.Message))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

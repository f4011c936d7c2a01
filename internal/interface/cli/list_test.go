package cli

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/neilberkman/majordomo/internal/core/api"
	"github.com/neilberkman/majordomo/internal/core/models"
	"github.com/neilberkman/majordomo/internal/core/notify"
	"github.com/neilberkman/majordomo/internal/core/session"
)

type listingClient struct {
	listing models.ProjectListing
}

func (c listingClient) FetchProjects(ctx context.Context) api.Result[models.ProjectListing] {
	return api.Result[models.ProjectListing]{Value: c.listing}
}

func (c listingClient) FetchAssistants(ctx context.Context) api.Result[[]models.Assistant] {
	return api.Result[[]models.Assistant]{Value: []models.Assistant{}}
}

func (c listingClient) FetchConversations(ctx context.Context, projectKey string) api.Result[[]*models.Conversation] {
	return api.Result[[]*models.Conversation]{Value: []*models.Conversation{}}
}

func (c listingClient) SubmitPrompt(ctx context.Context, req api.PromptRequest) api.Result[api.PromptResponse] {
	return api.Result[api.PromptResponse]{Err: &api.ResponseError{Kind: api.KindAssistant, Title: api.TitleAssistant}}
}

func TestResolveProject(t *testing.T) {
	listing := models.ProjectListing{
		ActiveProject: "majordomo",
		Projects:      []models.Project{{Name: "majordomo"}, {Name: "gpt4-go"}},
	}

	tests := []struct {
		name     string
		listing  models.ProjectListing
		arg      string
		want     string
		wantErr  bool
		reported bool
	}{
		{name: "explicit", listing: listing, arg: "gpt4-go", want: "gpt4-go"},
		{name: "active by default", listing: listing, arg: "", want: "majordomo"},
		{name: "unknown is reported", listing: listing, arg: "nope", wantErr: true, reported: true},
		{name: "no active project", listing: models.ProjectListing{Projects: listing.Projects}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &notify.Recorder{}
			svc := session.New(listingClient{listing: tt.listing}, nil, rec)

			got, err := resolveProject(context.Background(), svc, tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveProject() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveProject() = %q, want %q", got, tt.want)
			}
			if errors.Is(err, errReported) != tt.reported {
				t.Errorf("errReported = %v, want %v", errors.Is(err, errReported), tt.reported)
			}
			if tt.reported && rec.Len() != 1 {
				t.Errorf("notifications = %d, want 1", rec.Len())
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short", input: "Refactor parser", maxLen: 80, want: "Refactor parser"},
		{name: "collapses whitespace", input: "a\n\n  b\tc", maxLen: 80, want: "a b c"},
		{name: "breaks on word", input: "one two three four five six", maxLen: 12, want: "one two..."},
		{name: "cuts on rune boundary", input: "héllo wörld ünïcode", maxLen: 3, want: "hél..."},
		{name: "multibyte within limit", input: "日本語のテキスト", maxLen: 8, want: "日本語のテキスト"},
		{name: "multibyte cut", input: "日本語のテキスト", maxLen: 3, want: "日本語..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate() = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate() = %q is not valid UTF-8", got)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "You are a Python developer.\nAlways write tests.", want: "You are a Python developer."},
		{input: "\n  Terse answers only  ", want: "Terse answers only"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := firstLine(tt.input); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

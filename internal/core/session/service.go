// Package session is the caller-friendly surface over the backend client.
//
// Every operation here succeeds from the caller's point of view: backend
// failures are handed to the Notifier and replaced by an empty result, so
// presentation code never branches on transport errors.
package session

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/neilberkman/majordomo/internal/core/api"
	"github.com/neilberkman/majordomo/internal/core/cache"
	"github.com/neilberkman/majordomo/internal/core/models"
	"github.com/neilberkman/majordomo/internal/core/notify"
)

// RemoteClient is the part of *api.Client the service depends on
type RemoteClient interface {
	FetchProjects(ctx context.Context) api.Result[models.ProjectListing]
	FetchAssistants(ctx context.Context) api.Result[[]models.Assistant]
	FetchConversations(ctx context.Context, projectKey string) api.Result[[]*models.Conversation]
	SubmitPrompt(ctx context.Context, req api.PromptRequest) api.Result[api.PromptResponse]
}

// Service memoizes listings, resolves names and runs prompt exchanges
type Service struct {
	client        RemoteClient
	conversations *cache.Conversations
	notifier      notify.Notifier
	logger        *zap.Logger

	mu         sync.Mutex
	projects   *models.ProjectListing // nil until the first fetch
	assistants []models.Assistant     // nil until the first fetch
	flight     singleflight.Group
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a service. conversations is owned by the caller and outlives
// any Refresh; a nil cache gets a fresh one.
func New(client RemoteClient, conversations *cache.Conversations, n notify.Notifier, opts ...Option) *Service {
	if conversations == nil {
		conversations = cache.New()
	}
	if n == nil {
		n = notify.Func(func(*api.ResponseError) {})
	}
	s := &Service{
		client:        client,
		conversations: conversations,
		notifier:      n,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the conversation cache the service writes to
func (s *Service) Cache() *cache.Conversations {
	return s.conversations
}

// ListProjects returns the active project name and the project list.
// The first result, including an error fallback, is reused until Refresh.
func (s *Service) ListProjects(ctx context.Context) (string, []models.Project) {
	s.mu.Lock()
	if s.projects != nil {
		listing := *s.projects
		s.mu.Unlock()
		return listing.ActiveProject, slices.Clone(listing.Projects)
	}
	s.mu.Unlock()

	v, _, _ := s.flight.Do("projects", func() (any, error) {
		s.mu.Lock()
		if s.projects != nil {
			listing := *s.projects
			s.mu.Unlock()
			return listing, nil
		}
		s.mu.Unlock()

		listing := models.ProjectListing{Projects: []models.Project{}}
		res := s.client.FetchProjects(ctx)
		if res.OK() {
			listing = res.Value
		} else {
			s.surface(res.Err)
		}

		s.mu.Lock()
		s.projects = &listing
		s.mu.Unlock()
		return listing, nil
	})

	listing := v.(models.ProjectListing)
	return listing.ActiveProject, slices.Clone(listing.Projects)
}

// ListAssistants returns the assistants, memoized like ListProjects
func (s *Service) ListAssistants(ctx context.Context) []models.Assistant {
	s.mu.Lock()
	if s.assistants != nil {
		assistants := s.assistants
		s.mu.Unlock()
		return slices.Clone(assistants)
	}
	s.mu.Unlock()

	v, _, _ := s.flight.Do("assistants", func() (any, error) {
		s.mu.Lock()
		if s.assistants != nil {
			assistants := s.assistants
			s.mu.Unlock()
			return assistants, nil
		}
		s.mu.Unlock()

		assistants := []models.Assistant{}
		res := s.client.FetchAssistants(ctx)
		if res.OK() {
			assistants = res.Value
		} else {
			s.surface(res.Err)
		}

		s.mu.Lock()
		s.assistants = assistants
		s.mu.Unlock()
		return assistants, nil
	})

	return slices.Clone(v.([]models.Assistant))
}

// ListConversations fetches the conversations of a project on every call.
// Conversations already in the cache are returned as the cached record so
// their history survives navigation.
func (s *Service) ListConversations(ctx context.Context, projectKey string) []*models.Conversation {
	res := s.client.FetchConversations(ctx, projectKey)
	if !res.OK() {
		s.surface(res.Err)
		return []*models.Conversation{}
	}

	conversations := res.Value
	for i, conv := range conversations {
		if cached, ok := s.conversations.Get(conv.ID); ok {
			conversations[i] = cached
		}
	}
	return conversations
}

// Refresh drops the memoized project and assistant listings.
// The conversation cache is kept.
func (s *Service) Refresh() {
	s.mu.Lock()
	s.projects = nil
	s.assistants = nil
	s.flight.Forget("projects")
	s.flight.Forget("assistants")
	s.mu.Unlock()

	s.logger.Debug("listings refreshed", zap.Strings("kept_conversations", s.conversations.IDs()))
}

// ProjectByName finds a project in the memoized listing. A miss is notified
// and returned as a Not Found error.
func (s *Service) ProjectByName(ctx context.Context, name string) (models.Project, error) {
	_, projects := s.ListProjects(ctx)
	for _, p := range projects {
		if p.Name == name {
			return p, nil
		}
	}
	rerr := api.NotFound("Project", name)
	s.surface(rerr)
	return models.Project{}, rerr
}

// AssistantByName finds an assistant; a miss is notified and reported as false
func (s *Service) AssistantByName(ctx context.Context, name string) (models.Assistant, bool) {
	for _, a := range s.ListAssistants(ctx) {
		if a.Name == name {
			return a, true
		}
	}
	s.surface(api.NotFound("Assistant", name))
	return models.Assistant{}, false
}

// ConversationByTitle finds a conversation of a project by its title.
// A miss is notified and returned as a Not Found error.
func (s *Service) ConversationByTitle(ctx context.Context, title, projectKey string) (*models.Conversation, error) {
	for _, c := range s.ListConversations(ctx, projectKey) {
		if c.Title == title {
			return c, nil
		}
	}
	rerr := api.NotFound("Conversation", title)
	s.surface(rerr)
	return nil, rerr
}

// CreateLocalConversation starts a conversation the backend has not seen.
// It is cached only once the first prompt gets an answer.
func (s *Service) CreateLocalConversation(title, assistantName string) *models.Conversation {
	return models.NewConversation(title, assistantName)
}

// AskAssistant sends prompt in conv. The USER entry is always appended; the
// ASSISTANT entry, the id assignment and the cache upsert only happen when
// the backend answers successfully. Failures are notified and reported as false.
func (s *Service) AskAssistant(ctx context.Context, prompt string, conv *models.Conversation) (models.Message, bool) {
	conv.Append(models.RoleUser, prompt)

	res := s.client.SubmitPrompt(ctx, api.NewPromptRequest(prompt, conv))
	if !res.OK() {
		s.surface(res.Err)
		return models.Message{}, false
	}

	resp := res.Value
	if !conv.HasID() {
		if err := conv.AssignID(resp.ThreadID); err != nil {
			s.surface(&api.ResponseError{
				Kind:    api.KindDecoding,
				Title:   api.TitleDecoding,
				Message: "the backend did not return a conversation id",
				Cause:   err,
			})
			return models.Message{}, false
		}
		s.logger.Info("conversation created",
			zap.String("id", conv.ID),
			zap.String("title", conv.Title),
			zap.String("assistant", conv.Assistant))
	} else if resp.ThreadID != "" && resp.ThreadID != conv.ID {
		s.logger.Warn("backend answered on a different thread",
			zap.String("id", conv.ID),
			zap.String("thread_id", resp.ThreadID))
	}

	reply := conv.Append(models.RoleAssistant, resp.Message)
	if err := s.conversations.Upsert(conv); err != nil {
		s.logger.Error("failed to cache conversation", zap.String("id", conv.ID), zap.Error(err))
	} else {
		s.logger.Debug("conversation cached",
			zap.String("id", conv.ID),
			zap.Int("messages", len(conv.Messages)),
			zap.Int("cached", s.conversations.Len()))
	}
	return reply, true
}

func (s *Service) surface(err *api.ResponseError) {
	s.logger.Warn("backend error",
		zap.String("kind", err.Kind.String()),
		zap.String("title", err.Title),
		zap.String("message", err.Message))
	s.notifier.Notify(err)
}

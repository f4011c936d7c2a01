// Package api is the HTTP client for the Majordomo backend.
//
// Every operation returns a Result; transport, status and decoding failures
// are folded into a *ResponseError instead of being returned as bare errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neilberkman/majordomo/internal/core/models"
)

// DefaultTimeout bounds every request. There are no retries.
const DefaultTimeout = 30 * time.Second

// Client talks to the backend at a fixed base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the network timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for baseURL, e.g. http://localhost:5005
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured server address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchProjects lists the projects and the backend's active project.
// A non-empty active project always names one of the listed projects.
func (c *Client) FetchProjects(ctx context.Context) Result[models.ProjectListing] {
	var listing models.ProjectListing
	if rerr := c.getObject(ctx, "/projects", &listing, "projects"); rerr != nil {
		return fail[models.ProjectListing](rerr)
	}
	if listing.Projects == nil {
		listing.Projects = []models.Project{}
	}

	known := false
	for i := range listing.Projects {
		if err := listing.Projects[i].Validate(); err != nil {
			return fail[models.ProjectListing](decodingError(fmt.Errorf("project %d: %w", i, err)))
		}
		if listing.Projects[i].Name == listing.ActiveProject {
			known = true
		}
	}
	if listing.ActiveProject != "" && !known {
		return fail[models.ProjectListing](decodingError(
			fmt.Errorf("active project %q is not in the project list", listing.ActiveProject)))
	}
	return succeed(listing)
}

// FetchAssistants lists the assistants conversations can be bound to
func (c *Client) FetchAssistants(ctx context.Context) Result[[]models.Assistant] {
	var assistants []models.Assistant
	if rerr := c.getJSON(ctx, "/assistants", &assistants); rerr != nil {
		return fail[[]models.Assistant](rerr)
	}
	if assistants == nil {
		return fail[[]models.Assistant](decodingError(errors.New("response is not a JSON array")))
	}
	for i := range assistants {
		if err := assistants[i].Validate(); err != nil {
			return fail[[]models.Assistant](decodingError(fmt.Errorf("assistant %d: %w", i, err)))
		}
	}
	return succeed(assistants)
}

// FetchConversations lists the conversations of a project.
// Message history is not part of the listing; every conversation starts empty.
func (c *Client) FetchConversations(ctx context.Context, projectKey string) Result[[]*models.Conversation] {
	var body threadsResponse
	path := "/projects/" + url.PathEscape(projectKey) + "/conversations"
	if rerr := c.getObject(ctx, path, &body, "threads"); rerr != nil {
		return fail[[]*models.Conversation](rerr)
	}

	conversations := make([]*models.Conversation, 0, len(body.Threads))
	for _, conv := range body.Threads {
		if conv == nil {
			continue
		}
		conv.Messages = []models.Message{}
		conversations = append(conversations, conv)
	}
	return succeed(conversations)
}

// SubmitPrompt sends a prompt and returns the backend's answer.
// A 2xx response whose status is not "success" is an Assistant Error.
func (c *Client) SubmitPrompt(ctx context.Context, req PromptRequest) Result[PromptResponse] {
	payload, err := json.Marshal(req)
	if err != nil {
		return fail[PromptResponse](decodingError(fmt.Errorf("failed to encode prompt: %w", err)))
	}

	body, rerr := c.do(ctx, http.MethodPost, "/prompt", bytes.NewReader(payload))
	if rerr != nil {
		return fail[PromptResponse](rerr)
	}

	resp, err := decodePromptResponse(body)
	if err != nil {
		return fail[PromptResponse](decodingError(err))
	}
	if resp.Status != StatusSuccess {
		c.logger.Warn("assistant reported failure",
			zap.String("assistant", req.Assistant),
			zap.String("status", resp.Status),
			zap.String("message", resp.Message))
		return fail[PromptResponse](assistantError(resp.Message))
	}
	return succeed(resp)
}

func (c *Client) getJSON(ctx context.Context, path string, v any) *ResponseError {
	body, rerr := c.do(ctx, http.MethodGet, path, nil)
	if rerr != nil {
		return rerr
	}
	if err := json.Unmarshal(body, v); err != nil {
		c.logger.Debug("undecodable response", zap.String("path", path), zap.Error(err))
		return decodingError(err)
	}
	return nil
}

// getObject is getJSON for bodies that must be a JSON object carrying keys
func (c *Client) getObject(ctx context.Context, path string, v any, keys ...string) *ResponseError {
	body, rerr := c.do(ctx, http.MethodGet, path, nil)
	if rerr != nil {
		return rerr
	}
	if err := decodeObject(body, v, keys...); err != nil {
		c.logger.Debug("undecodable response", zap.String("path", path), zap.Error(err))
		return decodingError(err)
	}
	return nil
}

func decodeObject(body []byte, v any, keys ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("response is not a JSON object")
	}
	for _, key := range keys {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("response has no %s field", key)
		}
	}
	return json.Unmarshal(body, v)
}

// do performs the request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, *ResponseError) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, connectionError(fmt.Errorf("failed to create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, connectionError(unwrapURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectionError(fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("request completed",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp.StatusCode, string(data))
	}
	return data, nil
}

// unwrapURLError drops the "Get \"http://...\":" prefix the transport adds
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

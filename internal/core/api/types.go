package api

import (
	"encoding/json"
	"errors"

	"github.com/neilberkman/majordomo/internal/core/models"
)

// StatusSuccess is the only prompt status the backend uses for a good answer
const StatusSuccess = "success"

// PromptRequest is the body of POST /prompt
type PromptRequest struct {
	Prompt    string `json:"prompt"`
	Assistant string `json:"assistant"`

	// ThreadID continues an existing conversation; omitted for a new one
	ThreadID string `json:"thread_id,omitempty"`

	// ThreadName names a new conversation on the backend; ignored when ThreadID is set
	ThreadName string `json:"thread_name,omitempty"`
}

// NewPromptRequest builds the request for the next prompt in conv
func NewPromptRequest(prompt string, conv *models.Conversation) PromptRequest {
	req := PromptRequest{
		Prompt:    prompt,
		Assistant: conv.Assistant,
	}
	if conv.HasID() {
		req.ThreadID = conv.ID
	} else {
		req.ThreadName = conv.Title
	}
	return req
}

// PromptResponse is the decoded body of a successful POST /prompt.
// Raw keeps every field the backend sent, known or not.
type PromptResponse struct {
	Status     string
	Message    string
	ThreadID   string
	ThreadName string
	Raw        map[string]json.RawMessage
}

var errMissingStatus = errors.New("response has no status field")

func decodePromptResponse(body []byte) (PromptResponse, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return PromptResponse{}, err
	}
	if raw == nil {
		return PromptResponse{}, errors.New("response is not a JSON object")
	}

	resp := PromptResponse{Raw: raw}
	status, ok := raw["status"]
	if !ok {
		return resp, errMissingStatus
	}
	if err := json.Unmarshal(status, &resp.Status); err != nil {
		return resp, err
	}
	resp.Message = textField(raw, "message")
	resp.ThreadID = textField(raw, "thread_id")
	resp.ThreadName = textField(raw, "thread_name")
	return resp, nil
}

// textField returns a string field, or the raw JSON when the backend sent
// something else (an object-shaped message is still shown to the user)
func textField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	if string(v) == "null" {
		return ""
	}
	return string(v)
}

type threadsResponse struct {
	Threads []*models.Conversation `json:"threads"`
}

package api

import "fmt"

// ErrorKind categorizes failures reported by the Majordomo backend client
type ErrorKind int

const (
	KindConnection ErrorKind = iota // transport failure, server unreachable, timeout
	KindAPI                         // non-2xx HTTP status
	KindDecoding                    // body could not be decoded
	KindAssistant                   // 2xx response carrying a non-success status
	KindNotFound                    // local lookup miss by name
)

// Titles shown to the user for each kind
const (
	TitleConnection = "Connection Error"
	TitleAPI        = "API Error"
	TitleDecoding   = "Decoding Error"
	TitleAssistant  = "Assistant Error"
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindAPI:
		return "api"
	case KindDecoding:
		return "decoding"
	case KindAssistant:
		return "assistant"
	case KindNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ResponseError is the failure half of every remote operation.
// It is returned as a value, never panicked.
type ResponseError struct {
	Kind    ErrorKind
	Title   string
	Message string
	Status  int   // HTTP status, when there was one
	Cause   error // underlying transport or decoding error
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return e.Title
	}
	return e.Title + ": " + e.Message
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}

// Is matches on Kind so callers can write errors.Is(err, &api.ResponseError{Kind: api.KindAPI})
func (e *ResponseError) Is(target error) bool {
	t, ok := target.(*ResponseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func connectionError(err error) *ResponseError {
	return &ResponseError{Kind: KindConnection, Title: TitleConnection, Message: err.Error(), Cause: err}
}

func apiError(status int, body string) *ResponseError {
	return &ResponseError{Kind: KindAPI, Title: TitleAPI, Message: body, Status: status}
}

func decodingError(err error) *ResponseError {
	return &ResponseError{Kind: KindDecoding, Title: TitleDecoding, Message: err.Error(), Cause: err}
}

func assistantError(message string) *ResponseError {
	return &ResponseError{Kind: KindAssistant, Title: TitleAssistant, Message: message}
}

// NotFound builds the error for a lookup miss, e.g. NotFound("Assistant", "PyDev")
func NotFound(what, name string) *ResponseError {
	return &ResponseError{
		Kind:    KindNotFound,
		Title:   what + " Not Found",
		Message: fmt.Sprintf("%s '%s' does not exist in the system.", what, name),
	}
}

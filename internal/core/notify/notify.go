// Package notify surfaces backend failures to whoever is presenting them.
package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cbroglie/mustache"
	"go.uber.org/zap"

	"github.com/neilberkman/majordomo/internal/core/api"
)

// DefaultTemplate renders a notification as a heading plus detail
const DefaultTemplate = "# {{{title}}}\n{{{message}}}"

// Notifier receives every error the session layer swallows
type Notifier interface {
	Notify(err *api.ResponseError)
}

// Func adapts a plain function to Notifier
type Func func(err *api.ResponseError)

func (f Func) Notify(err *api.ResponseError) {
	f(err)
}

// Format renders err through a mustache template. The template sees
// title, message and kind. A broken template falls back to "title: message".
func Format(tmpl string, err *api.ResponseError) string {
	if err == nil {
		return ""
	}
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	out, renderErr := mustache.Render(tmpl, map[string]string{
		"title":   err.Title,
		"message": err.Message,
		"kind":    err.Kind.String(),
	})
	if renderErr != nil {
		return err.Error()
	}
	return strings.TrimRight(out, "\n")
}

// Recorder keeps every notification; safe for concurrent use
type Recorder struct {
	mu   sync.Mutex
	errs []*api.ResponseError
}

func (r *Recorder) Notify(err *api.ResponseError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// All returns a copy of the recorded notifications, oldest first
func (r *Recorder) All() []*api.ResponseError {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*api.ResponseError, len(r.errs))
	copy(out, r.errs)
	return out
}

// Last returns the most recent notification, or nil
func (r *Recorder) Last() *api.ResponseError {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[len(r.errs)-1]
}

// Len returns how many notifications were recorded
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

// Writer prints notifications (used by the non-interactive commands) and logs them
type Writer struct {
	mu       sync.Mutex
	out      io.Writer
	template string
	logger   *zap.Logger
}

// NewWriter creates a Writer printing to out with the given template
func NewWriter(out io.Writer, template string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{out: out, template: template, logger: logger}
}

func (w *Writer) Notify(err *api.ResponseError) {
	if err == nil {
		return
	}
	w.logger.Warn("notification",
		zap.String("kind", err.Kind.String()),
		zap.String("title", err.Title),
		zap.String("message", err.Message))

	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintln(w.out, Format(w.template, err))
}

// Channel forwards notifications to a consumer on another goroutine.
// When the buffer is full the oldest pending notification is dropped.
type Channel struct {
	ch chan *api.ResponseError
}

// NewChannel creates a Channel buffering up to size notifications
func NewChannel(size int) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{ch: make(chan *api.ResponseError, size)}
}

// C returns the receive side
func (c *Channel) C() <-chan *api.ResponseError {
	return c.ch
}

func (c *Channel) Notify(err *api.ResponseError) {
	if err == nil {
		return
	}
	for {
		select {
		case c.ch <- err:
			return
		default:
		}
		select {
		case <-c.ch:
		default:
		}
	}
}

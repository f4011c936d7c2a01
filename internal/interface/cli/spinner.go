package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// Spinner shows a simple spinning animation while waiting
type Spinner struct {
	writer  io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner creates a new spinner with a message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		writer:  os.Stderr,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation in a goroutine.
// Nothing is drawn when stderr is not a terminal.
func (s *Spinner) Start() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		close(s.done)
		return
	}
	go func() {
		defer close(s.done)
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i = (i + 1) % len(frames) {
			fmt.Fprintf(s.writer, "\r%s %s", frames[i], s.message)
			select {
			case <-s.stop:
				// Clear the line
				fmt.Fprintf(s.writer, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner, waits for the line to be cleared
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}

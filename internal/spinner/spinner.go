// Package spinner renders a single-line terminal activity indicator for
// long-running generation batches.
package spinner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// frameInterval is a variable so tests can speed the animation up.
var frameInterval = 80 * time.Millisecond

// Spinner animates a message on one terminal line. The message can be
// swapped while running; Stop clears the line.
type Spinner struct {
	w io.Writer

	mu      sync.Mutex
	message string
	width   int

	done    chan struct{}
	cleared chan struct{}
	once    sync.Once
}

// Start begins animating message on w. Callers decide whether w is a
// terminal; the escape sequences are meaningless elsewhere.
func Start(w io.Writer, message string) *Spinner {
	s := &Spinner{
		w:       w,
		message: message,
		done:    make(chan struct{}),
		cleared: make(chan struct{}),
	}
	go s.run()
	return s
}

// Update replaces the message at the next frame.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	<-s.cleared
}

func (s *Spinner) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-s.done:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width)) //nolint:errcheck
			s.mu.Unlock()
			close(s.cleared)
			return
		case <-ticker.C:
			s.mu.Lock()
			line := frames[i%len(frames)] + " " + s.message
			// Pad to the widest line drawn so far so shorter messages
			// fully overwrite longer ones.
			if pad := s.width - runewidth.StringWidth(line); pad > 0 {
				line += strings.Repeat(" ", pad)
			} else {
				s.width = runewidth.StringWidth(line)
			}
			fmt.Fprintf(s.w, "\r%s", line) //nolint:errcheck
			s.mu.Unlock()
			i++
		}
	}
}

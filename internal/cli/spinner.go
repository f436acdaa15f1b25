package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// renderSpinner animates a single status line on w naming the format being
// rendered, e.g. "⠹ Rendering png (2/3)". It stops when ctx ends or Stop is
// called, and clears its line either way.
type renderSpinner struct {
	w       io.Writer
	formats []string

	mu      sync.Mutex
	current int
	width   int // longest line written, cleared on stop

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func newRenderSpinner(w io.Writer, formats []string) *renderSpinner {
	return &renderSpinner{
		w:       w,
		formats: formats,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start animates until ctx ends or Stop is called.
func (s *renderSpinner) Start(ctx context.Context) {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			s.draw(frame)
			select {
			case <-ctx.Done():
				s.clear()
				return
			case <-s.done:
				s.clear()
				return
			case <-ticker.C:
			}
		}
	}()
}

// Advance moves the status line to the format at index i.
func (s *renderSpinner) Advance(i int) {
	s.mu.Lock()
	s.current = min(max(i, 0), len(s.formats)-1)
	s.mu.Unlock()
}

// Stop ends the animation and waits for the line to be cleared. Calling it
// more than once, or after ctx ended, is fine.
func (s *renderSpinner) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
	<-s.stopped
}

// Fail stops the spinner and reports which format failed.
func (s *renderSpinner) Fail(format string) {
	s.Stop()
	printError("Render %s failed", format)
}

func (s *renderSpinner) message() string {
	if len(s.formats) == 0 {
		return "Rendering..."
	}
	return fmt.Sprintf("Rendering %s (%d/%d)", s.formats[s.current], s.current+1, len(s.formats))
}

func (s *renderSpinner) draw(frame int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.message()
	s.width = max(s.width, len(msg)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]), StyleDim.Render(msg))
}

func (s *renderSpinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
}

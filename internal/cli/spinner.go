package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line progress indicator until it is stopped or its
// context ends. A status func, when set, is polled on every frame so long
// loads such as icon fetches can report how far along they are.
type Spinner struct {
	message string
	status  func() string
	out     io.Writer

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	start   sync.Once
	stop    sync.Once

	mu    sync.Mutex
	width int // widest line drawn so far, for clearing
}

type spinnerOption func(*Spinner)

// withStatus appends the result of fn to the message on every frame.
func withStatus(fn func() string) spinnerOption {
	return func(s *Spinner) { s.status = fn }
}

// withSpinnerOutput draws to w instead of stderr.
func withSpinnerOutput(w io.Writer) spinnerOption {
	return func(s *Spinner) { s.out = w }
}

// newSpinner creates a spinner that stops when ctx is cancelled.
func newSpinner(ctx context.Context, message string, opts ...spinnerOption) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &Spinner{
		message: message,
		out:     os.Stderr,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the animation. Calling it again has no effect.
func (s *Spinner) Start() {
	s.start.Do(func() {
		go s.run()
	})
}

func (s *Spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.frame(i)
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Spinner) line() string {
	if s.status == nil {
		return s.message
	}
	if st := s.status(); st != "" {
		return s.message + " " + st
	}
	return s.message
}

func (s *Spinner) frame(i int) {
	text := s.line()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, lipgloss.Width(text)+2)
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(text))
}

// Stop ends the animation and clears the line. It is safe to call more than
// once, and before Start.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		started := true
		s.start.Do(func() { started = false })
		if started {
			<-s.stopped
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}

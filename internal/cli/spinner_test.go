package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerShowsStatus(t *testing.T) {
	var out bytes.Buffer
	s := newSpinner(context.Background(), "Loading icons",
		withSpinnerOutput(&out),
		withStatus(func() string { return "3/7" }),
	)
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Loading icons") || !strings.Contains(got, "3/7") {
		t.Errorf("spinner output = %q, want message and status", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("spinner should end by clearing its line, got %q", got)
	}
}

func TestSpinnerEmptyStatus(t *testing.T) {
	s := newSpinner(context.Background(), "Running graphviz...", withStatus(func() string { return "" }))
	if got := s.line(); got != "Running graphviz..." {
		t.Errorf("line() = %q", got)
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Testing", withSpinnerOutput(&out))
	s.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after context cancellation")
	}
}

func TestSpinnerStop(t *testing.T) {
	tests := []struct {
		name  string
		start bool
		stops int
	}{
		{"once", true, 1},
		{"repeated", true, 3},
		{"never started", false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			s := newSpinner(context.Background(), "Testing", withSpinnerOutput(&out))
			if tt.start {
				s.Start()
			}
			for range tt.stops {
				s.Stop()
			}
			if !tt.start && out.Len() != 0 {
				t.Errorf("unstarted spinner wrote %q", out.String())
			}
		})
	}
}

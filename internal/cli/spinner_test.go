package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestRenderSpinnerMessage(t *testing.T) {
	s := newRenderSpinner(io.Discard, []string{"dot", "svg", "png"})
	if got := s.message(); got != "Rendering dot (1/3)" {
		t.Errorf("message() = %q", got)
	}

	tests := []struct {
		advance int
		want    string
	}{
		{1, "Rendering svg (2/3)"},
		{10, "Rendering png (3/3)"},
		{-1, "Rendering dot (1/3)"},
	}
	for _, tt := range tests {
		s.Advance(tt.advance)
		if got := s.message(); got != tt.want {
			t.Errorf("Advance(%d): message() = %q, want %q", tt.advance, got, tt.want)
		}
	}

	if got := newRenderSpinner(io.Discard, nil).message(); got != "Rendering..." {
		t.Errorf("empty formats: message() = %q", got)
	}
}

func TestRenderSpinnerStopClearsLine(t *testing.T) {
	var buf bytes.Buffer
	s := newRenderSpinner(&buf, []string{"svg"})
	s.Start(context.Background())
	s.Stop()
	s.Stop()

	out := buf.String()
	msg := "Rendering svg (1/1)"
	if !strings.Contains(out, msg) {
		t.Errorf("output should show %q, got %q", msg, out)
	}
	if blank := strings.Repeat(" ", len(msg)+2) + "\r"; !strings.HasSuffix(out, blank) {
		t.Errorf("output should end by blanking the line, got %q", out)
	}
}

func TestRenderSpinnerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newRenderSpinner(io.Discard, []string{"png"})
	s.Start(ctx)
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancellation")
	}
	s.Stop()
}

func TestRenderSpinnerFail(t *testing.T) {
	out := captureStdout(t)
	s := newRenderSpinner(io.Discard, []string{"dot", "svg"})
	s.Start(context.Background())
	s.Advance(1)
	s.Fail("svg")

	if !strings.Contains(out.String(), "Render svg failed") {
		t.Errorf("Fail() output = %q", out.String())
	}
}

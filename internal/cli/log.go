// Package cli implements the genelayout command-line interface.
//
// The commands load class or dependency graphs from JSON, evolve node
// positions with the layout engine, and render the results. Layouts and
// rendered artifacts are cached between runs. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute layouts for one or more graph files
//   - depth: Print call depths and column offsets for a graph
//   - render: Render a layout.json to DOT, SVG or PNG
//   - serve: Run the layout HTTP service
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Layout runs
// report progress through a [layout.StatusSink]: an interactive progress
// bar on a terminal, periodic log lines otherwise.
//
// # Example
//
//	import "github.com/matzehuels/genelayout/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Laid out classes.json (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// defaultLogEvery is how many generations pass between logSink lines.
const defaultLogEvery = 10

// logSink is a layout.StatusSink that writes a debug line every few
// generations. It never stops a run; cancellation goes through the context.
type logSink struct {
	logger *log.Logger
	name   string
	every  int

	mu    sync.Mutex
	task  string
	total int
	start time.Time
}

func newLogSink(l *log.Logger, name string) *logSink {
	return &logSink{logger: l, name: name, every: defaultLogEvery}
}

func (s *logSink) StartTask(description string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.task, s.total, s.start = description, total, time.Now()
	s.logger.Debug("evolving", "file", s.name, "task", description, "generations", total)
}

func (s *logSink) UpdateProgressIteration(generation int) bool {
	if s.every > 0 && generation > 0 && generation%s.every == 0 {
		s.mu.Lock()
		s.logger.Debug("generation", "file", s.name, "done", generation, "of", s.total)
		s.mu.Unlock()
	}
	return true
}

func (s *logSink) EndTask() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Debug("evolved", "file", s.name, "task", s.task,
		"elapsed", time.Since(s.start).Round(time.Millisecond))
}

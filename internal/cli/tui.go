package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/genelayout/pkg/graph"
)

// Progress styles
var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const barWidth = 30

// =============================================================================
// ProgressModel - Interactive generation progress
// =============================================================================

type (
	taskMsg struct {
		name  string
		total int
	}
	generationMsg int
	taskEndMsg    struct{}
	doneMsg       struct{}
)

// ProgressModel is the bubbletea model that shows evolution progress.
// Pressing q asks the run to stop and keep the best layout so far.
type ProgressModel struct {
	File       string
	Task       string
	Total      int
	Generation int
	Stopping   bool
	Done       bool

	stop *atomic.Bool
}

// NewProgressModel creates a progress model for one input file.
func NewProgressModel(file string, stop *atomic.Bool) ProgressModel {
	return ProgressModel{File: file, stop: stop}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.Stopping = true
			if m.stop != nil {
				m.stop.Store(true)
			}
		}
	case taskMsg:
		m.Task, m.Total, m.Generation = msg.name, msg.total, 0
	case generationMsg:
		m.Generation = int(msg)
	case taskEndMsg:
		if !m.Stopping {
			m.Generation = m.Total
		}
	case doneMsg:
		m.Done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.Done {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.File))
	if m.Task != "" {
		b.WriteString(" " + StyleDim.Render(m.Task))
	}
	b.WriteString("\n")
	b.WriteString(renderBar(m.Generation, m.Total))
	b.WriteString(" " + StyleNumber.Render(fmt.Sprintf("%d/%d", m.Generation, m.Total)))
	b.WriteString("\n")
	if m.Stopping {
		b.WriteString(StyleWarning.Render("stopping after this generation..."))
	} else {
		b.WriteString(listDimStyle.Render("q: stop early and keep the best layout"))
	}
	b.WriteString("\n")
	return b.String()
}

func renderBar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = min(barWidth, done*barWidth/total)
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

// =============================================================================
// tuiSink - layout.StatusSink backed by a bubbletea program
// =============================================================================

// tuiSink forwards layout progress to a ProgressModel running in its own
// program. The layout goroutine polls the stop flag the model sets.
type tuiSink struct {
	prog *tea.Program
	stop *atomic.Bool
	wg   sync.WaitGroup
}

// newTUISink starts the progress program on out.
func newTUISink(file string, in io.Reader, out io.Writer) *tuiSink {
	s := &tuiSink{stop: new(atomic.Bool)}
	s.prog = tea.NewProgram(NewProgressModel(file, s.stop),
		tea.WithInput(in), tea.WithOutput(out), tea.WithoutSignalHandler())
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.prog.Run()
	}()
	return s
}

func (s *tuiSink) StartTask(description string, total int) {
	s.prog.Send(taskMsg{name: description, total: total})
}

func (s *tuiSink) UpdateProgressIteration(generation int) bool {
	s.prog.Send(generationMsg(generation))
	return !s.stop.Load()
}

func (s *tuiSink) EndTask() {
	s.prog.Send(taskEndMsg{})
}

// Close stops the program and waits for it to restore the terminal.
func (s *tuiSink) Close() {
	s.prog.Send(doneMsg{})
	s.wg.Wait()
}

// Stopped reports whether the user asked for an early stop.
func (s *tuiSink) Stopped() bool {
	return s.stop.Load()
}

// =============================================================================
// Depth table
// =============================================================================

// depthTable renders per-node call depths and column offsets.
// columns is indexed by depth.
func depthTable(g *graph.Graph, depths, columns []int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, g.Len())
	for i, n := range g.Nodes {
		x := ""
		if d := depths[i]; d >= 0 && d < len(columns) {
			x = strconv.Itoa(columns[d])
		}
		rows = append(rows, []string{n.Name, string(n.Kind), strconv.Itoa(depths[i]), x})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Kind", "Depth", "Column X").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 1:
				return lipgloss.NewStyle().Foreground(colorGray)
			case 2, 3:
				return lipgloss.NewStyle().Foreground(colorCyan).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

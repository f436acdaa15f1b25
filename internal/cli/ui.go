package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/genelayout/pkg/graph"
)

// stdout receives all user-facing command output. Logs go to stderr.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")  // primary, numbers
	colorGreen  = lipgloss.Color("35")  // success, cached
	colorYellow = lipgloss.Color("220") // warnings, stopped runs
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	// StyleTitle for headings and the progress bar label.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleNumber for counts and qualities.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleLabel       = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// sparkLevels are the bar glyphs of a quality sparkline, lowest first.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// sparkWidth caps the sparkline length; longer histories are sampled.
const sparkWidth = 40

func printLine(s string) { fmt.Fprintln(stdout, s) }

func printSuccess(format string, args ...any) {
	printLine(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(StyleWarning.Render(iconWarning + " " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented muted line.
func printDetail(format string, args ...any) {
	printLine("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	printLine("  " + StyleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	printLine("  " + styleLabel.Render(key) + " " + styleValue.Render(value))
}

// printStats prints node and edge counts and whether the result came from
// the cache.
func printStats(nodes, edges int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", nodes),
		fmt.Sprintf("%d edges", edges),
	}
	status := StyleDim.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}
	printLine("  " + StyleDim.Render(strings.Join(parts, " · ")+" · ") + status)
}

// printLayoutSummary prints the run parameters and quality of l, with a
// sparkline of its best quality per generation.
func printLayoutSummary(l graph.Layout) {
	printKeyValue("kind", l.Kind)
	printKeyValue("size", fmt.Sprintf("%dx%d", l.Width, l.Height))
	printKeyValue("seed", fmt.Sprint(l.Seed))
	if l.Trivial {
		return
	}
	printKeyValue("evolved", fmt.Sprintf("%d generations", l.Generations))
	q := StyleNumber.Render(fmt.Sprint(l.Quality))
	if spark := sparkline(l.History, sparkWidth); spark != "" {
		q += "  " + StyleDim.Render(spark)
	}
	printLine("  " + styleLabel.Render("quality") + " " + q)
}

// sparkline draws history as at most width bars scaled between its lowest
// and highest value. Histories shorter than two entries draw nothing.
func sparkline(history []uint64, width int) string {
	if len(history) < 2 || width <= 0 {
		return ""
	}
	lo, hi := history[0], history[0]
	for _, q := range history {
		lo, hi = min(lo, q), max(hi, q)
	}

	n := min(len(history), width)
	top := uint64(len(sparkLevels) - 1)
	var b strings.Builder
	for i := range n {
		q := history[i*(len(history)-1)/max(n-1, 1)]
		level := top
		if hi > lo {
			level = (q - lo) * top / (hi - lo)
		}
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}

func printNextStep(description, cmd string) {
	printLine(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { printLine("") }

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/genelayout/pkg/graph"
	"github.com/matzehuels/genelayout/pkg/layout"
	"github.com/matzehuels/genelayout/pkg/pipeline"
	"github.com/matzehuels/genelayout/pkg/render/plot"
)

// layoutFlags holds the command-line flags for the layout command. Flags
// that are not set on the command line keep the config file values.
type layoutFlags struct {
	kind        string
	generations int
	seed        uint64
	population  int
	crossover   float64
	mutation    float64
	refHeight   int
	edgePolicy  string
	weights     string
	formats     string

	output     string // output directory (default: next to each input)
	plot       bool   // also write a quality history chart
	noCache    bool
	refresh    bool
	noProgress bool
	jobs       int
}

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [graph.json...]",
		Short: "Compute layouts for one or more graph files",
		Long: `Compute layouts for one or more graph files.

Each input is a graph document with nodes and connections. The result is
written as <input>.layout.json next to the input (or into --output), plus
one file per extra --format.

On a terminal a progress bar is shown for single inputs; press q to stop
evolving early and keep the best layout found so far. Several inputs are
laid out concurrently.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.layoutOptions(cmd, f)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args, opts, f)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output directory (default: next to each input)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "disable the interactive progress bar")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", runtime.NumCPU(), "number of inputs laid out concurrently")

	// Layout flags
	cmd.Flags().StringVarP(&f.kind, "kind", "k", pipeline.DefaultKind, "layout kind: planar, column, include, portion")
	cmd.Flags().IntVarP(&f.generations, "generations", "g", layout.DefaultGenerations, "generations to evolve")
	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&f.population, "population", 0, "gene pool size (default: derived from node count)")
	cmd.Flags().Float64Var(&f.crossover, "crossover", layout.DefaultCrossoverFraction, "fraction of the pool replaced by crossover each generation")
	cmd.Flags().Float64Var(&f.mutation, "mutation", layout.DefaultMutationRate, "fraction of coordinates mutated each generation")
	cmd.Flags().IntVar(&f.refHeight, "ref-height", 0, "reference height for column layouts (default: average node height)")
	cmd.Flags().StringVar(&f.edgePolicy, "edge-policy", pipeline.DefaultEdgePolicy, "planar edge term: line-overlap, distance")
	cmd.Flags().StringVar(&f.weights, "weights", "", "column weights as overlap,edge-length,height")

	// Output flags
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "extra output format(s): dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&f.plot, "plot", false, "write a best-quality-per-generation chart (<input>.history.png)")

	return cmd
}

// layoutOptions merges config file values with the flags that were set.
func (c *CLI) layoutOptions(cmd *cobra.Command, f layoutFlags) (pipeline.Options, error) {
	opts := c.Config.pipelineOptions()
	fs := cmd.Flags()

	if fs.Changed("kind") || opts.Kind == "" {
		opts.Kind = f.kind
	}
	if fs.Changed("generations") || opts.Generations == 0 {
		opts.Generations = f.generations
	}
	if fs.Changed("seed") || opts.Seed == 0 {
		opts.Seed = f.seed
	}
	if fs.Changed("population") {
		opts.Population = f.population
	}
	if fs.Changed("crossover") {
		opts.CrossoverFraction = f.crossover
	}
	if fs.Changed("mutation") {
		opts.MutationRate = f.mutation
	}
	if fs.Changed("ref-height") {
		opts.ReferenceHeight = f.refHeight
	}
	if fs.Changed("edge-policy") {
		opts.EdgePolicy = f.edgePolicy
	}
	if fs.Changed("weights") {
		w, err := parseWeights(f.weights)
		if err != nil {
			return opts, err
		}
		opts.Weights = &w
	}
	if fs.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if !slices.Contains(opts.Formats, pipeline.FormatJSON) {
		opts.Formats = append([]string{pipeline.FormatJSON}, opts.Formats...)
	}
	opts.Refresh = f.refresh
	opts.Logger = c.Logger

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseWeights parses "overlap,edge-length,height".
func parseWeights(s string) (layout.ColumnWeights, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return layout.ColumnWeights{}, fmt.Errorf("weights %q: want overlap,edge-length,height", s)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return layout.ColumnWeights{}, fmt.Errorf("weights %q: %w", s, err)
		}
		v[i] = f
	}
	w := layout.ColumnWeights{Overlap: v[0], EdgeLength: v[1], Height: v[2]}
	return w, w.Validate()
}

// layoutOutcome is what one input produced.
type layoutOutcome struct {
	input  string
	files  []string
	layout graph.Layout
	nodes  int
	edges  int
	cached bool
}

// runLayout lays out every input, concurrently when there are several.
func (c *CLI) runLayout(ctx context.Context, inputs []string, opts pipeline.Options, f layoutFlags) error {
	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if f.output != "" {
		if err := os.MkdirAll(f.output, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	interactive := len(inputs) == 1 && !f.noProgress &&
		isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())

	if len(inputs) == 1 {
		out, err := c.layoutFile(ctx, runner, inputs[0], opts, f, interactive)
		if err != nil {
			return err
		}
		c.reportLayout(out, true)
		return ctx.Err()
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, f.jobs))
	for _, input := range inputs {
		g.Go(func() error {
			out, err := c.layoutFile(gctx, runner, input, opts, f, false)
			if err != nil {
				return err
			}
			mu.Lock()
			c.reportLayout(out, false)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	printNewline()
	printSuccess("Laid out %d files", len(inputs))
	return ctx.Err()
}

// layoutFile loads one input, lays it out and writes its outputs. The
// layout file is written even when ctx is cancelled mid-run.
func (c *CLI) layoutFile(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, f layoutFlags, interactive bool) (layoutOutcome, error) {
	prog := newProgress(c.Logger)

	data, err := os.ReadFile(input)
	if err != nil {
		return layoutOutcome{}, fmt.Errorf("read %s: %w", input, err)
	}
	g, err := pipeline.Load(data, pipeline.LoadOptions{})
	if err != nil {
		return layoutOutcome{}, fmt.Errorf("load graph %s: %w", input, err)
	}

	var tui *tuiSink
	if interactive {
		tui = newTUISink(filepath.Base(input), os.Stdin, os.Stderr)
		opts.Status = tui
	} else {
		opts.Status = newLogSink(c.Logger, input)
	}

	l, hit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if tui != nil {
		tui.Close()
	}
	if err != nil {
		return layoutOutcome{}, fmt.Errorf("compute layout %s: %w", input, err)
	}

	out := layoutOutcome{
		input:  input,
		layout: l,
		nodes:  g.Len(),
		edges:  len(g.Connections),
		cached: hit,
	}

	base := outputBase(input, f.output)
	layoutPath := base + ".layout.json"
	if err := graph.WriteLayoutFile(l, layoutPath); err != nil {
		return out, fmt.Errorf("write output %s: %w", layoutPath, err)
	}
	out.files = append(out.files, layoutPath)

	if ctx.Err() != nil {
		return out, nil
	}

	extra := slices.DeleteFunc(slices.Clone(opts.Formats), func(s string) bool {
		return s == pipeline.FormatJSON
	})
	if len(extra) > 0 {
		ropts := opts
		ropts.Formats = extra
		artifacts, err := runner.Render(ctx, l, ropts)
		if err != nil {
			return out, fmt.Errorf("render %s: %w", input, err)
		}
		for _, format := range extra {
			path := base + "." + format
			if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
				return out, fmt.Errorf("write output %s: %w", path, err)
			}
			out.files = append(out.files, path)
		}
	}

	if f.plot && len(l.History) > 0 {
		chart, err := plot.History(filepath.Base(input), l.History, "png")
		if err != nil {
			return out, fmt.Errorf("plot %s: %w", input, err)
		}
		path := base + ".history.png"
		if err := os.WriteFile(path, chart, 0o644); err != nil {
			return out, fmt.Errorf("write output %s: %w", path, err)
		}
		out.files = append(out.files, path)
	}

	prog.done("Laid out " + input)
	return out, nil
}

// outputBase strips the extension from input and moves it into dir when
// one is given.
func outputBase(input, dir string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if dir != "" {
		base = filepath.Join(dir, filepath.Base(base))
	}
	return base
}

func (c *CLI) reportLayout(out layoutOutcome, nextStep bool) {
	l := out.layout
	switch {
	case l.Cancelled:
		printWarning("Stopped %s after %d generations, keeping the best layout", out.input, l.Generations)
	case l.Trivial:
		printSuccess("Layout complete (nothing to evolve)")
	default:
		printSuccess("Layout complete")
	}
	for _, f := range out.files {
		printFile(f)
	}
	printStats(out.nodes, out.edges, out.cached)
	printLayoutSummary(l)
	if nextStep && len(out.files) > 0 {
		printNewline()
		printNextStep("Render", appName+" render "+out.files[0]+" -f svg")
	}
}

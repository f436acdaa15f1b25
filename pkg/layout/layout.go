package layout

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genelayout/pkg/genepool"
	"github.com/matzehuels/genelayout/pkg/geo"
	"github.com/matzehuels/genelayout/pkg/graph"
)

// Defaults for a layout run.
const (
	DefaultGenerations       = 30
	DefaultCrossoverFraction = genepool.DefaultCrossoverFraction
	DefaultMutationRate      = 0.02

	// NodePadding inflates every node rectangle before overlap and
	// crossing tests.
	NodePadding = 4
)

// StatusSink receives progress for a layout run. UpdateProgressIteration is
// called once before every generation with the number of generations done
// so far; returning false stops the run and keeps the best gene found.
type StatusSink interface {
	StartTask(description string, total int)
	UpdateProgressIteration(generation int) bool
	EndTask()
}

// Options configures a layout run. Zero values select defaults.
type Options struct {
	// Generations to evolve. Zero selects DefaultGenerations; a negative
	// value skips evolution and decodes the best gene of the initial
	// population.
	Generations int

	// Seed for the default PCG source. Ignored when Rand is set.
	Seed uint64
	Rand genepool.Rand

	Status StatusSink
	Logger *log.Logger

	Population        int     // zero selects PopulationSize(node count)
	CrossoverFraction float64 // zero selects DefaultCrossoverFraction
	MutationRate      float64 // zero selects DefaultMutationRate

	// ReferenceHeight scales the coordinate range of column layouts.
	// Zero selects the average node height.
	ReferenceHeight int
}

func (o Options) generations() int {
	switch {
	case o.Generations == 0:
		return DefaultGenerations
	case o.Generations < 0:
		return 0
	}
	return o.Generations
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

func (o Options) poolConfig(nodes, geneLength int, lo, hi genepool.Coord) genepool.Config {
	cfg := genepool.Config{
		GeneLength:        geneLength,
		Population:        o.Population,
		CrossoverFraction: o.CrossoverFraction,
		MutationRate:      o.MutationRate,
		Min:               lo,
		Max:               hi,
	}
	if cfg.Population <= 0 {
		cfg.Population = PopulationSize(nodes)
	}
	if cfg.CrossoverFraction <= 0 {
		cfg.CrossoverFraction = DefaultCrossoverFraction
	}
	if cfg.MutationRate <= 0 {
		cfg.MutationRate = DefaultMutationRate
	}
	return cfg
}

// Result describes a finished layout run.
type Result struct {
	Kind        string
	Generations int  // generations actually evolved
	Cancelled   bool // stopped early by the status sink or context
	Trivial     bool // 0 or 1 nodes, no evolution

	BestQuality genepool.Quality

	// History holds the best quality of the initial population followed by
	// the best quality after each evolved generation.
	History []genepool.Quality
}

// Layouter positions the nodes of a graph.
type Layouter interface {
	Layout(ctx context.Context, g *graph.Graph, opts Options) (Result, error)
}

// ForKind returns the layouter for a layout kind.
func ForKind(kind string) (Layouter, error) {
	switch kind {
	case graph.KindPlanar:
		return Planar{Policy: EdgeLineOverlap}, nil
	case graph.KindColumn:
		return Column{Weights: DefaultColumnWeights, Kind: graph.KindColumn}, nil
	case graph.KindInclude:
		return Column{Weights: IncludeWeights, Kind: graph.KindInclude}, nil
	case graph.KindPortion:
		return Column{Weights: PortionWeights, Kind: graph.KindPortion}, nil
	}
	return nil, fmt.Errorf("unknown layout kind %q", kind)
}

// PopulationSize returns the gene count for a graph of n nodes: a large
// population for small graphs, shrinking to 2*sqrt(n) past 100 nodes.
func PopulationSize(n int) int {
	root := math.Sqrt(float64(n))
	if n <= 100 {
		return 30 + int(10*root)
	}
	return max(8, int(2*root))
}

// adapter is a gene pool evaluator that can write a gene back into a graph.
type adapter interface {
	genepool.Evaluator
	genepool.GenerationSetup
	apply(g *graph.Graph, gene []genepool.Coord)
}

// trivial places a 0 or 1 node graph without touching any random source.
func trivial(g *graph.Graph, kind string) Result {
	if g.Len() == 1 {
		g.SetPosition(0, geo.Point{})
	}
	return Result{Kind: kind, Trivial: true}
}

// evolve runs the generation loop and writes the best gene into g.
func evolve(ctx context.Context, g *graph.Graph, kind string, ad adapter, cfg genepool.Config, opts Options) Result {
	logger := opts.logger()
	rng := opts.Rand
	if rng == nil {
		rng = genepool.NewRand(opts.Seed)
	}

	pool := genepool.New(cfg, ad, rng)
	total := opts.generations()
	res := Result{Kind: kind}

	logger.Debug("layout start",
		"kind", kind,
		"nodes", g.Len(),
		"connections", len(g.Connections),
		"population", cfg.Population,
		"range", fmt.Sprintf("[%d, %d]", cfg.Min, cfg.Max),
		"generations", total)

	if opts.Status != nil {
		opts.Status.StartTask(fmt.Sprintf("%s layout", kind), total)
		defer opts.Status.EndTask()
	}

	best := pool.BestGeneIndex()
	res.History = append(res.History, pool.Quality(best))

	for gen := 0; gen < total; gen++ {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}
		if opts.Status != nil && !opts.Status.UpdateProgressIteration(gen) {
			res.Cancelled = true
			break
		}
		pool.SingleGeneration()
		best = pool.BestGeneIndex()
		res.History = append(res.History, pool.Quality(best))
		res.Generations++
	}

	res.BestQuality = pool.Quality(best)
	ad.apply(g, pool.Gene(best))

	logger.Debug("layout done",
		"kind", kind,
		"generations", res.Generations,
		"cancelled", res.Cancelled,
		"quality", res.BestQuality)
	return res
}

func clampCoord(v float64) genepool.Coord {
	switch {
	case v < 1:
		return 1
	case v > float64(genepool.MaxCoord):
		return genepool.MaxCoord
	}
	return genepool.Coord(v)
}

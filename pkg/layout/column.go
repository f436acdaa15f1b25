package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/genelayout/pkg/genepool"
	"github.com/matzehuels/genelayout/pkg/geo"
	"github.com/matzehuels/genelayout/pkg/graph"
)

// ColumnWeights sets the relative weight of the three column quality terms.
// Each term is first normalized to [0, columnScale] against the largest
// value seen in the run.
type ColumnWeights struct {
	Overlap    float64 `toml:"overlap" json:"overlap"`
	EdgeLength float64 `toml:"edge_length" json:"edge_length"`
	Height     float64 `toml:"height" json:"height"`
}

// Weight presets.
var (
	DefaultColumnWeights = ColumnWeights{Overlap: 1, EdgeLength: 0.5, Height: 0.25}

	// IncludeWeights lays out include-file dependency diagrams.
	IncludeWeights = DefaultColumnWeights

	// PortionWeights lays out class portions: attributes in the first
	// column, operations in the columns after it.
	PortionWeights = DefaultColumnWeights
)

// Validate rejects negative or all-zero weights.
func (w ColumnWeights) Validate() error {
	if w.Overlap < 0 || w.EdgeLength < 0 || w.Height < 0 {
		return fmt.Errorf("column weights must not be negative: %+v", w)
	}
	if w.Overlap+w.EdgeLength+w.Height == 0 {
		return fmt.Errorf("column weights are all zero")
	}
	return nil
}

const columnScale = 1 << 20

// Column fixes every node's X by its dependency depth and evolves only Y.
// A gene holds one Y per node.
type Column struct {
	Weights ColumnWeights
	Kind    string // reported in Result.Kind; defaults to "column"
}

// Layout evolves Y positions for g and writes the best one back. Nodes are
// placed at the X offset of their depth column; the topmost node of the
// best gene sits at Y=0.
func (c Column) Layout(ctx context.Context, g *graph.Graph, opts Options) (Result, error) {
	kind := c.Kind
	if kind == "" {
		kind = graph.KindColumn
	}
	if err := g.Validate(); err != nil {
		return Result{}, fmt.Errorf("%s layout: %w", kind, err)
	}
	if err := c.Weights.Validate(); err != nil {
		return Result{}, fmt.Errorf("%s layout: %w", kind, err)
	}
	if g.Len() <= 1 {
		return trivial(g, kind), nil
	}

	depths, ok := CallDepths(g)
	if !ok {
		opts.logger().Warn("dependency depths unresolved after pass limit",
			"kind", kind, "passes", MaxDepthPasses)
	}
	ev := newColumnEval(g, depths, ColumnPositions(g, depths), c.Weights)
	cfg := opts.poolConfig(g.Len(), g.Len(), 0, ev.rangeMax(opts.ReferenceHeight))
	return evolve(ctx, g, kind, ev, cfg, opts), nil
}

type columnEval struct {
	depths  []int
	columns []int
	sizes   []geo.Size
	conns   []graph.Connection
	weights ColumnWeights

	// Running maxima of the three terms across every gene of the run.
	maxOverlap, maxEdge, maxHeight int
}

func newColumnEval(g *graph.Graph, depths, columns []int, w ColumnWeights) *columnEval {
	ev := &columnEval{
		depths:  depths,
		columns: columns,
		sizes:   make([]geo.Size, g.Len()),
		conns:   g.Connections,
		weights: w,
	}
	for i := range g.Nodes {
		ev.sizes[i] = g.Nodes[i].Size
	}
	return ev
}

// rangeMax leaves room to stack the most crowded column twice over, or
// sqrt(n) reference heights, whichever is larger.
func (e *columnEval) rangeMax(refHeight int) genepool.Coord {
	if refHeight <= 0 {
		total := 0
		for _, s := range e.sizes {
			total += s.Height
		}
		refHeight = total / max(len(e.sizes), 1)
	}
	crowd := make(map[int]int)
	densest := 0
	for _, d := range e.depths {
		crowd[d]++
		densest = max(densest, crowd[d])
	}
	slots := math.Max(float64(densest), math.Sqrt(float64(len(e.sizes))))
	return clampCoord(slots * float64(refHeight+2*NodePadding) * 2)
}

func (e *columnEval) check(gene []genepool.Coord) {
	if len(gene) != len(e.sizes) {
		panic(fmt.Sprintf("layout: column gene has %d coordinates for %d nodes", len(gene), len(e.sizes)))
	}
}

// SetupGeneration shifts every gene so its topmost node is at Y=0, then
// raises the running maxima used to normalize the quality terms.
func (e *columnEval) SetupGeneration(p *genepool.Pool) {
	for i := range p.Len() {
		gene := p.Gene(i)
		e.check(gene)
		lo := gene[0]
		for _, y := range gene[1:] {
			lo = min(lo, y)
		}
		if lo != 0 {
			for j := range gene {
				gene[j] -= lo
			}
		}
		o, ed, h := e.terms(gene)
		e.maxOverlap = max(e.maxOverlap, o)
		e.maxEdge = max(e.maxEdge, ed)
		e.maxHeight = max(e.maxHeight, h)
	}
}

// terms returns the overlap count, the summed vertical edge length and the
// drawing height of a gene.
func (e *columnEval) terms(gene []genepool.Coord) (overlap, edge, height int) {
	for i := range gene {
		for j := i + 1; j < len(gene); j++ {
			if e.depths[i] != e.depths[j] {
				continue
			}
			ai, bi := int(gene[i])-NodePadding, int(gene[i])+e.sizes[i].Height+NodePadding
			aj, bj := int(gene[j])-NodePadding, int(gene[j])+e.sizes[j].Height+NodePadding
			if bi >= aj && ai <= bj {
				overlap++
			}
		}
	}
	for _, c := range e.conns {
		yc := int(gene[c.Consumer]) + e.sizes[c.Consumer].Height/2
		ys := int(gene[c.Supplier]) + e.sizes[c.Supplier].Height/2
		edge += abs(yc - ys)
	}
	lo, hi := math.MaxInt, math.MinInt
	for i, y := range gene {
		lo = min(lo, int(y))
		hi = max(hi, int(y)+e.sizes[i].Height)
	}
	return overlap, edge, hi - lo
}

// normalized maps v in [0, limit] to [0, columnScale], higher for smaller v.
func normalized(v, limit int) float64 {
	if limit <= 0 {
		return columnScale
	}
	return float64(columnScale * max(limit-v, 0) / limit)
}

// GeneQuality scores one gene as the weighted sum of its normalized terms.
func (e *columnEval) GeneQuality(gene []genepool.Coord) genepool.Quality {
	e.check(gene)
	o, ed, h := e.terms(gene)
	q := e.weights.Overlap*normalized(o, e.maxOverlap) +
		e.weights.EdgeLength*normalized(ed, e.maxEdge) +
		e.weights.Height*normalized(h, e.maxHeight)
	return genepool.Quality(q)
}

func (e *columnEval) apply(g *graph.Graph, gene []genepool.Coord) {
	for i := range g.Nodes {
		g.SetPosition(i, geo.Point{X: e.columns[e.depths[i]], Y: int(gene[i])})
	}
}

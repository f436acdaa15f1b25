package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/genelayout/pkg/genepool"
	"github.com/matzehuels/genelayout/pkg/geo"
	"github.com/matzehuels/genelayout/pkg/graph"
)

// Planar quality weights. Each non-overlapping node pair is worth more than
// any realistic edge improvement. One edge step is worth more than the whole
// size bonus range.
const (
	OverlapWeight = 1000
	EdgeWeight    = 10
	SizeBonusMax  = EdgeWeight - 1
)

// distanceMax is the most one connection can score under EdgeDistance.
const distanceMax = 10

// rangeFactor scales sqrt(n) * average node size into the coordinate range.
const rangeFactor = 4

// EdgePolicy selects how a planar layout scores its connections.
type EdgePolicy int

const (
	// EdgeLineOverlap counts connection lines that cross unrelated node
	// rectangles. Fewer crossings score higher.
	EdgeLineOverlap EdgePolicy = iota

	// EdgeDistance rewards connections whose endpoints are within two
	// average node sizes of each other. Kept as a legacy alternative.
	EdgeDistance
)

func (p EdgePolicy) String() string {
	switch p {
	case EdgeLineOverlap:
		return "line-overlap"
	case EdgeDistance:
		return "distance"
	}
	return fmt.Sprintf("EdgePolicy(%d)", int(p))
}

// ParseEdgePolicy maps a policy name to its value.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch s {
	case "", "line-overlap":
		return EdgeLineOverlap, nil
	case "distance":
		return EdgeDistance, nil
	}
	return 0, fmt.Errorf("unknown edge policy %q", s)
}

// Planar places nodes freely in two dimensions. A gene holds one (X, Y)
// pair per node.
type Planar struct {
	Policy EdgePolicy
}

// Layout evolves node positions for g and writes the best one back.
// The final layout is shifted so its top-left node corner is at the origin.
func (p Planar) Layout(ctx context.Context, g *graph.Graph, opts Options) (Result, error) {
	if err := g.Validate(); err != nil {
		return Result{}, fmt.Errorf("planar layout: %w", err)
	}
	if g.Len() <= 1 {
		return trivial(g, graph.KindPlanar), nil
	}

	ev := newPlanarEval(g, p.Policy)
	cfg := opts.poolConfig(g.Len(), 2*g.Len(), 0, ev.rangeMax())
	return evolve(ctx, g, graph.KindPlanar, ev, cfg, opts), nil
}

type planarEval struct {
	sizes   []geo.Size
	conns   []graph.Connection
	policy  EdgePolicy
	avgSize int
	pairs   int

	// maxBound is the largest bounding size (width + height) seen in any
	// gene of this run. It never shrinks, so an unchanged gene keeps or
	// improves its size bonus across generations.
	maxBound int

	rects []geo.Rect
}

func newPlanarEval(g *graph.Graph, policy EdgePolicy) *planarEval {
	n := g.Len()
	ev := &planarEval{
		sizes:  make([]geo.Size, n),
		conns:  g.Connections,
		policy: policy,
		pairs:  n * (n - 1) / 2,
		rects:  make([]geo.Rect, n),
	}
	total := 0
	for i, node := range g.Nodes {
		ev.sizes[i] = node.Size
		total += (node.Size.Width+node.Size.Height)/2 + 2*NodePadding
	}
	if n > 0 {
		ev.avgSize = max(total/n, 1)
	}
	return ev
}

func (e *planarEval) rangeMax() genepool.Coord {
	n := len(e.sizes)
	return clampCoord(math.Sqrt(float64(n)) * float64(e.avgSize) * rangeFactor)
}

func (e *planarEval) decode(gene []genepool.Coord) {
	if len(gene) != 2*len(e.sizes) {
		panic(fmt.Sprintf("layout: planar gene has %d coordinates for %d nodes", len(gene), len(e.sizes)))
	}
	for i, s := range e.sizes {
		e.rects[i] = geo.NewRect(int(gene[2*i]), int(gene[2*i+1]), s.Width, s.Height).Inflate(NodePadding)
	}
}

func (e *planarEval) boundSize() int {
	b := geo.Bounds(e.rects...)
	return b.Size.Width + b.Size.Height
}

// SetupGeneration raises the running maximum bounding size.
func (e *planarEval) SetupGeneration(p *genepool.Pool) {
	for i := range p.Len() {
		e.decode(p.Gene(i))
		e.maxBound = max(e.maxBound, e.boundSize())
	}
}

// GeneQuality scores one gene: overlap-free pairs, edge term, size bonus.
func (e *planarEval) GeneQuality(gene []genepool.Coord) genepool.Quality {
	e.decode(gene)

	free := e.pairs - overlaps(e.rects)

	var edge int
	switch e.policy {
	case EdgeDistance:
		edge = distanceScore(e.rects, e.conns, e.avgSize)
	default:
		edge = len(e.conns)*max(len(e.rects)-2, 0) - crossings(e.rects, e.conns)
	}

	bonus := SizeBonusMax
	if e.maxBound > 0 {
		bonus = SizeBonusMax * max(e.maxBound-e.boundSize(), 0) / e.maxBound
	}

	return genepool.Quality(OverlapWeight*free + EdgeWeight*edge + bonus)
}

func (e *planarEval) apply(g *graph.Graph, gene []genepool.Coord) {
	minX, minY := math.MaxInt, math.MaxInt
	for i := range g.Nodes {
		minX = min(minX, int(gene[2*i]))
		minY = min(minY, int(gene[2*i+1]))
	}
	for i := range g.Nodes {
		g.SetPosition(i, geo.Point{X: int(gene[2*i]) - minX, Y: int(gene[2*i+1]) - minY})
	}
}

// overlaps counts overlapping rectangle pairs.
func overlaps(rects []geo.Rect) int {
	n := 0
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) {
				n++
			}
		}
	}
	return n
}

// crossings counts (connection, node) pairs where the straight line between
// the connection's endpoint centers touches a third node's rectangle.
func crossings(rects []geo.Rect, conns []graph.Connection) int {
	n := 0
	for _, c := range conns {
		if c.Consumer == c.Supplier {
			continue
		}
		seg := geo.NewSegment(rects[c.Consumer].Center(), rects[c.Supplier].Center())
		for k := range rects {
			if k == c.Consumer || k == c.Supplier {
				continue
			}
			if rects[k].IntersectsSegment(seg) {
				n++
			}
		}
	}
	return n
}

// distanceScore awards up to distanceMax per connection: full marks within
// two average node sizes, falling off with distance beyond that.
func distanceScore(rects []geo.Rect, conns []graph.Connection, avg int) int {
	limit := 2 * avg
	score := 0
	for _, c := range conns {
		a, b := rects[c.Consumer].Center(), rects[c.Supplier].Center()
		d := abs(a.X-b.X) + abs(a.Y-b.Y)
		if d <= limit {
			score += distanceMax
			continue
		}
		score += distanceMax * limit / d
	}
	return score
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

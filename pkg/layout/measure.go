package layout

import (
	"github.com/matzehuels/genelayout/pkg/geo"
	"github.com/matzehuels/genelayout/pkg/graph"
)

// Stats summarizes the geometry of a positioned graph.
type Stats struct {
	Overlaps      int // padded node pairs that overlap
	Crossings     int // connection lines touching an unrelated node
	EdgeYDistance int // summed vertical distance between connected centers
	Width, Height int // bounding box of all nodes
}

// Measure computes Stats for the current node positions of g.
func Measure(g *graph.Graph) Stats {
	b := g.Bounds()
	return Stats{
		Overlaps:      OverlapCount(g),
		Crossings:     CrossingCount(g),
		EdgeYDistance: EdgeYDistance(g),
		Width:         b.Size.Width,
		Height:        b.Size.Height,
	}
}

// OverlapCount returns the number of node pairs whose padded rectangles
// overlap at their current positions.
func OverlapCount(g *graph.Graph) int {
	return overlaps(paddedRects(g))
}

// CrossingCount returns how often a connection line between two node
// centers touches the padded rectangle of a third node.
func CrossingCount(g *graph.Graph) int {
	return crossings(paddedRects(g), g.Connections)
}

// EdgeYDistance sums the vertical distance between the centers of every
// connected node pair.
func EdgeYDistance(g *graph.Graph) int {
	sum := 0
	for _, c := range g.Connections {
		sum += abs(g.NodeRect(c.Consumer).Center().Y - g.NodeRect(c.Supplier).Center().Y)
	}
	return sum
}

func paddedRects(g *graph.Graph) []geo.Rect {
	rects := make([]geo.Rect, g.Len())
	for i := range rects {
		rects[i] = g.NodeRect(i).Inflate(NodePadding)
	}
	return rects
}

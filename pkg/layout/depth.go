package layout

import "github.com/matzehuels/genelayout/pkg/graph"

// MaxDepthPasses caps the fixed-point iteration in CallDepths. Cyclic
// dependencies never resolve; the cap is what stops the loop.
const MaxDepthPasses = 100

// ColumnGap is the horizontal space between depth columns.
const ColumnGap = 20

// CallDepths assigns every node a dependency depth.
//
// Attribute nodes sit at depth 0. A regular node sits one past the deepest
// node it depends on, and never shallower than the base depth: 1 when the
// graph has attribute nodes, 0 otherwise. Resolution repeats passes over
// the unresolved nodes until all are resolved, a pass makes no progress,
// or MaxDepthPasses is reached.
//
// resolved is false when some nodes could not be resolved (a dependency
// cycle). Those nodes get one past their deepest resolved supplier, or the
// base depth, so every returned depth is present and non-negative.
func CallDepths(g *graph.Graph) (depths []int, resolved bool) {
	n := g.Len()
	depths = make([]int, n)
	done := make([]bool, n)

	base := 0
	if g.HasKind(graph.NodeAttribute) {
		base = 1
	}

	suppliers := make([][]int, n)
	for _, c := range g.Connections {
		if c.Consumer != c.Supplier {
			suppliers[c.Consumer] = append(suppliers[c.Consumer], c.Supplier)
		}
	}

	pending := 0
	for i := range g.Nodes {
		if g.Nodes[i].IsAttribute() {
			done[i] = true
			continue
		}
		pending++
	}

	for pass := 0; pass < MaxDepthPasses && pending > 0; pass++ {
		progress := false
		for i := range n {
			if done[i] {
				continue
			}
			d, ok := base, true
			for _, s := range suppliers[i] {
				if !done[s] {
					ok = false
					break
				}
				d = max(d, depths[s]+1)
			}
			if ok {
				depths[i] = d
				done[i] = true
				pending--
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	if pending == 0 {
		return depths, true
	}

	for i := range n {
		if done[i] {
			continue
		}
		d := base
		for _, s := range suppliers[i] {
			if done[s] {
				d = max(d, depths[s]+1)
			}
		}
		depths[i] = d
	}
	return depths, false
}

// ColumnPositions returns the X offset of every depth level from 0 to the
// deepest level in depths. A column is as wide as its widest padded node
// plus ColumnGap; levels without nodes take only the gap.
func ColumnPositions(g *graph.Graph, depths []int) []int {
	levels := 0
	for _, d := range depths {
		levels = max(levels, d+1)
	}

	widths := make([]int, levels)
	for i, d := range depths {
		widths[d] = max(widths[d], g.Nodes[i].Size.Width+2*NodePadding)
	}

	xs := make([]int, levels)
	for d := 1; d < levels; d++ {
		xs[d] = xs[d-1] + widths[d-1] + ColumnGap
	}
	return xs
}

// Package render draws laid-out graphs.
//
// The layout engine only positions rectangles; everything visual lives here.
// A [Drawer] receives one call per node and one per connection, in layout
// order, and is free to produce any output. [Draw] walks a finished
// [graph.Layout] and feeds a drawer.
//
// # Backends
//
//   - [dot]: Graphviz DOT with pinned node positions, rendered to SVG or PNG
//     through goccy/go-graphviz
//   - [plot]: quality-per-generation charts of a layout run (gonum/plot)
//
// # Node Sizing
//
// Graphs loaded from files often carry names but no sizes. [SizeNodes]
// measures each label with a [TextMeasurer] and fills in the missing sizes
// before a layout run:
//
//	render.SizeNodes(g, render.MonoMeasurer{}, 8)
//
// [dot]: github.com/matzehuels/genelayout/pkg/render/dot
// [plot]: github.com/matzehuels/genelayout/pkg/render/plot
package render

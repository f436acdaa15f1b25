package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/genelayout/pkg/geo"
	"github.com/matzehuels/genelayout/pkg/graph"
)

// TextMeasurer reports the extent of a label.
type TextMeasurer interface {
	MeasureText(s string) geo.Size
}

// Drawer consumes a laid-out graph.
type Drawer interface {
	TextMeasurer
	DrawNode(r geo.Rect, label string)
	DrawConnection(from, to geo.Rect, kind graph.Relation)
}

// Draw feeds every node and then every connection of l to d.
func Draw(d Drawer, l graph.Layout) error {
	g, err := l.Graph()
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	for i, n := range g.Nodes {
		d.DrawNode(g.NodeRect(i), n.Name)
	}
	for _, c := range g.Connections {
		d.DrawConnection(g.NodeRect(c.Consumer), g.NodeRect(c.Supplier), c.Kind)
	}
	return nil
}

// SizeNodes sets the size of every node that has none to its measured label
// plus pad on each side. Nodes with a size are left alone.
func SizeNodes(g *graph.Graph, m TextMeasurer, pad int) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !n.Size.IsZero() {
			continue
		}
		s := m.MeasureText(n.Name)
		n.Size = geo.Size{Width: s.Width + 2*pad, Height: s.Height + 2*pad}
	}
}

// MonoMeasurer measures text set in a fixed-width font. Multi-line labels
// are as wide as their longest line.
type MonoMeasurer struct {
	CharWidth  int // zero means 8
	LineHeight int // zero means 16
}

// MeasureText implements TextMeasurer.
func (m MonoMeasurer) MeasureText(s string) geo.Size {
	cw, lh := m.CharWidth, m.LineHeight
	if cw == 0 {
		cw = 8
	}
	if lh == 0 {
		lh = 16
	}
	lines := strings.Split(s, "\n")
	widest := 0
	for _, line := range lines {
		widest = max(widest, utf8.RuneCountInString(line))
	}
	return geo.Size{Width: widest * cw, Height: len(lines) * lh}
}

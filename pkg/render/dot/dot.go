// Package dot turns laid-out graphs into Graphviz DOT and renders them.
//
// Node positions come from the layout engine, not from Graphviz: every node
// is emitted with a pinned pos ("x,y!") and fixed size, and the graph uses
// the neato engine so Graphviz only routes the edges.
//
//	src, err := dot.FromLayout(l)
//	svg, err := dot.RenderSVG(ctx, src)
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/genelayout/pkg/geo"
	"github.com/matzehuels/genelayout/pkg/graph"
	"github.com/matzehuels/genelayout/pkg/render"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// pointsPerInch converts layout units to Graphviz inches.
const pointsPerInch = 72.0

// Drawer collects nodes and connections into a DOT document. It implements
// [render.Drawer].
type Drawer struct {
	render.MonoMeasurer

	nodes []string
	edges []string
	ids   map[geo.Rect]string
}

// NewDrawer returns an empty drawer.
func NewDrawer() *Drawer {
	return &Drawer{ids: make(map[geo.Rect]string)}
}

// DrawNode adds a box pinned at r. Graphviz Y grows upward, so the center
// is mirrored.
func (d *Drawer) DrawNode(r geo.Rect, label string) {
	id := "n" + strconv.Itoa(len(d.nodes))
	if _, dup := d.ids[r]; !dup {
		d.ids[r] = id
	}
	c := r.Center()
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%d,%d!\"", c.X, -c.Y),
		fmt.Sprintf("width=%.3f", float64(r.Size.Width)/pointsPerInch),
		fmt.Sprintf("height=%.3f", float64(r.Size.Height)/pointsPerInch),
	}
	d.nodes = append(d.nodes, fmt.Sprintf("  %s [%s];", id, strings.Join(attrs, ", ")))
}

// DrawConnection adds an edge between two previously drawn nodes.
// Connections to rectangles that were never drawn are skipped.
func (d *Drawer) DrawConnection(from, to geo.Rect, kind graph.Relation) {
	a, ok := d.ids[from]
	if !ok {
		return
	}
	b, ok := d.ids[to]
	if !ok {
		return
	}
	line := fmt.Sprintf("  %s -> %s", a, b)
	if attrs := edgeAttrs(kind); attrs != "" {
		line += " [" + attrs + "]"
	}
	d.edges = append(d.edges, line+";")
}

func edgeAttrs(kind graph.Relation) string {
	switch kind {
	case graph.RelationInheritance:
		return "arrowhead=empty"
	case graph.RelationAggregation:
		return "dir=back, arrowtail=odiamond"
	case graph.RelationAssociation:
		return "arrowhead=vee"
	case graph.RelationFuncParam, graph.RelationFuncVar:
		return "style=dashed, arrowhead=vee"
	}
	return ""
}

// String returns the DOT document.
func (d *Drawer) String() string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=12];\n")
	buf.WriteString("\n")
	for _, n := range d.nodes {
		buf.WriteString(n)
		buf.WriteByte('\n')
	}
	if len(d.edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range d.edges {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.String()
}

// FromLayout converts a finished layout to DOT.
func FromLayout(l graph.Layout) (string, error) {
	d := NewDrawer()
	if err := render.Draw(d, l); err != nil {
		return "", err
	}
	return d.String(), nil
}

// Render renders DOT source in format ("dot", "svg" or "png").
func Render(ctx context.Context, src, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(src), nil
	case FormatSVG:
		return RenderSVG(ctx, src)
	case FormatPNG:
		return RenderPNG(ctx, src)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// RenderSVG renders DOT source to SVG with a viewBox anchored at the origin.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	out, err := renderGraphviz(ctx, src, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, src string) ([]byte, error) {
	return renderGraphviz(ctx, src, graphviz.PNG)
}

func renderGraphviz(ctx context.Context, src string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

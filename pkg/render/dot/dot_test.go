package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/genelayout/pkg/geo"
	"github.com/matzehuels/genelayout/pkg/graph"
)

func testLayout() graph.Layout {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{Name: "Base", Size: geo.Size{Width: 72, Height: 36}},
			{Name: "Derived", Size: geo.Size{Width: 72, Height: 36}, Pos: geo.Point{X: 100, Y: 50}},
		},
		Connections: []graph.Connection{{Consumer: 1, Supplier: 0, Kind: graph.RelationInheritance}},
	}
	return graph.NewLayout(graph.KindPlanar, g)
}

func TestFromLayout(t *testing.T) {
	src, err := FromLayout(testLayout())
	if err != nil {
		t.Fatalf("FromLayout: %v", err)
	}

	for _, want := range []string{
		"digraph G {",
		"layout=neato;",
		`n0 [label="Base", pos="36,-18!", width=1.000, height=0.500];`,
		`n1 [label="Derived", pos="136,-68!"`,
		"n1 -> n0 [arrowhead=empty];",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q\n%s", want, src)
		}
	}
}

func TestDrawConnectionUnknownRect(t *testing.T) {
	d := NewDrawer()
	d.DrawNode(geo.NewRect(0, 0, 10, 10), "a")
	d.DrawConnection(geo.NewRect(0, 0, 10, 10), geo.NewRect(50, 50, 10, 10), graph.RelationNone)
	if strings.Contains(d.String(), "->") {
		t.Error("edge to undrawn node should be skipped")
	}
}

func TestEdgeAttrs(t *testing.T) {
	tests := []struct {
		kind graph.Relation
		want string
	}{
		{graph.RelationNone, ""},
		{graph.RelationInheritance, "arrowhead=empty"},
		{graph.RelationAggregation, "dir=back, arrowtail=odiamond"},
		{graph.RelationFuncParam, "style=dashed, arrowhead=vee"},
	}
	for _, tt := range tests {
		if got := edgeAttrs(tt.kind); got != tt.want {
			t.Errorf("edgeAttrs(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.25 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.25 200.00" width="100" height="200"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	got, err := Render(t.Context(), "digraph G {}", FormatDOT)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "digraph G {}" {
		t.Errorf("Render dot = %q", got)
	}
	if _, err := Render(t.Context(), "digraph G {}", "pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

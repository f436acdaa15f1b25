package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/genelayout/pkg/geo"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Layout kinds.
const (
	KindPlanar  = "planar"  // free 2-D placement (class diagrams)
	KindColumn  = "column"  // depth columns, default weights
	KindInclude = "include" // depth columns, include-diagram weights
	KindPortion = "portion" // depth columns, portion-diagram weights
)

// LayoutKinds lists every accepted layout kind.
var LayoutKinds = []string{KindPlanar, KindColumn, KindInclude, KindPortion}

// NodeKind distinguishes regular nodes from attribute nodes. Attribute nodes
// (data members in a portion diagram) always sit in the first depth column.
type NodeKind string

// Node kinds.
const (
	NodeRegular   NodeKind = "regular"
	NodeAttribute NodeKind = "attribute"
)

// Relation is the kind of a connection. Layout ignores it; renderers use it
// to pick line and arrowhead styles.
type Relation string

// Relation kinds.
const (
	RelationNone        Relation = ""
	RelationAggregation Relation = "aggregation"
	RelationInheritance Relation = "inheritance"
	RelationAssociation Relation = "association"
	RelationFuncParam   Relation = "func_param"
	RelationFuncVar     Relation = "func_var"
)

// Visibility of the member behind a connection.
type Visibility string

// Visibility values.
const (
	VisibilityNone      Visibility = ""
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// Validation errors.
var (
	ErrInvalidEndpoint = errors.New("connection endpoint out of range")
	ErrNegativeSize    = errors.New("negative node size")
	ErrDuplicateName   = errors.New("duplicate node name")
	ErrUnknownNode     = errors.New("unknown node")
)

// =============================================================================
// Graph - Index-Addressed Nodes and Connections
// =============================================================================

// Node is one diagram element. Size is set by the caller before layout runs;
// Pos is owned by the layout engine once a run starts.
type Node struct {
	Name string
	Kind NodeKind
	Size geo.Size
	Pos  geo.Point
}

// IsAttribute reports whether the node is an attribute node.
func (n *Node) IsAttribute() bool { return n.Kind == NodeAttribute }

// Connection is a directed relation: Consumer depends on Supplier.
// Only the two indices matter for layout.
type Connection struct {
	Consumer   int
	Supplier   int
	Kind       Relation
	Const      bool
	ByRef      bool
	Visibility Visibility
}

// Graph is an ordered node list plus connections between node indices.
// Indices stay stable for the duration of a layout run; the layout engine
// only ever writes node positions.
type Graph struct {
	Nodes       []Node
	Connections []Connection
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// Validate checks that every connection references existing nodes and that
// no node has a negative size.
func (g *Graph) Validate() error {
	for i, n := range g.Nodes {
		if n.Size.Width < 0 || n.Size.Height < 0 {
			return fmt.Errorf("node %d (%s): %w", i, n.Name, ErrNegativeSize)
		}
	}
	for i, c := range g.Connections {
		if c.Consumer < 0 || c.Consumer >= len(g.Nodes) ||
			c.Supplier < 0 || c.Supplier >= len(g.Nodes) {
			return fmt.Errorf("connection %d (%d→%d): %w", i, c.Consumer, c.Supplier, ErrInvalidEndpoint)
		}
	}
	return nil
}

// NodeRect returns the rectangle covered by node i at its current position.
func (g *Graph) NodeRect(i int) geo.Rect {
	n := &g.Nodes[i]
	return geo.Rect{Min: n.Pos, Size: n.Size}
}

// SetPosition moves node i.
func (g *Graph) SetPosition(i int, p geo.Point) { g.Nodes[i].Pos = p }

// Suppliers returns the indices node i depends on, in connection order,
// without duplicates.
func (g *Graph) Suppliers(i int) []int {
	var out []int
	for _, c := range g.Connections {
		if c.Consumer == i && !slices.Contains(out, c.Supplier) {
			out = append(out, c.Supplier)
		}
	}
	return out
}

// HasKind reports whether any node has kind k.
func (g *Graph) HasKind(k NodeKind) bool {
	for i := range g.Nodes {
		if g.Nodes[i].Kind == k {
			return true
		}
	}
	return false
}

// Bounds returns the bounding rectangle of all nodes.
func (g *Graph) Bounds() geo.Rect {
	rects := make([]geo.Rect, len(g.Nodes))
	for i := range g.Nodes {
		rects[i] = g.NodeRect(i)
	}
	return geo.Bounds(rects...)
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph {
	return &Graph{
		Nodes:       slices.Clone(g.Nodes),
		Connections: slices.Clone(g.Connections),
	}
}

// Index returns the index of the node with the given name, or -1.
func (g *Graph) Index(name string) int {
	for i := range g.Nodes {
		if g.Nodes[i].Name == name {
			return i
		}
	}
	return -1
}

// =============================================================================
// Document - Wire Format
// =============================================================================

// Document is the canonical serialization format for graphs.
//
// Edges reference nodes by name, so node names must be unique within a
// document. Positions are optional on input.
type Document struct {
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
	Edges []EdgeDoc `json:"edges" bson:"edges"`
}

// NodeDoc is the serialized form of a [Node].
type NodeDoc struct {
	Name   string   `json:"name" bson:"name"`
	Kind   NodeKind `json:"kind,omitempty" bson:"kind,omitempty"`
	Width  int      `json:"width,omitempty" bson:"width,omitempty"`
	Height int      `json:"height,omitempty" bson:"height,omitempty"`
	X      int      `json:"x,omitempty" bson:"x,omitempty"`
	Y      int      `json:"y,omitempty" bson:"y,omitempty"`
}

// EdgeDoc is the serialized form of a [Connection]. From is the consumer,
// To the supplier.
type EdgeDoc struct {
	From       string     `json:"from" bson:"from"`
	To         string     `json:"to" bson:"to"`
	Kind       Relation   `json:"kind,omitempty" bson:"kind,omitempty"`
	Const      bool       `json:"const,omitempty" bson:"const,omitempty"`
	ByRef      bool       `json:"by_ref,omitempty" bson:"by_ref,omitempty"`
	Visibility Visibility `json:"visibility,omitempty" bson:"visibility,omitempty"`
}

// ToDocument converts a graph to its serialization format.
// Node order is preserved.
func ToDocument(g *Graph) Document {
	out := Document{
		Nodes: make([]NodeDoc, len(g.Nodes)),
		Edges: make([]EdgeDoc, len(g.Connections)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = NodeDoc{
			Name:   n.Name,
			Kind:   n.Kind,
			Width:  n.Size.Width,
			Height: n.Size.Height,
			X:      n.Pos.X,
			Y:      n.Pos.Y,
		}
	}
	for i, c := range g.Connections {
		out.Edges[i] = EdgeDoc{
			From:       g.Nodes[c.Consumer].Name,
			To:         g.Nodes[c.Supplier].Name,
			Kind:       c.Kind,
			Const:      c.Const,
			ByRef:      c.ByRef,
			Visibility: c.Visibility,
		}
	}
	return out
}

// FromDocument converts a document into a validated graph.
// Nodes without a kind become regular nodes.
func FromDocument(d Document) (*Graph, error) {
	g := &Graph{
		Nodes:       make([]Node, len(d.Nodes)),
		Connections: make([]Connection, 0, len(d.Edges)),
	}
	index := make(map[string]int, len(d.Nodes))
	for i, nd := range d.Nodes {
		if _, dup := index[nd.Name]; dup {
			return nil, fmt.Errorf("node %q: %w", nd.Name, ErrDuplicateName)
		}
		index[nd.Name] = i
		kind := nd.Kind
		if kind == "" {
			kind = NodeRegular
		}
		g.Nodes[i] = Node{
			Name: nd.Name,
			Kind: kind,
			Size: geo.Size{Width: nd.Width, Height: nd.Height},
			Pos:  geo.Point{X: nd.X, Y: nd.Y},
		}
	}
	for _, ed := range d.Edges {
		from, ok := index[ed.From]
		if !ok {
			return nil, fmt.Errorf("edge %s→%s: %q: %w", ed.From, ed.To, ed.From, ErrUnknownNode)
		}
		to, ok := index[ed.To]
		if !ok {
			return nil, fmt.Errorf("edge %s→%s: %q: %w", ed.From, ed.To, ed.To, ErrUnknownNode)
		}
		g.Connections = append(g.Connections, Connection{
			Consumer:   from,
			Supplier:   to,
			Kind:       ed.Kind,
			Const:      ed.Const,
			ByRef:      ed.ByRef,
			Visibility: ed.Visibility,
		})
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

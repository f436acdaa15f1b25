package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// =============================================================================
// Layout - Positioned Graph Plus Run Metadata
// =============================================================================

// Layout is the serialization format for a finished layout run.
//
// It carries the positioned graph (same node and edge encoding as
// [Document]) and the metadata of the run that produced it:
//
//   - ID: unique run identifier
//   - Kind: layout kind ("planar", "column", "include", "portion")
//   - Width, Height: bounding box of all nodes
//   - Quality, History: best gene quality at the end and per generation
//   - Generations, Cancelled: how far the run got
type Layout struct {
	ID   string `json:"id,omitempty" bson:"_id,omitempty"`
	Kind string `json:"kind" bson:"kind"`

	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`

	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
	Edges []EdgeDoc `json:"edges,omitempty" bson:"edges,omitempty"`

	Seed        uint64   `json:"seed" bson:"seed"`
	Generations int      `json:"generations" bson:"generations"`
	Cancelled   bool     `json:"cancelled,omitempty" bson:"cancelled,omitempty"`
	Trivial     bool     `json:"trivial,omitempty" bson:"trivial,omitempty"`
	Quality     uint64   `json:"quality" bson:"quality"`
	History     []uint64 `json:"history,omitempty" bson:"history,omitempty"`
}

// NewLayout captures the current node positions of g. Width and Height are
// the size of the node bounding box. Run metadata is left for the caller.
func NewLayout(kind string, g *Graph) Layout {
	doc := ToDocument(g)
	b := g.Bounds()
	return Layout{
		Kind:   kind,
		Width:  b.Size.Width,
		Height: b.Size.Height,
		Nodes:  doc.Nodes,
		Edges:  doc.Edges,
	}
}

// Graph rebuilds the positioned graph described by the layout.
func (l *Layout) Graph() (*Graph, error) {
	return FromDocument(Document{Nodes: l.Nodes, Edges: l.Edges})
}

// IsColumn reports whether the layout kind places nodes in depth columns.
func (l *Layout) IsColumn() bool {
	return l.Kind == KindColumn || l.Kind == KindInclude || l.Kind == KindPortion
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates the kind and that every edge references a known node.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if !slices.Contains(LayoutKinds, l.Kind) {
		return Layout{}, fmt.Errorf("unknown layout kind %q", l.Kind)
	}
	if _, err := l.Graph(); err != nil {
		return Layout{}, fmt.Errorf("layout graph: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

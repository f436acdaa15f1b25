package pipeline

import (
	"github.com/matzehuels/genelayout/pkg/errors"
	"github.com/matzehuels/genelayout/pkg/graph"
	"github.com/matzehuels/genelayout/pkg/render"
)

// DefaultNodePadding is the label padding used when measuring node sizes.
const DefaultNodePadding = 6

// LoadOptions controls how a graph document is turned into a graph.
type LoadOptions struct {
	// Measurer sizes nodes without a size. Nil selects render.MonoMeasurer.
	Measurer render.TextMeasurer

	// Padding around measured labels. Zero selects DefaultNodePadding.
	Padding int
}

// Load decodes a graph document, checks it and fills in missing node sizes.
func Load(data []byte, opts LoadOptions) (*graph.Graph, error) {
	g, err := graph.UnmarshalGraph(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}
	if err := Prepare(g, opts); err != nil {
		return nil, err
	}
	return g, nil
}

// Prepare checks node names and graph size and sizes unsized nodes.
func Prepare(g *graph.Graph, opts LoadOptions) error {
	if err := errors.ValidateGraphSize(g.Len()); err != nil {
		return err
	}
	for _, n := range g.Nodes {
		if err := errors.ValidateNodeName(n.Name); err != nil {
			return err
		}
	}
	if err := g.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGraph, err, "validate graph")
	}

	m := opts.Measurer
	if m == nil {
		m = render.MonoMeasurer{}
	}
	pad := opts.Padding
	if pad == 0 {
		pad = DefaultNodePadding
	}
	render.SizeNodes(g, m, pad)
	return nil
}

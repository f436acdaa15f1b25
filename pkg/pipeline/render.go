package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/genelayout/pkg/errors"
	"github.com/matzehuels/genelayout/pkg/graph"
	"github.com/matzehuels/genelayout/pkg/observability"
	"github.com/matzehuels/genelayout/pkg/render/dot"
)

// =============================================================================
// Rendering
// =============================================================================

// RenderLayout renders a finished layout in one format.
func RenderLayout(ctx context.Context, l graph.Layout, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	hooks := observability.Layout()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := renderFormat(ctx, l, format)
	hooks.OnRenderComplete(ctx, format, time.Since(start), err)
	return data, err
}

func renderFormat(ctx context.Context, l graph.Layout, format string) ([]byte, error) {
	if format == FormatJSON {
		return graph.MarshalLayout(l)
	}
	src, err := dot.FromLayout(l)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "layout %s", l.ID)
	}
	data, err := dot.Render(ctx, src, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return data, nil
}

// RenderFromLayoutData parses serialized layout JSON and renders it.
func RenderFromLayoutData(ctx context.Context, data []byte, formats []string) (map[string][]byte, error) {
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse layout")
	}
	out := make(map[string][]byte, len(formats))
	for _, f := range formats {
		b, err := RenderLayout(ctx, l, f)
		if err != nil {
			return nil, err
		}
		out[f] = b
	}
	return out, nil
}

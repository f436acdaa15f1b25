package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/genelayout/pkg/graph"
	"github.com/matzehuels/genelayout/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout lays out a copy of g and returns it with the run metadata.
// g itself is never modified. Options must have been validated.
//
// A run stopped early by the status sink or by ctx still yields the best
// layout found so far, marked Cancelled.
func GenerateLayout(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, error) {
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, opts.Kind, g.Len())
	start := time.Now()

	lay, err := opts.Layouter()
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.Kind, 0, time.Since(start), err)
		return graph.Layout{}, err
	}

	work := g.Clone()
	res, err := lay.Layout(ctx, work, opts.LayoutOptions())
	hooks.OnLayoutComplete(ctx, opts.Kind, res.Generations, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, err
	}

	out := graph.NewLayout(res.Kind, work)
	out.ID = uuid.NewString()
	out.Seed = opts.Seed
	out.Generations = res.Generations
	out.Cancelled = res.Cancelled
	out.Trivial = res.Trivial
	out.Quality = uint64(res.BestQuality)
	out.History = make([]uint64, len(res.History))
	for i, q := range res.History {
		out.History[i] = uint64(q)
	}

	opts.Logger.Debug("layout finished",
		"id", out.ID,
		"kind", out.Kind,
		"generations", out.Generations,
		"quality", out.Quality,
		"cancelled", out.Cancelled)
	return out, nil
}

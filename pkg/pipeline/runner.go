package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genelayout/pkg/cache"
	"github.com/matzehuels/genelayout/pkg/graph"
	"github.com/matzehuels/genelayout/pkg/observability"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, and every layout run owns its own gene
// pool.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute lays out g and renders every requested format. When ctx ends
// during evolution the best layout so far is rendered on a context detached
// from ctx.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		GraphHash: GraphHash(g),
		Stats: Stats{
			NodeCount: g.Len(),
			EdgeCount: len(g.Connections),
		},
	}

	layoutStart := time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"kind", l.Kind,
		"nodes", g.Len(),
		"generations", l.Generations,
		"quality", l.Quality,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// A stopped run still carries the best layout found, so its artifacts
	// are rendered even though ctx is already done.
	renderCtx := ctx
	if l.Cancelled {
		renderCtx = context.WithoutCancel(ctx)
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(renderCtx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo lays out g with caching and reports whether the result
// came from the cache. Cancelled runs are never cached.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(GraphHash(g), opts.LayoutKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				hooks.OnCacheHit(ctx, keyTypeLayout)
				return cached, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	l, err := GenerateLayout(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if !l.Cancelled {
		if data, err := graph.MarshalLayout(l); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err != nil {
				r.Logger.Warn("cache write failed", "error", err)
			} else {
				hooks.OnCacheSet(ctx, keyTypeLayout, len(data))
			}
		}
	}
	return l, false, nil
}

// Layout is LayoutWithCacheInfo without the cache hit flag.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

// RenderWithCacheInfo renders l in every requested format and reports
// whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		if format == FormatJSON {
			artifacts[format] = layoutData
			continue
		}
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		allCached = false

		data, err := RenderLayout(ctx, l, format)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
		}
	}
	return artifacts, allCached, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// GraphHash returns the content hash of g's serialized form. Positions are
// part of the document, so the same graph with different starting positions
// hashes differently.
func GraphHash(g *graph.Graph) string {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

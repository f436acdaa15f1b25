// Package cache stores finished layouts and rendered artifacts.
//
// A layout run is deterministic for a given graph, layout kind, seed and
// pool settings, so its result can be reused. The [Cache] interface is a
// plain byte store with TTLs; [Keyer] turns a graph hash plus the options
// that influence the result into a stable key.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance layout services
//   - [MongoCache]: document store with a TTL index on expiry
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(graphJSON), cache.LayoutKeyOpts{
//	    Kind: "planar", Seed: 42, Generations: 30,
//	})
//
// Use [NewScopedKeyer] to give tenants separate namespaces.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A zero ttl in Set means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies a layout of the graph with hash graphHash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendering of the layout with hash layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout result.
type LayoutKeyOpts struct {
	Kind              string  `json:"kind"`
	Generations       int     `json:"generations"`
	Seed              uint64  `json:"seed"`
	Population        int     `json:"population,omitempty"`
	CrossoverFraction float64 `json:"crossover,omitempty"`
	MutationRate      float64 `json:"mutation,omitempty"`
	ReferenceHeight   int     `json:"ref_height,omitempty"`
	EdgePolicy        string  `json:"edge_policy,omitempty"`
	Weights           string  `json:"weights,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Engine string `json:"engine,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>" over the graph hash and options.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<sha256>" over the layout hash and options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Default TTLs.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 24 * time.Hour
)

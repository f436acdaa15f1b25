// Package pipeline runs the load → layout → render pipeline for genelayout.
//
// The CLI and the layout server share this package so both apply the same
// defaults, validation, caching and observability hooks.
//
// # Stages
//
//  1. Load: decode a graph document, check names and size, measure node
//     sizes that are missing
//  2. Layout: evolve node positions with the layouter for the layout kind
//  3. Render: turn the finished layout into JSON, DOT, SVG or PNG
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	g, err := pipeline.Load(data, pipeline.LoadOptions{})
//	res, err := runner.Execute(ctx, g, pipeline.Options{
//	    Kind:    "planar",
//	    Seed:    42,
//	    Formats: []string{"svg"},
//	})
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genelayout/pkg/cache"
	"github.com/matzehuels/genelayout/pkg/errors"
	"github.com/matzehuels/genelayout/pkg/graph"
	"github.com/matzehuels/genelayout/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultKind is the layout kind used when none is given.
	DefaultKind = graph.KindPlanar

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultEdgePolicy is the planar edge term used when none is given.
	DefaultEdgePolicy = "line-overlap"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Kind              string                `json:"kind,omitempty"`
	Generations       int                   `json:"generations,omitempty"`
	Seed              uint64                `json:"seed,omitempty"`
	Population        int                   `json:"population,omitempty"`
	CrossoverFraction float64               `json:"crossover,omitempty"`
	MutationRate      float64               `json:"mutation,omitempty"`
	ReferenceHeight   int                   `json:"ref_height,omitempty"`
	EdgePolicy        string                `json:"edge_policy,omitempty"`
	Weights           *layout.ColumnWeights `json:"weights,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Refresh skips cache lookups but still stores the fresh result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger       `json:"-"`
	Status layout.StatusSink `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout is the positioned graph plus run metadata.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Kind == "" {
		o.Kind = DefaultKind
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.EdgePolicy == "" {
		o.EdgePolicy = DefaultEdgePolicy
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets defaults and validates the layout options.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateLayoutKind(o.Kind, graph.LayoutKinds); err != nil {
		return err
	}
	if err := errors.ValidateGenerations(o.Generations); err != nil {
		return err
	}
	if err := errors.ValidateRate("crossover", o.CrossoverFraction); err != nil {
		return err
	}
	if err := errors.ValidateRate("mutation", o.MutationRate); err != nil {
		return err
	}
	if o.Population < 0 || o.Population == 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "population must be 0 (auto) or at least 2, got %d", o.Population)
	}
	if o.ReferenceHeight < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "ref_height must not be negative")
	}
	if _, err := layout.ParseEdgePolicy(o.EdgePolicy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "edge_policy")
	}
	if o.Weights != nil {
		if err := o.Weights.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidOptions, err, "weights")
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
}

// ValidateForRender sets defaults and validates the render options.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults validates all options for a full pipeline run.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// Layouter returns the layouter selected by Kind, EdgePolicy and Weights.
// Call ValidateForLayout first.
func (o *Options) Layouter() (layout.Layouter, error) {
	l, err := layout.ForKind(o.Kind)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidKind, err, "layout kind")
	}
	switch l := l.(type) {
	case layout.Planar:
		policy, err := layout.ParseEdgePolicy(o.EdgePolicy)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "edge_policy")
		}
		l.Policy = policy
		return l, nil
	case layout.Column:
		if o.Weights != nil {
			l.Weights = *o.Weights
		}
		return l, nil
	}
	return l, nil
}

// LayoutOptions converts the pipeline options to engine options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Generations:       o.Generations,
		Seed:              o.Seed,
		Status:            o.Status,
		Logger:            o.Logger,
		Population:        o.Population,
		CrossoverFraction: o.CrossoverFraction,
		MutationRate:      o.MutationRate,
		ReferenceHeight:   o.ReferenceHeight,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		Kind:              o.Kind,
		Generations:       o.Generations,
		Seed:              o.Seed,
		Population:        o.Population,
		CrossoverFraction: o.CrossoverFraction,
		MutationRate:      o.MutationRate,
		ReferenceHeight:   o.ReferenceHeight,
	}
	if o.Kind == graph.KindPlanar {
		k.EdgePolicy = o.EdgePolicy
	}
	if o.Weights != nil {
		k.Weights = fmt.Sprintf("%g/%g/%g", o.Weights.Overlap, o.Weights.EdgeLength, o.Weights.Height)
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if format == FormatSVG || format == FormatPNG {
		k.Engine = "neato"
	}
	return k
}

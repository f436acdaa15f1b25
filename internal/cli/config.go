package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/genelayout/internal/server"
	"github.com/matzehuels/genelayout/pkg/cache"
	"github.com/matzehuels/genelayout/pkg/layout"
	"github.com/matzehuels/genelayout/pkg/pipeline"
)

// configEnv names a config file that replaces the default location.
const configEnv = "GENELAYOUT_CONFIG"

// Config is the genelayout.toml file. Command-line flags override it.
//
//	[layout]
//	kind = "column"
//	generations = 60
//	seed = 7
//
//	[column]
//	overlap = 1.0
//	edge_length = 0.5
//	height = 0.25
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
type Config struct {
	Layout LayoutConfig  `toml:"layout"`
	Planar PlanarConfig  `toml:"planar"`
	Column ColumnConfig  `toml:"column"`
	Cache  cache.Config  `toml:"cache"`
	Server server.Config `toml:"server"`
}

// LayoutConfig holds the [layout] table.
type LayoutConfig struct {
	Kind        string   `toml:"kind"`
	Generations int      `toml:"generations"`
	Seed        uint64   `toml:"seed"`
	Population  int      `toml:"population"`
	Crossover   float64  `toml:"crossover"`
	Mutation    float64  `toml:"mutation"`
	RefHeight   int      `toml:"ref_height"`
	Formats     []string `toml:"formats"`
}

// PlanarConfig holds the [planar] table.
type PlanarConfig struct {
	EdgePolicy string `toml:"edge_policy"`
}

// ColumnConfig holds the [column] table. All-zero weights keep the
// preset for the layout kind.
type ColumnConfig struct {
	Overlap    float64 `toml:"overlap"`
	EdgeLength float64 `toml:"edge_length"`
	Height     float64 `toml:"height"`
}

func (c ColumnConfig) weights() *layout.ColumnWeights {
	if c == (ColumnConfig{}) {
		return nil
	}
	return &layout.ColumnWeights{Overlap: c.Overlap, EdgeLength: c.EdgeLength, Height: c.Height}
}

// pipelineOptions maps the file settings onto pipeline options.
func (c Config) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Kind:              c.Layout.Kind,
		Generations:       c.Layout.Generations,
		Seed:              c.Layout.Seed,
		Population:        c.Layout.Population,
		CrossoverFraction: c.Layout.Crossover,
		MutationRate:      c.Layout.Mutation,
		ReferenceHeight:   c.Layout.RefHeight,
		EdgePolicy:        c.Planar.EdgePolicy,
		Weights:           c.Column.weights(),
		Formats:           c.Layout.Formats,
	}
}

// loadConfig reads the config file. An explicit path (flag or environment)
// must exist; a missing default file yields an empty Config. The returned
// path is empty when no file was read.
func loadConfig(explicit string) (Config, string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(configEnv)
	}
	required := path != ""
	if !required {
		dir, err := configDir()
		if err != nil {
			return Config{}, "", nil
		}
		path = filepath.Join(dir, appName+".toml")
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Config{}, "", nil
		}
		return Config{}, "", fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, "", fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, path, nil
}

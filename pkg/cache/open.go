package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend    string `toml:"backend" json:"backend"`
	Dir        string `toml:"dir" json:"dir,omitempty"`
	URL        string `toml:"url" json:"url,omitempty"`
	Prefix     string `toml:"prefix" json:"prefix,omitempty"`
	Database   string `toml:"database" json:"database,omitempty"`
	Collection string `toml:"collection" json:"collection,omitempty"`
}

// Clearer is implemented by backends that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// DefaultDir returns ~/.cache/genelayout, or a temp dir when the home
// directory is unknown.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "genelayout")
	}
	return filepath.Join(os.TempDir(), "genelayout-cache")
}

// Open builds the backend named by cfg.Backend. An empty backend means file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendFile:
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFileCache(dir)
	case BackendRedis:
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = "genelayout:"
		}
		return NewRedisCache(ctx, cfg.URL, prefix)
	case BackendMongo:
		return NewMongoCache(ctx, cfg.URL, cfg.Database, cfg.Collection)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

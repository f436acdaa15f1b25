package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/genelayout/pkg/cache"
	"github.com/matzehuels/genelayout/pkg/graph"
)

const testGraph = `{
  "nodes": [
    {"name": "Shape"},
    {"name": "Circle"},
    {"name": "Square"},
    {"name": "radius", "kind": "attribute"}
  ],
  "edges": [
    {"from": "Circle", "to": "Shape", "kind": "inheritance"},
    {"from": "Square", "to": "Shape", "kind": "inheritance"},
    {"from": "Circle", "to": "radius", "kind": "aggregation"}
  ]
}`

// newTestCLI returns a CLI isolated from the user's config and cache.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv(configEnv, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return New(io.Discard, LogInfo)
}

func writeGraph(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(testGraph), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,dot,png", []string{"svg", "dot", "png"}},
		{"spaces and case", " SVG , dot ,", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseWeights(t *testing.T) {
	w, err := parseWeights("2, 1,0.5")
	if err != nil {
		t.Fatalf("parseWeights() error: %v", err)
	}
	if w.Overlap != 2 || w.EdgeLength != 1 || w.Height != 0.5 {
		t.Errorf("parseWeights() = %+v", w)
	}

	for _, bad := range []string{"1,2", "a,b,c", "0,0,0", "-1,1,1"} {
		if _, err := parseWeights(bad); err == nil {
			t.Errorf("parseWeights(%q) should fail", bad)
		}
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		input, dir, want string
	}{
		{"graphs/classes.json", "", "graphs/classes"},
		{"graphs/classes.json", "out", filepath.Join("out", "classes")},
		{"noext", "", "noext"},
	}
	for _, tt := range tests {
		if got := outputBase(tt.input, tt.dir); got != tt.want {
			t.Errorf("outputBase(%q, %q) = %q, want %q", tt.input, tt.dir, got, tt.want)
		}
	}
}

func TestRenderPath(t *testing.T) {
	tests := []struct {
		name                  string
		input, output, format string
		multi                 bool
		want                  string
	}{
		{"from layout name", "g.layout.json", "", "svg", false, "g.svg"},
		{"plain json", "g.json", "", "png", false, "g.png"},
		{"explicit single", "g.layout.json", "out.svg", "svg", false, "out.svg"},
		{"explicit multi", "g.layout.json", "out.svg", "png", true, "out.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderPath(tt.input, tt.output, tt.format, tt.multi); got != tt.want {
				t.Errorf("renderPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayoutOptionsMerge(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Layout.Kind = "column"
	c.Config.Layout.Seed = 7
	c.Config.Layout.Formats = []string{"dot"}

	cmd := c.layoutCommand()
	if err := cmd.Flags().Set("generations", "12"); err != nil {
		t.Fatal(err)
	}
	f := layoutFlags{kind: "planar", generations: 12, seed: 42}

	opts, err := c.layoutOptions(cmd, f)
	if err != nil {
		t.Fatalf("layoutOptions() error: %v", err)
	}
	if opts.Kind != "column" {
		t.Errorf("Kind = %q, config value should win over an unset flag", opts.Kind)
	}
	if opts.Seed != 7 {
		t.Errorf("Seed = %d, want 7", opts.Seed)
	}
	if opts.Generations != 12 {
		t.Errorf("Generations = %d, want 12", opts.Generations)
	}
	if !slices.Equal(opts.Formats, []string{"json", "dot"}) {
		t.Errorf("Formats = %v, want json first", opts.Formats)
	}
}

func TestLayoutOptionsFlagsOverride(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Layout.Kind = "column"

	cmd := c.layoutCommand()
	for name, v := range map[string]string{"kind": "include", "weights": "1,1,1", "format": "svg"} {
		if err := cmd.Flags().Set(name, v); err != nil {
			t.Fatal(err)
		}
	}
	f := layoutFlags{kind: "include", generations: 30, seed: 42, weights: "1,1,1", formats: "svg"}

	opts, err := c.layoutOptions(cmd, f)
	if err != nil {
		t.Fatalf("layoutOptions() error: %v", err)
	}
	if opts.Kind != "include" {
		t.Errorf("Kind = %q, want include", opts.Kind)
	}
	if opts.Weights == nil || opts.Weights.Height != 1 {
		t.Errorf("Weights = %+v", opts.Weights)
	}
	if !slices.Equal(opts.Formats, []string{"json", "svg"}) {
		t.Errorf("Formats = %v", opts.Formats)
	}
}

func TestLayoutOptionsInvalid(t *testing.T) {
	c := newTestCLI(t)
	cmd := c.layoutCommand()
	if err := cmd.Flags().Set("kind", "radial"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.layoutOptions(cmd, layoutFlags{kind: "radial", generations: 30, seed: 42}); err == nil {
		t.Error("unknown kind should be rejected")
	}
}

func TestLayoutCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	input := writeGraph(t, dir, "shapes.json")

	err := execute(t, c, "layout", input, "--no-progress", "-g", "3", "-f", "dot", "--plot")
	if err != nil {
		t.Fatalf("layout command error: %v", err)
	}

	l, err := graph.ReadLayoutFile(filepath.Join(dir, "shapes.layout.json"))
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Kind != graph.KindPlanar || len(l.Nodes) != 4 || l.Generations != 3 {
		t.Errorf("layout = kind %q, %d nodes, %d generations", l.Kind, len(l.Nodes), l.Generations)
	}
	if len(l.History) != 4 {
		t.Errorf("history length = %d, want 4", len(l.History))
	}

	dot, err := os.ReadFile(filepath.Join(dir, "shapes.dot"))
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.Contains(string(dot), "digraph") {
		t.Errorf("dot output looks wrong:\n%s", dot)
	}
	if _, err := os.Stat(filepath.Join(dir, "shapes.history.png")); err != nil {
		t.Errorf("history chart missing: %v", err)
	}
}

func TestLayoutCommandMultipleInputs(t *testing.T) {
	c := newTestCLI(t)
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "layouts")
	a := writeGraph(t, in, "a.json")
	b := writeGraph(t, in, "b.json")

	if err := execute(t, c, "layout", a, b, "-k", "column", "-g", "2", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("layout command error: %v", err)
	}
	for _, name := range []string{"a.layout.json", "b.layout.json"} {
		l, err := graph.ReadLayoutFile(filepath.Join(out, name))
		if err != nil {
			t.Errorf("read %s: %v", name, err)
			continue
		}
		if l.Kind != graph.KindColumn {
			t.Errorf("%s kind = %q, want column", name, l.Kind)
		}
	}
}

func TestLayoutCommandMissingInput(t *testing.T) {
	c := newTestCLI(t)
	err := execute(t, c, "layout", filepath.Join(t.TempDir(), "missing.json"), "--no-cache")
	if err == nil {
		t.Fatal("missing input should fail")
	}
}

func TestRenderCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	input := writeGraph(t, dir, "shapes.json")
	if err := execute(t, c, "layout", input, "-g", "2", "--no-cache"); err != nil {
		t.Fatalf("layout command error: %v", err)
	}

	layoutPath := filepath.Join(dir, "shapes.layout.json")
	out := filepath.Join(dir, "drawing.dot")
	if err := execute(t, c, "render", layoutPath, "-f", "dot", "-o", out); err != nil {
		t.Fatalf("render command error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read render output: %v", err)
	}
	if !strings.Contains(string(data), `"Circle"`) {
		t.Errorf("render output should label nodes:\n%s", data)
	}

	if err := execute(t, c, "render", layoutPath, "-f", "json"); err == nil {
		t.Error("render to json should be rejected")
	}
}

func TestDepthCommand(t *testing.T) {
	c := newTestCLI(t)
	input := writeGraph(t, t.TempDir(), "shapes.json")
	if err := execute(t, c, "depth", input); err != nil {
		t.Fatalf("depth command error: %v", err)
	}
}

func TestOpenCache(t *testing.T) {
	c := newTestCLI(t)
	ctx := context.Background()

	ch, err := c.openCache(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ch.(cache.Clearer); ok {
		t.Error("--no-cache should give a cache without entries to clear")
	}

	ch, err = c.openCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	defer ch.Close()
	fc, ok := ch.(*cache.FileCache)
	if !ok {
		t.Fatalf("default backend = %T, want *cache.FileCache", ch)
	}
	want, _ := cacheDir()
	if fc.Dir() != want {
		t.Errorf("cache dir = %q, want %q", fc.Dir(), want)
	}

	c.Config.Cache.Backend = "memcached"
	if _, err := c.openCache(ctx, false); err == nil {
		t.Error("unknown backend should fail")
	}
}

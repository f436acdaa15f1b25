package layout

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/genelayout/pkg/geo"
	"github.com/matzehuels/genelayout/pkg/graph"
)

// panicRand fails the test run if a layout draws a random number.
type panicRand struct{}

func (panicRand) IntN(int) int { panic("unexpected random draw") }

// stopAt is a StatusSink that stops the run at a given generation.
type stopAt struct {
	stop           int
	started, ended bool
	total          int
	seen           []int
}

func (s *stopAt) StartTask(_ string, total int) { s.started, s.total = true, total }
func (s *stopAt) EndTask() { s.ended = true }
func (s *stopAt) UpdateProgressIteration(gen int) bool {
	s.seen = append(s.seen, gen)
	return gen < s.stop
}

func classGraph() *graph.Graph {
	return &graph.Graph{
		Nodes: []graph.Node{
			node("Shape", 60, 30),
			node("Circle", 50, 30),
			node("Square", 50, 30),
			node("Canvas", 70, 40),
			node("Point", 40, 20),
			node("Color", 40, 20),
		},
		Connections: []graph.Connection{
			{Consumer: 1, Supplier: 0, Kind: graph.RelationInheritance},
			{Consumer: 2, Supplier: 0, Kind: graph.RelationInheritance},
			{Consumer: 3, Supplier: 0, Kind: graph.RelationAggregation},
			{Consumer: 0, Supplier: 4, Kind: graph.RelationAggregation},
			{Consumer: 0, Supplier: 5, Kind: graph.RelationAssociation},
		},
	}
}

func allLayouters() map[string]Layouter {
	out := map[string]Layouter{}
	for _, k := range graph.LayoutKinds {
		l, err := ForKind(k)
		if err != nil {
			panic(err)
		}
		out[k] = l
	}
	return out
}

func TestPopulationSize(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 30},
		{1, 40},
		{4, 50},
		{9, 60},
		{100, 130},
		{101, 20},
		{400, 40},
		{10000, 200},
	}
	for _, tt := range tests {
		if got := PopulationSize(tt.n); got != tt.want {
			t.Errorf("PopulationSize(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
	if got := PopulationSize(101); got < 8 {
		t.Errorf("PopulationSize(101) = %d, want >= 8", got)
	}
}

func TestForKind(t *testing.T) {
	for _, k := range graph.LayoutKinds {
		if _, err := ForKind(k); err != nil {
			t.Errorf("ForKind(%q): %v", k, err)
		}
	}
	if _, err := ForKind("tower"); err == nil {
		t.Error("ForKind(tower) should fail")
	}
}

func TestLayout_Trivial(t *testing.T) {
	for kind, l := range allLayouters() {
		t.Run(kind, func(t *testing.T) {
			opts := Options{Rand: panicRand{}}

			empty := &graph.Graph{}
			res, err := l.Layout(context.Background(), empty, opts)
			if err != nil {
				t.Fatalf("Layout(empty): %v", err)
			}
			if !res.Trivial || res.Generations != 0 {
				t.Errorf("empty result = %+v, want trivial", res)
			}

			one := &graph.Graph{Nodes: []graph.Node{node("only", 0, 0)}}
			one.Nodes[0].Pos = geo.Point{X: 17, Y: 4}
			res, err = l.Layout(context.Background(), one, opts)
			if err != nil {
				t.Fatalf("Layout(one): %v", err)
			}
			if !res.Trivial {
				t.Errorf("single-node result = %+v, want trivial", res)
			}
			if one.Nodes[0].Pos != (geo.Point{}) {
				t.Errorf("single node at %v, want origin", one.Nodes[0].Pos)
			}
			if res.Kind != kind {
				t.Errorf("Kind = %q, want %q", res.Kind, kind)
			}
		})
	}
}

func TestLayout_InvalidGraph(t *testing.T) {
	for kind, l := range allLayouters() {
		t.Run(kind, func(t *testing.T) {
			g := classGraph()
			g.Connections[0].Supplier = 42
			_, err := l.Layout(context.Background(), g, Options{Rand: panicRand{}})
			if !errors.Is(err, graph.ErrInvalidEndpoint) {
				t.Errorf("Layout() error = %v, want ErrInvalidEndpoint", err)
			}
		})
	}
}

func TestLayout_Monotonic(t *testing.T) {
	for kind, l := range allLayouters() {
		t.Run(kind, func(t *testing.T) {
			g := classGraph()
			res, err := l.Layout(context.Background(), g, Options{Generations: 25, Seed: 99})
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if res.Generations != 25 || res.Cancelled {
				t.Fatalf("result = %+v, want 25 generations", res)
			}
			if len(res.History) != 26 {
				t.Fatalf("len(History) = %d, want 26", len(res.History))
			}
			for k := 1; k < len(res.History); k++ {
				if res.History[k] < res.History[k-1] {
					t.Errorf("generation %d: quality %d < %d", k, res.History[k], res.History[k-1])
				}
			}
			if res.BestQuality != res.History[len(res.History)-1] {
				t.Errorf("BestQuality = %d, want last history entry %d", res.BestQuality, res.History[25])
			}
		})
	}
}

func TestLayout_Deterministic(t *testing.T) {
	for kind, l := range allLayouters() {
		t.Run(kind, func(t *testing.T) {
			a, b := classGraph(), classGraph()
			ra, _ := l.Layout(context.Background(), a, Options{Seed: 5})
			rb, _ := l.Layout(context.Background(), b, Options{Seed: 5})

			if ra.BestQuality != rb.BestQuality {
				t.Errorf("quality %d != %d for the same seed", ra.BestQuality, rb.BestQuality)
			}
			for i := range a.Nodes {
				if a.Nodes[i].Pos != b.Nodes[i].Pos {
					t.Errorf("node %d at %v and %v for the same seed", i, a.Nodes[i].Pos, b.Nodes[i].Pos)
				}
			}
		})
	}
}

func TestLayout_StatusSinkStops(t *testing.T) {
	for kind, l := range allLayouters() {
		t.Run(kind, func(t *testing.T) {
			sink := &stopAt{stop: 5}
			g := classGraph()
			res, err := l.Layout(context.Background(), g, Options{Status: sink, Seed: 1})
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if !res.Cancelled {
				t.Error("Cancelled = false")
			}
			if res.Generations != 5 {
				t.Errorf("Generations = %d, want 5", res.Generations)
			}
			if len(res.History) != 6 {
				t.Errorf("len(History) = %d, want 6", len(res.History))
			}
			if !sink.started || !sink.ended {
				t.Error("sink not started and ended")
			}
			if sink.total != DefaultGenerations {
				t.Errorf("total = %d, want %d", sink.total, DefaultGenerations)
			}
			if len(sink.seen) != 6 || sink.seen[5] != 5 {
				t.Errorf("seen = %v", sink.seen)
			}
		})
	}
}

func TestLayout_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := classGraph()
	res, err := Planar{}.Layout(ctx, g, Options{Seed: 1})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if !res.Cancelled || res.Generations != 0 {
		t.Errorf("result = %+v, want cancelled before the first generation", res)
	}
	if len(res.History) != 1 {
		t.Errorf("len(History) = %d, want 1", len(res.History))
	}
}

func TestLayout_Rand(t *testing.T) {
	// An injected source takes precedence over Seed.
	g := classGraph()
	defer func() {
		if recover() == nil {
			t.Error("expected the injected source to be used")
		}
	}()
	Planar{}.Layout(context.Background(), g, Options{Seed: 1, Rand: panicRand{}})
}

package genepool

import (
	"fmt"
	"math"
)

// Coord is one coordinate value of a gene.
type Coord int16

// Coordinate limits.
const (
	MinCoord Coord = math.MinInt16
	MaxCoord Coord = math.MaxInt16
)

// Quality scores a gene. Higher is better.
type Quality uint64

// Defaults applied by [New].
const (
	// DefaultCrossoverFraction replaces crossover fractions of 0.5 or more,
	// which would make the best and worst lists collide.
	DefaultCrossoverFraction = 0.35
)

// Evaluator scores a single gene.
type Evaluator interface {
	GeneQuality(gene []Coord) Quality
}

// GenerationSetup is implemented by evaluators that need to inspect the whole
// population before a quality pass, for example to find the largest value
// of a term used for normalization. It may rewrite genes in place.
type GenerationSetup interface {
	SetupGeneration(p *Pool)
}

// EvaluatorFunc adapts a function to the [Evaluator] interface.
type EvaluatorFunc func(gene []Coord) Quality

// GeneQuality calls f(gene).
func (f EvaluatorFunc) GeneQuality(gene []Coord) Quality { return f(gene) }

// Config describes the shape of a pool.
type Config struct {
	GeneLength        int     // coordinates per gene
	Population        int     // number of genes
	CrossoverFraction float64 // share of the population selected as parents
	MutationRate      float64 // expected share of coordinates mutated per generation
	Min, Max          Coord   // inclusive coordinate range
}

// Pool is a population of genes plus their cached qualities.
// A Pool is not safe for concurrent use.
type Pool struct {
	cfg       Config
	eval      Evaluator
	rng       Rand
	genes     []Coord
	qualities []Quality
	selCount  int
	elite     int
}

// New allocates a pool and fills every coordinate with a uniform random value
// in [cfg.Min, cfg.Max]. It panics on an invalid configuration or a nil
// evaluator or random source.
func New(cfg Config, eval Evaluator, rng Rand) *Pool {
	switch {
	case cfg.Population <= 0:
		panic(fmt.Sprintf("genepool: population must be positive, got %d", cfg.Population))
	case cfg.GeneLength <= 0:
		panic(fmt.Sprintf("genepool: gene length must be positive, got %d", cfg.GeneLength))
	case cfg.Min > cfg.Max:
		panic(fmt.Sprintf("genepool: empty coordinate range [%d, %d]", cfg.Min, cfg.Max))
	case cfg.CrossoverFraction < 0 || cfg.MutationRate < 0:
		panic("genepool: negative crossover fraction or mutation rate")
	case eval == nil:
		panic("genepool: nil evaluator")
	case rng == nil:
		panic("genepool: nil random source")
	}
	if cfg.CrossoverFraction >= 0.5 {
		cfg.CrossoverFraction = DefaultCrossoverFraction
	}

	p := &Pool{
		cfg:       cfg,
		eval:      eval,
		rng:       rng,
		genes:     make([]Coord, cfg.GeneLength*cfg.Population),
		qualities: make([]Quality, cfg.Population),
		selCount:  selectionCount(cfg.Population, cfg.CrossoverFraction),
	}
	for i := range p.genes {
		p.genes[i] = p.RandomCoord()
	}
	return p
}

// selectionCount returns the length of each of the best and worst lists:
// ceil(pop*fraction) rounded up to even, reduced until both lists fit in
// the population without sharing a gene.
func selectionCount(pop int, fraction float64) int {
	n := int(math.Ceil(float64(pop) * fraction))
	if n%2 != 0 {
		n++
	}
	for n > 0 && 2*n > pop {
		n -= 2
	}
	return n
}

// Config returns the effective configuration (after clamping).
func (p *Pool) Config() Config { return p.cfg }

// Len returns the population size.
func (p *Pool) Len() int { return p.cfg.Population }

// GeneLength returns the number of coordinates per gene.
func (p *Pool) GeneLength() int { return p.cfg.GeneLength }

// SelectionCount returns the length of the best and worst lists.
func (p *Pool) SelectionCount() int { return p.selCount }

// Gene returns a view of gene i. Writes through the slice modify the pool.
func (p *Pool) Gene(i int) []Coord {
	n := p.cfg.GeneLength
	return p.genes[i*n : (i+1)*n : (i+1)*n]
}

// Quality returns the quality of gene i as of the last quality pass.
func (p *Pool) Quality(i int) Quality { return p.qualities[i] }

// RandomCoord returns a uniform value in the configured range.
func (p *Pool) RandomCoord() Coord {
	span := int(p.cfg.Max) - int(p.cfg.Min) + 1
	return Coord(int(p.cfg.Min) + p.rng.IntN(span))
}

// ComputeQualities runs the setup hook, if any, then scores every gene.
func (p *Pool) ComputeQualities() {
	if s, ok := p.eval.(GenerationSetup); ok {
		s.SetupGeneration(p)
	}
	for i := range p.qualities {
		p.qualities[i] = p.eval.GeneQuality(p.Gene(i))
	}
}

// BestGeneIndex rescores the population and returns the first gene holding
// the highest quality.
func (p *Pool) BestGeneIndex() int {
	p.ComputeQualities()
	return p.firstWith(NewHistogram(p.qualities).Highest())
}

// SingleGeneration performs one evolutionary step: quality pass, selection,
// crossover and mutation. The elite gene survives unchanged.
func (p *Pool) SingleGeneration() {
	p.ComputeQualities()
	hist := NewHistogram(p.qualities)
	p.elite = p.firstWith(hist.Highest())

	best, worst := p.selectBestWorst(hist)
	p.crossover(best, worst)
	p.mutate()
}

func (p *Pool) firstWith(q Quality) int {
	for i, v := range p.qualities {
		if v == q {
			return i
		}
	}
	return 0
}

// selectBestWorst returns two disjoint lists of selCount gene indices.
//
// The best list takes every gene above the top threshold, then genes equal
// to it in ascending index order. The worst list takes every gene below the
// bottom threshold, then genes equal to it in descending index order. The
// thresholds can only coincide when enough genes share that value for both
// walks to stay apart, and the elite is always the first best entry with
// the highest value.
func (p *Pool) selectBestWorst(h *Histogram) (best, worst []int) {
	n := p.selCount
	if n == 0 {
		return nil, nil
	}
	top := h.Threshold(n, true)
	bottom := h.Threshold(n, false)

	best = make([]int, 0, n)
	for i, q := range p.qualities {
		if q > top {
			best = append(best, i)
		}
	}
	for i := 0; i < len(p.qualities) && len(best) < n; i++ {
		if p.qualities[i] == top {
			best = append(best, i)
		}
	}

	worst = make([]int, 0, n)
	for i, q := range p.qualities {
		if q < bottom {
			worst = append(worst, i)
		}
	}
	for i := len(p.qualities) - 1; i >= 0 && len(worst) < n; i-- {
		if p.qualities[i] == bottom {
			worst = append(worst, i)
		}
	}
	return best, worst
}

// crossover pairs up parents from best and writes their offspring over the
// genes listed in worst. best is reordered in place.
func (p *Pool) crossover(best, worst []int) {
	gl := p.cfg.GeneLength
	remaining := len(best)
	slot := 0
	for remaining >= 2 && slot+1 < len(worst) {
		a := p.takeParent(best, &remaining)
		b := p.takeParent(best, &remaining)

		split := 0
		if gl > 1 {
			split = 1 + p.rng.IntN(gl-1)
		}
		ga, gb := p.Gene(a), p.Gene(b)
		c1, c2 := p.Gene(worst[slot]), p.Gene(worst[slot+1])
		copy(c1[:split], ga[:split])
		copy(c1[split:], gb[split:])
		copy(c2[:split], gb[:split])
		copy(c2[split:], ga[split:])
		slot += 2
	}
}

// takeParent draws a random entry from best[:*remaining], swaps it past the
// end of the live range and returns it.
func (p *Pool) takeParent(best []int, remaining *int) int {
	i := p.rng.IntN(*remaining)
	last := *remaining - 1
	best[i], best[last] = best[last], best[i]
	*remaining = last
	return best[last]
}

// MutationCount returns how many coordinates one mutation step replaces.
func (p *Pool) MutationCount() int {
	total := float64(p.cfg.Population * p.cfg.GeneLength)
	return int(math.Round(p.cfg.MutationRate * total))
}

// mutate replaces random coordinates of non-elite genes.
func (p *Pool) mutate() {
	if p.cfg.Population < 2 {
		return
	}
	for range p.MutationCount() {
		g := p.rng.IntN(p.cfg.Population - 1)
		if g >= p.elite {
			g++
		}
		c := p.rng.IntN(p.cfg.GeneLength)
		p.Gene(g)[c] = p.RandomCoord()
	}
}

package genepool_test

import (
	"fmt"

	"github.com/matzehuels/genelayout/pkg/genepool"
)

func ExamplePool() {
	// Search for a gene whose coordinates are all close to 10.
	eval := genepool.EvaluatorFunc(func(gene []genepool.Coord) genepool.Quality {
		var miss int
		for _, c := range gene {
			d := int(c) - 10
			if d < 0 {
				d = -d
			}
			miss += d
		}
		return genepool.Quality(1000 - miss)
	})

	p := genepool.New(genepool.Config{
		GeneLength:        4,
		Population:        30,
		CrossoverFraction: 0.35,
		MutationRate:      0.05,
		Min:               0,
		Max:               20,
	}, eval, genepool.NewRand(1))

	start := p.Quality(p.BestGeneIndex())
	for range 50 {
		p.SingleGeneration()
	}
	end := p.Quality(p.BestGeneIndex())

	fmt.Println("improved or held:", end >= start)
	// Output:
	// improved or held: true
}

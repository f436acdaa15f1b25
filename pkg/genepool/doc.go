// Package genepool implements a generational genetic algorithm over
// fixed-length integer genes.
//
// The pool knows nothing about what a gene means. A caller supplies an
// [Evaluator] that scores one gene, and optionally a [GenerationSetup] hook
// that runs before every full quality pass (for population-wide
// normalization). The pool does the rest: selection, crossover and mutation.
//
// # Storage
//
// All genes live in one flat []Coord slice with a stride of
// [Config.GeneLength]. [Pool.Gene] returns a view into that slice, so an
// evaluator reads coordinates directly without copying. Qualities are kept
// in a parallel []Quality slice.
//
// # Generations
//
// [Pool.SingleGeneration] performs one step:
//
//  1. Quality pass: the setup hook, then [Evaluator.GeneQuality] for every gene.
//  2. Selection: a [Histogram] of qualities yields threshold values that
//     pick an equal-sized, disjoint pair of "best" and "worst" lists.
//  3. Crossover: two distinct parents are drawn from the best list, split
//     at a random coordinate index, and their two offspring overwrite two
//     worst slots.
//  4. Mutation: a rate-determined number of random coordinates across the
//     population are replaced by fresh uniform values.
//
// The first gene holding the highest quality of the pass (the elite) is
// never overwritten by crossover or touched by mutation, so the best
// quality of the population does not regress between generations as long
// as the evaluator scores an unchanged gene no lower than before.
//
// # Determinism
//
// Every random draw goes through the [Rand] handed to [New]. Two pools built
// with the same configuration, evaluator and [NewRand] seed evolve
// identically.
//
// # Contract Violations
//
// Invalid configuration (non-positive population or gene length, an empty
// coordinate range) is a programming error and panics.
package genepool

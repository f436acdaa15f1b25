// Package layout positions graph nodes with a genetic algorithm.
//
// Two adapters sit on top of [genepool]:
//
//   - [Planar] evolves an (X, Y) pair per node. Quality rewards, in strict
//     order of weight, node pairs that do not overlap, connection lines that
//     avoid unrelated nodes, and a small overall drawing.
//   - [Column] fixes each node's X by its dependency depth ([CallDepths],
//     [ColumnPositions]) and evolves only Y. Quality is a weighted sum of
//     normalized overlap, vertical edge length and drawing height terms,
//     with the weights supplied as a [ColumnWeights] preset.
//
// Both implement [Layouter]; [ForKind] maps a layout kind name to one.
//
// # Runs
//
// A run owns its gene pool. It evaluates the initial population, evolves
// [Options.Generations] generations (30 by default) and writes the best gene
// back through [graph.Graph.SetPosition]. Between generations it checks the
// context and asks the optional [StatusSink] whether to continue; stopping
// early is not an error, the best gene so far is used and
// [Result.Cancelled] is set.
//
// Graphs with zero or one node skip evolution entirely and draw nothing from
// the random source.
//
// # Normalization
//
// Terms that are normalized against a population-wide maximum use the
// largest value seen so far in the run, not just in the current generation.
// The maximum only grows, so a gene that survives unchanged never scores
// lower in a later generation and the best quality in [Result.History] is
// non-decreasing.
package layout

// Package graph provides the graph data source consumed by the layout engine
// and the serialization types for graphs and finished layouts.
//
// # Core Types
//
//   - [Graph]: index-addressed [Node] list plus [Connection] list
//   - [Document]: name-addressed JSON wire format for graphs
//   - [Layout]: positioned graph plus run metadata (quality, generations)
//
// A [Graph] is what the layout adapters read and write. Nodes carry a size set
// by the caller and a position written by the layout engine through
// [Graph.SetPosition]; the engine never adds or removes nodes or connections.
//
// # Constants
//
// This package is the single source of truth for layout kinds:
//
//	graph.KindPlanar   // "planar"  free 2-D placement
//	graph.KindColumn   // "column"  depth columns, default weights
//	graph.KindInclude  // "include" depth columns, include weights
//	graph.KindPortion  // "portion" depth columns, portion weights
//
// # Graph Serialization
//
// Graphs use a node-link JSON format. Edges point from consumer to supplier:
//
//	{
//	  "nodes": [
//	    {"name": "main.cpp", "width": 80, "height": 20},
//	    {"name": "util.h", "width": 60, "height": 20}
//	  ],
//	  "edges": [{"from": "main.cpp", "to": "util.h"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("includes.json")  // File → Graph
//	graph.WriteGraphFile(g, "output.json")        // Graph → File
//	data, _ := graph.MarshalGraph(g)              // Graph → []byte
//
// # Layout Serialization
//
// After a run, [NewLayout] snapshots node positions; the caller fills in the
// run metadata. Layouts carry bson tags so they can be stored directly in a
// document database.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
// A graph being laid out belongs to that layout run until it returns.
package graph

// Package dag provides the candidate graph that synthesis runs over.
//
// # Overview
//
// The candidate graph combines a taxonomy with many source trees over one
// shared universe of tip identifiers. Vertices are taxa or source-tree nodes;
// edges point from a child to a candidate parent and carry the annotations
// that synthesis needs: the source they came from, the source's rank, the
// edge group, and the exclusive MRCA tip set.
//
// # Arena Layout
//
// [Graph] is an arena. Vertices and edges are stored in slices and addressed
// by dense indices ([VertexID], [EdgeID]) assigned in insertion order, with
// adjacency kept as per-vertex slices of edge indices. Per-vertex state built
// on top of the graph (descendant sets, selections) is stored the same way,
// in slices indexed by VertexID, rather than in maps keyed by vertex.
//
// External identifiers (the stable uint64 ids assigned by ingestion) map to
// dense indices through [Graph.Lookup]. Tips are vertices whose external id
// is the tip identifier, so a tip's MRCA is the set holding its own id.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	tip, _ := g.AddVertex(dag.Vertex{ID: 1, MRCA: tipset.Of(1)})
//	root, _ := g.AddVertex(dag.Vertex{ID: 100, MRCA: tipset.Of(1)})
//	g.AddEdge(dag.Edge{Child: tip, Parent: root, Type: dag.Taxonomy})
//
// Query adjacency with [Graph.Incoming] and [Graph.Outgoing], optionally
// restricted to edge types. Use [Graph.Validate] to verify structural
// integrity before a synthesis run.
//
// # Edge Annotations
//
// Source-tree edges must carry a rank above the taxonomy rank, a non-zero
// group, and an exclusive MRCA. [Edge.CheckAnnotations] reports which of these
// are missing; synthesis drops such edges and keeps going.
//
// # Concurrency
//
// Graph instances are not safe for concurrent modification. A fully built
// graph may be read from multiple goroutines.
package dag

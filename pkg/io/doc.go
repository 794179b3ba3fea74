// Package io reads candidate graphs and bipartitions from JSON and writes
// synthesis results as JSON and Newick.
//
// # Candidate graph format
//
//	{
//	  "meta": {"name": "birds"},
//	  "vertices": [
//	    {"id": 1, "name": "Aquila", "tip": true},
//	    {"id": 2, "name": "Buteo", "tip": true},
//	    {"id": 100, "name": "Accipitridae", "mrca": [1, 2]}
//	  ],
//	  "edges": [
//	    {"child": 1, "parent": 100, "type": "source", "source": "study-7",
//	     "rank": 3, "group": 41, "exclusive_mrca": [1]},
//	    {"child": 2, "parent": 100, "type": "taxonomy"}
//	  ]
//	}
//
// Vertex ids are external identifiers; for tips they are the tip
// identifiers. A vertex marked "tip" without an "mrca" gets the set holding
// only its own id. Edge endpoints refer to vertex ids. The edge "type" is
// one of "source", "taxonomy", "mrca" or "synth".
//
// An omitted "exclusive_mrca" is absent, which synthesis reports as a data
// defect for source-tree edges. An empty array is a present, empty set.
//
// # Bipartition format
//
// Either a flat list, summed all-pairs:
//
//	{"bipartitions": [{"in": [1, 2], "out": [3]}, {"in": [1], "out": [4]}]}
//
// or groups, summed only across groups:
//
//	{"groups": [[{"in": [1, 2], "out": [3]}], [{"in": [1], "out": [4]}]]}
//
// # Synthesis output
//
// [WriteTreeJSON] writes the synthesized hierarchy as nested objects,
// [WriteNewick] as a Newick string and [WriteSelectionsJSON] as one record
// per visited vertex with its chosen edges, ranks and exclusive tips.
package io

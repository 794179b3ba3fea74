// Package pkg provides the core libraries for treesynth phylogenetic synthesis.
//
// # Overview
//
// treesynth turns a graph of candidate relationships, contributed by ranked
// source trees and a taxonomy, into a single rooted tree. The pkg directory
// is organized into four main areas:
//
//  1. Domain logic: [tipset], [dag], [synth], [bipart]
//  2. Solvers: [mwis], [combin], [dag/topo]
//  3. Formats: [io], [render/nodelink]
//  4. Infrastructure: [config], [cache], [pipeline], [observability], [errors]
//
// # Architecture
//
// The typical data flow through treesynth:
//
//	candidate graph (JSON)
//	         ↓
//	    [io] package (decode into a dense-index graph)
//	         ↓
//	    [synth] package (per-vertex selection in topological order)
//	         ↓
//	    [io] / [render/nodelink] (Newick, JSON, selections, DOT, SVG)
//
// # Quick Start
//
//	g, err := io.ImportGraph("candidates.json")
//	if err != nil {
//	    return err
//	}
//	root, err := synth.FindRoot(g)
//	if err != nil {
//	    return err
//	}
//	res, err := synth.Run(ctx, g, synth.Options{Root: root})
//	if err != nil {
//	    return err
//	}
//	return io.WriteNewick(os.Stdout, res.Tree())
//
// # Main Packages
//
// [tipset] - Compressed sets of tip ids (roaring bitmaps) used for MRCA,
// exclusive and descendant sets.
//
// [dag] - Arena graph with vertices and edges addressed by dense integer
// ids. Edges carry a type (source tree or taxonomy), source, rank, group and
// exclusive tip set.
//
// [synth] - The synthesis driver and its two selection strategies, baseline
// and rank-aware.
//
// [bipart] - Parallel pairwise sums of compatible bipartitions.
//
// [mwis] - Exact and greedy maximum weight independent set solvers over tip
// sets.
//
// [pipeline] - Load, synthesize and export with result caching. Used by
// the CLI.
//
// # Testing
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/synth/...          # Specific package
//	go test -run Example ./pkg/...   # Examples only
//
// [tipset]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/tipset
// [dag]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/dag
// [dag/topo]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/dag/topo
// [synth]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/synth
// [bipart]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/bipart
// [mwis]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/mwis
// [combin]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/combin
// [io]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/render/nodelink
// [config]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/treesynth/pkg/errors
package pkg

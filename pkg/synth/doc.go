// Package synth selects, for every vertex of a candidate graph, the incoming
// edges that become its children in the synthetic hierarchy.
//
// # Overview
//
// [Run] walks the graph bottom-up in topological order (see package topo).
// At each vertex it gathers the candidate edges, drops edges with missing
// annotations, and asks a [Selector] for a conflict-free subset. The vertex's
// inclusive descendant set (its own id, the chosen children's ids, and their
// descendant sets) is frozen before its parents are visited, so every set a
// selector reads is final.
//
// # Strategies
//
// Two selectors implement the same capability interface and are picked by
// configuration through [NewSelector]:
//
//   - [Baseline] solves one weighted independent set over all candidates,
//     weighted by each child's inclusive descendant set.
//   - [RankAware] walks source ranks from most to least trusted. Before
//     choosing edges at a rank it lets each of that rank's edges absorb a
//     combination of already-saved higher-rank edges whose exclusive tips it
//     fully covers, then solves an independent set over the remaining
//     edges, at most one per edge group, skipping any edge that overlaps
//     tips already claimed.
//
// # Selections
//
// A selector records choices into a [SelectionBuilder] and finalizes it
// into an immutable [Selection]. A finalized selection maps each chosen edge
// to the rank it was chosen at and its exclusive tip set.
//
// # Errors
//
// A cycle among descent edges aborts the run with a CYCLE_DETECTED error and
// no [Result]. Edges with missing annotations are recorded as [Defect]
// values, logged at warn level, and skipped.
package synth

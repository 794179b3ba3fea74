// Package bipart implements the bipartition algebra used to derive
// candidate groupings from source trees.
//
// # Bipartitions
//
// A [Bipartition] is a disjoint pair of tip sets: the ingroup below one
// source-tree edge and the outgroup beside it. Two bipartitions a and b are
// consistent when neither ingroup crosses the other's outgroup:
//
//	a.In ∩ b.Out = ∅  and  b.In ∩ a.Out = ∅
//
// [Sum] of two consistent bipartitions unions the ingroups and the outgroups.
// The result is again a valid bipartition.
//
// # Sums over Collections
//
// [SumAll] combines every unordered pair of an ungrouped collection once.
// [SumGroups] only combines bipartitions from different groups, which is
// how a collection partitioned by source tree is handled: two edges of the
// same tree never need comparing. In both modes identical inputs are
// collapsed first and a bipartition is never summed with itself.
//
// Every sum is a pure function of two immutable inputs, so pairs are
// evaluated in parallel on a bounded pool of workers ([Options.Workers]).
// Only the final merge into the deduplicated result is synchronized.
//
// [Options.SharedEvidence] further restricts sums to pairs whose ingroups
// or outgroups share a tip, and [Options.IncludeInputs] adds the inputs to
// the result so it can stand in for the full candidate collection.
package bipart

// Package mwis selects maximum-weight sets of mutually non-overlapping
// candidates.
//
// Each [Candidate] carries a coverage [tipset.Set]. Its weight is the coverage
// cardinality, and two candidates conflict when their coverages overlap or
// when they share a non-zero [Candidate.Group]. A [Solver] returns a
// conflict-free subset with as much total weight as it can find.
//
// # Strategies
//
//   - [Brute] enumerates subsets and is exact. Runtime is exponential in the
//     candidate count, so it is meant for small inputs.
//   - [Greedy] repeatedly takes the heaviest remaining candidate. It runs in
//     O(n²) overlap checks but can return less than the optimum.
//   - [Auto] picks Brute up to a threshold and Greedy above it.
//
// [Result.Exact] records which guarantee a result carries, so a sub-optimal
// greedy answer is never mistaken for an exact one.
//
// # Ties
//
// Among several maximum-weight sets, Brute returns the one whose ascending
// id list is lexicographically smallest. Greedy breaks equal weights by the
// smaller id. Both rules make results independent of input order.
package mwis

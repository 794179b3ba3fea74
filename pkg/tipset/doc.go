// Package tipset provides compact sets of 64-bit tip identifiers.
//
// # Overview
//
// Every vertex of a running synthesis holds one descendant set, so the
// representation must stay small for sets ranging from a handful of tips to
// millions. Sets are stored as compressed roaring bitmaps.
//
// Two types share the read API:
//
//   - [Set] is immutable. Once a descendant set has been handed out by the
//     synthesis pass it is a Set, and no method on Set mutates the receiver.
//   - [Builder] is mutable. It collects ids with [Builder.Add] and
//     [Builder.AddAll] and is consumed by [Builder.Freeze].
//
// Both satisfy [View], so containment and overlap checks accept either kind:
//
//	b := tipset.NewBuilder()
//	b.Add(1)
//	b.AddAll(other)
//	s := b.Freeze()
//	s.ContainsAll(other) // true
//
// # Zero Values
//
// The zero [Set] is empty and reports [Set.IsZero]. Callers that need to tell
// an absent annotation apart from an explicitly empty one use IsZero; all other
// operations treat the zero Set as empty.
//
// # Concurrency
//
// A Set may be read from any number of goroutines without locking. A Builder
// is not safe for concurrent use.
package tipset

// Package combin generates index subsets lazily.
//
// Generators are plain [iter.Seq] values: ranging over one starts a fresh
// enumeration, so a generator can be reused, and breaking out of the loop
// stops generation immediately. Callers map the yielded indices back onto
// their own slices.
//
// The yielded slice is reused between iterations. Callers that keep a subset
// must copy it (for example with [slices.Clone]).
package combin

import "iter"

// Subsets yields every non-empty subset of {0, ..., n-1} as ascending index
// slices, least inclusive first in depth-first order:
//
//	[0] [0 1] [0 1 2] [0 2] [1] [1 2] [2]
//
// reject is consulted for each subset before it is yielded. A rejected subset
// is neither yielded nor extended, so no superset grown from it is generated.
// This is sound whenever rejection is monotone (every superset of a rejected
// subset would also be rejected). A nil reject accepts everything.
func Subsets(n int, reject func([]int) bool) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		buf := make([]int, 0, n)
		var walk func(start int) bool
		walk = func(start int) bool {
			for i := start; i < n; i++ {
				buf = append(buf, i)
				if reject == nil || !reject(buf) {
					if !yield(buf) || !walk(i+1) {
						return false
					}
				}
				buf = buf[:len(buf)-1]
			}
			return true
		}
		walk(0)
	}
}

// Combinations yields every k-subset of {0, ..., n-1} in lexicographic order.
func Combinations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k < 0 || k > n {
			return
		}
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		for {
			if !yield(idx) {
				return
			}
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

// Descending yields every subset of {0, ..., n-1} with at least minSize
// elements, most inclusive first. Subsets of equal size come in
// lexicographic order. Consumers looking for the largest acceptable subset
// break on the first one they accept.
func Descending(n, minSize int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if minSize < 1 {
			minSize = 1
		}
		for k := n; k >= minSize; k-- {
			for c := range Combinations(n, k) {
				if !yield(c) {
					return
				}
			}
		}
	}
}

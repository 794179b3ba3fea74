package mwis

import (
	"cmp"
	"slices"

	"github.com/matzehuels/treesynth/pkg/combin"
	"github.com/matzehuels/treesynth/pkg/tipset"
)

// DefaultThreshold is the candidate count up to which [Auto] solves exactly.
const DefaultThreshold = 16

// Candidate is one selectable item.
type Candidate[K cmp.Ordered] struct {
	ID       K
	Coverage tipset.Set
	// Group marks alternatives: at most one candidate per non-zero group is
	// selected. Zero means the candidate is ungrouped.
	Group int64
}

// Weight returns the coverage cardinality.
func (c Candidate[K]) Weight() uint64 { return c.Coverage.Size() }

// Result is a solver's selection.
type Result[K cmp.Ordered] struct {
	IDs    []K    // ascending
	Weight uint64 // sum of coverage sizes
	Exact  bool   // true if Weight is known to be maximal
}

// Solver selects a conflict-free subset of candidates.
type Solver[K cmp.Ordered] interface {
	Solve(candidates []Candidate[K]) Result[K]
}

// Conflicts reports whether a and b cannot both be selected.
func Conflicts[K cmp.Ordered](a, b Candidate[K]) bool {
	if a.Group != 0 && a.Group == b.Group {
		return true
	}
	return a.Coverage.Overlaps(b.Coverage)
}

// Independent reports whether no two candidates conflict.
func Independent[K cmp.Ordered](cs []Candidate[K]) bool {
	for i := range cs {
		for j := i + 1; j < len(cs); j++ {
			if Conflicts(cs[i], cs[j]) {
				return false
			}
		}
	}
	return true
}

// Brute is the exact solver. Among subsets of equal weight it returns the
// one whose sorted id list compares smallest, a prefix sorting first. A
// zero-weight candidate therefore never joins the empty set and is kept
// next to others only when its id sorts ahead of theirs. [Greedy] keeps
// every zero-weight candidate that conflicts with nothing chosen, so the
// two solvers can differ on such inputs.
type Brute[K cmp.Ordered] struct{}

// Solve enumerates conflict-free subsets, pruning every superset of a
// conflicting one, and returns the heaviest.
func (Brute[K]) Solve(candidates []Candidate[K]) Result[K] {
	cs := sorted(candidates)

	// Only the newest index can introduce a conflict: the prefix was accepted.
	reject := func(idx []int) bool {
		last := cs[idx[len(idx)-1]]
		for _, i := range idx[:len(idx)-1] {
			if Conflicts(cs[i], last) {
				return true
			}
		}
		return false
	}

	best := Result[K]{IDs: []K{}, Exact: true}
	ids := make([]K, 0, len(cs))
	for idx := range combin.Subsets(len(cs), reject) {
		var w uint64
		ids = ids[:0]
		for _, i := range idx {
			w += cs[i].Weight()
			ids = append(ids, cs[i].ID)
		}
		if w > best.Weight || (w == best.Weight && slices.Compare(ids, best.IDs) < 0) {
			best.Weight = w
			best.IDs = slices.Clone(ids)
		}
	}
	return best
}

// Greedy is the approximate solver. Its result may weigh less than the
// optimum, for example when one heavy candidate overlaps two lighter ones
// whose combined weight is larger.
type Greedy[K cmp.Ordered] struct{}

// Solve takes the heaviest remaining candidate, drops everything it
// conflicts with, and repeats until nothing remains.
func (Greedy[K]) Solve(candidates []Candidate[K]) Result[K] {
	cs := sorted(candidates)
	slices.SortStableFunc(cs, func(a, b Candidate[K]) int {
		return cmp.Compare(b.Weight(), a.Weight())
	})

	res := Result[K]{IDs: []K{}}
	var chosen []Candidate[K]
next:
	for _, c := range cs {
		for _, p := range chosen {
			if Conflicts(p, c) {
				continue next
			}
		}
		chosen = append(chosen, c)
		res.IDs = append(res.IDs, c.ID)
		res.Weight += c.Weight()
	}
	slices.Sort(res.IDs)
	return res
}

// Auto solves exactly when there are at most Threshold candidates and
// greedily otherwise. A zero Threshold means [DefaultThreshold].
type Auto[K cmp.Ordered] struct {
	Threshold int
}

// Solve dispatches on the candidate count.
func (a Auto[K]) Solve(candidates []Candidate[K]) Result[K] {
	limit := a.Threshold
	if limit <= 0 {
		limit = DefaultThreshold
	}
	if len(candidates) <= limit {
		return Brute[K]{}.Solve(candidates)
	}
	return Greedy[K]{}.Solve(candidates)
}

// Weight sums the coverage sizes of the candidates whose ids are in ids.
func Weight[K cmp.Ordered](candidates []Candidate[K], ids []K) uint64 {
	var w uint64
	for _, c := range candidates {
		if slices.Contains(ids, c.ID) {
			w += c.Weight()
		}
	}
	return w
}

func sorted[K cmp.Ordered](candidates []Candidate[K]) []Candidate[K] {
	cs := slices.Clone(candidates)
	slices.SortFunc(cs, func(a, b Candidate[K]) int { return cmp.Compare(a.ID, b.ID) })
	return cs
}

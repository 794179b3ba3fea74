package bipart

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/treesynth/pkg/tipset"
)

// ErrOverlap is returned by [New] when the ingroup and outgroup share a tip.
var ErrOverlap = errors.New("ingroup and outgroup overlap")

// Bipartition is an (ingroup, outgroup) pair of disjoint tip sets.
type Bipartition struct {
	In  tipset.Set `json:"in"`
	Out tipset.Set `json:"out"`
}

// New returns the bipartition in | out, or [ErrOverlap].
func New(in, out tipset.Set) (Bipartition, error) {
	if in.Overlaps(out) {
		return Bipartition{}, fmt.Errorf("%w: %s | %s", ErrOverlap, in, out)
	}
	return Bipartition{In: in, Out: out}, nil
}

// Valid reports whether the ingroup and outgroup are disjoint.
func (b Bipartition) Valid() bool { return !b.In.Overlaps(b.Out) }

// Consistent reports whether b and o can be summed.
func (b Bipartition) Consistent(o Bipartition) bool {
	return !b.In.Overlaps(o.Out) && !o.In.Overlaps(b.Out)
}

// SharesTips reports whether the ingroups or the outgroups of b and o
// overlap.
func (b Bipartition) SharesTips(o Bipartition) bool {
	return b.In.Overlaps(o.In) || b.Out.Overlaps(o.Out)
}

// Equal reports whether b and o have the same ingroup and outgroup.
func (b Bipartition) Equal(o Bipartition) bool {
	return b.In.Equal(o.In) && b.Out.Equal(o.Out)
}

// Key returns a canonical string for deduplication and ordering.
func (b Bipartition) Key() string {
	var sb strings.Builder
	writeIDs(&sb, b.In)
	sb.WriteByte('|')
	writeIDs(&sb, b.Out)
	return sb.String()
}

// String renders b as "{1,2} | {3}".
func (b Bipartition) String() string {
	return b.In.String() + " | " + b.Out.String()
}

// Sum returns the union of a and b, or false if a and b conflict.
func Sum(a, b Bipartition) (Bipartition, bool) {
	if !a.Consistent(b) {
		return Bipartition{}, false
	}
	return Bipartition{In: a.In.Union(b.In), Out: a.Out.Union(b.Out)}, true
}

// Compare orders bipartitions by ingroup size, then by [Bipartition.Key].
func Compare(a, b Bipartition) int {
	if c := cmp.Compare(a.In.Size(), b.In.Size()); c != 0 {
		return c
	}
	return strings.Compare(a.Key(), b.Key())
}

// Dedup returns bs without repeated bipartitions, keeping first occurrences.
func Dedup(bs []Bipartition) []Bipartition {
	seen := make(map[string]struct{}, len(bs))
	out := make([]Bipartition, 0, len(bs))
	for _, b := range bs {
		k := b.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Sort orders bs in place with [Compare].
func Sort(bs []Bipartition) { slices.SortFunc(bs, Compare) }

func writeIDs(sb *strings.Builder, s tipset.Set) {
	first := true
	for id := range s.All() {
		if !first {
			sb.WriteByte(',')
		}
		first = false
		fmt.Fprintf(sb, "%d", id)
	}
}

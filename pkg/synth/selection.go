package synth

import (
	"cmp"
	"errors"
	"slices"

	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/tipset"
)

// ErrFinalized is the panic value raised when a [SelectionBuilder] is used
// after [SelectionBuilder.Finalize].
var ErrFinalized = errors.New("synth: selection already finalized")

// Choice is one selected edge.
type Choice struct {
	Edge  dag.EdgeID
	Child dag.VertexID
	Rank  int

	// Exclusive holds the tips this choice accounts for at its vertex. For an
	// edge that absorbed higher-rank edges it includes their exclusive tips.
	Exclusive tipset.Set

	// Absorbed lists the higher-rank edges this choice replaced.
	Absorbed []dag.EdgeID
}

// SelectionBuilder collects the choices for one vertex visit.
type SelectionBuilder struct {
	vertex  dag.VertexID
	saved   []Choice
	approx  bool
	dropped int
	done    bool
}

// NewSelectionBuilder starts an empty selection for v.
func NewSelectionBuilder(v dag.VertexID) *SelectionBuilder {
	return &SelectionBuilder{vertex: v}
}

func (b *SelectionBuilder) check() {
	if b.done {
		panic(ErrFinalized)
	}
}

// Record saves c, replacing an earlier choice of the same edge.
func (b *SelectionBuilder) Record(c Choice) {
	b.check()
	for i := range b.saved {
		if b.saved[i].Edge == c.Edge {
			b.saved[i] = c
			return
		}
	}
	b.saved = append(b.saved, c)
}

// Remove drops the choice for edge e and returns it.
func (b *SelectionBuilder) Remove(e dag.EdgeID) (Choice, bool) {
	b.check()
	for i, c := range b.saved {
		if c.Edge == e {
			b.saved = slices.Delete(b.saved, i, i+1)
			return c, true
		}
	}
	return Choice{}, false
}

// Has reports whether edge e is currently saved.
func (b *SelectionBuilder) Has(e dag.EdgeID) bool {
	b.check()
	return slices.ContainsFunc(b.saved, func(c Choice) bool { return c.Edge == e })
}

// AtRank returns the saved choices of the given rank, ordered by edge.
func (b *SelectionBuilder) AtRank(rank int) []Choice {
	b.check()
	var out []Choice
	for _, c := range b.saved {
		if c.Rank == rank {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(x, y Choice) int { return cmp.Compare(x.Edge, y.Edge) })
	return out
}

// Saved returns all saved choices.
func (b *SelectionBuilder) Saved() []Choice {
	b.check()
	return slices.Clone(b.saved)
}

// Len returns the number of saved choices.
func (b *SelectionBuilder) Len() int { return len(b.saved) }

// MarkApproximate notes that an independent-set step of this visit was
// solved heuristically.
func (b *SelectionBuilder) MarkApproximate() {
	b.check()
	b.approx = true
}

// Dropped counts candidates rejected for overlapping tips already claimed.
func (b *SelectionBuilder) Dropped(n int) {
	b.check()
	b.dropped += n
}

// Finalize consumes the builder. Further use panics with [ErrFinalized].
func (b *SelectionBuilder) Finalize() Selection {
	b.check()
	b.done = true
	choices := b.saved
	b.saved = nil
	slices.SortFunc(choices, func(x, y Choice) int {
		if c := cmp.Compare(y.Rank, x.Rank); c != 0 {
			return c
		}
		return cmp.Compare(x.Edge, y.Edge)
	})
	return Selection{vertex: b.vertex, choices: choices, approx: b.approx, dropped: b.dropped, final: true}
}

// Selection is the finalized, read-only choice set of one vertex.
// Choices are ordered by descending rank, then by edge.
type Selection struct {
	vertex  dag.VertexID
	choices []Choice
	approx  bool
	dropped int
	final   bool
}

// Vertex returns the vertex the selection belongs to.
func (s Selection) Vertex() dag.VertexID { return s.vertex }

// Valid reports whether s came from [SelectionBuilder.Finalize], as opposed
// to being the zero Selection of an unvisited vertex.
func (s Selection) Valid() bool { return s.final }

// Len returns the number of chosen edges.
func (s Selection) Len() int { return len(s.choices) }

// Choices returns a copy of the chosen edges.
func (s Selection) Choices() []Choice { return slices.Clone(s.choices) }

// Edges returns the chosen edge ids in ascending order.
func (s Selection) Edges() []dag.EdgeID {
	out := make([]dag.EdgeID, len(s.choices))
	for i, c := range s.choices {
		out[i] = c.Edge
	}
	slices.Sort(out)
	return out
}

// Ranks returns the distinct ranks with at least one choice, highest first.
func (s Selection) Ranks() []int {
	var out []int
	for _, c := range s.choices {
		if !slices.Contains(out, c.Rank) {
			out = append(out, c.Rank)
		}
	}
	return out
}

// AtRank returns the choices recorded under rank.
func (s Selection) AtRank(rank int) []Choice {
	var out []Choice
	for _, c := range s.choices {
		if c.Rank == rank {
			out = append(out, c)
		}
	}
	return out
}

// Exclusive returns the union of the exclusive sets of all choices.
func (s Selection) Exclusive() tipset.Set {
	b := tipset.NewBuilder()
	for _, c := range s.choices {
		b.AddAll(c.Exclusive)
	}
	return b.Freeze()
}

// Approximate reports whether a heuristic solver produced part of s.
func (s Selection) Approximate() bool { return s.approx }

// Absorbed returns the number of higher-rank edges replaced by choices in s.
func (s Selection) Absorbed() int {
	var n int
	for _, c := range s.choices {
		n += len(c.Absorbed)
	}
	return n
}

// Rejected returns how many candidates were discarded for overlapping
// tips already claimed at this vertex.
func (s Selection) Rejected() int { return s.dropped }

package synth

import (
	"slices"
	"testing"

	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/tipset"
)

// fixture builds candidate graphs by external id.
type fixture struct {
	t *testing.T
	g *dag.Graph
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, g: dag.New(nil)}
}

func (f *fixture) vertex(id uint64, name string, mrca ...uint64) dag.VertexID {
	f.t.Helper()
	v, err := f.g.AddVertex(dag.Vertex{ID: id, Name: name, MRCA: tipset.Of(mrca...)})
	if err != nil {
		f.t.Fatalf("AddVertex(%d): %v", id, err)
	}
	return v
}

func (f *fixture) tips(ids ...uint64) {
	f.t.Helper()
	for _, id := range ids {
		f.vertex(id, "", id)
	}
}

func (f *fixture) id(ext uint64) dag.VertexID {
	f.t.Helper()
	v, ok := f.g.Lookup(ext)
	if !ok {
		f.t.Fatalf("no vertex %d", ext)
	}
	return v
}

func (f *fixture) source(src string, child, parent uint64, rank int, group int64, excl ...uint64) dag.EdgeID {
	f.t.Helper()
	e, err := f.g.AddEdge(dag.Edge{
		Child:         f.id(child),
		Parent:        f.id(parent),
		Type:          dag.SourceTree,
		Source:        src,
		Rank:          rank,
		Group:         group,
		ExclusiveMRCA: tipset.Of(excl...),
	})
	if err != nil {
		f.t.Fatalf("AddEdge(%d -> %d): %v", child, parent, err)
	}
	return e
}

func (f *fixture) tax(child, parent uint64) dag.EdgeID {
	f.t.Helper()
	e, err := f.g.AddEdge(dag.Edge{Child: f.id(child), Parent: f.id(parent), Type: dag.Taxonomy, Source: "taxonomy"})
	if err != nil {
		f.t.Fatalf("AddEdge(%d -> %d): %v", child, parent, err)
	}
	return e
}

// childIDs returns the external ids of the children selected at ext.
func childIDs(res *Result, ext uint64) []uint64 {
	v, _ := res.Graph().Lookup(ext)
	var out []uint64
	for _, c := range res.Selections[v].Choices() {
		out = append(out, res.Graph().Vertex(c.Child).ID)
	}
	slices.Sort(out)
	return out
}

// conflictGraph has three source trees over tips 1-5 and a taxonomy root
// 200 holding all of them. Source s1 groups tips 1,2 under vertex 101,
// s2 groups bTips under 102, and s3 groups 4,5 under 103.
func conflictGraph(t *testing.T, rankA, rankB, rankC int, bTips []uint64) *fixture {
	f := newFixture(t)
	f.tips(1, 2, 3, 4, 5)
	f.vertex(101, "A", 1, 2)
	f.vertex(102, "B", bTips...)
	f.vertex(103, "C", 4, 5)
	f.vertex(200, "Root", 1, 2, 3, 4, 5)

	f.source("s1", 1, 101, rankA, 11, 1)
	f.source("s1", 2, 101, rankA, 12, 2)
	f.source("s1", 101, 200, rankA, 10, 1, 2)

	for i, tip := range bTips {
		f.source("s2", tip, 102, rankB, int64(21+i), tip)
	}
	f.source("s2", 102, 200, rankB, 20, bTips...)

	f.source("s3", 4, 103, rankC, 31, 4)
	f.source("s3", 5, 103, rankC, 32, 5)
	f.source("s3", 103, 200, rankC, 30, 4, 5)

	for tip := uint64(1); tip <= 5; tip++ {
		f.tax(tip, 200)
	}
	return f
}

package topo

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/treesynth/pkg/dag"
)

// graph builds vertices with external IDs 0..n-1 and child->parent edges.
func graph(t *testing.T, n int, edges [][2]int, typ dag.EdgeType) *dag.Graph {
	t.Helper()
	g := dag.New(nil)
	for i := range n {
		if _, err := g.AddVertex(dag.Vertex{ID: uint64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if _, err := g.AddEdge(dag.Edge{Child: dag.VertexID(e[0]), Parent: dag.VertexID(e[1]), Type: typ}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func drain(o *Order) []dag.VertexID {
	var out []dag.VertexID
	for {
		v, ok := o.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestOrderChildrenFirst(t *testing.T) {
	// 0 and 1 under 2, 2 and 3 under 4, 1 also under 3; 5 unreachable.
	edges := [][2]int{{0, 2}, {1, 2}, {2, 4}, {3, 4}, {1, 3}}
	g := graph(t, 6, edges, dag.SourceTree)

	o, err := New(g, 4, dag.SourceTree)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if o.Len() != 5 {
		t.Errorf("Len() = %d, want 5", o.Len())
	}
	seq := drain(o)

	pos := make(map[dag.VertexID]int)
	for i, v := range seq {
		if _, dup := pos[v]; dup {
			t.Fatalf("vertex %d emitted twice", v)
		}
		pos[v] = i
	}
	if _, ok := pos[5]; ok {
		t.Error("unreachable vertex 5 was emitted")
	}
	for _, e := range edges {
		if pos[dag.VertexID(e[0])] >= pos[dag.VertexID(e[1])] {
			t.Errorf("child %d emitted after parent %d in %v", e[0], e[1], seq)
		}
	}
	if seq[len(seq)-1] != 4 {
		t.Errorf("last = %d, want root 4", seq[len(seq)-1])
	}
}

func TestOrderDeterministic(t *testing.T) {
	g := graph(t, 4, [][2]int{{0, 3}, {1, 3}, {2, 3}}, dag.Taxonomy)
	o, err := New(g, 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]dag.VertexID{0, 1, 2, 3}, drain(o)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderIsSingleUse(t *testing.T) {
	g := graph(t, 2, [][2]int{{0, 1}}, dag.SourceTree)
	o, _ := New(g, 1)
	drain(o)
	if o.Remaining() != 0 {
		t.Errorf("Remaining() = %d after drain", o.Remaining())
	}
	if _, ok := o.Next(); ok {
		t.Error("Next() after exhaustion should return false")
	}
	fresh, _ := New(g, 1)
	if got := drain(fresh); len(got) != 2 {
		t.Errorf("fresh order yielded %v", got)
	}
}

func TestOrderFollowsDescentTypeOnly(t *testing.T) {
	g := graph(t, 3, [][2]int{{0, 2}}, dag.SourceTree)
	_, _ = g.AddEdge(dag.Edge{Child: 1, Parent: 2, Type: dag.MRCA})

	o, _ := New(g, 2, dag.SourceTree)
	if got := drain(o); !slices.Equal(got, []dag.VertexID{0, 2}) {
		t.Errorf("order = %v, want [0 2]", got)
	}
}

func TestOrderThreeCycle(t *testing.T) {
	// 3 is the root; 0 -> 1 -> 2 -> 0 loops below it.
	g := graph(t, 4, [][2]int{{0, 3}, {1, 0}, {2, 1}, {0, 2}}, dag.SourceTree)

	o, err := New(g, 3, dag.SourceTree)
	if o != nil {
		t.Error("New() should not return an order for a cyclic graph")
	}
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *CycleError", err)
	}
	if !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Error("CycleError should match dag.ErrGraphHasCycle")
	}
	if ce.Vertex != 0 {
		t.Errorf("Vertex = %d, want 0", ce.Vertex)
	}
	if ce.Edge != 3 {
		t.Errorf("Edge = %d, want 3", ce.Edge)
	}
	if diff := cmp.Diff([]uint64{0, 1, 2, 0}, ce.Path); diff != "" {
		t.Errorf("Path mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderUnknownRoot(t *testing.T) {
	g := graph(t, 1, nil, dag.SourceTree)
	if _, err := New(g, 7); err == nil {
		t.Error("expected error for unknown root")
	}
}

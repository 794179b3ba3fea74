// Package topo orders the vertices of a candidate graph bottom-up.
package topo

import (
	"fmt"
	"strings"

	"github.com/matzehuels/treesynth/pkg/dag"
)

// CycleError reports a directed cycle among descent edges. It names the
// vertex where the cycle closed, the edge that closed it, and the cycle path
// as external vertex IDs from that vertex back to itself.
type CycleError struct {
	Vertex uint64
	Edge   dag.EdgeID
	Path   []uint64
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("cycle at vertex %d via edge %d: %s", e.Vertex, e.Edge, strings.Join(parts, " -> "))
}

// Unwrap makes errors.Is(err, dag.ErrGraphHasCycle) hold.
func (e *CycleError) Unwrap() error { return dag.ErrGraphHasCycle }

// Order is a single-use cursor over vertices in dependency order: every
// vertex comes after all vertices below it along descent edges.
//
// Order is not restartable. Call [New] again to iterate a second time.
type Order struct {
	seq []dag.VertexID
	pos int
}

// New traverses the subgraph reachable from root by following descent edges
// from parent to child, and returns its vertices in post-order. Only edges
// of the given types are followed; with none given, every edge is.
//
// # Algorithm
//
// New runs an iterative depth-first search with white/gray/black coloring,
// so deep hierarchies do not grow the goroutine stack. A vertex is emitted
// when its last descent edge has been explored. Reaching a gray vertex means
// the current path loops back on itself.
//
// # Cycles
//
// A cycle is a fatal input defect: New returns a [*CycleError] and no order.
// It never tries to break the cycle.
//
// # Performance
//
// Time complexity is O(V + E) over the reachable subgraph. Space complexity
// is O(V) for colors, the explicit stack, and the emitted sequence.
func New(g *dag.Graph, root dag.VertexID, descent ...dag.EdgeType) (*Order, error) {
	if root < 0 || int(root) >= g.VertexCount() {
		return nil, fmt.Errorf("root %d: %w", root, dag.ErrUnknownParent)
	}

	const (
		white = iota
		gray
		black
	)

	color := make([]uint8, g.VertexCount())
	seq := make([]dag.VertexID, 0)
	stack := []frame{{v: root, edges: g.Incoming(root, descent...)}}
	color[root] = gray

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.edges) {
			color[top.v] = black
			seq = append(seq, top.v)
			stack = stack[:len(stack)-1]
			continue
		}
		eid := top.edges[top.next]
		top.next++
		child := g.Edge(eid).Child

		switch color[child] {
		case white:
			color[child] = gray
			stack = append(stack, frame{v: child, edges: g.Incoming(child, descent...)})
		case gray:
			return nil, cycleError(g, stack, child, eid)
		}
	}
	return &Order{seq: seq}, nil
}

// Next returns the next vertex, or false once the order is exhausted.
func (o *Order) Next() (dag.VertexID, bool) {
	if o.pos >= len(o.seq) {
		return dag.NoVertex, false
	}
	v := o.seq[o.pos]
	o.pos++
	return v, true
}

// Len returns the total number of vertices in the order.
func (o *Order) Len() int { return len(o.seq) }

// Remaining returns how many vertices Next has yet to return.
func (o *Order) Remaining() int { return len(o.seq) - o.pos }

type frame struct {
	v     dag.VertexID
	edges []dag.EdgeID
	next  int
}

func cycleError(g *dag.Graph, stack []frame, at dag.VertexID, eid dag.EdgeID) *CycleError {
	start := len(stack) - 1
	for start > 0 && stack[start].v != at {
		start--
	}
	path := make([]uint64, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, g.Vertex(f.v).ID)
	}
	path = append(path, g.Vertex(at).ID)
	return &CycleError{Vertex: g.Vertex(at).ID, Edge: eid, Path: path}
}

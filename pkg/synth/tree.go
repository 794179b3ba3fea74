package synth

import (
	"github.com/matzehuels/treesynth/pkg/dag"
)

// Node is a vertex of the materialized synthetic tree.
type Node struct {
	Vertex   dag.VertexID
	ID       uint64
	Label    string
	Edge     dag.EdgeID // edge to the parent; -1 at the root
	Type     dag.EdgeType
	Rank     int        // rank the edge was selected at
	Source   string     // source of the edge; empty at the root
	Children []*Node
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk calls fn for n and its descendants in pre-order. Returning false from
// fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Tree materializes the hierarchy reachable from the root through selected
// edges. A child selected under several parents is placed under the first
// one reached in breadth-first order; later selections of it are ignored.
func (r *Result) Tree() *Node {
	g := r.graph
	placed := make([]bool, g.VertexCount())

	rv := g.Vertex(r.Root)
	root := &Node{Vertex: r.Root, ID: rv.ID, Label: rv.Label(), Edge: -1}
	placed[r.Root] = true

	queue := []*Node{root}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, c := range r.Selections[parent.Vertex].choices {
			if placed[c.Child] {
				continue
			}
			placed[c.Child] = true
			e := g.Edge(c.Edge)
			cv := g.Vertex(c.Child)
			child := &Node{
				Vertex: c.Child,
				ID:     cv.ID,
				Label:  cv.Label(),
				Edge:   c.Edge,
				Type:   e.Type,
				Rank:   c.Rank,
				Source: e.Source,
			}
			parent.Children = append(parent.Children, child)
			queue = append(queue, child)
		}
	}
	return root
}

package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/treesynth/pkg/tipset"
)

var (
	// ErrDuplicateVertex is returned by [Graph.AddVertex] when a vertex with
	// the same external ID already exists. External IDs must be unique.
	ErrDuplicateVertex = errors.New("duplicate vertex ID")

	// ErrUnknownChild is returned by [Graph.AddEdge] when the child index is
	// not a vertex of the graph.
	ErrUnknownChild = errors.New("unknown child vertex")

	// ErrUnknownParent is returned by [Graph.AddEdge] when the parent index is
	// not a vertex of the graph.
	ErrUnknownParent = errors.New("unknown parent vertex")

	// ErrSelfLoop is returned by [Graph.AddEdge] for an edge whose child and
	// parent are the same vertex.
	ErrSelfLoop = errors.New("edge connects a vertex to itself")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a vertex that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [Graph.Validate] when the edges of the
	// validated types contain a directed cycle. Cycles are detected using
	// depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Annotation errors reported by [Edge.CheckAnnotations].
var (
	ErrMissingRank      = errors.New("missing source rank")
	ErrMissingGroup     = errors.New("missing edge group")
	ErrMissingExclusive = errors.New("missing exclusive mrca")
)

// Metadata stores arbitrary key-value pairs attached to vertices or the graph.
// Metadata maps are never nil after AddVertex.
type Metadata map[string]any

// VertexID is the dense index of a vertex within one [Graph].
type VertexID int

// EdgeID is the dense index of an edge within one [Graph].
type EdgeID int

// NoVertex is the VertexID returned when a lookup fails.
const NoVertex VertexID = -1

// NoGroup is the zero edge group. Source-tree edges must not use it.
const NoGroup int64 = 0

// EdgeType classifies candidate edges.
type EdgeType uint8

const (
	// SourceTree edges come from an input phylogeny.
	SourceTree EdgeType = iota + 1
	// Taxonomy edges come from the taxonomy, the lowest-ranked source.
	Taxonomy
	// MRCA edges link a vertex to the taxon holding its MRCA.
	MRCA
	// Synth edges are emitted by a synthesis run.
	Synth
)

var edgeTypeNames = map[EdgeType]string{
	SourceTree: "source",
	Taxonomy:   "taxonomy",
	MRCA:       "mrca",
	Synth:      "synth",
}

func (t EdgeType) String() string {
	if s, ok := edgeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("EdgeType(%d)", t)
}

// ParseEdgeType returns the EdgeType named s (case-insensitive).
func ParseEdgeType(s string) (EdgeType, error) {
	for t, name := range edgeTypeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown edge type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t EdgeType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EdgeType) UnmarshalText(b []byte) error {
	v, err := ParseEdgeType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Vertex is a node of the candidate graph.
type Vertex struct {
	ID   uint64     // external identifier; the tip id for tips
	Name string     // display label, may be empty
	MRCA tipset.Set // tips below this vertex in the input data
	Meta Metadata   // never nil after AddVertex
}

// Label returns Name if set, otherwise the decimal ID.
func (v Vertex) Label() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("%d", v.ID)
}

// Edge is a candidate parent edge from Child to Parent.
type Edge struct {
	Child  VertexID
	Parent VertexID
	Type   EdgeType

	Source string // source tree identifier
	Rank   int    // larger is more trusted
	Group  int64  // alternate edges for one source branch share a group

	// ExclusiveMRCA holds the tips attributable to this edge alone.
	ExclusiveMRCA tipset.Set
}

// IsTaxonomy reports whether e is a taxonomy edge.
func (e Edge) IsTaxonomy() bool { return e.Type == Taxonomy }

// CheckAnnotations reports the first missing annotation of a source-tree
// edge. Taxonomy edges always pass: they take taxonomyRank, a group of their
// own, and an empty exclusive set when unset.
func (e Edge) CheckAnnotations(taxonomyRank int) error {
	if e.IsTaxonomy() {
		return nil
	}
	switch {
	case e.Rank <= taxonomyRank:
		return fmt.Errorf("%w: rank %d not above taxonomy rank %d", ErrMissingRank, e.Rank, taxonomyRank)
	case e.Group == NoGroup:
		return ErrMissingGroup
	case e.ExclusiveMRCA.IsZero():
		return ErrMissingExclusive
	}
	return nil
}

// Graph is the candidate graph arena.
//
// The zero value is not usable - use New to create a valid Graph.
type Graph struct {
	vertices []Vertex
	edges    []Edge
	incoming [][]EdgeID
	outgoing [][]EdgeID
	index    map[uint64]VertexID
	meta     Metadata
}

// New creates an empty Graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		index: make(map[uint64]VertexID),
		meta:  meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddVertex appends v and returns its dense index. Returns
// ErrDuplicateVertex if the external ID is already present.
func (g *Graph) AddVertex(v Vertex) (VertexID, error) {
	if _, exists := g.index[v.ID]; exists {
		return NoVertex, fmt.Errorf("%w: %d", ErrDuplicateVertex, v.ID)
	}
	if v.Meta == nil {
		v.Meta = Metadata{}
	}
	id := VertexID(len(g.vertices))
	g.vertices = append(g.vertices, v)
	g.incoming = append(g.incoming, nil)
	g.outgoing = append(g.outgoing, nil)
	g.index[v.ID] = id
	return id, nil
}

// AddEdge appends e and returns its dense index. Multiple edges between the
// same vertices are allowed; they usually come from different sources.
func (g *Graph) AddEdge(e Edge) (EdgeID, error) {
	if !g.has(e.Child) {
		return -1, ErrUnknownChild
	}
	if !g.has(e.Parent) {
		return -1, ErrUnknownParent
	}
	if e.Child == e.Parent {
		return -1, ErrSelfLoop
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, e)
	g.outgoing[e.Child] = append(g.outgoing[e.Child], id)
	g.incoming[e.Parent] = append(g.incoming[e.Parent], id)
	return id, nil
}

func (g *Graph) has(v VertexID) bool { return v >= 0 && int(v) < len(g.vertices) }

// Lookup returns the dense index of the vertex with the given external ID.
func (g *Graph) Lookup(ext uint64) (VertexID, bool) {
	v, ok := g.index[ext]
	if !ok {
		return NoVertex, false
	}
	return v, true
}

// Vertex returns the vertex at index v. It panics if v is out of range.
func (g *Graph) Vertex(v VertexID) Vertex { return g.vertices[v] }

// Edge returns the edge at index e. It panics if e is out of range.
func (g *Graph) Edge(e EdgeID) Edge { return g.edges[e] }

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Vertices returns a copy of all vertices in index order.
func (g *Graph) Vertices() []Vertex { return slices.Clone(g.vertices) }

// Edges returns a copy of all edges in index order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Incoming returns the edges whose parent is v, restricted to the given
// types when any are given. Edges are returned in insertion order.
func (g *Graph) Incoming(v VertexID, types ...EdgeType) []EdgeID {
	return g.filter(g.incoming[v], types)
}

// Outgoing returns the edges whose child is v, restricted to the given
// types when any are given.
func (g *Graph) Outgoing(v VertexID, types ...EdgeType) []EdgeID {
	return g.filter(g.outgoing[v], types)
}

func (g *Graph) filter(ids []EdgeID, types []EdgeType) []EdgeID {
	if len(types) == 0 {
		return slices.Clone(ids)
	}
	var out []EdgeID
	for _, id := range ids {
		if slices.Contains(types, g.edges[id].Type) {
			out = append(out, id)
		}
	}
	return out
}

// Tips returns the vertices with no incoming edges of the given types.
func (g *Graph) Tips(types ...EdgeType) []VertexID {
	var tips []VertexID
	for v := range g.vertices {
		if len(g.Incoming(VertexID(v), types...)) == 0 {
			tips = append(tips, VertexID(v))
		}
	}
	return tips
}

// Validate checks that every edge references existing vertices and that
// the edges of the given types (all edges when none are given) form no
// directed cycle.
//
// Cycle detection runs in O(V+E) time using depth-first search.
func (g *Graph) Validate(types ...EdgeType) error {
	for i, e := range g.edges {
		if !g.has(e.Child) || !g.has(e.Parent) {
			return fmt.Errorf("%w: edge %d", ErrInvalidEdgeEndpoint, i)
		}
	}
	return g.detectCycles(types)
}

func (g *Graph) detectCycles(types []EdgeType) error {
	const (
		white = iota
		gray
		black
	)

	color := make([]uint8, len(g.vertices))
	var cycleAt VertexID = NoVertex

	var dfs func(v VertexID)
	dfs = func(v VertexID) {
		color[v] = gray
		for _, id := range g.Incoming(v, types...) {
			child := g.edges[id].Child
			switch color[child] {
			case white:
				dfs(child)
				if cycleAt != NoVertex {
					return
				}
			case gray:
				cycleAt = child
				return
			}
		}
		color[v] = black
	}

	for v := range g.vertices {
		if color[v] == white {
			dfs(VertexID(v))
			if cycleAt != NoVertex {
				return fmt.Errorf("%w: through vertex %d", ErrGraphHasCycle, g.vertices[cycleAt].ID)
			}
		}
	}
	return nil
}

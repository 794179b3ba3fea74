package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/errors"
	"github.com/matzehuels/treesynth/pkg/tipset"
)

type graph struct {
	Meta     dag.Metadata `json:"meta,omitempty"`
	Vertices []vertex     `json:"vertices"`
	Edges    []edge       `json:"edges"`
}

type vertex struct {
	ID   uint64       `json:"id"`
	Name string       `json:"name,omitempty"`
	Tip  bool         `json:"tip,omitempty"`
	MRCA *tipset.Set  `json:"mrca,omitempty"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	Child     uint64       `json:"child"`
	Parent    uint64       `json:"parent"`
	Type      dag.EdgeType `json:"type"`
	Source    string       `json:"source,omitempty"`
	Rank      int          `json:"rank,omitempty"`
	Group     int64        `json:"group,omitempty"`
	Exclusive *tipset.Set  `json:"exclusive_mrca,omitempty"`
}

// ReadGraph decodes a candidate graph from r.
//
// ReadGraph fails with [errors.ErrCodeInvalidFormat] for malformed JSON or
// an edge without a type, and with [errors.ErrCodeInvalidInput] for
// duplicate vertex ids or edges naming unknown vertices. Missing edge
// annotations are not errors here; synthesis drops such edges as data
// defects. ReadGraph does not check for cycles.
func ReadGraph(r io.Reader) (*dag.Graph, error) {
	var data graph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := dag.New(data.Meta)
	for _, v := range data.Vertices {
		var mrca tipset.Set
		if v.MRCA != nil {
			mrca = *v.MRCA
		}
		if v.Tip && mrca.IsZero() {
			mrca = tipset.Of(v.ID)
		}
		if _, err := g.AddVertex(dag.Vertex{ID: v.ID, Name: v.Name, MRCA: mrca, Meta: v.Meta}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "vertex %d", v.ID)
		}
	}
	for i, e := range data.Edges {
		if e.Type == 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d (%d -> %d): missing type", i, e.Child, e.Parent)
		}
		child, ok := g.Lookup(e.Child)
		if !ok {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, dag.ErrUnknownChild, "edge %d: vertex %d", i, e.Child)
		}
		parent, ok := g.Lookup(e.Parent)
		if !ok {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, dag.ErrUnknownParent, "edge %d: vertex %d", i, e.Parent)
		}
		de := dag.Edge{
			Child:  child,
			Parent: parent,
			Type:   e.Type,
			Source: e.Source,
			Rank:   e.Rank,
			Group:  e.Group,
		}
		if e.Exclusive != nil {
			de.ExclusiveMRCA = *e.Exclusive
		}
		if _, err := g.AddEdge(de); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %d (%d -> %d)", i, e.Child, e.Parent)
		}
	}
	return g, nil
}

// ImportGraph reads the candidate graph file at path.
func ImportGraph(path string) (*dag.Graph, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGraph(f)
}

// WriteGraph encodes g in the format [ReadGraph] accepts.
func WriteGraph(w io.Writer, g *dag.Graph) error {
	out := graph{
		Meta:     g.Meta(),
		Vertices: make([]vertex, 0, g.VertexCount()),
		Edges:    make([]edge, 0, g.EdgeCount()),
	}
	for _, v := range g.Vertices() {
		var meta dag.Metadata
		if len(v.Meta) > 0 {
			meta = v.Meta
		}
		jv := vertex{ID: v.ID, Name: v.Name, Meta: meta}
		if !v.MRCA.IsZero() {
			m := v.MRCA
			jv.MRCA = &m
		}
		out.Vertices = append(out.Vertices, jv)
	}
	for _, e := range g.Edges() {
		je := edge{
			Child:  g.Vertex(e.Child).ID,
			Parent: g.Vertex(e.Parent).ID,
			Type:   e.Type,
			Source: e.Source,
			Rank:   e.Rank,
			Group:  e.Group,
		}
		if !e.ExclusiveMRCA.IsZero() {
			x := e.ExclusiveMRCA
			je.Exclusive = &x
		}
		out.Edges = append(out.Edges, je)
	}
	return encode(w, out)
}

func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}

package synth

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/dag/topo"
	"github.com/matzehuels/treesynth/pkg/errors"
	"github.com/matzehuels/treesynth/pkg/observability"
	"github.com/matzehuels/treesynth/pkg/tipset"
)

// DefaultTypes are the edge types used for descent and as candidates when
// Options leaves them empty.
var DefaultTypes = []dag.EdgeType{dag.SourceTree, dag.Taxonomy}

// Options configures [Run].
type Options struct {
	// Root is the vertex the synthesis starts from.
	Root dag.VertexID
	// Descent lists the edge types the topological pass follows.
	Descent []dag.EdgeType
	// Candidates lists the edge types a vertex may select from.
	Candidates []dag.EdgeType
	// TaxonomyRank is the rank assigned to taxonomy edges. Source edges
	// must rank strictly above it.
	TaxonomyRank int
	// Selector is the per-vertex strategy. Nil means [RankAware] with the
	// default solver.
	Selector Selector

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if len(o.Descent) == 0 {
		o.Descent = DefaultTypes
	}
	if len(o.Candidates) == 0 {
		o.Candidates = DefaultTypes
	}
	if o.Selector == nil {
		o.Selector = &RankAware{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Defect is a candidate edge dropped for missing annotations.
type Defect struct {
	Vertex dag.VertexID
	Edge   dag.EdgeID
	Reason error
}

func (d Defect) Error() string {
	return fmt.Sprintf("vertex %d edge %d: %v", d.Vertex, d.Edge, d.Reason)
}

// Unwrap returns the annotation error.
func (d Defect) Unwrap() error { return d.Reason }

// Stats summarizes a run.
type Stats struct {
	Vertices    int           // vertices visited
	Candidates  int           // candidate edges considered
	Selected    int           // edges selected
	Absorbed    int           // higher-rank edges replaced by absorption
	Rejected    int           // candidates dropped for overlapping claimed tips
	Approximate int           // vertices where a heuristic solver ran
	Defects     int           // candidate edges dropped as data defects
	Duration    time.Duration // wall time of the run
}

// Result is the outcome of a complete synthesis run. Per-vertex slices are
// indexed by [dag.VertexID]; entries of unvisited vertices are zero.
type Result struct {
	RunID       string
	Strategy    Strategy
	Root        dag.VertexID
	Order       []dag.VertexID
	Selections  []Selection
	Descendants []tipset.Set
	Defects     []Defect
	Stats       Stats

	graph *dag.Graph
}

// Graph returns the candidate graph the result was computed on.
func (r *Result) Graph() *dag.Graph { return r.graph }

// Visited reports whether v was reached from the root.
func (r *Result) Visited(v dag.VertexID) bool { return r.Selections[v].Valid() }

// SelectedEdges returns every selected edge in ascending order.
func (r *Result) SelectedEdges() []dag.EdgeID {
	var out []dag.EdgeID
	for _, v := range r.Order {
		out = append(out, r.Selections[v].Edges()...)
	}
	slices.Sort(out)
	return out
}

// Run synthesizes a hierarchy over g starting at opts.Root.
//
// Run either visits every reachable vertex and returns a complete [Result],
// or fails without a result. A cycle among descent edges fails with
// [errors.ErrCodeCycle]; cancellation of ctx fails with its error.
func Run(ctx context.Context, g *dag.Graph, opts Options) (res *Result, err error) {
	opts.setDefaults()
	logger := opts.Logger
	strategy := opts.Selector.Name()
	start := time.Now()

	observability.Synthesis().OnSynthesisStart(ctx, string(strategy), g.VertexCount())
	defer func() {
		var selected int
		if res != nil {
			selected = res.Stats.Selected
		}
		observability.Synthesis().OnSynthesisComplete(ctx, string(strategy), selected, time.Since(start), err)
	}()

	if opts.Root < 0 || int(opts.Root) >= g.VertexCount() {
		return nil, errors.New(errors.ErrCodeVertexNotFound, "root vertex index %d out of range", opts.Root)
	}

	order, err := topo.New(g, opts.Root, opts.Descent...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCycle, err, "topological order from vertex %d", g.Vertex(opts.Root).ID)
	}

	n := g.VertexCount()
	res = &Result{
		RunID:       uuid.NewString(),
		Strategy:    strategy,
		Root:        opts.Root,
		Order:       make([]dag.VertexID, 0, order.Len()),
		Selections:  make([]Selection, n),
		Descendants: make([]tipset.Set, n),
		graph:       g,
	}
	descendants := func(v dag.VertexID) tipset.Set { return res.Descendants[v] }

	logger.Info("synthesis started", "run", res.RunID, "strategy", strategy,
		"root", g.Vertex(opts.Root).ID, "vertices", order.Len())

	for v, ok := order.Next(); ok; v, ok = order.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cands := candidates(g, v, opts, res)
		sel := opts.Selector.SelectEdges(Visit{
			Graph:        g,
			Vertex:       v,
			Candidates:   cands,
			Descendants:  descendants,
			TaxonomyRank: opts.TaxonomyRank,
			Logger:       logger,
		})

		b := tipset.NewBuilder()
		b.Add(g.Vertex(v).ID)
		for _, c := range sel.choices {
			b.Add(g.Vertex(c.Child).ID)
			b.AddAll(res.Descendants[c.Child])
		}
		res.Descendants[v] = b.Freeze()
		res.Selections[v] = sel
		res.Order = append(res.Order, v)

		res.Stats.Vertices++
		res.Stats.Candidates += len(cands)
		res.Stats.Selected += sel.Len()
		res.Stats.Absorbed += sel.Absorbed()
		res.Stats.Rejected += sel.Rejected()
		if sel.Approximate() {
			res.Stats.Approximate++
		}
		observability.Synthesis().OnVertexSelected(ctx, g.Vertex(v).ID, len(cands), sel.Len())
	}

	res.Stats.Defects = len(res.Defects)
	res.Stats.Duration = time.Since(start)
	logger.Info("synthesis complete", "run", res.RunID, "visited", res.Stats.Vertices,
		"selected", res.Stats.Selected, "absorbed", res.Stats.Absorbed,
		"defects", res.Stats.Defects, "approximate", res.Stats.Approximate,
		"duration", res.Stats.Duration)
	return res, nil
}

// candidates returns the incoming candidate edges of v that pass annotation
// checks, recording the others as defects.
func candidates(g *dag.Graph, v dag.VertexID, opts Options, res *Result) []dag.EdgeID {
	var out []dag.EdgeID
	for _, id := range g.Incoming(v, opts.Candidates...) {
		e := g.Edge(id)
		reason := e.CheckAnnotations(opts.TaxonomyRank)
		switch {
		case reason != nil:
		case g.Vertex(e.Child).MRCA.IsZero():
			reason = errors.New(errors.ErrCodeDataDefect, "child %d has no mrca", g.Vertex(e.Child).ID)
		case !res.Selections[e.Child].Valid():
			reason = errors.New(errors.ErrCodeDataDefect, "child %d not reached by descent edges", g.Vertex(e.Child).ID)
		}
		if reason != nil {
			d := Defect{Vertex: v, Edge: id, Reason: reason}
			res.Defects = append(res.Defects, d)
			opts.Logger.Warn("dropping candidate edge", "vertex", g.Vertex(v).ID, "edge", id,
				"child", g.Vertex(e.Child).ID, "source", e.Source, "reason", reason)
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// FindRoot returns the only vertex without outgoing edges of the given
// types, which is the root of a well-formed candidate graph.
func FindRoot(g *dag.Graph, types ...dag.EdgeType) (dag.VertexID, error) {
	if len(types) == 0 {
		types = DefaultTypes
	}
	root := dag.NoVertex
	for i := range g.VertexCount() {
		v := dag.VertexID(i)
		if len(g.Outgoing(v, types...)) > 0 {
			continue
		}
		if root != dag.NoVertex {
			return dag.NoVertex, errors.New(errors.ErrCodeInvalidInput,
				"several candidate roots (%d and %d); set the root explicitly", g.Vertex(root).ID, g.Vertex(v).ID)
		}
		root = v
	}
	if root == dag.NoVertex {
		return dag.NoVertex, errors.New(errors.ErrCodeVertexNotFound, "graph has no root vertex")
	}
	return root, nil
}

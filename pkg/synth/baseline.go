package synth

import (
	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/mwis"
)

// Baseline ignores ranks and groups. It weights every candidate by the
// child's inclusive descendant set and solves a single independent set.
type Baseline struct {
	Solver mwis.Solver[dag.EdgeID]
}

// Name returns [StrategyBaseline].
func (*Baseline) Name() Strategy { return StrategyBaseline }

// SelectEdges implements [Selector].
func (s *Baseline) SelectEdges(v Visit) Selection {
	b := NewSelectionBuilder(v.Vertex)

	cands := make([]mwis.Candidate[dag.EdgeID], 0, len(v.Candidates))
	for _, id := range v.Candidates {
		e := v.Graph.Edge(id)
		cands = append(cands, mwis.Candidate[dag.EdgeID]{ID: id, Coverage: v.Descendants(e.Child)})
	}

	res := solver(s.Solver).Solve(cands)
	if !res.Exact && len(cands) > 0 {
		b.MarkApproximate()
	}
	for _, id := range res.IDs {
		e := v.Graph.Edge(id)
		b.Record(Choice{Edge: id, Child: e.Child, Rank: v.Rank(e), Exclusive: v.Descendants(e.Child)})
	}

	v.logger().Debug("baseline selection", "vertex", v.Graph.Vertex(v.Vertex).ID,
		"candidates", len(cands), "selected", len(res.IDs), "weight", res.Weight, "exact", res.Exact)
	return b.Finalize()
}

func solver(s mwis.Solver[dag.EdgeID]) mwis.Solver[dag.EdgeID] {
	if s == nil {
		return mwis.Auto[dag.EdgeID]{}
	}
	return s
}

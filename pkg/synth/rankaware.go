package synth

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/treesynth/pkg/combin"
	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/mwis"
	"github.com/matzehuels/treesynth/pkg/tipset"
)

// DefaultMinAbsorb is the smallest combination of higher-rank edges that a
// single lower-rank edge may absorb. Replacing one edge by another of lower
// rank would only trade trust for nothing.
const DefaultMinAbsorb = 2

// RankAware prefers edges from more trusted sources while letting a less
// trusted edge replace several fragmented higher-rank edges when it covers
// all of their tips.
type RankAware struct {
	Solver    mwis.Solver[dag.EdgeID]
	MinAbsorb int
}

// Name returns [StrategyRankAware].
func (*RankAware) Name() Strategy { return StrategyRankAware }

// edgeGroup is one source branch at one rank: its alternative edges.
type edgeGroup struct {
	key   int64
	edges []dag.EdgeID
}

// visitState holds the accumulators of one vertex visit. It is never shared
// between visits.
type visitState struct {
	v         Visit
	sel       *SelectionBuilder
	remaining map[dag.EdgeID]bool // unsaved edges of the current rank
	claimed   *tipset.Builder     // cumulative exclusive mrca
	inclusive *tipset.Builder     // cumulative inclusive mrca of saved children
}

// SelectEdges implements [Selector].
func (s *RankAware) SelectEdges(v Visit) Selection {
	byRank := s.groupByRank(v)
	ranks := slices.Sorted(maps.Keys(byRank))
	slices.Reverse(ranks)

	st := &visitState{
		v:         v,
		sel:       NewSelectionBuilder(v.Vertex),
		claimed:   tipset.NewBuilder(),
		inclusive: tipset.NewBuilder(),
	}
	log := v.logger()
	log.Debug("visiting vertex", "vertex", v.Graph.Vertex(v.Vertex).ID, "candidates", len(v.Candidates), "ranks", ranks)

	for i, rank := range ranks {
		st.remaining = make(map[dag.EdgeID]bool)
		for _, g := range byRank[rank] {
			for _, e := range g.edges {
				st.remaining[e] = true
			}
		}

		for _, higher := range ranks[:i] {
			s.absorb(st, rank, higher)
		}
		s.addBestNonOverlapping(st, rank, byRank[rank])

		st.updateClaimed()
		st.updateInclusive()
	}

	log.Debug("vertex complete", "vertex", v.Graph.Vertex(v.Vertex).ID,
		"selected", st.sel.Len(), "exclusive", st.claimed.Size())
	return st.sel.Finalize()
}

// groupByRank buckets candidates by (rank, edge group). Taxonomy edges
// form a group of their own each.
func (s *RankAware) groupByRank(v Visit) map[int][]edgeGroup {
	idx := make(map[int]map[int64]int)
	out := make(map[int][]edgeGroup)
	for _, id := range v.Candidates {
		e := v.Graph.Edge(id)
		rank := v.Rank(e)
		key := e.Group
		if e.IsTaxonomy() {
			key = -int64(id) - 1
		}
		if idx[rank] == nil {
			idx[rank] = make(map[int64]int)
		}
		i, ok := idx[rank][key]
		if !ok {
			i = len(out[rank])
			idx[rank][key] = i
			out[rank] = append(out[rank], edgeGroup{key: key})
		}
		out[rank][i].edges = append(out[rank][i].edges, id)
	}
	for _, groups := range out {
		slices.SortFunc(groups, func(a, b edgeGroup) int { return cmp.Compare(a.key, b.key) })
	}
	return out
}

// absorb lets each unsaved edge P of rank replace a combination of saved
// edges Q of the higher rank when mrca(P) covers the exclusive set of every
// Q. Every saved edge whose inclusive set meets mrca(P) must be in the
// combination, so P never shares a tip with an edge it leaves in place. The
// most inclusive valid combination is taken.
func (s *RankAware) absorb(st *visitState, rank, higher int) {
	g := st.v.Graph
	minSize := s.MinAbsorb
	if minSize <= 0 {
		minSize = DefaultMinAbsorb
	}

	for _, p := range slices.Sorted(maps.Keys(st.remaining)) {
		saved := st.sel.AtRank(higher)
		if len(saved) < minSize {
			return
		}
		ep := g.Edge(p)
		mrcaP := g.Vertex(ep.Child).MRCA

		// Only saved edges whose exclusive set P covers can be part of an
		// accepted combination, so the search runs over those.
		var covered []Choice
		for _, q := range saved {
			if mrcaP.ContainsAll(q.Exclusive) {
				covered = append(covered, q)
			}
		}
		blocking := st.overlapping(mrcaP)
		if slices.ContainsFunc(blocking, func(e dag.EdgeID) bool {
			return !slices.ContainsFunc(covered, func(q Choice) bool { return q.Edge == e })
		}) {
			st.v.logger().Debug("absorption blocked by overlapping edge", "vertex", g.Vertex(st.v.Vertex).ID,
				"edge", p, "rank", rank, "higher", higher)
			continue
		}

		for idx := range combin.Descending(len(covered), minSize) {
			chosen := make([]dag.EdgeID, 0, len(idx))
			for _, i := range idx {
				chosen = append(chosen, covered[i].Edge)
			}
			if slices.ContainsFunc(blocking, func(e dag.EdgeID) bool { return !slices.Contains(chosen, e) }) {
				continue
			}

			excl := tipset.NewBuilder().AddAll(ep.ExclusiveMRCA)
			for _, i := range idx {
				q := covered[i]
				st.sel.Remove(q.Edge)
				excl.AddAll(q.Exclusive)
			}
			st.sel.Record(Choice{
				Edge:      p,
				Child:     ep.Child,
				Rank:      rank,
				Exclusive: excl.Freeze(),
				Absorbed:  chosen,
			})
			delete(st.remaining, p)

			st.v.logger().Debug("absorbed higher-rank edges", "vertex", g.Vertex(st.v.Vertex).ID,
				"edge", p, "rank", rank, "higher", higher, "replaced", chosen)
			break
		}
	}
}

// overlapping returns the saved edges whose inclusive set meets tips.
func (st *visitState) overlapping(tips tipset.Set) []dag.EdgeID {
	var out []dag.EdgeID
	for _, c := range st.sel.Saved() {
		incl := tipset.Of(st.v.Graph.Vertex(c.Child).ID).Union(st.v.Descendants(c.Child))
		if incl.Overlaps(tips) {
			out = append(out, c.Edge)
		}
	}
	return out
}

// addBestNonOverlapping chooses among the unabsorbed edges of rank: at most
// one per group, none overlapping tips already claimed, maximum coverage.
func (s *RankAware) addBestNonOverlapping(st *visitState, rank int, groups []edgeGroup) {
	g := st.v.Graph
	st.updateInclusive()
	claimed := st.inclusive.Snapshot()

	var (
		cands   []mwis.Candidate[dag.EdgeID]
		dropped int
	)
	for gi, grp := range groups {
		if slices.ContainsFunc(grp.edges, func(e dag.EdgeID) bool { return !st.remaining[e] }) {
			st.v.logger().Debug("edge group already represented", "vertex", g.Vertex(st.v.Vertex).ID, "rank", rank, "group", grp.key)
			continue
		}
		for _, id := range grp.edges {
			mrca := g.Vertex(g.Edge(id).Child).MRCA
			if mrca.Overlaps(claimed) {
				dropped++
				continue
			}
			cands = append(cands, mwis.Candidate[dag.EdgeID]{ID: id, Coverage: mrca, Group: int64(gi) + 1})
		}
	}
	st.sel.Dropped(dropped)
	if len(cands) == 0 {
		return
	}

	res := solver(s.Solver).Solve(cands)
	if !res.Exact {
		st.sel.MarkApproximate()
	}
	for _, id := range res.IDs {
		e := g.Edge(id)
		st.sel.Record(Choice{Edge: id, Child: e.Child, Rank: rank, Exclusive: exclusive(e)})
		delete(st.remaining, id)
	}
	st.v.logger().Debug("selected non-overlapping edges", "vertex", g.Vertex(st.v.Vertex).ID,
		"rank", rank, "candidates", len(cands), "dropped", dropped, "selected", res.IDs, "exact", res.Exact)
}

// updateClaimed rebuilds the cumulative exclusive mrca from the saved
// choices. Absorption moves tips between choices, so it is not append-only.
func (st *visitState) updateClaimed() {
	st.claimed = tipset.NewBuilder()
	for _, c := range st.sel.Saved() {
		if st.claimed.Overlaps(c.Exclusive) {
			st.v.logger().Warn("exclusive tips claimed twice", "vertex", st.v.Graph.Vertex(st.v.Vertex).ID,
				"edge", c.Edge, "rank", c.Rank)
		}
		st.claimed.AddAll(c.Exclusive)
	}
}

// updateInclusive adds the inclusive sets of all saved children.
func (st *visitState) updateInclusive() {
	for _, c := range st.sel.Saved() {
		st.inclusive.Add(st.v.Graph.Vertex(c.Child).ID)
		st.inclusive.AddAll(st.v.Descendants(c.Child))
	}
}

// exclusive returns the exclusive mrca of e; taxonomy edges without one
// get an empty set.
func exclusive(e dag.Edge) tipset.Set {
	if e.ExclusiveMRCA.IsZero() {
		return tipset.Of()
	}
	return e.ExclusiveMRCA
}

package synth

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/errors"
	"github.com/matzehuels/treesynth/pkg/mwis"
	"github.com/matzehuels/treesynth/pkg/tipset"
)

// Strategy names a [Selector] implementation.
type Strategy string

const (
	StrategyRankAware Strategy = "rank-aware"
	StrategyBaseline  Strategy = "baseline"
)

// Strategies lists the recognized strategy names.
var Strategies = []string{string(StrategyRankAware), string(StrategyBaseline)}

// Visit is what a [Selector] sees of one vertex.
type Visit struct {
	Graph  *dag.Graph
	Vertex dag.VertexID

	// Candidates are the incoming edges that passed annotation checks,
	// in ascending order.
	Candidates []dag.EdgeID

	// Descendants returns the finalized inclusive descendant set of an
	// already visited vertex.
	Descendants func(dag.VertexID) tipset.Set

	// TaxonomyRank is the rank assigned to taxonomy edges.
	TaxonomyRank int

	Logger *log.Logger
}

// Rank returns the effective rank of e: the taxonomy rank for taxonomy
// edges, the source rank otherwise.
func (v Visit) Rank(e dag.Edge) int {
	if e.IsTaxonomy() {
		return v.TaxonomyRank
	}
	return e.Rank
}

func (v Visit) logger() *log.Logger {
	if v.Logger == nil {
		return log.New(io.Discard)
	}
	return v.Logger
}

// Selector chooses the edges to realize at one vertex.
type Selector interface {
	// Name identifies the strategy in logs and results.
	Name() Strategy
	// SelectEdges returns the finalized selection for v.Vertex. No two
	// chosen edges may claim the same tip.
	SelectEdges(v Visit) Selection
}

// SelectorOptions configures [NewSelector].
type SelectorOptions struct {
	// ExactThreshold is the candidate count above which the greedy
	// independent-set solver replaces the exact one.
	ExactThreshold int
	// MinAbsorb is the smallest number of higher-rank edges one rank-aware
	// edge may absorb. Zero means [DefaultMinAbsorb].
	MinAbsorb int
}

// NewSelector returns the selector named by strategy. Strategy names are
// case-insensitive; an empty name selects [StrategyRankAware].
func NewSelector(strategy Strategy, opts SelectorOptions) (Selector, error) {
	solver := mwis.Auto[dag.EdgeID]{Threshold: opts.ExactThreshold}
	switch Strategy(strings.ToLower(string(strategy))) {
	case StrategyRankAware, "":
		return &RankAware{Solver: solver, MinAbsorb: opts.MinAbsorb}, nil
	case StrategyBaseline:
		return &Baseline{Solver: solver}, nil
	default:
		return nil, errors.ValidateChoice(errors.ErrCodeInvalidStrategy, "strategy", string(strategy), Strategies)
	}
}

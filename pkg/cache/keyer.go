package cache

import (
	"slices"
)

// Keyer derives cache keys.
type Keyer interface {
	// SynthesisKey identifies a synthesis run over the graph with the given
	// content hash.
	SynthesisKey(graphHash string, opts SynthesisKeyOpts) string

	// ArtifactKey identifies one exported output of a synthesis run.
	ArtifactKey(synthesisKey string, opts ArtifactKeyOpts) string

	// SumKey identifies a bipartition sum over the input with the given
	// content hash.
	SumKey(inputHash string, opts SumKeyOpts) string
}

// SynthesisKeyOpts lists the options that change a synthesis result.
type SynthesisKeyOpts struct {
	Strategy       string   `json:"strategy"`
	ExactThreshold int      `json:"exact_threshold"`
	TaxonomyRank   int      `json:"taxonomy_rank"`
	Descent        []string `json:"descent"`
	Candidates     []string `json:"candidates"`
	Root           uint64   `json:"root"`
	MinAbsorb      int      `json:"min_absorb"`
}

// SumKeyOpts lists the options that change a bipartition sum. The worker
// count does not.
type SumKeyOpts struct {
	Grouped        bool `json:"grouped"`
	SharedEvidence bool `json:"shared_evidence"`
	IncludeInputs  bool `json:"include_inputs"`
}

// ArtifactKeyOpts names one exported output. Detailed is set only for
// formats whose rendering depends on it.
type ArtifactKeyOpts struct {
	Format   string
	Detailed bool
}

// DefaultKeyer hashes its inputs with [Hash].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SynthesisKey implements [Keyer]. Edge type lists are order-insensitive.
func (DefaultKeyer) SynthesisKey(graphHash string, opts SynthesisKeyOpts) string {
	opts.Descent = sortedCopy(opts.Descent)
	opts.Candidates = sortedCopy(opts.Candidates)
	return hashKey("synth", graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(synthesisKey string, opts ArtifactKeyOpts) string {
	format := opts.Format
	if opts.Detailed {
		format += "+detailed"
	}
	return "artifact:" + format + ":" + synthesisKey
}

// SumKey implements [Keyer].
func (DefaultKeyer) SumKey(inputHash string, opts SumKeyOpts) string {
	return hashKey("sum", inputHash, opts)
}

func sortedCopy(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}

var _ Keyer = DefaultKeyer{}

// Package pipeline runs the load → synthesize → export pipeline used by
// the CLI.
//
// # Stages
//
//  1. Load: read a candidate graph document and hash its bytes
//  2. Synthesize: pick a root and run [synth.Run] with the configured strategy
//  3. Export: write the synthesized tree in each requested format
//
// Every exported artifact is cached under a key derived from the graph hash
// and the synthesis options. When all requested artifacts are cached, the
// graph is not even parsed.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    GraphPath: "candidates.json",
//	    Synthesis: config.Default().Synthesis,
//	    Formats:   []string{"newick", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	newick := res.Artifacts["newick"]
//
// [Runner.Sum] runs the bipartition sum on a bipartition file the same way.
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treesynth/pkg/cache"
	"github.com/matzehuels/treesynth/pkg/config"
	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/errors"
	"github.com/matzehuels/treesynth/pkg/synth"
)

// Output formats.
const (
	FormatJSON       = "json"
	FormatNewick     = "newick"
	FormatDOT        = "dot"
	FormatSVG        = "svg"
	FormatSelections = "selections"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatNewick, FormatDOT, FormatSVG, FormatSelections}

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{FormatNewick}

// Options configures [Runner.Execute].
type Options struct {
	// GraphPath is the candidate graph file. Ignored when Graph is set.
	GraphPath string `json:"graph_path,omitempty"`

	// Graph is an already loaded candidate graph. Its cache key is computed
	// from its JSON encoding.
	Graph *dag.Graph `json:"-"`

	Synthesis config.Synthesis `json:"synthesis"`
	Formats   []string         `json:"formats,omitempty"`

	// Detailed adds ids, sources and ranks to DOT and SVG labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool          `json:"refresh,omitempty"`
	TTL     time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Graph == nil {
		if err := errors.ValidatePath(o.GraphPath); err != nil {
			return err
		}
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	o.Formats = normalizeFormats(o.Formats)
	if err := errors.ValidateFormats(o.Formats, Formats); err != nil {
		return err
	}
	if o.Synthesis.Strategy == "" {
		o.Synthesis = config.Default().Synthesis
	}
	cfg := config.Default()
	cfg.Synthesis = o.Synthesis
	if err := cfg.Validate(); err != nil {
		return err
	}
	if o.TTL == 0 {
		o.TTL = cache.DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// SynthesisKeyOpts returns the cache key options of the synthesis settings.
func (o *Options) SynthesisKeyOpts() cache.SynthesisKeyOpts {
	s := o.Synthesis
	return cache.SynthesisKeyOpts{
		Strategy:       strings.ToLower(s.Strategy),
		ExactThreshold: s.ExactThreshold,
		TaxonomyRank:   s.TaxonomyRank,
		Descent:        s.Descent,
		Candidates:     s.Candidates,
		Root:           s.Root,
		MinAbsorb:      s.MinAbsorb,
	}
}

// source names the graph input in logs and hooks.
func (o *Options) source() string {
	if o.Graph != nil {
		return "<memory>"
	}
	return o.GraphPath
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Synthesis is nil when every artifact came from the cache.
	Synthesis *synth.Result

	GraphHash    string
	SynthesisKey string

	// Artifacts holds the exported outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VertexCount int
	EdgeCount   int
	LoadTime    time.Duration
	SynthTime   time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ExportHit bool // all artifacts came from the cache
}

func normalizeFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treesynth/pkg/cache"
	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/errors"
	tsio "github.com/matzehuels/treesynth/pkg/io"
	"github.com/matzehuels/treesynth/pkg/observability"
	"github.com/matzehuels/treesynth/pkg/synth"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Observed(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → synthesize → export pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: read and hash
	loadStart := time.Now()
	data, err := r.graphBytes(opts)
	if err != nil {
		return nil, err
	}
	result.GraphHash = cache.Hash(data)
	result.SynthesisKey = r.Keyer.SynthesisKey(result.GraphHash, opts.SynthesisKeyOpts())

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, result.SynthesisKey, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.ExportHit = true
			opts.Logger.Info("using cached synthesis", "key", result.SynthesisKey, "formats", opts.Formats)
			return result, nil
		}
	}

	g, err := r.load(ctx, opts, data)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.VertexCount = g.VertexCount()
	result.Stats.EdgeCount = g.EdgeCount()
	opts.Logger.Info("loaded candidate graph",
		"vertices", g.VertexCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: synthesize
	synthStart := time.Now()
	res, err := r.Synthesize(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Synthesis = res
	result.Stats.SynthTime = time.Since(synthStart)

	// Stage 3: export
	exportStart := time.Now()
	observability.Pipeline().OnExportStart(ctx, opts.Formats)
	artifacts, err := Export(ctx, res, opts.Formats, opts.Detailed)
	observability.Pipeline().OnExportComplete(ctx, opts.Formats, time.Since(exportStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)

	for format, data := range artifacts {
		key := r.artifactKey(result.SynthesisKey, format, opts.Detailed)
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}
	opts.Logger.Info("exported outputs",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)
	return result, nil
}

// Synthesize resolves the configured root of g and runs the synthesis.
func (r *Runner) Synthesize(ctx context.Context, g *dag.Graph, opts Options) (*synth.Result, error) {
	r.applyLogger(&opts)
	s := opts.Synthesis
	descent, err := s.DescentTypes()
	if err != nil {
		return nil, err
	}
	candidates, err := s.CandidateTypes()
	if err != nil {
		return nil, err
	}
	selector, err := s.Selector()
	if err != nil {
		return nil, err
	}

	var root dag.VertexID
	if s.Root != 0 {
		v, ok := g.Lookup(s.Root)
		if !ok {
			return nil, errors.New(errors.ErrCodeVertexNotFound, "root vertex %d not in graph", s.Root)
		}
		root = v
	} else if root, err = synth.FindRoot(g, descent...); err != nil {
		return nil, err
	}

	return synth.Run(ctx, g, synth.Options{
		Root:         root,
		Descent:      descent,
		Candidates:   candidates,
		TaxonomyRank: s.TaxonomyRank,
		Selector:     selector,
		Logger:       opts.Logger,
	})
}

func (r *Runner) graphBytes(opts Options) ([]byte, error) {
	if opts.Graph != nil {
		var buf bytes.Buffer
		if err := tsio.WriteGraph(&buf, opts.Graph); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return readFile(opts.GraphPath)
}

func (r *Runner) load(ctx context.Context, opts Options, data []byte) (g *dag.Graph, err error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.source())
	defer func() {
		var vs, es int
		if g != nil {
			vs, es = g.VertexCount(), g.EdgeCount()
		}
		observability.Pipeline().OnLoadComplete(ctx, opts.source(), vs, es, time.Since(start), err)
	}()

	if opts.Graph != nil {
		return opts.Graph, nil
	}
	g, err = tsio.ReadGraph(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.GraphPath, err)
	}
	return g, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, key string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.artifactKey(key, format, opts.Detailed))
		if err != nil || !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// artifactKey keys one output. Only DOT and SVG depend on detailed labels.
func (r *Runner) artifactKey(synthesisKey, format string, detailed bool) string {
	return r.Keyer.ArtifactKey(synthesisKey, cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: detailed && (format == FormatDOT || format == FormatSVG),
	})
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func readFile(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

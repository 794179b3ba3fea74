package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treesynth/pkg/bipart"
	"github.com/matzehuels/treesynth/pkg/cache"
	"github.com/matzehuels/treesynth/pkg/config"
	tsio "github.com/matzehuels/treesynth/pkg/io"
	"github.com/matzehuels/treesynth/pkg/observability"
)

// SumOptions configures [Runner.Sum].
type SumOptions struct {
	InputPath string        `json:"input_path"`
	Bipart    config.Bipart `json:"bipart"`

	Refresh bool          `json:"refresh,omitempty"`
	TTL     time.Duration `json:"-"`
	Logger  *log.Logger   `json:"-"`
}

// SumResult contains the outputs of a bipartition sum.
type SumResult struct {
	// Sum is nil when Output came from the cache.
	Sum *bipart.Result

	InputHash string

	// Output is the JSON encoding written by [tsio.WriteSumResult].
	Output []byte

	CacheHit bool
}

// Sum reads a bipartition file and sums its bipartitions, all pairs for a
// flat list and across groups for a grouped file.
func (r *Runner) Sum(ctx context.Context, opts SumOptions) (*SumResult, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.TTL == 0 {
		opts.TTL = cache.DefaultTTL
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.InputPath)
	data, err := readFile(opts.InputPath)
	var input *tsio.Bipartitions
	if err == nil {
		input, err = tsio.ReadBipartitions(bytes.NewReader(data))
	}
	var n int
	if input != nil {
		n = input.Len()
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.InputPath, n, 0, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	out := &SumResult{InputHash: cache.Hash(data)}
	key := r.Keyer.SumKey(out.InputHash, cache.SumKeyOpts{
		Grouped:        input.Grouped(),
		SharedEvidence: opts.Bipart.SharedEvidence,
		IncludeInputs:  opts.Bipart.IncludeInputs,
	})
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			opts.Logger.Info("using cached sum", "key", key)
			out.Output, out.CacheHit = cached, true
			return out, nil
		}
	}

	bopts := bipart.Options{
		Workers:        opts.Bipart.Workers,
		SharedEvidence: opts.Bipart.SharedEvidence,
		IncludeInputs:  opts.Bipart.IncludeInputs,
		Logger:         opts.Logger,
	}
	var res *bipart.Result
	if input.Grouped() {
		res, err = bipart.SumGroups(ctx, input.Groups, bopts)
	} else {
		res, err = bipart.SumAll(ctx, input.Items, bopts)
	}
	if err != nil {
		return nil, err
	}
	out.Sum = res
	opts.Logger.Info("summed bipartitions",
		"inputs", res.Inputs,
		"sums", len(res.Bipartitions),
		"comparisons", res.Comparisons,
		"duration", res.Duration)

	var buf bytes.Buffer
	if err := tsio.WriteSumResult(&buf, res); err != nil {
		return nil, fmt.Errorf("encode sum: %w", err)
	}
	out.Output = buf.Bytes()
	if err := r.Cache.Set(ctx, key, out.Output, opts.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "err", err)
	}
	return out, nil
}

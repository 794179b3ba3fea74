package bipart

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treesynth/pkg/observability"
)

// Options configures [SumAll] and [SumGroups].
type Options struct {
	// Workers bounds the number of goroutines evaluating pairs.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int `json:"workers,omitempty"`

	// SharedEvidence skips pairs whose ingroups and outgroups are both
	// disjoint. Such pairs are consistent trivially and their sums carry no
	// grouping that either input did not already imply.
	SharedEvidence bool `json:"shared_evidence,omitempty"`

	// IncludeInputs adds the deduplicated inputs to the result.
	IncludeInputs bool `json:"include_inputs,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result holds the distinct sums of a collection.
type Result struct {
	// Bipartitions is deduplicated and ordered by [Compare].
	Bipartitions []Bipartition
	// Inputs is the number of distinct input bipartitions.
	Inputs int
	// Comparisons counts evaluated pairs, including inconsistent ones.
	Comparisons int64
	Duration    time.Duration
}

type member struct {
	b     Bipartition
	group int
}

// SumAll sums every unordered pair of distinct bipartitions in bs.
func SumAll(ctx context.Context, bs []Bipartition, opts Options) (*Result, error) {
	uniq := Dedup(bs)
	members := make([]member, len(uniq))
	for i, b := range uniq {
		members[i] = member{b: b, group: i}
	}
	return sum(ctx, members, false, opts)
}

// SumGroups sums every pair of bipartitions drawn from different groups.
// Pairs within one group are never compared.
func SumGroups(ctx context.Context, groups [][]Bipartition, opts Options) (*Result, error) {
	var members []member
	for g, bs := range groups {
		for _, b := range Dedup(bs) {
			members = append(members, member{b: b, group: g})
		}
	}
	return sum(ctx, members, true, opts)
}

func sum(ctx context.Context, members []member, grouped bool, opts Options) (res *Result, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	observability.Bipart().OnSumStart(ctx, len(members), grouped)
	defer func() {
		var n int
		var comparisons int64
		if res != nil {
			n, comparisons = len(res.Bipartitions), res.Comparisons
		}
		observability.Bipart().OnSumComplete(ctx, n, comparisons, time.Since(start), err)
	}()

	var (
		mu          sync.Mutex
		merged      = make(map[string]Bipartition)
		comparisons atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range members {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			local := make(map[string]Bipartition)
			var n int64
			a := members[i]
			for _, b := range members[i+1:] {
				if a.group == b.group || a.b.Equal(b.b) {
					continue
				}
				n++
				if opts.SharedEvidence && !a.b.SharesTips(b.b) {
					continue
				}
				if s, ok := Sum(a.b, b.b); ok {
					local[s.Key()] = s
				}
			}
			comparisons.Add(n)

			mu.Lock()
			defer mu.Unlock()
			for k, s := range local {
				merged[k] = s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bipartition sum: %w", err)
	}

	if opts.IncludeInputs {
		for _, m := range members {
			merged[m.b.Key()] = m.b
		}
	}

	out := make([]Bipartition, 0, len(merged))
	for _, s := range merged {
		out = append(out, s)
	}
	Sort(out)

	res = &Result{
		Bipartitions: out,
		Inputs:       len(members),
		Comparisons:  comparisons.Load(),
		Duration:     time.Since(start),
	}
	logger.Debug("bipartition sum", "inputs", res.Inputs, "grouped", grouped,
		"comparisons", res.Comparisons, "sums", len(out), "workers", workers)
	return res, nil
}

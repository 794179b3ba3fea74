// Package observability lets a program watch synthesis runs, bipartition
// sums, pipeline stages and cache traffic without the algorithm packages
// importing a metrics or tracing backend.
//
// Each event category has a hooks interface with a no-op default. A program
// installs its own implementations once at startup, before any work starts:
//
//	observability.Register(myHooks) // any value implementing one or more interfaces
//
// and library code emits events through the accessors:
//
//	observability.Synthesis().OnSynthesisStart(ctx, "rank-aware", g.VertexCount())
//
// Libraries never install hooks themselves.
package observability

import (
	"context"
	"sync"
	"time"
)

// SynthesisHooks receives events from the per-vertex synthesis pass.
type SynthesisHooks interface {
	OnSynthesisStart(ctx context.Context, strategy string, vertexCount int)
	// OnVertexSelected fires once per visited vertex after its selection is final.
	OnVertexSelected(ctx context.Context, vertex uint64, candidates, selected int)
	OnSynthesisComplete(ctx context.Context, strategy string, selected int, duration time.Duration, err error)
}

// BipartHooks receives events from bipartition sums.
type BipartHooks interface {
	OnSumStart(ctx context.Context, inputs int, grouped bool)
	OnSumComplete(ctx context.Context, sums int, comparisons int64, duration time.Duration, err error)
}

// PipelineHooks receives load and export events from the pipeline. source is
// the input path, or a label for in-memory graphs.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, vertexCount, edgeCount int, duration time.Duration, err error)
	OnExportStart(ctx context.Context, formats []string)
	OnExportComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache traffic. keyType is the key's kind prefix
// ("synth", "sum" or "artifact").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

type NoopSynthesisHooks struct{}

func (NoopSynthesisHooks) OnSynthesisStart(context.Context, string, int)                          {}
func (NoopSynthesisHooks) OnVertexSelected(context.Context, uint64, int, int)                     {}
func (NoopSynthesisHooks) OnSynthesisComplete(context.Context, string, int, time.Duration, error) {}

type NoopBipartHooks struct{}

func (NoopBipartHooks) OnSumStart(context.Context, int, bool)                           {}
func (NoopBipartHooks) OnSumComplete(context.Context, int, int64, time.Duration, error) {}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                    {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnExportStart(context.Context, []string)                                {}
func (NoopPipelineHooks) OnExportComplete(context.Context, []string, time.Duration, error)       {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	mu        sync.RWMutex
	synthesis SynthesisHooks = NoopSynthesisHooks{}
	bipart    BipartHooks    = NoopBipartHooks{}
	pipeline  PipelineHooks  = NoopPipelineHooks{}
	cache     CacheHooks     = NoopCacheHooks{}
)

// Register installs h for every hooks interface it implements and reports
// whether it implemented any.
func Register(h any) bool {
	mu.Lock()
	defer mu.Unlock()
	var ok bool
	if s, is := h.(SynthesisHooks); is {
		synthesis, ok = s, true
	}
	if b, is := h.(BipartHooks); is {
		bipart, ok = b, true
	}
	if p, is := h.(PipelineHooks); is {
		pipeline, ok = p, true
	}
	if c, is := h.(CacheHooks); is {
		cache, ok = c, true
	}
	return ok
}

// SetSynthesisHooks installs h. A nil h is ignored.
func SetSynthesisHooks(h SynthesisHooks) {
	if h != nil {
		mu.Lock()
		synthesis = h
		mu.Unlock()
	}
}

// SetBipartHooks installs h. A nil h is ignored.
func SetBipartHooks(h BipartHooks) {
	if h != nil {
		mu.Lock()
		bipart = h
		mu.Unlock()
	}
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		mu.Lock()
		pipeline = h
		mu.Unlock()
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		mu.Lock()
		cache = h
		mu.Unlock()
	}
}

func Synthesis() SynthesisHooks {
	mu.RLock()
	defer mu.RUnlock()
	return synthesis
}

func Bipart() BipartHooks {
	mu.RLock()
	defer mu.RUnlock()
	return bipart
}

func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return pipeline
}

func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cache
}

// Reset restores the no-op hooks.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	synthesis = NoopSynthesisHooks{}
	bipart = NoopBipartHooks{}
	pipeline = NoopPipelineHooks{}
	cache = NoopCacheHooks{}
}

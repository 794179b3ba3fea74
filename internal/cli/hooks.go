package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treesynth/pkg/observability"
)

// traceHooks logs pipeline, synthesis, sum and cache events at debug level.
// Per-vertex events are left out.
type traceHooks struct {
	observability.NoopSynthesisHooks
	logger *log.Logger
}

func (h *traceHooks) OnSynthesisStart(_ context.Context, strategy string, vertexCount int) {
	h.logger.Debug("synthesis started", "strategy", strategy, "vertices", vertexCount)
}

func (h *traceHooks) OnSynthesisComplete(_ context.Context, strategy string, selected int, d time.Duration, err error) {
	h.logger.Debug("synthesis done", "strategy", strategy, "selected", selected, "took", d, "err", err)
}

func (h *traceHooks) OnSumStart(_ context.Context, inputs int, grouped bool) {
	h.logger.Debug("sum started", "inputs", inputs, "grouped", grouped)
}

func (h *traceHooks) OnSumComplete(_ context.Context, sums int, comparisons int64, d time.Duration, err error) {
	h.logger.Debug("sum done", "sums", sums, "comparisons", comparisons, "took", d, "err", err)
}

func (h *traceHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("loading", "source", source)
}

func (h *traceHooks) OnLoadComplete(_ context.Context, source string, vertices, edges int, d time.Duration, err error) {
	h.logger.Debug("loaded", "source", source, "vertices", vertices, "edges", edges, "took", d, "err", err)
}

func (h *traceHooks) OnExportStart(_ context.Context, formats []string) {
	h.logger.Debug("exporting", "formats", formats)
}

func (h *traceHooks) OnExportComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("exported", "formats", formats, "took", d, "err", err)
}

func (h *traceHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *traceHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *traceHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Synthesis hooks
	s := NoopSynthesisHooks{}
	s.OnSynthesisStart(ctx, "rank-aware", 10)
	s.OnVertexSelected(ctx, 42, 5, 2)
	s.OnSynthesisComplete(ctx, "rank-aware", 7, time.Second, nil)

	// Bipartition hooks
	b := NoopBipartHooks{}
	b.OnSumStart(ctx, 100, true)
	b.OnSumComplete(ctx, 12, 4950, time.Second, errors.New("canceled"))

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "graph.json")
	p.OnLoadComplete(ctx, "graph.json", 100, 250, time.Second, nil)
	p.OnExportStart(ctx, []string{"newick"})
	p.OnExportComplete(ctx, []string{"newick"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "synth")
	c.OnCacheMiss(ctx, "sum")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Synthesis().(NoopSynthesisHooks); !ok {
		t.Error("Synthesis() should return NoopSynthesisHooks by default")
	}
	if _, ok := Bipart().(NoopBipartHooks); !ok {
		t.Error("Bipart() should return NoopBipartHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customSynth := &testSynthesisHooks{}
	SetSynthesisHooks(customSynth)
	if Synthesis() != customSynth {
		t.Error("SetSynthesisHooks should set custom hooks")
	}

	customBipart := &testBipartHooks{}
	SetBipartHooks(customBipart)
	if Bipart() != customBipart {
		t.Error("SetBipartHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Synthesis().(NoopSynthesisHooks); !ok {
		t.Error("Reset() should restore NoopSynthesisHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSynthesisHooks{}
	SetSynthesisHooks(custom)

	// Setting nil should be ignored
	SetSynthesisHooks(nil)

	if Synthesis() != custom {
		t.Error("SetSynthesisHooks(nil) should be ignored")
	}

	Reset()
}

func TestRegister(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if Register(struct{}{}) {
		t.Error("Register(struct{}{}) = true, want false")
	}

	both := &synthAndCacheHooks{}
	if !Register(both) {
		t.Fatal("Register() = false, want true")
	}
	if Synthesis() != SynthesisHooks(both) {
		t.Error("Register did not install synthesis hooks")
	}
	if Cache() != CacheHooks(both) {
		t.Error("Register did not install cache hooks")
	}
	if _, ok := Bipart().(NoopBipartHooks); !ok {
		t.Error("Register replaced bipart hooks it does not implement")
	}
}

// Test implementations
type testSynthesisHooks struct{ NoopSynthesisHooks }
type testBipartHooks struct{ NoopBipartHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }

type synthAndCacheHooks struct {
	NoopSynthesisHooks
	NoopCacheHooks
}

package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/treesynth/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	if _, hit, _ := c.Get(ctx, "synth:a"); hit {
		t.Error("Get() on empty cache should miss")
	}
	if err := c.Set(ctx, "synth:a", []byte("tree"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "synth:a")
	if err != nil || !hit || string(data) != "tree" {
		t.Errorf("Get() = %q, %v, %v; want tree", data, hit, err)
	}

	if err := c.Delete(ctx, "synth:a"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := c.Delete(ctx, "synth:a"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "synth:a"); hit {
		t.Error("Get() after Delete should miss")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get() of corrupt entry = %v, %v; want silent miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	if n, size, err := c.Usage(); err != nil || n != 3 || size == 0 {
		t.Errorf("Usage() = %d, %d, %v; want 3 non-empty entries", n, size, err)
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v; want 3", n, err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
	if n, size, _ := c.Usage(); n != 0 || size != 0 {
		t.Errorf("Usage() after Clear = %d, %d; want 0, 0", n, size)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := SynthesisKeyOpts{Strategy: "rank-aware", Descent: []string{"source", "taxonomy"}}
	other := base
	other.Strategy = "baseline"
	if k.SynthesisKey("h", base) == k.SynthesisKey("h", other) {
		t.Error("different strategies should produce different keys")
	}
	if k.SynthesisKey("h", base) == k.SynthesisKey("h2", base) {
		t.Error("different graphs should produce different keys")
	}

	reordered := base
	reordered.Descent = []string{"taxonomy", "source"}
	if k.SynthesisKey("h", base) != k.SynthesisKey("h", reordered) {
		t.Error("edge type order should not change the key")
	}
	if base.Descent[0] != "source" {
		t.Error("SynthesisKey should not reorder the caller's slice")
	}

	sk := k.SynthesisKey("h", base)
	if !strings.HasPrefix(sk, "synth:") {
		t.Errorf("SynthesisKey() = %s, want synth: prefix", sk)
	}
	if k.ArtifactKey(sk, ArtifactKeyOpts{Format: "dot"}) == k.ArtifactKey(sk, ArtifactKeyOpts{Format: "dot", Detailed: true}) {
		t.Error("ArtifactKey should depend on Detailed")
	}
	if k.ArtifactKey(sk, ArtifactKeyOpts{Format: "json"}) == k.ArtifactKey(sk, ArtifactKeyOpts{Format: "newick"}) {
		t.Error("different formats should produce different keys")
	}
	if k.SumKey("h", SumKeyOpts{}) == k.SumKey("h", SumKeyOpts{SharedEvidence: true}) {
		t.Error("different sum options should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "project:birds:")
	sk := scoped.SynthesisKey("h", SynthesisKeyOpts{})
	if sk != "project:birds:"+NewDefaultKeyer().SynthesisKey("h", SynthesisKeyOpts{}) {
		t.Errorf("SynthesisKey() = %s, want prefixed default key", sk)
	}
	if !strings.HasPrefix(scoped.SumKey("h", SumKeyOpts{}), "project:birds:sum:") {
		t.Error("SumKey should be prefixed")
	}
}

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
	lastType           string
}

func (h *countingCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.hits++
	h.lastType = keyType
}

func (h *countingCacheHooks) OnCacheMiss(context.Context, string) { h.misses++ }

func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestObserved(t *testing.T) {
	h := &countingCacheHooks{}
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	fc, _ := NewFileCache(t.TempDir())
	c := Observed(fc)

	c.Get(ctx, "sum:x")
	c.Set(ctx, "sum:x", []byte("1"), 0)
	c.Get(ctx, "sum:x")

	if h.hits != 1 || h.misses != 1 || h.sets != 1 {
		t.Errorf("hooks = %d hits, %d misses, %d sets; want 1 each", h.hits, h.misses, h.sets)
	}
	if h.lastType != "sum" {
		t.Errorf("key type = %q, want sum", h.lastType)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should unwrap to ErrNetwork")
	}
	if IsRetryable(ErrNetwork) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = 100 * time.Millisecond })
	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"permanent", 5, permanent, 1, permanent},
		{"recovers", 1, Retryable(ErrNetwork), 2, nil},
		{"exhausted", 5, Retryable(ErrNetwork), 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RetryWithBackoff() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TREESYNTH_TEST_REDIS")
	if addr == "" {
		t.Skip("TREESYNTH_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "treesynth-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get() after Delete should miss")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("NewRedisCache() error = %v, want ErrNetwork", err)
	}
}

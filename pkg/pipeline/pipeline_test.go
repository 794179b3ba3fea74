package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/treesynth/pkg/cache"
	"github.com/matzehuels/treesynth/pkg/config"
	"github.com/matzehuels/treesynth/pkg/errors"
)

const graphDoc = `{
  "vertices": [
    {"id": 1, "name": "A", "tip": true},
    {"id": 2, "name": "B", "tip": true},
    {"id": 3, "name": "C", "tip": true},
    {"id": 10, "name": "AB", "mrca": [1, 2]},
    {"id": 20, "name": "root", "mrca": [1, 2, 3]}
  ],
  "edges": [
    {"child": 1, "parent": 10, "type": "source", "source": "s", "rank": 1, "group": 1, "exclusive_mrca": [1]},
    {"child": 2, "parent": 10, "type": "source", "source": "s", "rank": 1, "group": 2, "exclusive_mrca": [2]},
    {"child": 10, "parent": 20, "type": "source", "source": "s", "rank": 1, "group": 3, "exclusive_mrca": [1, 2]},
    {"child": 1, "parent": 20, "type": "taxonomy"},
    {"child": 2, "parent": 20, "type": "taxonomy"},
    {"child": 3, "parent": 20, "type": "taxonomy"}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{GraphPath: "g.json", Formats: []string{"Newick", "newick", " SVG "}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if strings.Join(opts.Formats, ",") != "newick,svg" {
		t.Errorf("Formats = %v, want [newick svg]", opts.Formats)
	}
	if opts.Synthesis.Strategy != "rank-aware" || opts.TTL != cache.DefaultTTL || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidPath},
		{"format", Options{GraphPath: "g.json", Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
		{"strategy", Options{GraphPath: "g.json", Synthesis: config.Synthesis{Strategy: "random"}}, errors.ErrCodeInvalidStrategy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)
	path := writeFile(t, "graph.json", graphDoc)
	opts := Options{GraphPath: path, Formats: []string{FormatNewick, FormatJSON, FormatSelections, FormatDOT}}

	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CacheInfo.ExportHit || res.Synthesis == nil {
		t.Fatal("first run should synthesize")
	}
	if got := string(res.Artifacts[FormatNewick]); got != "((A,B)AB,C)root;\n" {
		t.Errorf("newick = %q", got)
	}
	if !json.Valid(res.Artifacts[FormatJSON]) || !json.Valid(res.Artifacts[FormatSelections]) {
		t.Error("json artifacts are not valid JSON")
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot = %q", res.Artifacts[FormatDOT])
	}
	if res.Stats.VertexCount != 5 || res.Stats.EdgeCount != 6 {
		t.Errorf("Stats = %+v", res.Stats)
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !again.CacheInfo.ExportHit || again.Synthesis != nil {
		t.Error("second run should come from the cache")
	}
	if string(again.Artifacts[FormatNewick]) != string(res.Artifacts[FormatNewick]) {
		t.Error("cached newick differs")
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	if err != nil || fresh.CacheInfo.ExportHit {
		t.Errorf("refresh run = %v, %v; want a fresh synthesis", fresh.CacheInfo, err)
	}

	opts.Refresh = false
	opts.Synthesis = config.Default().Synthesis
	opts.Synthesis.Strategy = "baseline"
	other, err := r.Execute(ctx, opts)
	if err != nil || other.CacheInfo.ExportHit || other.SynthesisKey == res.SynthesisKey {
		t.Error("a different strategy must not reuse the cached result")
	}
}

func TestExecuteDetailedCacheKey(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)
	path := writeFile(t, "graph.json", graphDoc)

	plain, err := r.Execute(ctx, Options{GraphPath: path, Formats: []string{FormatDOT, FormatNewick}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	detailedOpts := Options{GraphPath: path, Formats: []string{FormatDOT}, Detailed: true}
	detailed, err := r.Execute(ctx, detailedOpts)
	if err != nil {
		t.Fatalf("detailed Execute() error = %v", err)
	}
	if detailed.CacheInfo.ExportHit {
		t.Error("detailed dot was served from the plain cache entry")
	}
	if string(detailed.Artifacts[FormatDOT]) == string(plain.Artifacts[FormatDOT]) {
		t.Error("detailed dot equals plain dot")
	}

	again, err := r.Execute(ctx, detailedOpts)
	if err != nil {
		t.Fatalf("second detailed Execute() error = %v", err)
	}
	if !again.CacheInfo.ExportHit || string(again.Artifacts[FormatDOT]) != string(detailed.Artifacts[FormatDOT]) {
		t.Error("second detailed run should reuse the detailed entry")
	}

	// Newick ignores Detailed, so the plain entry serves it.
	newick, err := r.Execute(ctx, Options{GraphPath: path, Formats: []string{FormatNewick}, Detailed: true})
	if err != nil {
		t.Fatalf("newick Execute() error = %v", err)
	}
	if !newick.CacheInfo.ExportHit {
		t.Error("detailed newick should reuse the plain entry")
	}
}

func TestExecuteExplicitRoot(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	path := writeFile(t, "graph.json", graphDoc)

	opts := Options{GraphPath: path, Synthesis: config.Default().Synthesis}
	opts.Synthesis.Root = 10
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := string(res.Artifacts[FormatNewick]); got != "(A,B)AB;\n" {
		t.Errorf("newick = %q", got)
	}

	opts.Synthesis.Root = 99
	if _, err := r.Execute(context.Background(), opts); !errors.Is(err, errors.ErrCodeVertexNotFound) {
		t.Errorf("Execute() with unknown root error = %v", err)
	}
}

func TestExecuteExampleGraph(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		GraphPath: filepath.Join("..", "..", "examples", "hominoids.json"),
		Formats:   []string{FormatNewick},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	// The lower ranked morphology tree conflicts with the molecular tree
	// below Homininae and loses.
	want := "((((Homo,Pan)Homo_Pan,Gorilla)Homininae,Pongo)Hominidae,Hylobates)Hominoidea;\n"
	if got := string(res.Artifacts[FormatNewick]); got != want {
		t.Errorf("newick = %q, want %q", got, want)
	}
	if res.Synthesis.Stats.Rejected == 0 {
		t.Error("expected the morphology edges to be rejected")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{GraphPath: filepath.Join(t.TempDir(), "missing.json")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}

	_, err = r.Execute(ctx, Options{GraphPath: writeFile(t, "bad.json", "{")})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad json error = %v", err)
	}

	cyclic := `{"vertices": [{"id": 1, "tip": true}, {"id": 2, "mrca": [1]}, {"id": 3, "mrca": [1]}, {"id": 4, "mrca": [1]}],
	  "edges": [
	    {"child": 1, "parent": 2, "type": "source", "rank": 1, "group": 1, "exclusive_mrca": [1]},
	    {"child": 2, "parent": 3, "type": "source", "rank": 1, "group": 2, "exclusive_mrca": [1]},
	    {"child": 3, "parent": 2, "type": "source", "rank": 1, "group": 3, "exclusive_mrca": [1]},
	    {"child": 3, "parent": 4, "type": "source", "rank": 1, "group": 4, "exclusive_mrca": [1]}
	  ]}`
	_, err = r.Execute(ctx, Options{GraphPath: writeFile(t, "cycle.json", cyclic)})
	if !errors.Is(err, errors.ErrCodeCycle) || errors.ExitCode(err) != 3 {
		t.Errorf("cycle error = %v (exit %d)", err, errors.ExitCode(err))
	}
}

func TestSum(t *testing.T) {
	ctx := context.Background()
	r := newRunner(t)
	path := writeFile(t, "biparts.json",
		`{"bipartitions": [{"in": [1, 2], "out": [3]}, {"in": [1, 3], "out": [4]}]}`)

	res, err := r.Sum(ctx, SumOptions{InputPath: path})
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}
	if res.CacheHit || res.Sum == nil || res.Sum.Inputs != 2 {
		t.Fatalf("Sum() = %+v", res)
	}
	var out struct {
		Inputs       int               `json:"inputs"`
		Bipartitions []json.RawMessage `json:"bipartitions"`
	}
	if err := json.Unmarshal(res.Output, &out); err != nil {
		t.Fatal(err)
	}
	if out.Inputs != 2 || len(out.Bipartitions) != len(res.Sum.Bipartitions) {
		t.Errorf("Output = %s", res.Output)
	}

	again, err := r.Sum(ctx, SumOptions{InputPath: path})
	if err != nil || !again.CacheHit || string(again.Output) != string(res.Output) {
		t.Errorf("second Sum() = %+v, %v; want cached output", again, err)
	}

	shared, err := r.Sum(ctx, SumOptions{InputPath: path, Bipart: config.Bipart{SharedEvidence: true}})
	if err != nil || shared.CacheHit {
		t.Errorf("Sum() with other options = %+v, %v; want fresh sum", shared, err)
	}
}

func TestSumInvalidInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	path := writeFile(t, "biparts.json", `{"bipartitions": [{"in": [1], "out": [1]}]}`)
	if _, err := r.Sum(context.Background(), SumOptions{InputPath: path}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Sum() error = %v, want INVALID_INPUT", err)
	}
}

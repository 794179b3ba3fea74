package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = old })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name    string
		counts  []stat
		cached  bool
		want    []string
		notWant []string
	}{
		{
			name:    "fresh synthesis",
			counts:  []stat{{12, "vertices"}, {0, "absorbed"}, {5, "selected"}},
			want:    []string{"12", "vertices", "5", "selected", "fresh"},
			notWant: []string{"absorbed", "cached"},
		},
		{
			name:    "cached sum",
			cached:  true,
			want:    []string{"cached"},
			notWant: []string{"fresh"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureUI(t)
			printStats(tt.counts, tt.cached)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("printStats() = %q, missing %q", out, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("printStats() = %q, should not contain %q", out, w)
				}
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	buf := captureUI(t)

	printSuccess("Synthesized %s", "candidates.json")
	printWarning("%d vertices used the greedy solver", 2)
	printFile("out/candidates.nwk")
	printKeyValue("strategy", "rank-aware")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{"candidates.json", "greedy solver", "out/candidates.nwk", "rank-aware"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/synth"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the vertex id, source and rank of the selected edge to
	// each label. When false, only the vertex label is shown.
	Detailed bool
}

// ToDOT converts the tree rooted at root to Graphviz DOT format.
// The result can be rendered with [RenderSVG].
func ToDOT(root *synth.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if root != nil {
		root.Walk(func(n *synth.Node) bool {
			fmt.Fprintf(&buf, "  v%d [%s];\n", n.ID, nodeAttrs(n, opts.Detailed))
			return true
		})
		buf.WriteString("\n")
		root.Walk(func(n *synth.Node) bool {
			for _, c := range n.Children {
				fmt.Fprintf(&buf, "  v%d -> v%d", n.ID, c.ID)
				if c.Type == dag.Taxonomy {
					buf.WriteString(" [style=dashed, color=grey40]")
				}
				buf.WriteString(";\n")
			}
			return true
		})
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *synth.Node, detailed bool) string {
	label := n.Label
	if detailed {
		label = fmt.Sprintf("%s\nid: %d", n.Label, n.ID)
		if n.Edge >= 0 {
			label += fmt.Sprintf("\n%s (rank %d)", n.Source, n.Rank)
		}
	}
	attrs := fmt.Sprintf("label=%q", label)
	if n.IsLeaf() {
		attrs += ", shape=plaintext, style=\"\""
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg element with one that scales:
// a zero-origin viewBox and matching width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

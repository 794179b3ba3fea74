// Package nodelink renders synthesized trees as node-link diagrams.
//
// [ToDOT] produces Graphviz DOT source with the root at the top, one box per
// internal vertex and a plain label per tip. Edges selected from the
// taxonomy are dashed so the parts of the tree no source tree supports stand
// out. [RenderSVG] lays the DOT out with [github.com/goccy/go-graphviz],
// which runs Graphviz in-process without a system installation.
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package nodelink

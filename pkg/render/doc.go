// Package render draws synthesized trees.
//
// The [nodelink] subpackage converts a tree to Graphviz DOT and renders it
// to SVG in-process:
//
//	dot := nodelink.ToDOT(res.Tree(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/treesynth/pkg/render/nodelink
package render

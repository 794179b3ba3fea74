package pipeline

import (
	"bytes"
	"context"
	"fmt"

	tsio "github.com/matzehuels/treesynth/pkg/io"
	"github.com/matzehuels/treesynth/pkg/render/nodelink"
	"github.com/matzehuels/treesynth/pkg/synth"
)

// Export writes res in each of the given formats. The tree is materialized
// once and shared by all formats.
func Export(ctx context.Context, res *synth.Result, formats []string, detailed bool) (map[string][]byte, error) {
	tree := res.Tree()
	artifacts := make(map[string][]byte, len(formats))

	var dot string
	dotOnce := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(tree, nodelink.Options{Detailed: detailed})
		}
		return dot
	}

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		var err error
		switch format {
		case FormatJSON:
			err = tsio.WriteTreeJSON(&buf, tree)
		case FormatNewick:
			err = tsio.WriteNewick(&buf, tree)
		case FormatSelections:
			err = tsio.WriteSelectionsJSON(&buf, res)
		case FormatDOT:
			buf.WriteString(dotOnce())
		case FormatSVG:
			var svg []byte
			svg, err = nodelink.RenderSVG(ctx, dotOnce())
			buf.Write(svg)
		default:
			err = fmt.Errorf("unsupported format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		artifacts[format] = buf.Bytes()
	}
	return artifacts, nil
}

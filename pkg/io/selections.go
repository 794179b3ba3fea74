package io

import (
	"io"

	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/synth"
	"github.com/matzehuels/treesynth/pkg/tipset"
)

type selectionsOutput struct {
	RunID    string         `json:"run_id"`
	Strategy string         `json:"strategy"`
	Root     uint64         `json:"root"`
	Stats    statsOutput    `json:"stats"`
	Vertices []vertexOutput `json:"vertices"`
	Defects  []defectOutput `json:"defects,omitempty"`
}

type statsOutput struct {
	Vertices    int   `json:"vertices"`
	Candidates  int   `json:"candidates"`
	Selected    int   `json:"selected"`
	Absorbed    int   `json:"absorbed"`
	Rejected    int   `json:"rejected"`
	Approximate int   `json:"approximate"`
	Defects     int   `json:"defects"`
	DurationMS  int64 `json:"duration_ms"`
}

type vertexOutput struct {
	ID          uint64         `json:"id"`
	Name        string         `json:"name,omitempty"`
	Approximate bool           `json:"approximate,omitempty"`
	Rejected    int            `json:"rejected,omitempty"`
	Descendants tipset.Set     `json:"descendants"`
	Choices     []choiceOutput `json:"choices"`
}

type choiceOutput struct {
	Edge      dag.EdgeID `json:"edge"`
	Child     uint64     `json:"child"`
	Source    string     `json:"source,omitempty"`
	Rank      int        `json:"rank"`
	Exclusive tipset.Set `json:"exclusive"`
	Absorbed  []uint64   `json:"absorbed,omitempty"`
}

type defectOutput struct {
	Vertex uint64     `json:"vertex"`
	Edge   dag.EdgeID `json:"edge"`
	Child  uint64     `json:"child"`
	Reason string     `json:"reason"`
}

// WriteSelectionsJSON encodes every visited vertex of res in visiting
// order, children before parents, with the edges chosen there. Absorbed
// edges are reported by the external id of their child.
func WriteSelectionsJSON(w io.Writer, res *synth.Result) error {
	g := res.Graph()
	out := selectionsOutput{
		RunID:    res.RunID,
		Strategy: string(res.Strategy),
		Root:     g.Vertex(res.Root).ID,
		Stats: statsOutput{
			Vertices:    res.Stats.Vertices,
			Candidates:  res.Stats.Candidates,
			Selected:    res.Stats.Selected,
			Absorbed:    res.Stats.Absorbed,
			Rejected:    res.Stats.Rejected,
			Approximate: res.Stats.Approximate,
			Defects:     res.Stats.Defects,
			DurationMS:  res.Stats.Duration.Milliseconds(),
		},
		Vertices: make([]vertexOutput, 0, len(res.Order)),
	}
	for _, v := range res.Order {
		sel := res.Selections[v]
		vx := g.Vertex(v)
		vo := vertexOutput{
			ID:          vx.ID,
			Name:        vx.Name,
			Approximate: sel.Approximate(),
			Rejected:    sel.Rejected(),
			Descendants: res.Descendants[v],
			Choices:     make([]choiceOutput, 0, sel.Len()),
		}
		for _, c := range sel.Choices() {
			co := choiceOutput{
				Edge:      c.Edge,
				Child:     g.Vertex(c.Child).ID,
				Source:    g.Edge(c.Edge).Source,
				Rank:      c.Rank,
				Exclusive: c.Exclusive,
			}
			for _, a := range c.Absorbed {
				co.Absorbed = append(co.Absorbed, g.Vertex(g.Edge(a).Child).ID)
			}
			vo.Choices = append(vo.Choices, co)
		}
		out.Vertices = append(out.Vertices, vo)
	}
	for _, d := range res.Defects {
		out.Defects = append(out.Defects, defectOutput{
			Vertex: g.Vertex(d.Vertex).ID,
			Edge:   d.Edge,
			Child:  g.Vertex(g.Edge(d.Edge).Child).ID,
			Reason: d.Reason.Error(),
		})
	}
	return encode(w, out)
}

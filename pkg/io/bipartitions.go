package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/treesynth/pkg/bipart"
	"github.com/matzehuels/treesynth/pkg/errors"
)

// Bipartitions is a decoded bipartition file. Exactly one of Groups and
// Items is set.
type Bipartitions struct {
	Groups [][]bipart.Bipartition `json:"groups,omitempty"`
	Items  []bipart.Bipartition   `json:"bipartitions,omitempty"`
}

// Grouped reports whether the file listed groups.
func (b *Bipartitions) Grouped() bool { return b.Groups != nil }

// Len returns the number of bipartitions in the file.
func (b *Bipartitions) Len() int {
	n := len(b.Items)
	for _, g := range b.Groups {
		n += len(g)
	}
	return n
}

// ReadBipartitions decodes a bipartition file from r. Every bipartition
// must have disjoint ingroup and outgroup.
func ReadBipartitions(r io.Reader) (*Bipartitions, error) {
	var b Bipartitions
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode bipartitions")
	}
	if (b.Groups == nil) == (b.Items == nil) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, `bipartition file needs exactly one of "groups" and "bipartitions"`)
	}
	check := func(where string, i int, x bipart.Bipartition) error {
		if !x.Valid() {
			return errors.Wrap(errors.ErrCodeInvalidInput, bipart.ErrOverlap, "%s %d: %s", where, i, x)
		}
		return nil
	}
	for i, x := range b.Items {
		if err := check("bipartition", i, x); err != nil {
			return nil, err
		}
	}
	for gi, g := range b.Groups {
		for i, x := range g {
			if err := check(fmt.Sprintf("group %d bipartition", gi), i, x); err != nil {
				return nil, err
			}
		}
	}
	return &b, nil
}

// ImportBipartitions reads the bipartition file at path.
func ImportBipartitions(path string) (*Bipartitions, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBipartitions(f)
}

type sumOutput struct {
	Inputs       int                  `json:"inputs"`
	Comparisons  int64                `json:"comparisons"`
	DurationMS   int64                `json:"duration_ms"`
	Bipartitions []bipart.Bipartition `json:"bipartitions"`
}

// WriteSumResult encodes the result of a bipartition sum.
func WriteSumResult(w io.Writer, res *bipart.Result) error {
	out := sumOutput{
		Inputs:       res.Inputs,
		Comparisons:  res.Comparisons,
		DurationMS:   res.Duration.Milliseconds(),
		Bipartitions: res.Bipartitions,
	}
	if out.Bipartitions == nil {
		out.Bipartitions = []bipart.Bipartition{}
	}
	return encode(w, out)
}

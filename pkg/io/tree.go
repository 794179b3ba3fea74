package io

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/treesynth/pkg/errors"
	"github.com/matzehuels/treesynth/pkg/synth"
)

type treeNode struct {
	ID       uint64      `json:"id"`
	Label    string      `json:"label"`
	Source   string      `json:"source,omitempty"`
	Rank     int         `json:"rank,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

func toTreeNode(n *synth.Node) *treeNode {
	out := &treeNode{ID: n.ID, Label: n.Label, Source: n.Source, Rank: n.Rank}
	for _, c := range n.Children {
		out.Children = append(out.Children, toTreeNode(c))
	}
	return out
}

// WriteTreeJSON encodes the synthesized tree rooted at root as nested
// objects with "id", "label", "source", "rank" and "children".
func WriteTreeJSON(w io.Writer, root *synth.Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil tree")
	}
	return encode(w, toTreeNode(root))
}

// WriteNewick writes the tree rooted at root in Newick format, labelling
// every node with its vertex name or id and ending with a semicolon and a
// newline. Labels containing Newick punctuation or whitespace are quoted.
func WriteNewick(w io.Writer, root *synth.Node) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil tree")
	}
	bw := bufio.NewWriter(w)
	writeNewick(bw, root)
	bw.WriteString(";\n")
	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write newick")
	}
	return nil
}

// writeNewick is recursive; synthesized trees are as deep as the taxonomy.
func writeNewick(w *bufio.Writer, n *synth.Node) {
	if !n.IsLeaf() {
		w.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				w.WriteByte(',')
			}
			writeNewick(w, c)
		}
		w.WriteByte(')')
	}
	w.WriteString(newickLabel(n.Label))
}

const newickSpecial = "()[]':;, \t\n"

func newickLabel(s string) string {
	if !strings.ContainsAny(s, newickSpecial) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

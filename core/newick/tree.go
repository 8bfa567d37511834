// Package newick rebuilds a rooted binary tree from an agglomerative merge
// trace and writes it in Newick form.
package newick

import (
	"strconv"
	"strings"

	"oligo/core/oligoerr"
)

// RootSentinel is the parent index that marks the root of a merge trace.
// Index 0 is always a leaf, so it never names a real parent.
const RootSentinel = 0

// Node is one vertex of a Tree. Parent is -1 for the root.
type Node struct {
	Name     string
	Distance float64
	Parent   int
	Children []int
}

// Tree is a flat arena of nodes. Indices [0,n) are the leaves in input
// order; [n,2n-1) are internal nodes in merge order.
type Tree struct {
	Nodes  []Node
	Root   int
	leaves int
}

// FromMergeTrace links one node per trace index under its parent and sets
// every child of internal node i to distance costs[i-n] - costs[i-n+1].
func FromMergeTrace(ids []string, parents []int, costs []float64) (*Tree, error) {
	n := len(ids)
	if n == 0 {
		return nil, oligoerr.Structural("merge trace has no leaves")
	}
	total := 2*n - 1
	if len(parents) != total {
		return nil, oligoerr.Structural("parents has %d entries, want %d for %d leaves", len(parents), total, n)
	}
	if len(costs) != n {
		return nil, oligoerr.Structural("costs has %d entries, want %d", len(costs), n)
	}

	t := &Tree{Nodes: make([]Node, total), Root: -1, leaves: n}
	for i := range t.Nodes {
		t.Nodes[i].Parent = -1
		if i < n {
			t.Nodes[i].Name = ids[i]
		}
	}

	roots := 0
	for i, p := range parents {
		if p == RootSentinel {
			roots++
			t.Root = i
			continue
		}
		switch {
		case p < 0 || p >= total:
			return nil, oligoerr.Structural("node %d: parent %d out of range [0,%d)", i, p, total)
		case p < n:
			return nil, oligoerr.Structural("node %d: parent %d is a leaf", i, p)
		case p <= i:
			return nil, oligoerr.Structural("node %d: parent %d does not follow it in merge order", i, p)
		}
		t.Nodes[i].Parent = p
		t.Nodes[p].Children = append(t.Nodes[p].Children, i)
	}
	if roots != 1 {
		return nil, oligoerr.Structural("merge trace has %d roots, want exactly 1", roots)
	}

	for i := n; i < total; i++ {
		if len(t.Nodes[i].Children) == 0 {
			return nil, oligoerr.Structural("internal node %d has no children", i)
		}
		d := costs[i-n] - costs[i-n+1]
		for _, c := range t.Nodes[i].Children {
			t.Nodes[c].Distance = d
		}
	}
	return t, nil
}

// Len is the number of leaves.
func (t *Tree) Len() int { return t.leaves }

// Leaves returns the leaf names in input order.
func (t *Tree) Leaves() []string {
	out := make([]string, t.leaves)
	for i := range out {
		out[i] = t.Nodes[i].Name
	}
	return out
}

// String is the Newick text of the whole tree, ';'-terminated.
func (t *Tree) String() string { return Serialize(t) }

// Serialize writes node as "(children)name:distance"; leaves omit the
// parentheses and only the root carries the trailing ';'.
// Distances use six decimals.
func Serialize(t *Tree) string {
	var b strings.Builder
	var buf []byte
	var walk func(i int)
	walk = func(i int) {
		nd := &t.Nodes[i]
		if len(nd.Children) > 0 {
			b.WriteByte('(')
			for j, c := range nd.Children {
				if j > 0 {
					b.WriteByte(',')
				}
				walk(c)
			}
			b.WriteByte(')')
		}
		b.WriteString(nd.Name)
		b.WriteByte(':')
		buf = strconv.AppendFloat(buf[:0], nd.Distance, 'f', 6, 64)
		b.Write(buf)
	}
	walk(t.Root)
	b.WriteByte(';')
	return b.String()
}

// internal/writers/tree.go
package writers

import (
	"io"

	"oligo/core/cluster"
	"oligo/core/newick"
	"oligo/pkg/api"
)

// Tree is the information-bottleneck result for one input file.
type Tree struct {
	SourceFile string
	Tree       *newick.Tree
	Trace      cluster.MergeTrace
}

func init() { Register(KindTree, FormatText, FormatJSON, FormatJSONL) }

// ToAPITree converts to the v1 wire schema.
func ToAPITree(t Tree) api.TreeV1 {
	return api.TreeV1{
		SourceFile: t.SourceFile,
		Leaves:     t.Tree.Len(),
		Newick:     t.Tree.String(),
		Costs:      t.Trace.Costs,
		Parents:    t.Trace.Parents,
	}
}

var treeCodec = codec[Tree]{
	kind: KindTree,
	text: func(w io.Writer, t Tree) error {
		_, err := io.WriteString(w, t.Tree.String()+"\n")
		return err
	},
	wire: func(t Tree) []any { return []any{ToAPITree(t)} },
}

// StartTreeWriter writes one Newick line (text) or one TreeV1 per file.
func StartTreeWriter(out io.Writer, format string, bufSize int) (chan<- Tree, <-chan error) {
	return start(out, format, bufSize, treeCodec)
}

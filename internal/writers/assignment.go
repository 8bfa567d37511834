// internal/writers/assignment.go
package writers

import (
	"fmt"
	"io"

	"oligo/core/cluster"
	"oligo/pkg/api"
)

// Partition is the k-means result for one input file; IDs label the rows.
type Partition struct {
	SourceFile string
	IDs        []string
	Assignment cluster.Assignment
}

func init() { Register(KindAssignment, FormatText, FormatJSON, FormatJSONL) }

// ToAPIAssignments converts to one v1 row per sequence.
func ToAPIAssignments(p Partition) []api.AssignmentV1 {
	out := make([]api.AssignmentV1, len(p.IDs))
	for i, id := range p.IDs {
		out[i] = api.AssignmentV1{
			SourceFile: p.SourceFile,
			SequenceID: id,
			Cluster:    p.Assignment.Labels[i],
			Distance:   p.Assignment.Distances[i],
		}
	}
	return out
}

var assignmentCodec = codec[Partition]{
	kind: KindAssignment,
	text: func(w io.Writer, p Partition) error {
		for i, id := range p.IDs {
			if _, err := fmt.Fprintf(w, "%23s: %d\t%f\n", id, p.Assignment.Labels[i], p.Assignment.Distances[i]); err != nil {
				return err
			}
		}
		return nil
	},
	wire: func(p Partition) []any {
		rows := ToAPIAssignments(p)
		out := make([]any, len(rows))
		for i := range rows {
			out[i] = rows[i]
		}
		return out
	},
}

// StartAssignmentWriter writes one report line (text) or one AssignmentV1
// per sequence.
func StartAssignmentWriter(out io.Writer, format string, bufSize int) (chan<- Partition, <-chan error) {
	return start(out, format, bufSize, assignmentCodec)
}

// internal/writers/index.go
package writers

import (
	"fmt"
	"io"

	"oligo/core/fasta"
	"oligo/pkg/api"
)

// Index is the sequence index of one input file. Entries shorter than
// MinimumLength are listed but not retained.
type Index struct {
	SourceFile    string
	Entries       []fasta.Entry
	MinimumLength int
}

func init() { Register(KindIndex, FormatText, FormatJSON, FormatJSONL) }

// ToAPIIndex converts to one v1 row per record.
func ToAPIIndex(ix Index) []api.IndexEntryV1 {
	out := make([]api.IndexEntryV1, len(ix.Entries))
	for i, e := range ix.Entries {
		out[i] = api.IndexEntryV1{
			SourceFile: ix.SourceFile,
			SequenceID: e.ID,
			Length:     e.Length,
			Offset:     e.Offset,
			Retained:   e.Length >= ix.MinimumLength,
		}
	}
	return out
}

var indexCodec = codec[Index]{
	kind: KindIndex,
	text: func(w io.Writer, ix Index) error {
		for _, e := range ix.Entries {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\n", ix.SourceFile, e.ID, e.Length, e.Offset, e.Length >= ix.MinimumLength); err != nil {
				return err
			}
		}
		return nil
	},
	wire: func(ix Index) []any {
		rows := ToAPIIndex(ix)
		out := make([]any, len(rows))
		for i := range rows {
			out[i] = rows[i]
		}
		return out
	},
}

// StartIndexWriter writes one TSV line (text) or one IndexEntryV1 per record.
func StartIndexWriter(out io.Writer, format string, bufSize int) (chan<- Index, <-chan error) {
	return start(out, format, bufSize, indexCodec)
}

// internal/writers/matrix.go
package writers

import (
	"bufio"
	"io"
	"strconv"

	"oligo/core/kmer"
	"oligo/pkg/api"
)

// Matrix is the usage matrix of one input file with the sampling settings
// that produced it.
type Matrix struct {
	SourceFile     string
	FragmentLength int
	Seed           int64
	Matrix         *kmer.Matrix
}

func init() { Register(KindMatrix, FormatText, FormatJSON, FormatJSONL) }

// ToAPIMatrix converts to the v1 wire schema.
func ToAPIMatrix(m Matrix) api.MatrixV1 {
	rows := make([]api.MatrixRowV1, m.Matrix.Rows)
	for i := range rows {
		rows[i] = api.MatrixRowV1{SequenceID: m.Matrix.IDs[i], Values: m.Matrix.Row(i)}
	}
	return api.MatrixV1{
		SourceFile:     m.SourceFile,
		OligoLength:    m.Matrix.K,
		FragmentLength: m.FragmentLength,
		Seed:           m.Seed,
		Kmers:          m.Matrix.Kmers,
		Rows:           rows,
	}
}

// writeMatrixTSV writes a header of k-mers then one row per sequence.
func writeMatrixTSV(w io.Writer, m Matrix) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("sequence_id")
	for _, k := range m.Matrix.Kmers {
		bw.WriteByte('\t')
		bw.WriteString(k)
	}
	bw.WriteByte('\n')
	var num []byte
	for i := 0; i < m.Matrix.Rows; i++ {
		bw.WriteString(m.Matrix.IDs[i])
		for _, v := range m.Matrix.Row(i) {
			bw.WriteByte('\t')
			num = strconv.AppendFloat(num[:0], v, 'g', -1, 64)
			bw.Write(num)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

var matrixCodec = codec[Matrix]{
	kind: KindMatrix,
	text: writeMatrixTSV,
	wire: func(m Matrix) []any { return []any{ToAPIMatrix(m)} },
}

// StartMatrixWriter writes a TSV block (text) or one MatrixV1 per file.
func StartMatrixWriter(out io.Writer, format string, bufSize int) (chan<- Matrix, <-chan error) {
	return start(out, format, bufSize, matrixCodec)
}

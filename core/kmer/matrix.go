// core/kmer/matrix.go
package kmer

// Matrix is a row-major oligonucleotide usage table.
// Row i belongs to IDs[i]; column j to Kmers[j].
type Matrix struct {
	K     int
	IDs   []string
	Kmers []string
	Rows  int
	Cols  int
	Data  []float64
}

// NewMatrix allocates a zeroed matrix for the given row labels and k.
func NewMatrix(ids []string, k int) *Matrix {
	kmers := Enumerate(k)
	return &Matrix{
		K:     k,
		IDs:   append([]string(nil), ids...),
		Kmers: kmers,
		Rows:  len(ids),
		Cols:  len(kmers),
		Data:  make([]float64, len(ids)*len(kmers)),
	}
}

// Row returns row i as a slice sharing the matrix storage.
func (m *Matrix) Row(i int) []float64 { return m.Data[i*m.Cols : (i+1)*m.Cols] }

func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.Cols+j] }

// RowSlices returns every row as a slice sharing the matrix storage.
func (m *Matrix) RowSlices() [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// core/fasta/record.go
package fasta

// Record is one fully decoded FASTA record.
type Record struct {
	ID          string
	Description string
	Seq         string
}

// Len is the number of sequence characters.
func (r Record) Len() int { return len(r.Seq) }

// Entry is one row of a Store's index.
// Offset is the byte position of the record's '>' line.
type Entry struct {
	ID     string
	Length int
	Offset int64
}

// Marker starts every record header line.
const Marker = '>'

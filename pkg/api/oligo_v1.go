// pkg/api/oligo_v1.go
package api

// TreeV1 is the stable JSON/JSONL schema for an information-bottleneck tree.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type TreeV1 struct {
	SourceFile string    `json:"source_file"`
	Leaves     int       `json:"leaves"`
	Newick     string    `json:"newick"`
	Costs      []float64 `json:"costs,omitempty"`
	Parents    []int     `json:"parents,omitempty"`
}

// AssignmentV1 is one row of a k-means report.
type AssignmentV1 struct {
	SourceFile string  `json:"source_file"`
	SequenceID string  `json:"sequence_id"`
	Cluster    int     `json:"cluster"`
	Distance   float64 `json:"distance"`
}

// MatrixV1 is a full oligonucleotide usage matrix for one input file.
// Kmers lists the column labels in column order.
type MatrixV1 struct {
	SourceFile     string        `json:"source_file"`
	OligoLength    int           `json:"oligo_length"`
	FragmentLength int           `json:"fragment_length"`
	Seed           int64         `json:"seed"`
	Kmers          []string      `json:"kmers"`
	Rows           []MatrixRowV1 `json:"rows"`
}

type MatrixRowV1 struct {
	SequenceID string    `json:"sequence_id"`
	Values     []float64 `json:"values"`
}

// IndexEntryV1 is one record of a sequence index.
type IndexEntryV1 struct {
	SourceFile string `json:"source_file"`
	SequenceID string `json:"sequence_id"`
	Length     int    `json:"length"`
	Offset     int64  `json:"offset"`
	Retained   bool   `json:"retained"`
}

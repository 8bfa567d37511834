// Package cluster holds the two clustering methods run over a k-mer usage
// matrix: a flat partition (k-means) and an agglomerative merge trace
// (information bottleneck) that newick turns into a tree.
package cluster

// Matrix is a row-major table of non-negative features; *kmer.Matrix
// satisfies it.
type Matrix interface {
	RowSlices() [][]float64
}

// Rand is the random source used for seeding.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Assignment is the result of a partition: Labels[i] is the cluster of row i
// and Distances[i] its squared Euclidean distance to that cluster's center.
type Assignment struct {
	Labels    []int
	Distances []float64
	Centers   [][]float64
}

// MergeTrace records an agglomeration of n rows. Merge t creates node n+t;
// Parents[i] is the node that absorbed node i, or newick.RootSentinel for
// the last node. Costs[0] is the initial mutual information and Costs[t+1]
// what remains after merge t.
type MergeTrace struct {
	Parents []int
	Costs   []float64
}

// Partitioner splits the rows of m into k groups.
type Partitioner interface {
	Partition(m Matrix, k int) (Assignment, error)
}

// Agglomerator merges the rows of m pairwise down to a single root.
type Agglomerator interface {
	Merge(m Matrix) (MergeTrace, error)
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// Package pipeline opens each input file through the index cache, applies
// the fragment-length filter, builds the k-mer usage matrix, and hands one
// Result per file to a visit callback.
//
// Files are processed one after another; the parallelism lives inside
// kmer.Build. The first error stops the run.
package pipeline

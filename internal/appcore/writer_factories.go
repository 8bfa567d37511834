package appcore

import (
	"io"

	"oligo/internal/writers"
)

// ---------------- Tree writer (aib) ----------------

type TreeWriterFactory struct{ Format string }

func (w TreeWriterFactory) NeedMatrix() bool { return true }

func (w TreeWriterFactory) Start(out io.Writer, bufSize int) (chan<- writers.Tree, <-chan error) {
	return writers.StartTreeWriter(out, w.Format, bufSize)
}

// ---------------- Assignment writer (kmeans) ----------------

type AssignmentWriterFactory struct{ Format string }

func (w AssignmentWriterFactory) NeedMatrix() bool { return true }

func (w AssignmentWriterFactory) Start(out io.Writer, bufSize int) (chan<- writers.Partition, <-chan error) {
	return writers.StartAssignmentWriter(out, w.Format, bufSize)
}

// ---------------- Matrix writer ----------------

type MatrixWriterFactory struct{ Format string }

func (w MatrixWriterFactory) NeedMatrix() bool { return true }

func (w MatrixWriterFactory) Start(out io.Writer, bufSize int) (chan<- writers.Matrix, <-chan error) {
	return writers.StartMatrixWriter(out, w.Format, bufSize)
}

// ---------------- Index writer ----------------

type IndexWriterFactory struct{ Format string }

// The index needs no sampling; files shorter than the fragment are fine.
func (w IndexWriterFactory) NeedMatrix() bool { return false }

func (w IndexWriterFactory) Start(out io.Writer, bufSize int) (chan<- writers.Index, <-chan error) {
	return writers.StartIndexWriter(out, w.Format, bufSize)
}

// Package visitors turns one pipeline.Result into one writer payload.
// Each visitor is the per-file step of a subcommand.
package visitors

import (
	"math/rand"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"oligo/core/cluster"
	"oligo/core/newick"
	"oligo/internal/pipeline"
	"oligo/internal/writers"
)

// KMeans partitions the rows of each matrix.
type KMeans struct {
	Clusters      int
	MaxIterations int
}

func (v KMeans) Visit(r pipeline.Result) (writers.Partition, error) {
	km := cluster.KMeans{MaxIterations: v.MaxIterations, Rand: rand.New(rand.NewSource(r.Seed))}
	a, err := km.Partition(r.Matrix, v.Clusters)
	if err != nil {
		return writers.Partition{}, errors.WithMessage(err, r.SourceFile)
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		for c, ctr := range a.Centers {
			log.Debugf("center %d: %v", c, ctr)
		}
	}
	return writers.Partition{SourceFile: r.SourceFile, IDs: r.Matrix.IDs, Assignment: a}, nil
}

// AIB builds the information-bottleneck tree of each matrix.
type AIB struct {
	Agglomerator cluster.Agglomerator // nil = cluster.AIB{}
}

func (v AIB) Visit(r pipeline.Result) (writers.Tree, error) {
	agg := v.Agglomerator
	if agg == nil {
		agg = cluster.AIB{}
	}
	tr, err := agg.Merge(r.Matrix)
	if err != nil {
		return writers.Tree{}, errors.WithMessage(err, r.SourceFile)
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		for i, c := range tr.Costs {
			log.Debugf("cost %d => %f", i, c)
		}
		for i, p := range tr.Parents {
			log.Debugf("parent %d => %d", i, p)
		}
	}
	t, err := newick.FromMergeTrace(r.Matrix.IDs, tr.Parents, tr.Costs)
	if err != nil {
		return writers.Tree{}, errors.WithMessage(err, r.SourceFile)
	}
	return writers.Tree{SourceFile: r.SourceFile, Tree: t, Trace: tr}, nil
}

// Matrix passes the matrix through.
func Matrix(r pipeline.Result) (writers.Matrix, error) {
	return writers.Matrix{
		SourceFile:     r.SourceFile,
		FragmentLength: r.MinimumLength,
		Seed:           r.Seed,
		Matrix:         r.Matrix,
	}, nil
}

// Index passes the sequence index through.
func Index(r pipeline.Result) (writers.Index, error) {
	return writers.Index{SourceFile: r.SourceFile, Entries: r.Entries, MinimumLength: r.MinimumLength}, nil
}

// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"oligo/core/kmer"
	"oligo/core/oligoerr"
	"oligo/internal/cmdutil"
	"oligo/internal/indexcache"
	"oligo/internal/pipeline"
	"oligo/internal/progress"
	"oligo/internal/runutil"
	"oligo/internal/writers"
)

type Options struct {
	SeqFiles []string

	OligoLength    int
	FragmentLength int
	Seed           int64 // 0 = clock
	Threads        int   // 0 = all CPUs

	IndexCache string // bbolt file; "" disables
	Progress   bool
	Quiet      bool
}

type VisitorFunc[T any] func(pipeline.Result) (T, error)

type WriterFactory[T any] interface {
	NeedMatrix() bool
	Start(out io.Writer, bufSize int) (chan<- T, <-chan error)
}

// ExitCode maps a run error to the process exit status:
// 0 ok, 2 bad parameters, 3 I/O or processing failure, 130 cancelled.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 130
	case errors.Is(err, oligoerr.ErrParameter):
		return 2
	}
	return 3
}

func Run[T any](
	parent context.Context,
	stdout, stderr io.Writer,
	o Options,
	visit VisitorFunc[T],
	wf WriterFactory[T],
) int {
	if len(o.SeqFiles) == 0 {
		fmt.Fprintln(stderr, "error: no input FASTA files")
		return 2
	}
	if errs := runutil.ValidateSampling(o.OligoLength, o.FragmentLength, kmer.MaxK); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(stderr, "error:", e)
		}
		return 2
	}

	thr := runutil.EffectiveThreads(o.Threads)
	seed := runutil.ResolveSeed(o.Seed)
	log.Infof("seed %d, %d threads", seed, thr)

	var cache *indexcache.Cache
	if o.IndexCache != "" {
		c, err := indexcache.Open(o.IndexCache)
		if err != nil {
			cmdutil.Warnf(o.Quiet, "%v; continuing without index cache", err)
		} else {
			cache = c
			defer func() { _ = cache.Close() }()
		}
	}

	var bars func(string) *progress.Bar
	if o.Progress {
		bars = func(file string) *progress.Bar {
			return progress.New(stderr, filepath.Base(file), true)
		}
	}

	outw := bufio.NewWriter(stdout)
	inCh, writeErr := wf.Start(outw, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	_, perr := cmdutil.RunStream[T](
		ctx,
		pipeline.Config{
			OligoLength:    o.OligoLength,
			FragmentLength: o.FragmentLength,
			Threads:        thr,
			Seed:           seed,
			IndexOnly:      !wf.NeedMatrix(),
			Cache:          cache,
			Progress:       bars,
		},
		o.SeqFiles,
		visit,
		func(x T) error {
			select {
			case inCh <- x:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return 0
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return 3
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return 0
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return 3
	}

	if perr != nil {
		code := ExitCode(perr)
		if code != 130 {
			fmt.Fprintln(stderr, perr)
		}
		return code
	}
	return 0
}

// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"math/rand"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"oligo/core/fasta"
	"oligo/core/kmer"
	"oligo/internal/indexcache"
	"oligo/internal/progress"
	"oligo/internal/runutil"
)

// Config controls the per-file pipeline.
type Config struct {
	OligoLength    int
	FragmentLength int   // also the minimum retained sequence length
	Threads        int   // counting workers (>=1)
	Seed           int64 // run seed; each file derives its own
	IndexOnly      bool  // stop after the index; Result.Matrix stays nil

	Cache    *indexcache.Cache                 // nil disables the cache
	Progress func(file string) *progress.Bar // nil disables progress bars
}

// Result is what one input file produced.
type Result struct {
	SourceFile    string
	Entries       []fasta.Entry
	MinimumLength int
	Seed          int64
	Matrix        *kmer.Matrix
}

// ForEachFile runs the pipeline over files in order and calls visit with
// each Result. It returns the first error, including context cancellation.
func ForEachFile(ctx context.Context, cfg Config, files []string, visit func(Result) error) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	for i, fn := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := runFile(ctx, cfg, i, fn)
		if err != nil {
			return err
		}
		if err := visit(res); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func runFile(ctx context.Context, cfg Config, i int, fn string) (Result, error) {
	st, err := cfg.Cache.OpenStore(fn)
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = st.Close() }()

	st.SetMinimumLength(cfg.FragmentLength)
	res := Result{
		SourceFile:    fn,
		Entries:       st.Entries(),
		MinimumLength: cfg.FragmentLength,
		Seed:          runutil.FileSeed(cfg.Seed, i),
	}
	log.Infof("%s: %d of %d sequences are at least %d long", fn, st.RetainedCount(), st.Len(), cfg.FragmentLength)
	if cfg.IndexOnly {
		return res, nil
	}

	var bar *progress.Bar
	if cfg.Progress != nil {
		bar = cfg.Progress(fn)
	}
	m, err := kmer.Build(ctx, st, kmer.Options{
		K:              cfg.OligoLength,
		FragmentLength: cfg.FragmentLength,
		Rand:           rand.New(rand.NewSource(res.Seed)),
		Threads:        cfg.Threads,
		Progress:       bar.Callback(),
	})
	bar.Finish()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		return Result{}, errors.WithMessage(err, fn)
	}
	res.Matrix = m
	if log.IsLevelEnabled(log.DebugLevel) {
		dumpMatrix(m)
	}
	return res, nil
}

func dumpMatrix(m *kmer.Matrix) {
	for i := 0; i < m.Rows; i++ {
		var b strings.Builder
		for j, v := range m.Row(i) {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
		}
		log.Debugf("matrix %s: %s", m.IDs[i], b.String())
	}
}

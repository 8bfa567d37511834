// core/kmer/build.go
package kmer

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"oligo/core/fasta"
	"oligo/core/iupac"
	"oligo/core/oligoerr"
)

// Rand is the random source used to place sampling windows.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Records is the part of a fasta.Store that Build reads.
type Records interface {
	Retained() []fasta.Entry
	ForEach(func(fasta.Record) error) error
}

// Options controls Build.
type Options struct {
	K              int  // oligo length
	FragmentLength int  // sampling window length, >= K
	Rand           Rand // nil = seeded from the clock
	Threads        int  // counting workers (>=1)

	// Progress, if set, is called from a single goroutine after each row.
	Progress func(done, total int)
}

// SampleStarts returns the window start offsets for a sequence of the given
// length: round(1.5*length/fragment) samples (at least one), sample j drawn
// uniformly from [j*step, (j+1)*step) with step = round((length-fragment)/samples).
// Rounding is half-to-even. Starts are clamped so every window fits.
func SampleStarts(length, fragment int, rnd Rand) []int {
	n := int(math.RoundToEven(1.5 * float64(length) / float64(fragment)))
	if n < 1 {
		n = 1
	}
	step := int(math.RoundToEven(float64(length-fragment) / float64(n)))
	last := length - fragment
	starts := make([]int, n)
	for j := range starts {
		s := j * step
		if step > 0 {
			s += rnd.Intn(step)
		}
		if s > last {
			s = last
		}
		starts[j] = s
	}
	return starts
}

// Build samples every retained record of src and returns its normalized
// k-mer usage matrix. Rows follow the retained file order; columns follow
// Enumerate(K).
//
// Every random draw happens on the calling goroutine in file order, and each
// worker owns whole rows, so the result for a given Rand does not depend on
// Threads.
func Build(ctx context.Context, src Records, o Options) (*Matrix, error) {
	if o.K < 1 || o.K > MaxK {
		return nil, oligoerr.Parameter("oligo length %d outside [1,%d]", o.K, MaxK)
	}
	if o.FragmentLength < o.K {
		return nil, oligoerr.Parameter("fragment length %d is smaller than oligo length %d", o.FragmentLength, o.K)
	}
	retained := src.Retained()
	if len(retained) == 0 {
		return nil, oligoerr.Parameter("no sequence is at least %d long", o.FragmentLength)
	}
	ids := make([]string, len(retained))
	for i, e := range retained {
		if e.Length < o.FragmentLength {
			return nil, oligoerr.Parameter("fragment length %d exceeds length %d of %s", o.FragmentLength, e.Length, e.ID)
		}
		ids[i] = e.ID
	}
	rnd := o.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	threads := o.Threads
	if threads < 1 {
		threads = 1
	}

	m := NewMatrix(ids, o.K)
	denomPerSample := float64(o.FragmentLength - o.K + 1)

	type job struct {
		row    int
		id     string
		seq    string
		starts []int
	}
	jobs := make(chan job, threads*2)
	finished := make(chan int, threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			var scratch []int
			for j := range jobs {
				row := m.Row(j.row)
				unknown := 0
				for _, s := range j.starts {
					var u int
					scratch, u = countWindow(row, j.seq[s:s+o.FragmentLength], o.K, scratch)
					unknown += u
				}
				if unknown > 0 {
					log.Warnf("%s: %d oligos skipped for unrecognized nucleotide codes", j.id, unknown)
				}
				denom := float64(len(j.starts)) * denomPerSample
				for c := range row {
					row[c] /= denom
				}
				finished <- j.row
			}
		}()
	}

	// Progress
	var pwg sync.WaitGroup
	pwg.Add(1)
	go func() {
		defer pwg.Done()
		done := 0
		for range finished {
			done++
			if o.Progress != nil {
				o.Progress(done, len(ids))
			}
		}
	}()

	// Feed work
	row := 0
	ferr := src.ForEach(func(rec fasta.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if row >= len(ids) || rec.ID != ids[row] {
			return oligoerr.Format("record %q does not match index entry %d", rec.ID, row)
		}
		if rec.Len() < o.FragmentLength {
			return oligoerr.Parameter("fragment length %d exceeds length %d of %s", o.FragmentLength, rec.Len(), rec.ID)
		}
		starts := SampleStarts(rec.Len(), o.FragmentLength, rnd)
		log.Debugf("%s: length %d, %d samples", rec.ID, rec.Len(), len(starts))
		select {
		case jobs <- job{row: row, id: rec.ID, seq: rec.Seq, starts: starts}:
		case <-ctx.Done():
			return ctx.Err()
		}
		row++
		return nil
	})

	close(jobs)
	wg.Wait()
	close(finished)
	pwg.Wait()

	if ferr != nil {
		return nil, ferr
	}
	if row != len(ids) {
		return nil, oligoerr.Format("decoded %d records, index lists %d", row, len(ids))
	}
	return m, nil
}

// countWindow adds the disjoint k-length chunks of window to row and returns
// the number of chunks holding an unrecognized code.
func countWindow(row []float64, window string, k int, scratch []int) ([]int, int) {
	unknown := 0
	for c := 0; c+k <= len(window); c += k {
		chunk := window[c : c+k]
		scratch = Matches(scratch, chunk)
		if len(scratch) == 0 {
			if hasUnknown(chunk) {
				unknown++
			}
			continue
		}
		for _, col := range scratch {
			row[col]++
		}
	}
	return scratch, unknown
}

func hasUnknown(chunk string) bool {
	for i := 0; i < len(chunk); i++ {
		if !iupac.Known(chunk[i]) {
			return true
		}
	}
	return false
}

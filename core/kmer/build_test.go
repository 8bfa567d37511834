package kmer

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"oligo/core/fasta"
	"oligo/core/oligoerr"
)

func openStore(t *testing.T, data string) *fasta.Store {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "m.fa")
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := fasta.Open(fn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func randomSeq(rng *rand.Rand, n int) string {
	const bases = "ACGT"
	b := make([]byte, n)
	for i := range b {
		b[i] = bases[rng.Intn(4)]
	}
	return string(b)
}

func TestSampleStarts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		length, fragment, samples int
	}{
		{100, 100, 2}, // round(1.5) = 2 (half to even)
		{1000, 100, 15},
		{250, 100, 4}, // round(3.75)
		{5000, 5000, 2},
		{7500, 5000, 2}, // round(2.25)
	}
	for _, tc := range tests {
		starts := SampleStarts(tc.length, tc.fragment, rng)
		if len(starts) != tc.samples {
			t.Fatalf("SampleStarts(%d,%d) = %d samples, want %d", tc.length, tc.fragment, len(starts), tc.samples)
		}
		step := int(math.RoundToEven(float64(tc.length-tc.fragment) / float64(len(starts))))
		for j, s := range starts {
			if s < 0 || s+tc.fragment > tc.length {
				t.Fatalf("start %d out of range for length %d", s, tc.length)
			}
			if step > 0 && (s < j*step || s >= (j+1)*step) && s != tc.length-tc.fragment {
				t.Fatalf("start %d outside stratum %d (step %d)", s, j, step)
			}
		}
	}
}

func TestSampleStartsDeterministicForSeed(t *testing.T) {
	a := SampleStarts(10000, 500, rand.New(rand.NewSource(42)))
	b := SampleStarts(10000, 500, rand.New(rand.NewSource(42)))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed, different starts: %v vs %v", a, b)
	}
}

func TestBuildHomopolymer(t *testing.T) {
	st := openStore(t, ">polyA\n"+strings.Repeat("a", 8)+"\n")
	st.SetMinimumLength(8)
	m, err := Build(context.Background(), st, Options{K: 2, FragmentLength: 8, Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.Rows != 1 || m.Cols != 16 {
		t.Fatalf("shape %dx%d", m.Rows, m.Cols)
	}
	// 2 samples x 4 chunks of "aa", normalized by 2*(8-2+1).
	if got, want := m.At(0, 0), 8.0/14.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("aa cell = %v, want %v", got, want)
	}
	for j := 1; j < m.Cols; j++ {
		if m.At(0, j) != 0 {
			t.Fatalf("column %s = %v, want 0", m.Kmers[j], m.At(0, j))
		}
	}
}

func TestBuildAmbiguousCountsEveryMatchingColumn(t *testing.T) {
	st := openStore(t, ">n\nnnnn\n")
	st.SetMinimumLength(4)
	m, err := Build(context.Background(), st, Options{K: 2, FragmentLength: 4, Rand: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// 2 samples x 2 chunks, each chunk matches all 16 columns; denominator 2*3.
	for j := 0; j < m.Cols; j++ {
		if got := m.At(0, j); math.Abs(got-4.0/6.0) > 1e-12 {
			t.Fatalf("column %s = %v, want %v", m.Kmers[j], got, 4.0/6.0)
		}
	}
}

func TestBuildTabSeparatedHeaders(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := ">seq1\tsome description\n" + randomSeq(rng, 200) + "\n>seq2\tmore\ttabs\n" + randomSeq(rng, 300) + "\n"
	st := openStore(t, data)
	st.SetMinimumLength(100)
	m, err := Build(context.Background(), st, Options{K: 3, FragmentLength: 100, Rand: rand.New(rand.NewSource(1)), Threads: 2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reflect.DeepEqual(m.IDs, []string{"seq1", "seq2"}) {
		t.Fatalf("ids %q", m.IDs)
	}
}

func TestBuildIndependentOfThreads(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString(">s" + strconv.Itoa(i) + "\n" + randomSeq(rng, 600+rng.Intn(900)) + "\n")
	}
	b.WriteString(">tiny\nACGT\n")
	st := openStore(t, b.String())
	st.SetMinimumLength(300)

	run := func(threads int) *Matrix {
		m, err := Build(context.Background(), st, Options{
			K: 3, FragmentLength: 300, Threads: threads, Rand: rand.New(rand.NewSource(99)),
		})
		if err != nil {
			t.Fatalf("Build(threads=%d): %v", threads, err)
		}
		return m
	}
	serial, parallel := run(1), run(4)
	if serial.Rows != 12 || strings.Join(serial.IDs, ",") != strings.Join(st.RetainedIdentifiers(), ",") {
		t.Fatalf("rows = %v", serial.IDs)
	}
	for i := range serial.Data {
		if serial.Data[i] != parallel.Data[i] {
			t.Fatalf("cell %d differs: %v vs %v", i, serial.Data[i], parallel.Data[i])
		}
		if serial.Data[i] < 0 || serial.Data[i] > 1 {
			t.Fatalf("cell %d = %v outside [0,1]", i, serial.Data[i])
		}
	}
}

func TestBuildProgress(t *testing.T) {
	st := openStore(t, ">a\n"+strings.Repeat("acgt", 50)+"\n>b\n"+strings.Repeat("ggcc", 50)+"\n")
	st.SetMinimumLength(100)
	var calls []int
	_, err := Build(context.Background(), st, Options{
		K: 2, FragmentLength: 100, Threads: 2, Rand: rand.New(rand.NewSource(1)),
		Progress: func(done, total int) {
			if total != 2 {
				t.Errorf("total = %d", total)
			}
			calls = append(calls, done)
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(calls) != 2 || calls[1] != 2 {
		t.Fatalf("progress calls = %v", calls)
	}
}

func TestBuildParameterErrors(t *testing.T) {
	st := openStore(t, ">a\n"+strings.Repeat("acgt", 10)+"\n>b\nacgtacgt\n")
	ctx := context.Background()

	if _, err := Build(ctx, st, Options{K: 4, FragmentLength: 3}); !errors.Is(err, oligoerr.ErrParameter) {
		t.Fatalf("fragment < k: want ParameterError, got %v", err)
	}
	// Minimum length left at 1: record b is shorter than the fragment.
	if _, err := Build(ctx, st, Options{K: 2, FragmentLength: 20}); !errors.Is(err, oligoerr.ErrParameter) {
		t.Fatalf("short record: want ParameterError, got %v", err)
	}
	st.SetMinimumLength(100)
	if _, err := Build(ctx, st, Options{K: 2, FragmentLength: 100}); !errors.Is(err, oligoerr.ErrParameter) {
		t.Fatalf("nothing retained: want ParameterError, got %v", err)
	}
	if _, err := Build(ctx, st, Options{K: 0, FragmentLength: 10}); !errors.Is(err, oligoerr.ErrParameter) {
		t.Fatalf("k=0: want ParameterError, got %v", err)
	}
}

func TestBuildCancelled(t *testing.T) {
	st := openStore(t, ">a\n"+strings.Repeat("acgt", 50)+"\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, st, Options{K: 2, FragmentLength: 50}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

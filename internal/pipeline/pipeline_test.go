package pipeline

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"oligo/core/oligoerr"
	"oligo/internal/indexcache"
)

func writeFasta(t *testing.T, dir, name string, seqs map[string]int, order []string) string {
	t.Helper()
	rng := rand.New(rand.NewSource(int64(len(name))))
	var b strings.Builder
	for _, id := range order {
		b.WriteString(">" + id + "\n")
		s := make([]byte, seqs[id])
		for i := range s {
			s[i] = "ACGT"[rng.Intn(4)]
		}
		b.Write(s)
		b.WriteString("\n")
	}
	fn := filepath.Join(dir, name)
	if err := os.WriteFile(fn, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return fn
}

func TestForEachFileBuildsMatrixPerFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFasta(t, dir, "a.fa", map[string]int{"x": 400, "short": 50, "y": 700}, []string{"x", "short", "y"})
	b := writeFasta(t, dir, "b.fa", map[string]int{"z": 300}, []string{"z"})

	cfg := Config{OligoLength: 2, FragmentLength: 200, Threads: 2, Seed: 9}
	var got []Result
	err := ForEachFile(context.Background(), cfg, []string{a, b}, func(r Result) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachFile: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("%d results", len(got))
	}
	if got[0].SourceFile != a || got[1].SourceFile != b {
		t.Fatalf("order: %s, %s", got[0].SourceFile, got[1].SourceFile)
	}
	if ids := got[0].Matrix.IDs; !reflect.DeepEqual(ids, []string{"x", "y"}) {
		t.Fatalf("rows of a.fa = %v", ids)
	}
	if len(got[0].Entries) != 3 || got[0].MinimumLength != 200 {
		t.Fatalf("index of a.fa: %+v", got[0].Entries)
	}
	if got[0].Seed != 9 || got[1].Seed == 9 {
		t.Fatalf("seeds %d %d", got[0].Seed, got[1].Seed)
	}
	if got[1].Matrix.Rows != 1 || got[1].Matrix.Cols != 16 {
		t.Fatalf("b.fa shape %dx%d", got[1].Matrix.Rows, got[1].Matrix.Cols)
	}
}

func TestForEachFileRepeatable(t *testing.T) {
	dir := t.TempDir()
	a := writeFasta(t, dir, "a.fa", map[string]int{"x": 900, "y": 1200}, []string{"x", "y"})
	cache, err := indexcache.Open(filepath.Join(dir, "idx.db"))
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	defer cache.Close()

	run := func(threads int) []float64 {
		var data []float64
		cfg := Config{OligoLength: 3, FragmentLength: 250, Threads: threads, Seed: 1234, Cache: cache}
		if err := ForEachFile(context.Background(), cfg, []string{a}, func(r Result) error {
			data = r.Matrix.Data
			return nil
		}); err != nil {
			t.Fatalf("ForEachFile: %v", err)
		}
		return data
	}
	first, second := run(1), run(3)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same seed produced different matrices")
	}
	if cache.Len() != 1 {
		t.Fatalf("cache entries = %d", cache.Len())
	}
}

func TestIndexOnly(t *testing.T) {
	a := writeFasta(t, t.TempDir(), "a.fa", map[string]int{"x": 10, "y": 30}, []string{"x", "y"})
	var res Result
	err := ForEachFile(context.Background(), Config{OligoLength: 4, FragmentLength: 20, IndexOnly: true}, []string{a}, func(r Result) error {
		res = r
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachFile: %v", err)
	}
	if res.Matrix != nil || len(res.Entries) != 2 || res.Entries[1].Length != 30 {
		t.Fatalf("result %+v", res)
	}
}

func TestFirstErrorStops(t *testing.T) {
	dir := t.TempDir()
	good := writeFasta(t, dir, "a.fa", map[string]int{"x": 300}, []string{"x"})
	calls := 0
	err := ForEachFile(context.Background(), Config{OligoLength: 2, FragmentLength: 100},
		[]string{filepath.Join(dir, "missing.fa"), good},
		func(Result) error { calls++; return nil })
	if !errors.Is(err, oligoerr.ErrFileAccess) {
		t.Fatalf("want FileAccessError, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("visit called %d times after failure", calls)
	}
}

func TestNothingRetainedIsParameterError(t *testing.T) {
	a := writeFasta(t, t.TempDir(), "a.fa", map[string]int{"x": 30}, []string{"x"})
	err := ForEachFile(context.Background(), Config{OligoLength: 2, FragmentLength: 100}, []string{a}, func(Result) error { return nil })
	if !errors.Is(err, oligoerr.ErrParameter) || !strings.Contains(err.Error(), "a.fa") {
		t.Fatalf("want ParameterError naming the file, got %v", err)
	}
}

func TestCancelled(t *testing.T) {
	a := writeFasta(t, t.TempDir(), "a.fa", map[string]int{"x": 300}, []string{"x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForEachFile(ctx, Config{OligoLength: 2, FragmentLength: 100}, []string{a}, func(Result) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

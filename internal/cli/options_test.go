package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"oligo/internal/config"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		mod  func(*Options)
		want string
	}{
		{"defaults kmeans", CmdKMeans, func(*Options) {}, ""},
		{"defaults index", CmdIndex, func(*Options) {}, ""},
		{"negative threads", CmdAIB, func(o *Options) { o.Threads = -1 }, "--threads"},
		{"zero clusters", CmdKMeans, func(o *Options) { o.Clusters = 0 }, "--clusters"},
		{"zero clusters ignored by aib", CmdAIB, func(o *Options) { o.Clusters = 0 }, ""},
		{"zero iterations", CmdKMeans, func(o *Options) { o.MaxIterations = 0 }, "--max-iterations"},
		{"unknown output", CmdMatrix, func(o *Options) { o.Output = "xml" }, "--output"},
		{"jsonl tree", CmdAIB, func(o *Options) { o.Output = "jsonl" }, ""},
		{"output unchecked for version", "version", func(o *Options) { o.Output = "xml" }, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := Defaults()
			tc.mod(&o)
			err := o.Validate(tc.cmd)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("got %v, want mention of %s", err, tc.want)
			}
		})
	}
}

type call struct {
	cmd string
	o   Options
}

func execute(t *testing.T, argv ...string) (*call, string, error) {
	t.Helper()
	var got *call
	var out, errBuf bytes.Buffer
	code := 0
	root := NewRootCommand(&out, &errBuf, func(_ context.Context, cmd string, o Options) int {
		got = &call{cmd: cmd, o: o}
		return 7
	}, &code)
	root.SetArgs(argv)
	err := root.ExecuteContext(context.Background())
	if got != nil && code != 7 {
		t.Fatalf("handler code not propagated: %d", code)
	}
	return got, out.String(), err
}

func TestFlagsReachHandler(t *testing.T) {
	got, _, err := execute(t, "kmeans", "-k", "3", "-l", "800", "-n", "4", "--max-iterations", "20",
		"--seed", "99", "-t", "2", "-o", "json", "-q", "a.fa", "b.fa")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := Options{
		SeqFiles: []string{"a.fa", "b.fa"}, OligoLength: 3, FragmentLength: 800, Seed: 99, Threads: 2,
		Clusters: 4, MaxIterations: 20, Output: "json", Quiet: true,
	}
	if got.cmd != CmdKMeans || !reflect.DeepEqual(got.o, want) {
		t.Fatalf("got %s %+v\nwant %+v", got.cmd, got.o, want)
	}
}

func TestDefaultsReachHandler(t *testing.T) {
	got, _, err := execute(t, "aib", "x.fa")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := Defaults()
	want.SeqFiles = []string{"x.fa"}
	if got.cmd != CmdAIB || !reflect.DeepEqual(got.o, want) {
		t.Fatalf("got %+v", got.o)
	}
}

func TestGlobPositionals(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.fa", "a.fa", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(">x\nacgt\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, _, err := execute(t, "index", filepath.Join(dir, "*.fa"))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := []string{filepath.Join(dir, "a.fa"), filepath.Join(dir, "b.fa")}
	if !reflect.DeepEqual(got.o.SeqFiles, want) {
		t.Fatalf("files %v, want %v", got.o.SeqFiles, want)
	}

	if _, _, err := execute(t, "index", filepath.Join(dir, "*.fq")); err == nil {
		t.Fatal("empty glob accepted")
	}
}

func TestConfigFileFillsUnsetFlags(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "oligo.toml")
	body := "oligo-length = 5\nfragment-length = 1000\nclusters = 3\nthreads = 6\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	got, _, err := execute(t, "kmeans", "--config", cfg, "-t", "1", "a.fa")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.o.OligoLength != 5 || got.o.FragmentLength != 1000 || got.o.Clusters != 3 {
		t.Fatalf("config not applied: %+v", got.o)
	}
	if got.o.Threads != 1 {
		t.Fatalf("flag lost to config: threads=%d", got.o.Threads)
	}

	// clusters has no flag on aib and is skipped.
	got, _, err = execute(t, "aib", "--config", cfg, "a.fa")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.o.OligoLength != 5 || got.o.Threads != 6 {
		t.Fatalf("config not applied: %+v", got.o)
	}
}

func TestConfigCommandPrintsSettings(t *testing.T) {
	got, out, err := execute(t, "config", "-k", "6", "-n", "12")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != nil {
		t.Fatal("config must not run an analysis")
	}
	for _, want := range []string{"oligo-length = 6", "clusters = 12", "fragment-length = 5000"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	for _, argv := range [][]string{
		{"aib"},
		{"aib", "--clusters", "3", "a.fa"},
		{"kmeans", "-n", "0", "a.fa"},
		{"matrix", "-o", "csv", "a.fa"},
		{"index", "-"},
		{"aib", "--config", filepath.Join(t.TempDir(), "none.toml"), "a.fa"},
		{"version", "extra"},
	} {
		got, _, err := execute(t, argv...)
		if err == nil {
			t.Fatalf("%v: no error", argv)
		}
		if got != nil {
			t.Fatalf("%v: handler ran", argv)
		}
	}
}

func TestDefaultsConfigFileRoundTrip(t *testing.T) {
	o := Defaults()
	data, err := config.Marshal(o.ConfigFile())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	fn := filepath.Join(t.TempDir(), "defaults.toml")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := config.Load(fn)
	if err != nil {
		t.Fatalf("Load(%s): %v", data, err)
	}
	got := f.Values()
	if got["oligo-length"] != "4" || got["fragment-length"] != "5000" || got["clusters"] != "10" || got["max-iterations"] != "100" {
		t.Fatalf("defaults lost: %v", got)
	}
	if len(got) != 11 {
		t.Fatalf("want all 11 keys, got %d: %v", len(got), got)
	}
}

// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"

	"oligo/internal/config"
	"oligo/internal/writers"
)

// Subcommands
const (
	CmdKMeans = "kmeans"
	CmdAIB    = "aib"
	CmdMatrix = "matrix"
	CmdIndex  = "index"
)

// Options holds all CLI flags and arguments.
type Options struct {
	SeqFiles []string

	// Sampling
	OligoLength    int
	FragmentLength int
	Seed           int64
	Threads        int

	// k-means
	Clusters      int
	MaxIterations int

	// Output / misc
	Output     string
	IndexCache string
	Config     string
	Quiet      bool
	Debug      bool
	Progress   bool
}

// Defaults are the built-in settings, before any config file or flag.
func Defaults() Options {
	return Options{
		OligoLength:    4,
		FragmentLength: 5000,
		Clusters:       10,
		MaxIterations:  100,
		Output:         writers.FormatText,
	}
}

// kind maps a subcommand to the payload its writer produces.
func kind(cmd string) string {
	switch cmd {
	case CmdKMeans:
		return writers.KindAssignment
	case CmdAIB:
		return writers.KindTree
	case CmdMatrix:
		return writers.KindMatrix
	case CmdIndex:
		return writers.KindIndex
	}
	return ""
}

// Validate checks the flag values that do not depend on the input.
// Oligo and fragment lengths are checked by appcore before any file is read.
func (o *Options) Validate(cmd string) error {
	if o.Threads < 0 {
		return errors.New("--threads must be >= 0")
	}
	if cmd == CmdKMeans {
		if o.Clusters < 1 {
			return errors.New("--clusters must be >= 1")
		}
		if o.MaxIterations < 1 {
			return errors.New("--max-iterations must be >= 1")
		}
	}
	if k := kind(cmd); k != "" {
		if err := writers.Validate(k, o.Output); err != nil {
			return fmt.Errorf("--output: %w", err)
		}
	}
	return nil
}

// ConfigFile renders o as a config file.
func (o *Options) ConfigFile() *config.File {
	return &config.File{
		OligoLength:    &o.OligoLength,
		FragmentLength: &o.FragmentLength,
		Seed:           &o.Seed,
		Threads:        &o.Threads,
		Clusters:       &o.Clusters,
		MaxIterations:  &o.MaxIterations,
		Output:         &o.Output,
		IndexCache:     &o.IndexCache,
		Quiet:          &o.Quiet,
		Debug:          &o.Debug,
		Progress:       &o.Progress,
	}
}

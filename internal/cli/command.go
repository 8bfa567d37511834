// internal/cli/command.go
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"oligo/internal/cliutil"
	"oligo/internal/cmdutil"
	"oligo/internal/config"
	"oligo/internal/version"
)

// Handler runs one analysis subcommand once flags, config file and
// positionals are resolved, and returns the process exit code.
type Handler func(ctx context.Context, cmd string, o Options) int

// NewRootCommand builds the oligo command tree. The exit code of the
// subcommand that ran is stored in *code.
func NewRootCommand(stdout, stderr io.Writer, run Handler, code *int) *cobra.Command {
	o := Defaults()

	root := &cobra.Command{
		Use:   "oligo",
		Short: "Cluster DNA sequences by oligonucleotide usage",
		Long: `oligo samples fixed-length fragments from every sequence in a FASTA file,
counts k-mer (oligonucleotide) usage, and clusters the sequences either
with k-means or with the agglomerative information bottleneck (AIB),
which yields a Newick tree.

Sequences shorter than --fragment-length are skipped.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.Config != "" {
				if err := applyConfig(cmd, o.Config); err != nil {
					return err
				}
			}
			cmdutil.SetupLogging(stderr, o.Quiet, o.Debug)
			return o.Validate(cmd.Name())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("oligo version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.IntVarP(&o.OligoLength, "oligo-length", "k", o.OligoLength, "oligonucleotide (k-mer) length")
	pf.IntVarP(&o.FragmentLength, "fragment-length", "l", o.FragmentLength, "sampled fragment length; also the minimum sequence length")
	pf.Int64Var(&o.Seed, "seed", o.Seed, "random seed (0 = from the clock)")
	pf.IntVarP(&o.Threads, "threads", "t", o.Threads, "counting threads (0 = all CPUs)")
	pf.StringVarP(&o.Output, "output", "o", o.Output, "output format: text | json | jsonl")
	pf.StringVar(&o.IndexCache, "index-cache", o.IndexCache, "bbolt file caching FASTA indexes between runs")
	pf.StringVar(&o.Config, "config", o.Config, "TOML file with default flag values")
	pf.BoolVarP(&o.Quiet, "quiet", "q", o.Quiet, "only log errors")
	pf.BoolVar(&o.Debug, "debug", o.Debug, "log matrix rows, centers and merge costs")
	pf.BoolVar(&o.Progress, "progress", o.Progress, "draw a progress bar per file on stderr")

	analysis := func(name, short, long string) *cobra.Command {
		return &cobra.Command{
			Use:   name + " <fasta>...",
			Short: short,
			Long:  long,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				files, err := cliutil.ExpandPositionals(args)
				if err != nil {
					return err
				}
				o.SeqFiles = files
				*code = run(cmd.Context(), name, o)
				return nil
			},
		}
	}

	kmeans := analysis(CmdKMeans, "Partition sequences with k-means",
		"Prints one line per sequence: identifier, cluster index and squared distance to the cluster center.")
	kmeansFlags := func(c *cobra.Command) {
		c.Flags().IntVarP(&o.Clusters, "clusters", "n", o.Clusters, "number of clusters (clamped to the sequence count)")
		c.Flags().IntVar(&o.MaxIterations, "max-iterations", o.MaxIterations, "k-means iteration limit")
	}
	kmeansFlags(kmeans)

	aib := analysis(CmdAIB, "Build a Newick tree with the information bottleneck",
		"Merges sequences pairwise, always losing the least mutual information, and prints the merge tree in Newick form.")
	matrix := analysis(CmdMatrix, "Print the k-mer usage matrix",
		"Prints the normalized oligonucleotide usage of every retained sequence.")
	index := analysis(CmdIndex, "Print the sequence index",
		"Prints identifier, length and byte offset of every record, and whether it is long enough to be sampled.")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "oligo version %s\n", version.Version)
			return err
		},
	}
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as a TOML config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(o.ConfigFile())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	kmeansFlags(configCmd)

	root.AddCommand(kmeans, aib, matrix, index, versionCmd, configCmd)
	return root
}

// applyConfig copies values from the TOML file into every flag of cmd that
// was not given on the command line.
func applyConfig(cmd *cobra.Command, path string) error {
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	for name, val := range f.Values() {
		fl := flags.Lookup(name)
		if fl == nil || fl.Changed {
			continue
		}
		if err := flags.Set(name, val); err != nil {
			return fmt.Errorf("%s: %s: %w", path, name, err)
		}
	}
	return nil
}

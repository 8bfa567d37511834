// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"

	"oligo/internal/appcore"
	"oligo/internal/cli"
	"oligo/internal/visitors"
	"oligo/internal/writers"
)

// RunContext parses argv, runs the selected subcommand and returns the exit
// code: 0 ok, 2 usage or parameter error, 3 I/O or processing failure,
// 130 cancelled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	code := 0
	root := cli.NewRootCommand(stdout, stderr, dispatch(stdout, stderr), &code)
	root.SetArgs(argv)
	if err := root.ExecuteContext(parent); err != nil {
		if writers.IsBrokenPipe(err) {
			return 0
		}
		_, _ = fmt.Fprintln(stderr, "error:", err)
		_, _ = fmt.Fprintln(stderr, "Run 'oligo --help' for usage.")
		return 2
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func dispatch(stdout, stderr io.Writer) cli.Handler {
	return func(ctx context.Context, cmd string, o cli.Options) int {
		coreOpts := appcore.Options{
			SeqFiles:       o.SeqFiles,
			OligoLength:    o.OligoLength,
			FragmentLength: o.FragmentLength,
			Seed:           o.Seed,
			Threads:        o.Threads,
			IndexCache:     o.IndexCache,
			Progress:       o.Progress,
			Quiet:          o.Quiet,
		}
		switch cmd {
		case cli.CmdKMeans:
			v := visitors.KMeans{Clusters: o.Clusters, MaxIterations: o.MaxIterations}
			return appcore.Run[writers.Partition](ctx, stdout, stderr, coreOpts, v.Visit, appcore.AssignmentWriterFactory{Format: o.Output})
		case cli.CmdAIB:
			return appcore.Run[writers.Tree](ctx, stdout, stderr, coreOpts, visitors.AIB{}.Visit, appcore.TreeWriterFactory{Format: o.Output})
		case cli.CmdMatrix:
			return appcore.Run[writers.Matrix](ctx, stdout, stderr, coreOpts, visitors.Matrix, appcore.MatrixWriterFactory{Format: o.Output})
		case cli.CmdIndex:
			return appcore.Run[writers.Index](ctx, stdout, stderr, coreOpts, visitors.Index, appcore.IndexWriterFactory{Format: o.Output})
		}
		_, _ = fmt.Fprintf(stderr, "error: unknown command %q\n", cmd)
		return 2
	}
}

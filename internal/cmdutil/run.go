package cmdutil

import (
	"context"

	"oligo/internal/pipeline"
)

// RunStream runs the per-file pipeline, applies a visitor to each result,
// and streams the visitor's output via send.
// It returns the number of outputs sent and the first error encountered.
func RunStream[T any](
	ctx context.Context,
	cfg pipeline.Config,
	seqFiles []string,
	visit func(pipeline.Result) (T, error),
	send func(T) error,
) (int, error) {
	total := 0
	err := pipeline.ForEachFile(ctx, cfg, seqFiles, func(r pipeline.Result) error {
		out, err := visit(r)
		if err != nil {
			return err
		}
		if err := send(out); err != nil {
			return err
		}
		total++
		return nil
	})
	return total, err
}

// internal/writers/stream.go
package writers

import (
	"encoding/json"
	"io"

	"oligo/internal/jsonlutil"
	"oligo/internal/jsonutil"
)

// codec is the presentation of one payload type.
type codec[T any] struct {
	kind string
	text func(io.Writer, T) error
	wire func(T) []any // pkg/api values; one JSONL line each
}

// start spins up the writer goroutine for format. The returned channel is
// always drained, even after a write error, so senders never block.
func start[T any](out io.Writer, format string, bufSize int, c codec[T]) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	if format == FormatJSONL && Validate(c.kind, format) == nil {
		return jsonlutil.Start[T](out, bufSize,
			func(enc *json.Encoder, v T) error {
				for _, x := range c.wire(v) {
					if err := enc.Encode(x); err != nil {
						return err
					}
				}
				return nil
			},
			IsBrokenPipe,
		)
	}

	in := make(chan T, bufSize)
	errCh := make(chan error, 1)
	go func() {
		err := Validate(c.kind, format)
		switch {
		case err != nil:
			for range in {
			}
		case format == FormatJSON:
			all := []any{}
			for v := range in {
				all = append(all, c.wire(v)...)
			}
			err = jsonutil.EncodePretty(out, all)
		default:
			for v := range in {
				if err == nil {
					err = c.text(out, v)
				}
			}
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()
	return in, errCh
}

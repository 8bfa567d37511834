// Package progress draws a per-file progress bar for matrix construction.
package progress

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

// Bar is created lazily on the first report, once the total is known.
// A nil *Bar or a disabled one ignores every call.
type Bar struct {
	w       io.Writer
	label   string
	enabled bool
	bar     *pb.ProgressBar
}

// New returns a bar that will draw to w under label when enabled.
func New(w io.Writer, label string, enabled bool) *Bar {
	return &Bar{w: w, label: label, enabled: enabled}
}

// Report is shaped to be used as kmer.Options.Progress.
func (b *Bar) Report(done, total int) {
	if b == nil || !b.enabled {
		return
	}
	if b.bar == nil {
		b.bar = pb.New(total)
		b.bar.SetWriter(b.w)
		b.bar.Set("prefix", b.label+" ")
		b.bar.Start()
	}
	b.bar.SetCurrent(int64(done))
}

// Callback returns Report, or nil when the bar is disabled so callers skip
// progress bookkeeping entirely.
func (b *Bar) Callback() func(done, total int) {
	if b == nil || !b.enabled {
		return nil
	}
	return b.Report
}

// Finish completes and releases the bar if one was drawn.
func (b *Bar) Finish() {
	if b == nil || b.bar == nil {
		return
	}
	b.bar.Finish()
	b.bar = nil
}

// core/fasta/index.go
package fasta

import (
	"bufio"
	"bytes"
	"io"

	"oligo/core/oligoerr"
)

// BuildIndex scans r once and returns one Entry per marker line, in file order.
// Length counts sequence characters only; line endings and other whitespace
// are not part of the sequence. Non-blank data before the first marker line is
// a FormatError, as is a marker line without an identifier.
func BuildIndex(r io.Reader) ([]Entry, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	var (
		entries  []Entry
		off      int64
		atStart  = true // chunk begins a new line
		inHeader bool   // current line is a marker line not yet complete
		header   []byte
	)

	finishHeader := func() error {
		inHeader = false
		f := bytes.Fields(header[1:])
		if len(f) == 0 {
			return oligoerr.Format("record at offset %d has no identifier", entries[len(entries)-1].Offset)
		}
		entries[len(entries)-1].ID = string(f[0])
		return nil
	}

	for {
		chunk, err := br.ReadSlice('\n')
		if len(chunk) > 0 {
			if atStart && chunk[0] == Marker {
				entries = append(entries, Entry{Offset: off})
				inHeader = true
				header = header[:0]
			}
			switch {
			case inHeader:
				header = append(header, chunk...)
			case len(entries) > 0:
				entries[len(entries)-1].Length += seqLen(chunk)
			case seqLen(chunk) > 0:
				return nil, oligoerr.Format("sequence data at offset %d precedes the first header", off)
			}
			off += int64(len(chunk))
			atStart = chunk[len(chunk)-1] == '\n'
			if atStart && inHeader {
				if ferr := finishHeader(); ferr != nil {
					return nil, ferr
				}
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, oligoerr.FileAccess(err, "read at offset %d", off)
		}
	}
	if inHeader {
		if err := finishHeader(); err != nil {
			return nil, err
		}
	}
	if len(entries) == 0 {
		return nil, oligoerr.Format("no %q header lines found", Marker)
	}
	return entries, nil
}

// seqLen counts the non-whitespace bytes of a sequence line.
func seqLen(line []byte) int {
	n := 0
	for _, c := range line {
		switch c {
		case ' ', '\t', '\r', '\n', '\v', '\f':
		default:
			n++
		}
	}
	return n
}

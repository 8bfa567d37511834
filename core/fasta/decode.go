// core/fasta/decode.go
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"

	"oligo/core/oligoerr"
)

// decodeOne parses exactly one record from r, which must start at a marker
// line and end before the next one. offset is used for error messages only.
func decodeOne(r io.Reader, e Entry) (Record, error) {
	if e.Length == 0 {
		return decodeHeaderOnly(r, e)
	}
	fr, err := fastx.NewReaderFromIO(seq.Unlimit, r, "")
	if err != nil {
		return Record{}, oligoerr.Format("record at offset %d: %v", e.Offset, err)
	}
	rec, err := fr.Read()
	if err != nil {
		if err == io.EOF {
			return Record{}, oligoerr.Format("no record at offset %d", e.Offset)
		}
		return Record{}, oligoerr.Format("record at offset %d: %v", e.Offset, err)
	}
	// fastx splits the header on the first space only; the index splits on
	// any whitespace, so the identifier is taken from the full header here.
	name := string(rec.Name)
	f := strings.Fields(name)
	if len(f) == 0 {
		return Record{}, oligoerr.Format("record at offset %d has no identifier", e.Offset)
	}
	return Record{
		ID:          f[0],
		Description: description(name, f[0]),
		Seq:         string(stripSpace(rec.Seq.Seq)),
	}, nil
}

// decodeHeaderOnly handles records that carry no sequence lines.
func decodeHeaderOnly(r io.Reader, e Entry) (Record, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return Record{}, oligoerr.FileAccess(err, "read at offset %d", e.Offset)
	}
	if len(line) == 0 || line[0] != Marker {
		return Record{}, oligoerr.Format("no record at offset %d", e.Offset)
	}
	name := strings.TrimRight(line[1:], "\r\n")
	f := strings.Fields(name)
	if len(f) == 0 {
		return Record{}, oligoerr.Format("record at offset %d has no identifier", e.Offset)
	}
	return Record{ID: f[0], Description: description(name, f[0])}, nil
}

// description is the header text after the identifier and its separator,
// without the line ending.
func description(name, id string) string {
	name = strings.TrimLeft(name, " \t")
	name = strings.TrimRight(strings.TrimPrefix(name, id), "\r\n")
	return strings.TrimLeft(name, " \t")
}

func stripSpace(b []byte) []byte {
	if bytes.IndexAny(b, " \t\r\n\v\f") < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n', '\v', '\f':
		default:
			out = append(out, c)
		}
	}
	return out
}

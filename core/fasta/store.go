// core/fasta/store.go
package fasta

import (
	"io"
	"os"
	"sort"

	"oligo/core/oligoerr"
)

// Store is an indexed, random-access view of one FASTA file.
//
// The index ({id, length, offset} per record) is built once by Open and never
// changes. The minimum length is a query-time filter applied by
// RetainedCount, RetainedIdentifiers and Iterator; it does not touch the index.
//
// A Store is not safe for concurrent use.
type Store struct {
	path    string
	fh      *os.File
	size    int64
	entries []Entry
	minLen  int
}

// Open indexes path. It fails with a FileAccessError when the file cannot be
// read and with a FormatError when it contains no header lines. No partial
// Store is returned.
func Open(path string) (*Store, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, oligoerr.FileAccess(err, "open %s", path)
	}
	entries, err := BuildIndex(fh)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	return newStore(path, fh, entries)
}

// OpenIndexed opens path with an index computed earlier (for example by a
// cache). Every offset must point at a marker line.
func OpenIndexed(path string, entries []Entry) (*Store, error) {
	if len(entries) == 0 {
		return nil, oligoerr.Format("empty index for %s", path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, oligoerr.FileAccess(err, "open %s", path)
	}
	var b [1]byte
	for i, e := range entries {
		if i > 0 && e.Offset <= entries[i-1].Offset {
			_ = fh.Close()
			return nil, oligoerr.Format("%s: index offsets not increasing at entry %d", path, i)
		}
		if _, err := fh.ReadAt(b[:], e.Offset); err != nil || b[0] != Marker {
			_ = fh.Close()
			return nil, oligoerr.Format("%s: offset %d is not a header line", path, e.Offset)
		}
	}
	return newStore(path, fh, append([]Entry(nil), entries...))
}

func newStore(path string, fh *os.File, entries []Entry) (*Store, error) {
	st, err := fh.Stat()
	if err != nil {
		_ = fh.Close()
		return nil, oligoerr.FileAccess(err, "stat %s", path)
	}
	return &Store{path: path, fh: fh, size: st.Size(), entries: entries, minLen: 1}, nil
}

// Close releases the file handle.
func (s *Store) Close() error { return s.fh.Close() }

// Path is the file the store was opened from.
func (s *Store) Path() string { return s.path }

// SetMinimumLength sets the query-time length filter.
func (s *Store) SetMinimumLength(n int) { s.minLen = n }

// MinimumLength returns the current filter (1 by default).
func (s *Store) MinimumLength() int { return s.minLen }

// Len is the number of indexed records, ignoring the filter.
func (s *Store) Len() int { return len(s.entries) }

// Entries returns a copy of the full index in file order.
func (s *Store) Entries() []Entry { return append([]Entry(nil), s.entries...) }

// Retained returns the index entries passing the length filter, in file order.
func (s *Store) Retained() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Length >= s.minLen {
			out = append(out, e)
		}
	}
	return out
}

// RetainedCount is the number of records with length >= the minimum.
func (s *Store) RetainedCount() int {
	n := 0
	for _, e := range s.entries {
		if e.Length >= s.minLen {
			n++
		}
	}
	return n
}

// RetainedIdentifiers lists the identifiers passing the filter, in file order.
func (s *Store) RetainedIdentifiers() []string {
	ids := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Length >= s.minLen {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// FetchAt decodes the record whose header starts at offset. The offset must
// be one recorded in the index. FetchAt does not disturb any Iterator.
func (s *Store) FetchAt(offset int64) (Record, error) {
	i := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].Offset >= offset })
	if i == len(s.entries) || s.entries[i].Offset != offset {
		return Record{}, oligoerr.Format("%s: offset %d is not an indexed record", s.path, offset)
	}
	return s.decodeEntry(s.fh, i)
}

// decodeEntry reads entry i through r (any io.ReaderAt over the same file).
func (s *Store) decodeEntry(r io.ReaderAt, i int) (Record, error) {
	e := s.entries[i]
	end := s.size
	if i+1 < len(s.entries) {
		end = s.entries[i+1].Offset
	}
	return decodeOne(io.NewSectionReader(r, e.Offset, end-e.Offset), e)
}

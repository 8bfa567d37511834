// core/fasta/iterator.go
package fasta

import (
	"io"
	"os"

	"oligo/core/oligoerr"
)

// Iterator walks the records of a Store that pass its length filter, in file
// order. It owns a separate file handle, so FetchAt calls on the Store do not
// affect it. The filter is read on every Next call.
type Iterator struct {
	st  *Store
	fh  *os.File
	cur int
}

// Iterator opens a new handle on the store's file.
func (s *Store) Iterator() (*Iterator, error) {
	fh, err := os.Open(s.path)
	if err != nil {
		return nil, oligoerr.FileAccess(err, "open %s", s.path)
	}
	return &Iterator{st: s, fh: fh}, nil
}

// Next returns the next retained record, or io.EOF after the last one.
func (it *Iterator) Next() (Record, error) {
	for it.cur < len(it.st.entries) && it.st.entries[it.cur].Length < it.st.minLen {
		it.cur++
	}
	if it.cur >= len(it.st.entries) {
		return Record{}, io.EOF
	}
	rec, err := it.st.decodeEntry(it.fh, it.cur)
	if err != nil {
		return Record{}, err
	}
	it.cur++
	return rec, nil
}

// Reset rewinds to the first record. The index is not rebuilt.
func (it *Iterator) Reset() error {
	if _, err := it.fh.Seek(0, io.SeekStart); err != nil {
		return oligoerr.FileAccess(err, "seek %s", it.st.path)
	}
	it.cur = 0
	return nil
}

// Close releases the iterator's file handle.
func (it *Iterator) Close() error { return it.fh.Close() }

// ForEach calls fn for every retained record in file order.
func (s *Store) ForEach(fn func(Record) error) error {
	it, err := s.Iterator()
	if err != nil {
		return err
	}
	defer func() { _ = it.Close() }()
	for {
		rec, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

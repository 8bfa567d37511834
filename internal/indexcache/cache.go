// Package indexcache keeps FASTA indexes in a bbolt file so that a repeated
// run over an unchanged input skips the index scan.
package indexcache

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
	"golang.org/x/crypto/blake2b"

	"oligo/core/fasta"
	"oligo/core/oligoerr"
)

var bucketIndex = []byte("index")

// Cache is safe for use by one process at a time; bbolt holds a file lock.
type Cache struct {
	db *bbolt.DB
}

type record struct {
	Path    string        `json:"path"`
	Size    int64         `json:"size"`
	ModTime int64         `json:"mtime_ns"`
	Entries []fasta.Entry `json:"entries"`
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, oligoerr.FileAccess(err, "open index cache %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketIndex)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, oligoerr.FileAccess(err, "init index cache %s", path)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Fingerprint keys a file by its absolute path, size and modification time.
// Any rewrite of the file changes the key.
func Fingerprint(path string) ([]byte, os.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, oligoerr.FileAccess(err, "resolve %s", path)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, nil, oligoerr.FileAccess(err, "stat %s", path)
	}
	h, _ := blake2b.New256(nil)
	_, _ = h.Write([]byte(abs))
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(fi.Size()))
	binary.LittleEndian.PutUint64(buf[8:], uint64(fi.ModTime().UnixNano()))
	_, _ = h.Write(buf[:])
	return h.Sum(nil), fi, nil
}

// Lookup returns the cached index for path, if one matches its fingerprint.
func (c *Cache) Lookup(path string) ([]fasta.Entry, bool, error) {
	key, _, err := Fingerprint(path)
	if err != nil {
		return nil, false, err
	}
	var rec record
	found := false
	err = c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketIndex).Get(key)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, false, errors.Wrapf(err, "index cache entry for %s", path)
	}
	if !found {
		return nil, false, nil
	}
	return rec.Entries, true, nil
}

// Put stores entries as the index of path.
func (c *Cache) Put(path string, entries []fasta.Entry) error {
	key, fi, err := Fingerprint(path)
	if err != nil {
		return err
	}
	abs, _ := filepath.Abs(path)
	data, err := json.Marshal(record{Path: abs, Size: fi.Size(), ModTime: fi.ModTime().UnixNano(), Entries: entries})
	if err != nil {
		return errors.Wrap(err, "encode index")
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketIndex).Put(key, data)
	})
}

// Len is the number of cached indexes.
func (c *Cache) Len() int {
	n := 0
	_ = c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketIndex).Stats().KeyN
		return nil
	})
	return n
}

// OpenStore opens path through the cache: a hit skips the index scan, a
// miss or a stale entry scans the file and refreshes the cache. A nil
// *Cache opens the file directly.
func (c *Cache) OpenStore(path string) (*fasta.Store, error) {
	if c == nil {
		return fasta.Open(path)
	}
	entries, ok, err := c.Lookup(path)
	if err != nil {
		log.Warnf("index cache: %v", err)
	}
	if ok {
		st, err := fasta.OpenIndexed(path, entries)
		if err == nil {
			log.Debugf("index cache hit: %s (%d records)", path, len(entries))
			return st, nil
		}
		log.Warnf("index cache: stale entry for %s: %v", path, err)
	}
	st, err := fasta.Open(path)
	if err != nil {
		return nil, err
	}
	if err := c.Put(path, st.Entries()); err != nil {
		log.Warnf("index cache: %v", err)
	}
	return st, nil
}

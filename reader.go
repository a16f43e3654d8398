package walog

import (
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/davidvella/walog/record"
)

// Reader reads entries back out of a log.
type Reader struct {
	rc io.ReadCloser
	rr *record.Reader
}

// OpenReader opens the log file at path for reading.
func OpenReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("walog: open %s: %w", path, err)
	}
	return NewReader(file), nil
}

// NewReader reads entries from rc, which must be positioned at a block
// boundary.
func NewReader(rc io.ReadCloser) *Reader {
	return &Reader{rc: rc, rr: record.NewReader(rc)}
}

// Next returns the next entry. It returns io.EOF at the end of the log,
// record.ErrCorrupt on a damaged record, and ErrCorruptEntry on a record
// too short to be an entry.
func (r *Reader) Next() (Entry, error) {
	rec, err := r.rr.Next()
	if err != nil {
		return Entry{}, err
	}
	return decodeEntry(rec)
}

// All returns an iterator over the remaining entries. Iteration stops at
// the end of the log or at the first damaged record; use Next to
// distinguish the two.
func (r *Reader) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for {
			e, err := r.Next()
			if err != nil {
				return
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Close closes the underlying reader.
func (r *Reader) Close() error {
	return r.rc.Close()
}

package walog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/davidvella/walog/record"
)

// ErrLogClosed is returned by operations on a closed Log.
var ErrLogClosed = errors.New("walog: log is closed")

// Log is a file-backed write-ahead log. Appends are serialized internally,
// so a Log may be shared between goroutines.
type Log struct {
	mu      sync.Mutex
	file    *os.File
	dest    *fileDestination
	w       *record.Writer
	nextSeq uint64
	closed  atomic.Bool
}

// Open opens or creates the log file at path. An existing log must end on
// a block boundary (record.ErrMisalignedOffset otherwise) and must scan
// cleanly: its entries are read to recover the next sequence number, and a
// corrupt record anywhere in the file fails the open.
func Open(path string, opts ...Option) (*Log, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, o.fileMode)
	if err != nil {
		return nil, fmt.Errorf("walog: open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("walog: stat %s: %w", path, err)
	}

	dest := &fileDestination{
		buf:         bufio.NewWriterSize(file, o.bufferSize),
		file:        file,
		syncOnFlush: o.syncOnFlush,
	}

	w, err := record.NewWriterAt(dest, info.Size())
	if err != nil {
		file.Close()
		return nil, err
	}

	l := &Log{
		file:    file,
		dest:    dest,
		w:       w,
		nextSeq: 1,
	}

	if info.Size() > 0 {
		last, err := lastSequence(path)
		if err != nil {
			file.Close()
			return nil, err
		}
		l.nextSeq = last + 1
	}

	return l, nil
}

// lastSequence scans an existing log for the highest sequence number.
// Anything other than a clean end of log refuses the scan: appending after
// a corrupt record would leave entries no reader can reach.
func lastSequence(path string) (uint64, error) {
	r, err := OpenReader(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	var last uint64
	for {
		e, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return last, nil
			}
			return 0, fmt.Errorf("walog: scan %s: %w", path, err)
		}
		if e.Seq > last {
			last = e.Seq
		}
	}
}

// Append writes one entry and returns its sequence number. The entry is
// durably flushed before Append returns; see WithSyncOnFlush for whether
// flushing includes an fsync.
func (l *Log) Append(data []byte) (uint64, error) {
	if l.closed.Load() {
		return 0, ErrLogClosed
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	seq := l.nextSeq
	if err := l.writeEntryLocked(Entry{Seq: seq, Data: data}); err != nil {
		return 0, err
	}
	return seq, nil
}

func (l *Log) writeEntry(e Entry) error {
	if l.closed.Load() {
		return ErrLogClosed
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writeEntryLocked(e)
}

func (l *Log) writeEntryLocked(e Entry) error {
	if err := l.w.AddRecord(encodeEntry(e)); err != nil {
		return fmt.Errorf("walog: append entry %d: %w", e.Seq, err)
	}
	if e.Seq >= l.nextSeq {
		l.nextSeq = e.Seq + 1
	}
	return nil
}

// NextSeq returns the sequence number the next Append will use.
func (l *Log) NextSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextSeq
}

// Sync forces buffered bytes to the file and fsyncs it.
func (l *Log) Sync() error {
	if l.closed.Load() {
		return ErrLogClosed
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.dest.buf.Flush(); err != nil {
		return fmt.Errorf("walog: flush: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("walog: sync: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	if l.closed.Swap(true) {
		return ErrLogClosed
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.dest.buf.Flush(); err != nil {
		l.file.Close()
		return fmt.Errorf("walog: flush: %w", err)
	}
	return l.file.Close()
}

// fileDestination adapts a buffered file to record.Destination. Flush
// drains the buffer and, when configured, fsyncs so every physical record
// reaches the disk before AddRecord returns.
type fileDestination struct {
	buf         *bufio.Writer
	file        *os.File
	syncOnFlush bool
}

func (d *fileDestination) Append(p []byte) error {
	_, err := d.buf.Write(p)
	return err
}

func (d *fileDestination) Flush() error {
	if err := d.buf.Flush(); err != nil {
		return err
	}
	if d.syncOnFlush {
		return d.file.Sync()
	}
	return nil
}

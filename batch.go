package walog

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/btree"
)

var (
	// ErrInvalidMaxRecords is returned when a BatchWriter is created
	// with a non-positive flush threshold.
	ErrInvalidMaxRecords = errors.New("walog: maxRecords must be greater than 0")

	// ErrBatchClosed is returned by operations on a closed BatchWriter.
	ErrBatchClosed = errors.New("walog: batch writer is closed")
)

// BatchWriter buffers entries and writes them to the log in sequence
// order once maxRecords have accumulated, or on Close. Callers assign the
// sequence numbers and may submit entries out of order within a batch;
// writing an entry with a pending sequence number replaces it.
type BatchWriter struct {
	log        *Log
	maxRecords int
	closed     atomic.Bool
	mu         sync.Mutex
	pending    *btree.BTreeG[Entry]
}

// NewBatchWriter returns a BatchWriter flushing to log every maxRecords
// entries. Closing the BatchWriter flushes what remains but leaves the log
// open.
func NewBatchWriter(log *Log, maxRecords int) (*BatchWriter, error) {
	if maxRecords <= 0 {
		return nil, ErrInvalidMaxRecords
	}

	b := &BatchWriter{
		log:        log,
		maxRecords: maxRecords,
	}
	b.reset()

	return b, nil
}

func (b *BatchWriter) reset() {
	b.pending = btree.NewG[Entry](2, func(a, b Entry) bool {
		return a.Less(b)
	})
}

// Write adds an entry to the current batch, flushing if the batch is full.
func (b *BatchWriter) Write(e Entry) error {
	if b.closed.Load() {
		return ErrBatchClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending.ReplaceOrInsert(e)

	if b.pending.Len() >= b.maxRecords {
		return b.flushLocked()
	}

	return nil
}

// Len returns the number of entries waiting in the current batch.
func (b *BatchWriter) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending.Len()
}

// Flush writes the pending batch to the log immediately.
func (b *BatchWriter) Flush() error {
	if b.closed.Load() {
		return ErrBatchClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked()
}

func (b *BatchWriter) flushLocked() error {
	var writeErr error
	b.pending.Ascend(func(e Entry) bool {
		if err := b.log.writeEntry(e); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	if writeErr != nil {
		return writeErr
	}

	b.reset()
	return nil
}

// Close flushes any pending entries and retires the BatchWriter. The
// underlying log stays open.
func (b *BatchWriter) Close() error {
	if b.closed.Swap(true) {
		return ErrBatchClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending.Len() > 0 {
		return b.flushLocked()
	}
	return nil
}

package walog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchWriter_InvalidMaxRecords(t *testing.T) {
	l, err := Open(tempLogPath(t))
	require.NoError(t, err)
	defer l.Close()

	tests := []struct {
		name       string
		maxRecords int
	}{
		{name: "zero", maxRecords: 0},
		{name: "negative", maxRecords: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBatchWriter(l, tt.maxRecords)
			assert.ErrorIs(t, err, ErrInvalidMaxRecords)
			assert.Nil(t, b)
		})
	}
}

func TestBatchWriter_FlushesAtThreshold(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	b, err := NewBatchWriter(l, 3)
	require.NoError(t, err)

	// Entries arrive out of sequence order within the batch.
	require.NoError(t, b.Write(Entry{Seq: 2, Data: []byte("b")}))
	require.NoError(t, b.Write(Entry{Seq: 3, Data: []byte("c")}))
	assert.Equal(t, 2, b.Len())
	assert.Empty(t, readAll(t, path), "nothing written before the threshold")

	require.NoError(t, b.Write(Entry{Seq: 1, Data: []byte("a")}))
	assert.Equal(t, 0, b.Len())

	entries := readAll(t, path)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, uint64(i+1), e.Seq, "flush must write in sequence order")
	}
	assert.Equal(t, []byte("a"), entries[0].Data)

	assert.Equal(t, uint64(4), l.NextSeq(), "log sequence advances past batch entries")
}

func TestBatchWriter_ReplacesPendingSeq(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	b, err := NewBatchWriter(l, 10)
	require.NoError(t, err)

	require.NoError(t, b.Write(Entry{Seq: 1, Data: []byte("old")}))
	require.NoError(t, b.Write(Entry{Seq: 1, Data: []byte("new")}))
	assert.Equal(t, 1, b.Len())

	require.NoError(t, b.Flush())

	entries := readAll(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("new"), entries[0].Data)
}

func TestBatchWriter_CloseFlushesRemainder(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	b, err := NewBatchWriter(l, 100)
	require.NoError(t, err)

	require.NoError(t, b.Write(Entry{Seq: 1, Data: []byte("pending")}))
	require.NoError(t, b.Close())

	entries := readAll(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("pending"), entries[0].Data)
}

func TestBatchWriter_Closed(t *testing.T) {
	l, err := Open(tempLogPath(t))
	require.NoError(t, err)
	defer l.Close()

	b, err := NewBatchWriter(l, 2)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.Write(Entry{Seq: 1}), ErrBatchClosed)
	assert.ErrorIs(t, b.Flush(), ErrBatchClosed)
	assert.ErrorIs(t, b.Close(), ErrBatchClosed)
}

func TestBatchWriter_LogStaysOpen(t *testing.T) {
	path := tempLogPath(t)
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	b, err := NewBatchWriter(l, 1)
	require.NoError(t, err)
	require.NoError(t, b.Write(Entry{Seq: 1, Data: []byte("batched")}))
	require.NoError(t, b.Close())

	// Direct appends continue after the batch writer retires.
	seq, err := l.Append([]byte("direct"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), seq)

	entries := readAll(t, path)
	require.Len(t, entries, 2)
}

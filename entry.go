package walog

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrCorruptEntry is returned when a logical record is too short to carry
// an entry header.
var ErrCorruptEntry = errors.New("walog: corrupt entry")

// Entry is a single logical entry in the log: an opaque payload tagged
// with a caller-visible sequence number.
type Entry struct {
	Seq  uint64
	Data []byte
}

// Less orders entries by sequence number.
func (e Entry) Less(other Entry) bool {
	return e.Seq < other.Seq
}

const seqSize = 8

// encodeEntry lays an entry out as the little-endian sequence number
// followed by the payload. The record layer handles framing and
// checksumming, so no lengths or magic are needed here.
func encodeEntry(e Entry) []byte {
	buf := make([]byte, seqSize+len(e.Data))
	binary.LittleEndian.PutUint64(buf, e.Seq)
	copy(buf[seqSize:], e.Data)
	return buf
}

func decodeEntry(p []byte) (Entry, error) {
	if len(p) < seqSize {
		return Entry{}, fmt.Errorf("%w: %d bytes, want at least %d", ErrCorruptEntry, len(p), seqSize)
	}
	return Entry{
		Seq:  binary.LittleEndian.Uint64(p),
		Data: p[seqSize:],
	}, nil
}

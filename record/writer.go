package record

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMisalignedOffset is returned by NewWriterAt when the resume offset is
// not a multiple of BlockSize. Appending from an unaligned position would
// silently produce a log no reader can parse.
var ErrMisalignedOffset = errors.New("record: resume offset is not block-aligned")

// Destination is the append-only sink a Writer emits to. Append must write
// exactly the given bytes in call order; Flush must make previously
// appended bytes durable to whatever degree the implementation promises.
type Destination interface {
	Append(p []byte) error
	Flush() error
}

// Writer serializes logical records into the block-framed physical format.
//
// A Writer owns its Destination for its lifetime and performs no internal
// locking: at most one AddRecord call may be in flight at a time.
type Writer struct {
	dest Destination

	// blockOffset is the current write position within [0, BlockSize).
	blockOffset int

	// typeCRC[t] is the CRC of the single type byte t, computed once so
	// each fragment checksum only has to extend over the payload.
	typeCRC [maxType + 1]uint32
}

// NewWriter returns a Writer positioned at the start of a block. The
// destination must be empty or block-aligned; use NewWriterAt to resume an
// existing log.
func NewWriter(dest Destination) *Writer {
	w := &Writer{dest: dest}
	for i := range w.typeCRC {
		w.typeCRC[i] = crcValue([]byte{byte(i)})
	}
	return w
}

// NewWriterAt returns a Writer that continues a log already size bytes
// long. Only block-aligned sizes can be resumed: the tail of a partially
// filled block is not recoverable from the size alone.
func NewWriterAt(dest Destination, size int64) (*Writer, error) {
	if size < 0 || size%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d", ErrMisalignedOffset, size)
	}
	return NewWriter(dest), nil
}

var zeroTrailer [HeaderSize]byte

// AddRecord appends one logical record, fragmenting it across blocks as
// needed. Every call emits at least one fragment, so a zero-length record
// is still observable as a single empty Full fragment.
//
// On error the write position has still advanced past any bytes handed to
// the destination; the log requires external truncation or a tolerant
// reader, not a retry.
func (w *Writer) AddRecord(p []byte) error {
	begin := true
	for {
		leftover := BlockSize - w.blockOffset
		if leftover < HeaderSize {
			// Too small for even an empty fragment: pad the block
			// with a zero trailer and start a fresh one.
			if leftover > 0 {
				if err := w.dest.Append(zeroTrailer[:leftover]); err != nil {
					w.blockOffset = 0
					return fmt.Errorf("record: write block trailer: %w", err)
				}
			}
			w.blockOffset = 0
		}

		avail := BlockSize - w.blockOffset - HeaderSize
		fragLen := len(p)
		if fragLen > avail {
			fragLen = avail
		}
		end := fragLen == len(p)

		var t Type
		switch {
		case begin && end:
			t = Full
		case begin:
			t = First
		case end:
			t = Last
		default:
			t = Middle
		}

		if err := w.emitPhysicalRecord(t, p[:fragLen]); err != nil {
			return err
		}

		p = p[fragLen:]
		begin = false
		if len(p) == 0 {
			return nil
		}
	}
}

// Offset returns the current write position within the current block.
func (w *Writer) Offset() int {
	return w.blockOffset
}

// emitPhysicalRecord writes a single fragment: a 7-byte header followed by
// the payload, then flushes the destination. The fragmenter guarantees the
// preconditions; violating them is a logic bug, not an I/O condition.
func (w *Writer) emitPhysicalRecord(t Type, p []byte) error {
	if len(p) > MaxPayloadLength {
		panic("record: fragment exceeds 16-bit length field")
	}
	if w.blockOffset+HeaderSize+len(p) > BlockSize {
		panic("record: fragment overflows block")
	}

	var header [HeaderSize]byte
	header[4] = byte(len(p))
	header[5] = byte(len(p) >> 8)
	header[6] = byte(t)
	crc := crcExtend(w.typeCRC[t], p)
	binary.LittleEndian.PutUint32(header[:4], MaskCRC(crc))

	// Advance even if a write fails so later calls see a consistent
	// position instead of retrying over a stale one.
	w.blockOffset += HeaderSize + len(p)

	if err := w.dest.Append(header[:]); err != nil {
		return fmt.Errorf("record: write fragment header: %w", err)
	}
	if err := w.dest.Append(p); err != nil {
		return fmt.Errorf("record: write fragment payload: %w", err)
	}
	if err := w.dest.Flush(); err != nil {
		return fmt.Errorf("record: flush fragment: %w", err)
	}
	return nil
}

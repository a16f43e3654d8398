package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrCorrupt is returned by Reader.Next when the stream violates the
// physical format somewhere other than a truncated tail: a checksum
// mismatch, a reserved or unknown type tag, a fragment overrunning its
// block, or an impossible fragment sequence. Errors wrap ErrCorrupt with
// detail, so match with errors.Is.
var ErrCorrupt = errors.New("record: corrupt log")

// Reader parses the block-framed physical format back into logical
// records, verifying the checksum of every fragment.
//
// A log whose final block was cut short by a crash is not corrupt: running
// out of bytes mid-header, mid-payload, or mid-record at the very end of
// the stream surfaces as io.EOF and any complete records before it are
// still returned.
type Reader struct {
	src io.Reader

	// block is the read buffer; buf is its unconsumed tail.
	block [BlockSize]byte
	buf   []byte

	// short records that the most recent fill returned fewer than
	// BlockSize bytes, meaning the stream ends inside this block.
	short bool
	eof   bool
	err   error
}

// NewReader returns a Reader consuming src from a block-aligned position.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Next returns the next logical record with its fragments reassembled. It
// returns io.EOF at the end of the log and sticks on the first error.
func (r *Reader) Next() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	rec, err := r.next()
	if err != nil {
		r.err = err
		return nil, err
	}
	return rec, nil
}

func (r *Reader) next() ([]byte, error) {
	var rec []byte
	open := false
	for {
		t, payload, err := r.nextFragment()
		if err != nil {
			// A First/Middle chain cut off by the end of the file
			// is a torn tail write, not a parseable record.
			return nil, err
		}
		switch t {
		case Full:
			if open {
				return nil, fmt.Errorf("%w: full fragment inside a fragmented record", ErrCorrupt)
			}
			return append([]byte{}, payload...), nil
		case First:
			if open {
				return nil, fmt.Errorf("%w: first fragment inside a fragmented record", ErrCorrupt)
			}
			rec = append([]byte{}, payload...)
			open = true
		case Middle:
			if !open {
				return nil, fmt.Errorf("%w: orphaned middle fragment", ErrCorrupt)
			}
			rec = append(rec, payload...)
		case Last:
			if !open {
				return nil, fmt.Errorf("%w: orphaned last fragment", ErrCorrupt)
			}
			return append(rec, payload...), nil
		}
	}
}

// All returns an iterator over the remaining logical records. Iteration
// stops at the end of the log or at the first error; call Next afterwards
// to distinguish the two.
func (r *Reader) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for {
			rec, err := r.Next()
			if err != nil {
				return
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// nextFragment returns the next physical fragment, skipping block trailer
// padding. The returned payload aliases the block buffer and is only valid
// until the next call.
func (r *Reader) nextFragment() (Type, []byte, error) {
	for {
		if len(r.buf) < HeaderSize {
			// Fewer than HeaderSize bytes at the end of a full
			// block are trailer padding. At the end of a short
			// block they are a torn header.
			if r.short && len(r.buf) > 0 {
				return 0, nil, io.EOF
			}
			if err := r.fill(); err != nil {
				return 0, nil, err
			}
			continue
		}

		header := r.buf[:HeaderSize]
		length := int(binary.LittleEndian.Uint16(header[4:6]))
		t := Type(header[6])

		if HeaderSize+length > len(r.buf) {
			if r.short {
				// Torn payload at the tail of the log.
				return 0, nil, io.EOF
			}
			return 0, nil, fmt.Errorf("%w: fragment length %d overruns block", ErrCorrupt, length)
		}
		if !t.valid() {
			return 0, nil, fmt.Errorf("%w: reserved fragment type %d", ErrCorrupt, byte(t))
		}

		payload := r.buf[HeaderSize : HeaderSize+length]
		stored := binary.LittleEndian.Uint32(header[:4])
		if fragmentCRC(t, payload) != UnmaskCRC(stored) {
			return 0, nil, fmt.Errorf("%w: checksum mismatch on %s fragment", ErrCorrupt, t)
		}

		r.buf = r.buf[HeaderSize+length:]
		return t, payload, nil
	}
}

// fill reads the next physical block. The final block of a log may be
// shorter than BlockSize.
func (r *Reader) fill() error {
	if r.eof {
		return io.EOF
	}
	n, err := io.ReadFull(r.src, r.block[:])
	switch {
	case err == nil:
	case errors.Is(err, io.ErrUnexpectedEOF):
		r.eof = true
		r.short = true
	case errors.Is(err, io.EOF):
		r.eof = true
		return io.EOF
	default:
		return fmt.Errorf("record: read block: %w", err)
	}
	r.buf = r.block[:n]
	return nil
}

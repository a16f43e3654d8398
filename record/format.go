package record

// On-disk layout constants. These are part of the wire format and must not
// change: any compatible reader agrees on them bit-for-bit.
const (
	// BlockSize is the size of the fixed physical blocks the log file is
	// divided into. Fragments never cross a block boundary.
	BlockSize = 32 * 1024

	// HeaderSize is the fragment header: checksum (4B), length (2B),
	// type (1B).
	HeaderSize = 4 + 2 + 1

	// MaxPayloadLength is the largest payload a single fragment can
	// carry; the header stores the length in two bytes.
	MaxPayloadLength = 1<<16 - 1
)

// Type tags a fragment so a reader can reassemble logical records.
type Type byte

const (
	// typeZero is reserved for preallocated files and is never written
	// by a Writer. Readers treat it as corruption.
	typeZero Type = iota

	// Full is a complete logical record in a single fragment.
	Full

	// First begins a multi-fragment record.
	First

	// Middle continues a multi-fragment record.
	Middle

	// Last completes a multi-fragment record.
	Last
)

// maxType is the highest valid fragment type tag.
const maxType = Last

func (t Type) valid() bool {
	return t >= Full && t <= maxType
}

func (t Type) String() string {
	switch t {
	case Full:
		return "full"
	case First:
		return "first"
	case Middle:
		return "middle"
	case Last:
		return "last"
	default:
		return "unknown"
	}
}

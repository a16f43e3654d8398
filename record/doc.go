// Package record implements the block-framed physical record format used
// by the write-ahead log: logical records are fragmented into checksummed
// physical records packed into fixed 32 KiB blocks on an append-only file.
//
// File format:
//
// A log file is a sequence of 32768-byte blocks; only the final block may
// be shorter. Each block holds tightly packed fragments and, when fewer
// than seven bytes remain, a zero trailer:
//
//	+---------------+-------------+--------------+--- ... ---+
//	| checksum (4B) | length (2B) | type (1B)    | payload   |
//	+---------------+-------------+--------------+--- ... ---+
//
// The checksum is a CRC-32 (Castagnoli) of the type byte and payload,
// masked before storage (see MaskCRC). Length is the payload size in
// little-endian. The type tag is one of:
//
//	Full   (1): a complete logical record in one fragment
//	First  (2): begins a multi-fragment record
//	Middle (3): continues a multi-fragment record
//	Last   (4): completes a multi-fragment record
//
// A logical record therefore maps to either a single Full fragment or a
// First fragment, zero or more Middle fragments, and a Last fragment.
// Fragments never span blocks.
//
// Basic usage:
//
//	w := record.NewWriter(dest)
//	if err := w.AddRecord([]byte("payload")); err != nil {
//	    log.Fatal(err)
//	}
//
//	r := record.NewReader(src)
//	for rec := range r.All() {
//	    // Process rec
//	}
//
// Neither Writers nor Readers are safe for concurrent use.
package record

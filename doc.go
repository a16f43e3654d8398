// Package walog implements a file-backed write-ahead log.
//
// Entries are opaque byte payloads tagged with monotonically increasing
// sequence numbers. On disk they are framed by the record package: logical
// records fragmented into checksummed physical records packed into fixed
// 32 KiB blocks, the format used by LevelDB-style log files. Each append
// is flushed before it returns. After a crash, a Reader recovers every
// entry written before the torn tail; recovery replays those entries into
// a fresh log, since only block-aligned files can be reopened for
// appending.
//
// Basic usage:
//
//	log, err := walog.Open("my.wal")
//	if err != nil {
//	    return err
//	}
//
//	seq, err := log.Append([]byte("value1"))
//	if err != nil {
//	    return err
//	}
//
//	if err := log.Close(); err != nil {
//	    return err
//	}
//
//	// Read entries back
//	reader, err := walog.OpenReader("my.wal")
//	if err != nil {
//	    return err
//	}
//	defer reader.Close()
//
//	for entry := range reader.All() {
//	    // Process entry
//	}
//
// A Log serializes appends internally and is safe for concurrent use. Use
// BatchWriter to accumulate entries and commit them in sequence order.
package walog

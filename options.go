package walog

import (
	"os"

	"github.com/davidvella/walog/record"
)

// options defines all configuration options for a Log.
type options struct {
	bufferSize  int         // Size of the write buffer in bytes
	syncOnFlush bool        // Whether every record flush also fsyncs
	fileMode    os.FileMode // Mode for newly created log files
}

// Option is a function that configures the log options.
type Option func(*options)

// WithBufferSize sets the size of the write buffer.
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = n
	}
}

// WithSyncOnFlush controls whether every physical record is fsynced as it
// is written. Off by default: flushes reach the OS, and durability against
// power loss comes from explicit Sync calls.
func WithSyncOnFlush(enabled bool) Option {
	return func(o *options) {
		o.syncOnFlush = enabled
	}
}

// WithFileMode sets the permissions used when creating the log file.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		bufferSize:  record.BlockSize,
		syncOnFlush: false,
		fileMode:    0o600,
	}
}

package logging

import "sync/atomic"

// verbosity is the single process-wide debug level, replacing the
// teacher's per-protocol DebugConfig: this daemon runs exactly one
// protocol, so there is nothing for a second dimension to distinguish.
var verbosity int32

// SetVerbosity sets the process-wide debug level. 0 disables VDebug
// output entirely.
func SetVerbosity(level int) {
	atomic.StoreInt32(&verbosity, int32(level))
}

// Verbosity returns the current process-wide debug level.
func Verbosity() int {
	return int(atomic.LoadInt32(&verbosity))
}

// VDebug prints a debug message only when the current verbosity is at
// least minLevel.
func VDebug(minLevel int, format string, args ...interface{}) {
	if Verbosity() >= minLevel {
		Debug(format, args...)
	}
}

// Goroutine identity for lock reentrancy and worker-thread assertions
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

var prefix = []byte("goroutine ")

// Returns the id of the calling goroutine.
//
// The runtime does not expose goroutine ids on purpose; this parses the
// header of a single-goroutine stack dump instead. Only used for debug
// assertions and reentrant lock ownership, never on hot paths.
func Get() (id uint64) {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	if !bytes.HasPrefix(buf, prefix) {
		return
	}
	buf = buf[len(prefix):]

	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return
	}

	id, _ = strconv.ParseUint(string(buf[:end]), 10, 64)
	return
}

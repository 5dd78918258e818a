// Package simplelogger is an opt-in debug log for reference file decisions.
package simplelogger

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// EnvVar names the file Log appends to.
const EnvVar = "EXPECTORATE_LOG_FILE"

var mu sync.Mutex

// Log is a minimal printf-style logger. It appends one line, prefixed with the process ID, to the file named by EnvVar. Several test binaries may share the
// file, so the prefix tells their lines apart.
//
// If EnvVar is unset/empty or the path can't be opened as a file, Log is a no-op.
func Log(format string, args ...any) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	var b bytes.Buffer
	_, _ = fmt.Fprintf(&b, "[%d] ", os.Getpid())
	_, _ = fmt.Fprintf(&b, format, args...)
	if b.Bytes()[b.Len()-1] != '\n' {
		_ = b.WriteByte('\n')
	}
	_, _ = f.Write(b.Bytes())
}

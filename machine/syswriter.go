package machine

import (
	"io"
	"os"
	"sync/atomic"
)

var syswriter atomic.Pointer[io.Writer]

// SetSyswriter redirects diagnostic output, e.g. into the on-screen console.
// Passing nil restores the failsafe writer.
func SetSyswriter(w io.Writer) {
	if w == nil {
		syswriter.Store(nil)
		return
	}
	syswriter.Store(&w)
}

// DefaultWrite is the failsafe diagnostic writer, used by fault reporting
// and very early boot. Falls back to stderr if no syswriter is installed.
// Never fails; a failing sink drops the output.
func DefaultWrite(fd int, p []byte) int {
	if w := syswriter.Load(); w != nil {
		n, err := (*w).Write(p)
		if err == nil {
			return n
		}
	}
	n, _ := os.Stderr.Write(p)
	return n
}

type defaultWriter int

// DefaultWriter adapts DefaultWrite to io.Writer.
const DefaultWriter defaultWriter = 2

func (v defaultWriter) Write(p []byte) (int, error) {
	return DefaultWrite(int(v), p), nil
}

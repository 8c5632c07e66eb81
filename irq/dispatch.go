package irq

import "sync/atomic"

// The dispatch table. One slot per interrupt line, plus a default handler
// that receives everything without an installed handler. Mutated only
// through a Table while the affected line is disabled; read from interrupt
// context by Dispatch.
//
// The slots are atomic pointers because on the simulated target interrupt
// handlers run on a different goroutine than the foreground. On a single-core
// target these compile down to plain loads and stores.
var (
	handlers       [NumLines]atomic.Pointer[func()]
	defaultHandler atomic.Pointer[func(Line)]
)

// Dispatch invokes the handler installed for line. It is called by the
// platform exception entry after translating the exception number to a line.
//
// If no handler is installed, the scope's default handler receives the line
// instead. Dispatch takes no locks, does not allocate and completes in
// bounded time. Panics if called without an active scope.
func Dispatch(line Line) {
	if isr := handlers[line].Load(); isr != nil {
		(*isr)()
		return
	}
	dh := defaultHandler.Load()
	if dh == nil || *dh == nil {
		panic("unhandled interrupt")
	}
	(*dh)(line)
}

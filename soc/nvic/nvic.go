// Package nvic models the interrupt controller of the target.
//
// The model keeps the controller's architectural state (enable, pending and
// priority registers) and delivers interrupts by invoking the exception
// entry on the goroutine that made a line both pending and enabled. Delivery
// per line is serialized, so a handler never races itself; handlers for
// distinct lines may run concurrently, which on real hardware corresponds to
// preemption between priority levels.
package nvic

import (
	"runtime"
	"sync/atomic"

	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
)

const words = (irq.NumLines + 31) / 32

// NVIC implements irq.Controller.
type NVIC struct {
	iser [words]atomic.Uint32 // enable set
	ispr [words]atomic.Uint32 // pending set
	iabr [words]atomic.Uint32 // active
	ipr  [irq.NumLines]atomic.Uint32

	entry func(irq.Line)
}

// New returns a controller delivering interrupts through entry, typically
// machine.Vector.
func New(entry func(irq.Line)) *NVIC {
	return &NVIC{entry: entry}
}

func bit(l irq.Line) (w int, b uint32) {
	return int(l) / 32, 1 << (uint(l) % 32)
}

// Trigger software-asserts the line, like a write to the STIR register. If
// the line is enabled its handler runs before Trigger returns.
func (n *NVIC) Trigger(l irq.Line) { n.Pend(l) }

// Pend sets the line's pending bit and delivers if the line is enabled.
func (n *NVIC) Pend(l irq.Line) {
	w, b := bit(l)
	n.ispr[w].Or(b)
	n.deliver(l)
}

// Unpend clears the line's pending bit.
func (n *NVIC) Unpend(l irq.Line) {
	w, b := bit(l)
	n.ispr[w].And(^b)
}

// Pending reports the line's pending bit.
func (n *NVIC) Pending(l irq.Line) bool {
	w, b := bit(l)
	return n.ispr[w].Load()&b != 0
}

// Priority returns the line's priority.
func (n *NVIC) Priority(l irq.Line) irq.Priority {
	return irq.Priority(n.ipr[l].Load())
}

// SetPriority changes the line's priority. The model keeps but does not
// arbitrate priorities; which of two simultaneously pending lines runs
// first is unspecified.
func (n *NVIC) SetPriority(l irq.Line, p irq.Priority) {
	n.ipr[l].Store(uint32(p))
}

// Enable unmasks the line. A pending interrupt is delivered immediately.
func (n *NVIC) Enable(l irq.Line) {
	w, b := bit(l)
	n.iser[w].Or(b)
	n.deliver(l)
}

// Disable masks the line. Returns only after a concurrently running handler
// for the line has returned, so a caller that unregisters afterwards cannot
// have the old handler invoked anymore. Must not be called from the line's
// own handler.
func (n *NVIC) Disable(l irq.Line) {
	w, b := bit(l)
	n.iser[w].And(^b)
	for n.iabr[w].Load()&b != 0 {
		runtime.Gosched()
	}
}

// deliver runs the exception entry while the line is pending and enabled.
// Clearing the pending bit before the entry models the hardware's behavior
// on exception entry: a line pended again from its own handler tail-chains
// into another invocation.
func (n *NVIC) deliver(l irq.Line) {
	w, b := bit(l)
	for {
		if n.ispr[w].Load()&b == 0 || n.iser[w].Load()&b == 0 {
			return
		}
		if n.iabr[w].Or(b)&b != 0 {
			// Another goroutine is already delivering this line; it
			// will pick up the pending bit in its loop.
			return
		}
		for n.ispr[w].Load()&b != 0 && n.iser[w].Load()&b != 0 {
			n.ispr[w].And(^b)
			n.entry(l)
		}
		n.iabr[w].And(^b)
		// A pend may have raced the active-bit release, retry.
	}
}

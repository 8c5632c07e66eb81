// Package irq provides safe interrupt handling via scoped handler
// registration.
//
// Interrupt service routines are ordinary closures, installed into a
// process-wide dispatch table through a Table that only exists inside a
// Scope. The scope guarantees that every installed handler is removed again
// and its line disabled before the scope returns, so a handler can safely
// capture state from the enclosing function.
package irq

// A Line identifies a single interrupt request line at the controller.
type Line uint8

// NumLines is the number of interrupt lines at the controller. The dispatch
// table has one slot per line.
const NumLines = 98

// A Priority is an urgency ordinal, forwarded unchanged to the controller.
// Lower values preempt higher ones.
type Priority uint8

const (
	P0 Priority = iota // highest urgency
	P1
	P2
	P3
	P4
	P5
	P6
	P7
	P8
	P9
	P10
	P11
	P12
	P13
	P14
	P15 // lowest urgency
)

// A Controller unmasks, masks, pends and prioritizes interrupt lines. All
// operations are O(1) and never fail observably.
//
// Implemented by soc/nvic for the simulated target.
type Controller interface {
	// Trigger software-asserts the line, causing an imminent handler
	// invocation if the line is enabled.
	Trigger(l Line)
	// Pending reports whether the line's pending bit is set.
	Pending(l Line) bool
	// Pend sets the line's pending bit.
	Pend(l Line)
	// Unpend clears the line's pending bit.
	Unpend(l Line)
	// Priority returns the line's current priority.
	Priority(l Line) Priority
	// SetPriority changes the line's priority.
	SetPriority(l Line, p Priority)
	// Enable unmasks the line at the controller.
	Enable(l Line)
	// Disable masks the line at the controller.
	Disable(l Line)
}

package irq

import (
	"errors"
	"fmt"
)

var (
	// ErrNested is returned by Scope while another scope is active.
	ErrNested = errors.New("irq scope already active")
	// ErrLineInUse is returned when registering a line that already has a
	// handler installed.
	ErrLineInUse = errors.New("irq line already registered")
)

// A Handle refers to a registered interrupt line. Its type parameter records
// the environment type that Unregister returns. Dropping a handle does not
// unregister the line.
type Handle[E any] struct {
	line Line
}

// Line returns the interrupt line this handle refers to.
func (h Handle[E]) Line() Line { return h.line }

// A Table installs interrupt handlers for the duration of a scope. It owns
// the controller and one environment cell per line. Only obtainable through
// Scope, which guarantees that all slots are drained on scope exit.
//
// A Table must only be used from the goroutine that entered the scope.
type Table struct {
	ctrl Controller
	env  [NumLines]any
}

// Scope installs dflt as the default interrupt handler, creates a Table
// owning ctrl and passes it to body. Returns ErrNested if another scope is
// active. A nil dflt leaves unhandled interrupts fatal.
//
// On every exit path the table is drained: the default handler slot is
// cleared and no handler installed through the table survives the scope. On
// normal return a still-registered line is a usage bug and panics; if body
// panics, all registered lines are disabled and their slots cleared before
// the panic continues to propagate.
func Scope[R any](ctrl Controller, dflt func(Line), body func(*Table) R) (r R, err error) {
	if !defaultHandler.CompareAndSwap(nil, &dflt) {
		return r, ErrNested
	}

	t := &Table{ctrl: ctrl}
	done := false
	defer func() {
		for l := range Line(NumLines) {
			if handlers[l].Load() == nil {
				continue
			}
			if done {
				panic(fmt.Sprintf("irq: line %d still registered on scope exit", l))
			}
			// Unwinding from a panic in body. Mask and drain so no
			// handler outlives the scope, then keep unwinding.
			ctrl.Disable(l)
			handlers[l].Store(nil)
			t.env[l] = nil
		}
		t.ctrl = nil
		defaultHandler.Store(nil)
	}()

	r = body(t)
	done = true
	return r, nil
}

// Register installs isr as the handler for line, sets its priority and
// enables it at the controller. The returned handle must be passed to
// Unregister to free the line again; alternatively the handler stays
// installed until the end of the scope.
//
// Returns ErrLineInUse if the line already has a handler.
func (t *Table) Register(line Line, prio Priority, isr func()) (Handle[struct{}], error) {
	return RegisterOwned(t, line, prio, struct{}{}, func(*struct{}) { isr() })
}

// RegisterOwned is like Register, but moves env into the table and passes a
// pointer to it to every handler invocation. Unregister moves the
// environment back out to the caller.
//
// The environment lives in a heap cell owned by the table, so its address
// stays valid for as long as the handler can run, independent of the
// caller's stack frame.
func RegisterOwned[E any](t *Table, line Line, prio Priority, env E, isr func(*E)) (Handle[E], error) {
	if handlers[line].Load() != nil {
		return Handle[E]{}, fmt.Errorf("register line %d: %w", line, ErrLineInUse)
	}

	// The slot is empty and the line disabled, so nobody can observe the
	// cell until the handler is published below.
	cell := &env
	t.env[line] = cell

	f := func() { isr(cell) }
	handlers[line].Store(&f)

	t.ctrl.SetPriority(line, prio)
	t.ctrl.Enable(line)

	return Handle[E]{line}, nil
}

// Unregister disables the line at the controller, removes its handler and
// returns the environment that was passed to RegisterOwned. Unregistering a
// line that is not registered is a usage bug and panics.
func Unregister[E any](t *Table, h Handle[E]) E {
	t.ctrl.Disable(h.line)
	if handlers[h.line].Load() == nil {
		panic(fmt.Sprintf("irq: line %d unregistered twice", h.line))
	}
	handlers[h.line].Store(nil)

	cell := t.env[h.line].(*E)
	t.env[h.line] = nil
	return *cell
}

// WithInterrupt registers isr for line, runs body and unregisters again.
// The handler is removed and the line disabled even if body panics.
func (t *Table) WithInterrupt(line Line, prio Priority, isr func(), body func(*Table)) error {
	h, err := t.Register(line, prio, isr)
	if err != nil {
		return err
	}
	defer Unregister(t, h)
	body(t)
	return nil
}

// SetPriority forwards to the controller.
func (t *Table) SetPriority(line Line, prio Priority) { t.ctrl.SetPriority(line, prio) }

// Priority forwards to the controller.
func (t *Table) Priority(line Line) Priority { return t.ctrl.Priority(line) }

// SetPending sets the line's pending bit at the controller.
func (t *Table) SetPending(line Line) { t.ctrl.Pend(line) }

// ClearPending clears the line's pending bit at the controller.
func (t *Table) ClearPending(line Line) { t.ctrl.Unpend(line) }

// Pending reports the line's pending bit at the controller.
func (t *Table) Pending(line Line) bool { return t.ctrl.Pending(line) }

// Trigger software-asserts the line at the controller.
func (t *Table) Trigger(line Line) { t.ctrl.Trigger(line) }

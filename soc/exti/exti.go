// Package exti models the external interrupt controller.
//
// Sixteen edge-triggered lines, one per GPIO pin number. Lines 0..4 have
// dedicated controller lines, 5..9 and 10..15 share one each. The pending
// register is write-1-to-clear and owned by the handlers of the respective
// lines; a handler that does not clear its bit is re-invoked.
package exti

import (
	"sync/atomic"

	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc"
)

// ButtonPin is the EXTI line of the user button (PI11).
const ButtonPin = 11

// EXTI models the external interrupt controller.
type EXTI struct {
	ctrl irq.Controller
	pr   atomic.Uint32 // pending, write-1-to-clear
	imr  atomic.Uint32 // interrupt mask, 1 = unmasked
}

// New returns a controller with all lines masked.
func New(ctrl irq.Controller) *EXTI {
	return &EXTI{ctrl: ctrl}
}

// Line returns the interrupt line that EXTI pin pends.
func Line(pin int) irq.Line {
	switch {
	case pin < 5:
		return soc.IrqExti0 + irq.Line(pin)
	case pin < 10:
		return soc.IrqExti95
	default:
		return soc.IrqExti1510
	}
}

// Unmask enables edge detection on pin.
func (e *EXTI) Unmask(pin int) { e.imr.Or(1 << pin) }

// Mask disables edge detection on pin.
func (e *EXTI) Mask(pin int) { e.imr.And(^uint32(1 << pin)) }

// Pending returns the pending register.
func (e *EXTI) Pending() uint32 { return e.pr.Load() }

// ClearPending clears the pending bits set in mask.
func (e *EXTI) ClearPending(mask uint32) { e.pr.And(^mask) }

// Raise simulates an edge on pin: sets the pending bit and, if the pin is
// unmasked, pends the pin's interrupt line. Safe from any goroutine.
func (e *EXTI) Raise(pin int) {
	if e.imr.Load()&(1<<pin) == 0 {
		return
	}
	e.pr.Or(1 << pin)
	e.ctrl.Pend(Line(pin))
}

// Package machine implements the platform glue of the target: the exception
// entry that threads hardware interrupts into the irq dispatch table, the
// fault reporter and the failsafe diagnostic writer.
package machine

import "github.com/embed-rs/stm32f7-discovery-sub000/irq"

// IRQ is the default exception entry for external interrupts. The interrupt
// controller invokes it with the live line number; it forwards into the
// dispatch table. Installed via nvic.New(machine.IRQ).
func IRQ(l irq.Line) {
	irq.Dispatch(l)
}

// Vector is the architectural exception entry. Exception numbers below 16
// are core faults and fatal; 16 and up are external interrupts, dispatched
// as line number minus 16.
func Vector(num uint32) {
	if num >= 16 {
		IRQ(irq.Line(num - 16))
		return
	}
	Exception(num)
}

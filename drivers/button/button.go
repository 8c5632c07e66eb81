// Package button drives the board's user button.
//
// The button's EXTI edge is handled in interrupt context; the handler only
// clears the pending bit and hands a token to the consuming task through a
// channel. Counting, debouncing and any further work happen in the task.
package button

import (
	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/exti"
	"github.com/embed-rs/stm32f7-discovery-sub000/task"
)

// Button is the installed driver. Create with Setup inside an interrupt
// scope.
type Button struct {
	events task.Chan[struct{}]
	ext    *exti.EXTI
	handle irq.Handle[struct{}]
}

// Setup unmasks the button's EXTI pin and installs its handler.
func Setup(tab *irq.Table, ext *exti.EXTI, prio irq.Priority) (*Button, error) {
	b := &Button{ext: ext}
	h, err := tab.Register(exti.Line(exti.ButtonPin), prio, func() {
		if ext.Pending()&(1<<exti.ButtonPin) == 0 {
			return // shared line, not our pin
		}
		ext.ClearPending(1 << exti.ButtonPin)
		b.events.Send(struct{}{})
	})
	if err != nil {
		return nil, err
	}
	b.handle = h
	ext.Unmask(exti.ButtonPin)
	return b, nil
}

// Events returns the channel fed by the interrupt handler, one token per
// press.
func (b *Button) Events() *task.Chan[struct{}] { return &b.events }

// Stop masks the pin, removes the handler and ends the event stream.
func (b *Button) Stop(tab *irq.Table) {
	b.ext.Mask(exti.ButtonPin)
	irq.Unregister(tab, b.handle)
	b.events.Close()
}

// CountTask returns a task that counts presses, invoking onPress with the
// new total for each one. Completes when the driver is stopped.
func (b *Button) CountTask(onPress func(total int)) task.Task {
	count := 0
	return task.TaskFunc(func(wake task.Waker) bool {
		for {
			_, ok, ready := b.events.Recv(wake)
			if !ready {
				return false
			}
			if !ok {
				return true
			}
			count++
			onPress(count)
		}
	})
}

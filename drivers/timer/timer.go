// Package timer turns a basic timer's update interrupt into a tick stream.
package timer

import (
	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/tim"
	"github.com/embed-rs/stm32f7-discovery-sub000/task"
)

// Timer is the installed driver. Create with Setup inside an interrupt
// scope.
type Timer struct {
	ticks  task.Chan[struct{}]
	tim    *tim.TIM
	handle irq.Handle[struct{}]
}

// Setup configures t for an update rate of hz, installs the update handler
// on line and starts the counter.
func Setup(tab *irq.Table, t *tim.TIM, line irq.Line, prio irq.Priority, hz uint32) (*Timer, error) {
	d := &Timer{tim: t}
	h, err := tab.Register(line, prio, func() {
		if !t.Update() {
			return // DAC shares the line on TIM6
		}
		t.ClearUpdate()
		d.ticks.Send(struct{}{})
	})
	if err != nil {
		return nil, err
	}
	d.handle = h
	t.ConfigureHz(hz)
	t.EnableInterrupt()
	t.Start()
	return d, nil
}

// Ticks returns the channel fed by the update handler.
func (d *Timer) Ticks() *task.Chan[struct{}] { return &d.ticks }

// Stop halts the counter, removes the handler and ends the tick stream.
func (d *Timer) Stop(tab *irq.Table) {
	d.tim.Stop()
	d.tim.DisableInterrupt()
	irq.Unregister(tab, d.handle)
	d.ticks.Close()
}

// CountTask returns a task that counts ticks, invoking onTick with the new
// total for each one. Completes when the driver is stopped.
func (d *Timer) CountTask(onTick func(total int)) task.Task {
	count := 0
	return task.TaskFunc(func(wake task.Waker) bool {
		for {
			_, ok, ready := d.ticks.Recv(wake)
			if !ready {
				return false
			}
			if !ok {
				return true
			}
			count++
			onTick(count)
		}
	})
}

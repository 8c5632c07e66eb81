// Package display couples a pix display to an LCD layer and paces redraws
// with the controller's line event.
package display

import (
	"github.com/embeddedgo/display/pix"

	"github.com/embed-rs/stm32f7-discovery-sub000/framebuffer"
	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/ltdc"
	"github.com/embed-rs/stm32f7-discovery-sub000/task"
)

// Display is the installed driver. Create with Setup inside an interrupt
// scope.
type Display struct {
	fb     *framebuffer.Framebuffer
	disp   *pix.Display
	vblank task.Chan[struct{}]
	handle irq.Handle[struct{}]
}

// Setup enables layer i, installs the line event handler and returns a
// display rendering to that layer.
func Setup(tab *irq.Table, lcd *ltdc.LTDC, i int, prio irq.Priority) (*Display, error) {
	layer := lcd.Layer(i)
	d := &Display{fb: framebuffer.New(layer)}
	d.disp = pix.NewDisplay(d.fb)

	h, err := tab.Register(soc.IrqLtdc, prio, func() {
		if !lcd.LineFlag() {
			return
		}
		lcd.ClearLineFlag()
		d.vblank.Send(struct{}{})
	})
	if err != nil {
		return nil, err
	}
	d.handle = h

	lcd.EnableLineInterrupt()
	layer.Enable()
	return d, nil
}

// Pix returns the pix display drawing to the offscreen buffer.
func (d *Display) Pix() *pix.Display { return d.disp }

// VBlank returns the channel fed by the line event handler, one token per
// panel refresh.
func (d *Display) VBlank() *task.Chan[struct{}] { return &d.vblank }

// Clear resets the offscreen buffer to full transparency.
func (d *Display) Clear() { d.fb.Clear() }

// Swap publishes the offscreen buffer to the layer.
func (d *Display) Swap() { d.fb.Swap() }

// Stop removes the handler and ends the vblank stream.
func (d *Display) Stop(tab *irq.Table) {
	irq.Unregister(tab, d.handle)
	d.vblank.Close()
}

type redraw struct {
	d      *Display
	render func() task.Task
	fut    task.Task
	stage  int
}

// RedrawTask returns the redraw loop: await one vblank, render the frame
// (typically under a scene mutex), publish it. Completes when the driver is
// stopped.
func (d *Display) RedrawTask(render func() task.Task) task.Task {
	return &redraw{d: d, render: render}
}

func (r *redraw) Poll(wake task.Waker) bool {
	for {
		switch r.stage {
		case 0:
			_, ok, ready := r.d.vblank.Recv(wake)
			if !ready {
				return false
			}
			if !ok {
				return true
			}
			r.stage = 1
		case 1:
			if r.fut == nil {
				r.fut = r.render()
			}
			if !r.fut.Poll(wake) {
				return false
			}
			r.fut = nil
			r.d.Swap()
			r.stage = 0
		}
	}
}

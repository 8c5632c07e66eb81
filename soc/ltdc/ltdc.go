// Package ltdc models the LCD-TFT display controller.
//
// Two layers are blended over a background color into the output frame.
// Layers are backed by ordinary RGBA images so all stdlib drawing tools
// work on them. The line event interrupt fires once per refresh, which the
// model triggers explicitly via Refresh.
package ltdc

import (
	"image"
	"image/color"
	"image/draw"
	"sync/atomic"

	"golang.org/x/exp/constraints"

	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
)

// Native panel resolution of the board's display.
const (
	Width  = 480
	Height = 272
)

// A Layer is one of the two blending stages. Implements draw.Image.
type Layer struct {
	*image.RGBA
	enabled atomic.Bool
}

// Enable makes the layer visible.
func (l *Layer) Enable() { l.enabled.Store(true) }

// Disable removes the layer from blending.
func (l *Layer) Disable() { l.enabled.Store(false) }

// Clear fills the layer with transparency.
func (l *Layer) Clear() {
	clear(l.Pix)
}

// LTDC models the display controller.
type LTDC struct {
	ctrl irq.Controller
	line irq.Line

	layers [2]Layer
	bg     color.RGBA

	lie atomic.Bool // line event interrupt enable
	lif atomic.Bool // line event flag
}

// New returns a controller with both layers disabled, pending line at ctrl
// on line events.
func New(ctrl irq.Controller, line irq.Line) *LTDC {
	l := &LTDC{ctrl: ctrl, line: line}
	for i := range l.layers {
		l.layers[i].RGBA = image.NewRGBA(image.Rect(0, 0, Width, Height))
	}
	return l
}

// SetBackground sets the color visible below both layers.
func (l *LTDC) SetBackground(c color.RGBA) { l.bg = c }

// Layer returns layer i. Layer 0 is behind layer 1.
func (l *LTDC) Layer(i int) *Layer { return &l.layers[i] }

// EnableLineInterrupt makes Refresh pend the controller line.
func (l *LTDC) EnableLineInterrupt() { l.lie.Store(true) }

// LineFlag reports the line event flag.
func (l *LTDC) LineFlag() bool { return l.lif.Load() }

// ClearLineFlag clears the line event flag. Owned by the LTDC handler.
func (l *LTDC) ClearLineFlag() { l.lif.Store(false) }

// Refresh composes the output frame and raises the line event, modeling one
// panel refresh. Safe from any goroutine.
func (l *LTDC) Refresh() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(out, out.Bounds(), &image.Uniform{l.bg}, image.Point{}, draw.Src)
	for i := range l.layers {
		if l.layers[i].enabled.Load() {
			draw.Draw(out, out.Bounds(), l.layers[i].RGBA, image.Point{}, draw.Over)
		}
	}

	l.lif.Store(true)
	if l.lie.Load() {
		l.ctrl.Pend(l.line)
	}
	return out
}

// ClipWindow clamps a layer window to the panel, mirroring the hardware's
// window position registers which silently truncate.
func ClipWindow(r image.Rectangle) image.Rectangle {
	r.Min.X = clamp(r.Min.X, 0, Width)
	r.Max.X = clamp(r.Max.X, 0, Width)
	r.Min.Y = clamp(r.Min.Y, 0, Height)
	r.Max.Y = clamp(r.Max.Y, 0, Height)
	return r
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

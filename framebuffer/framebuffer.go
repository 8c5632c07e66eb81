// Package framebuffer provides a double buffered drawing target on top of a
// display layer.
//
// Implements the pix display driver interface, so all drawing tools from
// github.com/embeddedgo/display can be used on it. Rendering happens into
// an offscreen buffer; Swap publishes the finished frame to the layer, so
// the panel never scans out a half drawn frame.
package framebuffer

import (
	"image"

	"github.com/embed-rs/stm32f7-discovery-sub000/debug"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/ltdc"
)

// A Framebuffer renders into an offscreen buffer and publishes to a layer.
type Framebuffer struct {
	layer *ltdc.Layer
	write *image.RGBA
	fill  image.Uniform
}

// New returns a framebuffer publishing to layer.
func New(layer *ltdc.Layer) *Framebuffer {
	return &Framebuffer{
		layer: layer,
		write: image.NewRGBA(layer.Bounds()),
	}
}

// Swap publishes the current offscreen buffer to the layer.
func (fb *Framebuffer) Swap() {
	debug.Assert(len(fb.layer.Pix) == len(fb.write.Pix), "layer size mismatch")
	copy(fb.layer.Pix, fb.write.Pix)
}

// Clear resets the offscreen buffer to full transparency.
func (fb *Framebuffer) Clear() {
	clear(fb.write.Pix)
}

// Bounds returns the drawable area.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return fb.write.Bounds()
}

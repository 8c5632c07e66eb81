package framebuffer

import (
	"image"
	"image/color"
	"image/draw"
)

// The pix display driver interface, rendered in software. draw.DrawMask
// picks optimized paths based on type assertions, which is why the write
// buffer is an *image.RGBA specifically.

func (fb *Framebuffer) Draw(r image.Rectangle, src image.Image, sp image.Point,
	mask image.Image, mp image.Point, op draw.Op) {
	draw.DrawMask(fb.write, r, src, sp, mask, mp, op)
}

func (fb *Framebuffer) Fill(rect image.Rectangle) {
	fb.Draw(rect, &fb.fill, image.Point{}, nil, image.Point{}, draw.Over)
}

func (fb *Framebuffer) SetColor(c color.Color) {
	fb.fill.C = c
}

func (fb *Framebuffer) SetDir(dir int) image.Rectangle {
	return fb.write.Bounds()
}

func (fb *Framebuffer) Flush() {}

func (fb *Framebuffer) Err(clear bool) error {
	return nil
}

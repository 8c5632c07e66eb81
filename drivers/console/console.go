// Package console implements a text console on an LCD layer.
//
// The console keeps classic text-mode state: one code page 437 byte per
// cell. Incoming UTF-8 is transcoded on write, unsupported runes degrade
// to '?'. Can be installed as the diagnostic sink via machine.SetSyswriter
// so panics end up on the panel.
package console

import (
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/embed-rs/stm32f7-discovery-sub000/soc/ltdc"
)

var face = basicfont.Face7x13

// Console renders written text onto a layer.
type Console struct {
	mu     sync.Mutex
	layer  *ltdc.Layer
	cells  []byte // cols*rows code page 437 bytes
	cols   int
	rows   int
	cursor image.Point // in cells
	enc    *encoding.Encoder
}

// New returns a console covering the whole layer.
func New(layer *ltdc.Layer) *Console {
	bounds := layer.Bounds()
	c := &Console{
		layer: layer,
		cols:  bounds.Dx() / face.Advance,
		rows:  bounds.Dy() / face.Height,
		enc:   encoding.ReplaceUnsupported(charmap.CodePage437.NewEncoder()),
	}
	c.cells = make([]byte, c.cols*c.rows)
	return c
}

// Write implements io.Writer. Never fails; output beyond the last row
// scrolls.
func (c *Console) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := c.enc.Bytes(p)
	if err != nil {
		b = p // fall back to raw bytes rather than dropping output
	}
	for _, ch := range b {
		switch ch {
		case '\n':
			c.cursor.X = 0
			c.cursor.Y++
		case '\r':
			c.cursor.X = 0
		case '\t':
			c.cursor.X = (c.cursor.X/8 + 1) * 8
		default:
			if c.cursor.X >= c.cols {
				c.cursor.X = 0
				c.cursor.Y++
			}
			if c.cursor.Y >= c.rows {
				c.scroll()
			}
			c.cells[c.cursor.Y*c.cols+c.cursor.X] = ch
			c.cursor.X++
		}
		if c.cursor.Y >= c.rows {
			c.scroll()
		}
	}
	c.draw()
	return len(p), nil
}

func (c *Console) scroll() {
	copy(c.cells, c.cells[c.cols:])
	clear(c.cells[(c.rows-1)*c.cols:])
	c.cursor.Y = c.rows - 1
}

func (c *Console) draw() {
	c.layer.Clear()
	d := font.Drawer{
		Dst:  c.layer.RGBA,
		Src:  image.White,
		Face: face,
	}
	for row := range c.rows {
		line := make([]rune, 0, c.cols)
		for _, ch := range c.cells[row*c.cols : (row+1)*c.cols] {
			if ch == 0 {
				ch = ' '
			}
			line = append(line, charmap.CodePage437.DecodeByte(ch))
		}
		d.Dot = fixed.P(0, row*face.Height+face.Ascent)
		d.DrawString(string(line))
	}
}

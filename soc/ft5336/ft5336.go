// Package ft5336 models the FT5336 capacitive touch controller as an I2C
// slave, register-compatible with the part on the discovery board.
package ft5336

import (
	"image"
	"sync"

	"github.com/embed-rs/stm32f7-discovery-sub000/soc/i2c"
)

// Addr is the controller's slave address.
const Addr i2c.Addr = 0x38

// Register file offsets.
const (
	RegTDStatus = 0x02 // number of touch points in the low nibble
	RegP1XH     = 0x03 // first touch point, 6 byte stride per point
	RegChipID   = 0xa8
)

// ChipID identifies the FT5336.
const ChipID = 0x51

const maxTouches = 5

// Dev is the modeled device. Touch input is injected with SetTouches from
// any goroutine; the register file serves a consistent snapshot.
type Dev struct {
	mu      sync.Mutex
	touches []image.Point
}

// New returns a device reporting no touches.
func New() *Dev { return &Dev{} }

// SetTouches replaces the currently reported touch points.
func (d *Dev) SetTouches(pts ...image.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(pts) > maxTouches {
		pts = pts[:maxTouches]
	}
	d.touches = append(d.touches[:0], pts...)
}

// regs builds the register file snapshot. Layout per touch point: XH, XL,
// YH, YL, weight, misc.
func (d *Dev) regs() [0xff]byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	var r [0xff]byte
	r[RegTDStatus] = byte(len(d.touches))
	for i, pt := range d.touches {
		base := RegP1XH + 6*i
		r[base+0] = byte(pt.X >> 8 & 0x0f)
		r[base+1] = byte(pt.X)
		r[base+2] = byte(pt.Y >> 8 & 0x0f)
		r[base+3] = byte(pt.Y)
	}
	r[RegChipID] = ChipID
	return r
}

// ReadReg implements i2c.Device.
func (d *Dev) ReadReg(reg uint8, p []byte) {
	regs := d.regs()
	copy(p, regs[reg:])
}

// WriteReg implements i2c.Device. All writable registers (gain, thresholds)
// are accepted and ignored by the model.
func (d *Dev) WriteReg(reg uint8, p []byte) {}

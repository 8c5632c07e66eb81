// Package touch drives the FT5336 touch controller.
//
// The controller sits on a shared I2C bus, so every transfer goes through a
// task.Mutex; the scan task never touches the bus from interrupt context.
package touch

import (
	"fmt"
	"image"

	"github.com/embed-rs/stm32f7-discovery-sub000/soc/ft5336"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/i2c"
	"github.com/embed-rs/stm32f7-discovery-sub000/task"
)

const maxTouches = 5

// Probe verifies the chip id answers at the expected address.
func Probe(b *i2c.Bus) error {
	var id [1]byte
	if err := b.ReadReg(ft5336.Addr, ft5336.RegChipID, id[:]); err != nil {
		return err
	}
	if id[0] != ft5336.ChipID {
		return fmt.Errorf("touch: unexpected chip id 0x%02x", id[0])
	}
	return nil
}

// Touches reads the currently active touch points.
func Touches(b *i2c.Bus) ([]image.Point, error) {
	var status [1]byte
	if err := b.ReadReg(ft5336.Addr, ft5336.RegTDStatus, status[:]); err != nil {
		return nil, err
	}
	n := int(status[0] & 0x0f)
	if n > maxTouches {
		n = maxTouches
	}
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, 6*n)
	if err := b.BlockRead(ft5336.Addr, ft5336.RegP1XH, buf); err != nil {
		return nil, err
	}

	pts := make([]image.Point, n)
	for i := range pts {
		p := buf[6*i:]
		pts[i] = image.Point{
			X: int(p[0]&0x0f)<<8 | int(p[1]),
			Y: int(p[2]&0x0f)<<8 | int(p[3]),
		}
	}
	return pts, nil
}

type scan struct {
	bus   *task.Mutex[*i2c.Bus]
	paced *task.IdleStream
	sink  func([]image.Point) task.Task

	fut   task.Task
	pts   []image.Point
	err   error
	stage int
}

// ScanTask returns the scan loop: paced by the idle stream, it reads the
// touch points through the bus mutex and hands them to sink, typically a
// draw under the layer mutex. A failed transfer drops the sample; the next
// pass reads fresh state anyway. The task never completes.
func ScanTask(bus *task.Mutex[*i2c.Bus], paced *task.IdleStream, sink func([]image.Point) task.Task) task.Task {
	return &scan{bus: bus, paced: paced, sink: sink}
}

func (s *scan) Poll(wake task.Waker) bool {
	for {
		switch s.stage {
		case 0:
			if !s.paced.Next(wake) {
				return false
			}
			s.stage = 1
		case 1:
			if s.fut == nil {
				s.fut = s.bus.With(func(b **i2c.Bus) {
					s.pts, s.err = Touches(*b)
				})
			}
			if !s.fut.Poll(wake) {
				return false
			}
			s.fut = nil
			if s.err != nil {
				s.stage = 0
				continue
			}
			s.stage = 2
		case 2:
			if s.fut == nil {
				s.fut = s.sink(s.pts)
			}
			if !s.fut.Poll(wake) {
				return false
			}
			s.fut = nil
			s.stage = 0
		}
	}
}

// Package ethernet pumps frames out of the MAC's receive ring.
//
// Network traffic is background work: the pump runs when the processor is
// otherwise idle and each pass drains every reception the DMA has
// completed, handing the frames to the consumer in arrival order. Frames
// addressed to neither the station nor broadcast are dropped at the pump.
package ethernet

import (
	"bytes"

	"github.com/embed-rs/stm32f7-discovery-sub000/soc/eth"
	"github.com/embed-rs/stm32f7-discovery-sub000/task"
)

var broadcast = [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// header is the length of destination plus source address; anything
// shorter cannot be filtered and is dropped as a runt.
const header = 12

type pump struct {
	mac    *eth.MAC
	paced  *task.IdleStream
	handle func(frame []byte)
}

// PumpTask returns the receive loop: paced by the idle stream, it drains
// completed receptions and hands each frame to handle. The task never
// completes.
func PumpTask(mac *eth.MAC, paced *task.IdleStream, handle func(frame []byte)) task.Task {
	return &pump{mac: mac, paced: paced, handle: handle}
}

func (p *pump) Poll(wake task.Waker) bool {
	for {
		if !p.paced.Next(wake) {
			return false
		}
		p.mac.ClearReceiveFlag()
		for {
			f, ok := p.mac.Receive()
			if !ok {
				break
			}
			if p.accept(f) {
				p.handle(f)
			}
		}
	}
}

func (p *pump) accept(f []byte) bool {
	if len(f) < header {
		return false
	}
	hw := p.mac.HardwareAddr()
	return bytes.Equal(f[:6], hw[:]) || bytes.Equal(f[:6], broadcast[:])
}

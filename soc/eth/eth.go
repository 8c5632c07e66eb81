// Package eth models the ethernet MAC and its DMA engine.
//
// Frames arrive from the wire through Inject and leave through Transmit.
// The receive ring is unbounded in the model; a completed reception sets
// the receive status flag and, with the receive interrupt enabled, pends
// the MAC's line. The handler owns the status flag.
package eth

import (
	"sync"
	"sync/atomic"

	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
)

// MAC models the ethernet controller.
type MAC struct {
	ctrl   irq.Controller
	line   irq.Line
	hwaddr [6]byte

	mu sync.Mutex
	rx [][]byte // completed receptions, oldest first
	tx [][]byte // transmitted frames, oldest first

	ris atomic.Bool // DMASR.RS, frame received
	rie atomic.Bool // DMAIER.RIE, receive interrupt enable
}

// New returns a MAC with the given station address, pending line at ctrl.
func New(ctrl irq.Controller, line irq.Line, hwaddr [6]byte) *MAC {
	return &MAC{ctrl: ctrl, line: line, hwaddr: hwaddr}
}

// HardwareAddr returns the station address.
func (m *MAC) HardwareAddr() [6]byte { return m.hwaddr }

// EnableRxInterrupt sets the receive interrupt enable bit.
func (m *MAC) EnableRxInterrupt() { m.rie.Store(true) }

// DisableRxInterrupt clears the receive interrupt enable bit.
func (m *MAC) DisableRxInterrupt() { m.rie.Store(false) }

// ReceiveFlag reports the receive status flag.
func (m *MAC) ReceiveFlag() bool { return m.ris.Load() }

// ClearReceiveFlag clears the receive status flag. Called from the MAC's
// own handler.
func (m *MAC) ClearReceiveFlag() { m.ris.Store(false) }

// Inject completes the reception of frame, like the DMA finishing a
// descriptor. Safe from any goroutine.
func (m *MAC) Inject(frame []byte) {
	f := make([]byte, len(frame))
	copy(f, frame)

	m.mu.Lock()
	m.rx = append(m.rx, f)
	m.mu.Unlock()

	m.ris.Store(true)
	if m.rie.Load() {
		m.ctrl.Pend(m.line)
	}
}

// Receive hands out the oldest completed reception, if any.
func (m *MAC) Receive() (frame []byte, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rx) == 0 {
		return nil, false
	}
	frame = m.rx[0]
	m.rx = m.rx[1:]
	return frame, true
}

// Transmit queues frame for transmission.
func (m *MAC) Transmit(frame []byte) {
	f := make([]byte, len(frame))
	copy(f, frame)

	m.mu.Lock()
	m.tx = append(m.tx, f)
	m.mu.Unlock()
}

// Sent drains and returns the frames transmitted so far, oldest first.
func (m *MAC) Sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := m.tx
	m.tx = nil
	return tx
}

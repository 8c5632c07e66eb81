// Package sai models the serial audio interface receiver.
//
// Samples captured from the board's microphones pile up in the receive
// FIFO. The FIFO request flag reports pending data, the data register pops
// one sample. The block is polled; its interrupt line stays unused, so a
// consumer reads it once per idle pass instead.
package sai

import "sync"

// SAI is the modeled receiver.
type SAI struct {
	mu   sync.Mutex
	fifo []uint32
}

// New returns a receiver with an empty FIFO.
func New() *SAI { return &SAI{} }

// Feed appends captured samples to the FIFO. Safe from any goroutine.
func (s *SAI) Feed(samples ...uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fifo = append(s.fifo, samples...)
}

// FifoRequest reports the FIFO request flag, set while data is pending.
func (s *SAI) FifoRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fifo) > 0
}

// Data pops one sample from the FIFO. Reading an empty FIFO returns zero,
// like the hardware's data register.
func (s *SAI) Data() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.fifo) == 0 {
		return 0
	}
	v := s.fifo[0]
	s.fifo = s.fifo[1:]
	return v
}

// Package rng models the true random number generator peripheral.
package rng

import "sync/atomic"

// RNG models the peripheral. Disabled after reset; reads while disabled
// report no data, like a cleared DRDY flag.
type RNG struct {
	enabled atomic.Bool
	state   atomic.Uint64
}

// New returns a disabled generator seeded with seed.
func New(seed uint64) *RNG {
	r := &RNG{}
	if seed == 0 {
		seed = 0x2545f4914f6cdd1d
	}
	r.state.Store(seed)
	return r
}

// Enable starts the generator.
func (r *RNG) Enable() { r.enabled.Store(true) }

// Disable stops the generator.
func (r *RNG) Disable() { r.enabled.Store(false) }

// Read returns the next random word. ok mirrors the DRDY flag; it is false
// while the generator is disabled.
func (r *RNG) Read() (v uint32, ok bool) {
	if !r.enabled.Load() {
		return 0, false
	}
	for {
		old := r.state.Load()
		s := old
		s ^= s << 13
		s ^= s >> 7
		s ^= s << 17
		if r.state.CompareAndSwap(old, s) {
			return uint32(s >> 16), true
		}
	}
}

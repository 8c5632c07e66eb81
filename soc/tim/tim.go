// Package tim models the basic timers (TIM6, TIM7).
//
// A basic timer counts up to its reload value and sets the update flag in
// its status register; with the update interrupt enabled it pends its line
// at the controller. The handler owns the status register and must clear
// the update flag, otherwise the line stays asserted.
package tim

import (
	"sync/atomic"
	"time"

	"github.com/embed-rs/stm32f7-discovery-sub000/debug"
	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc"
)

// TIM is one basic timer instance.
type TIM struct {
	ctrl irq.Controller
	line irq.Line

	uif atomic.Bool // SR.UIF, update happened
	uie atomic.Bool // DIER.UIE, update interrupt enable

	psc, arr uint32

	ticker *time.Ticker
	done   chan struct{}
}

// New returns a stopped timer pending line at ctrl.
func New(ctrl irq.Controller, line irq.Line) *TIM {
	return &TIM{ctrl: ctrl, line: line}
}

// Configure sets prescaler and reload value. The update period is
// (psc+1)*(arr+1) cycles of the timer clock.
func (t *TIM) Configure(psc, arr uint32) {
	t.psc, t.arr = psc, arr
}

// ConfigureHz sets prescaler and reload value for an update rate of hz.
func (t *TIM) ConfigureHz(hz uint32) {
	// Largest reload that still fits the 16 bit counter.
	psc := uint32(0)
	for soc.APB1TimerHz/(psc+1)/hz > 0x10000 {
		psc++
	}
	debug.Assert(soc.APB1TimerHz/(psc+1)/hz >= 1, "update rate above timer clock")
	t.Configure(psc, soc.APB1TimerHz/(psc+1)/hz-1)
}

// EnableInterrupt sets the update interrupt enable bit.
func (t *TIM) EnableInterrupt() { t.uie.Store(true) }

// DisableInterrupt clears the update interrupt enable bit.
func (t *TIM) DisableInterrupt() { t.uie.Store(false) }

// Update reports the update flag.
func (t *TIM) Update() bool { return t.uif.Load() }

// ClearUpdate clears the update flag. Called from the timer's own handler.
func (t *TIM) ClearUpdate() { t.uif.Store(false) }

// Start enables the counter. Updates fire at the configured rate until
// Stop.
func (t *TIM) Start() {
	if t.ticker != nil {
		return
	}
	period := time.Duration(t.psc+1) * time.Duration(t.arr+1) * time.Second / soc.APB1TimerHz
	t.ticker = time.NewTicker(period)
	t.done = make(chan struct{})
	go func(tick <-chan time.Time, done <-chan struct{}) {
		for {
			select {
			case <-tick:
				t.uif.Store(true)
				if t.uie.Load() {
					t.ctrl.Pend(t.line)
				}
			case <-done:
				return
			}
		}
	}(t.ticker.C, t.done)
}

// Stop disables the counter. The update flag is left as is.
func (t *TIM) Stop() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.done)
	t.ticker = nil
}

package nvic_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/nvic"
)

func TestPendWhileDisabled(t *testing.T) {
	fired := 0
	n := nvic.New(func(irq.Line) { fired++ })

	n.Pend(3)
	if fired != 0 {
		t.Fatal("delivered while masked")
	}
	if !n.Pending(3) {
		t.Fatal("pending bit not set")
	}

	// Enabling delivers the pended interrupt.
	n.Enable(3)
	if fired != 1 {
		t.Fatal("deliveries: ", fired)
	}
	if n.Pending(3) {
		t.Fatal("pending bit not cleared on delivery")
	}
}

func TestTriggerEnabled(t *testing.T) {
	var got []irq.Line
	n := nvic.New(func(l irq.Line) { got = append(got, l) })

	n.Enable(7)
	n.Trigger(7)
	n.Trigger(7)
	if len(got) != 2 || got[0] != 7 || got[1] != 7 {
		t.Fatal("deliveries: ", got)
	}
}

func TestUnpendSuppresses(t *testing.T) {
	fired := 0
	n := nvic.New(func(irq.Line) { fired++ })

	n.Pend(5)
	n.Unpend(5)
	n.Enable(5)
	if fired != 0 {
		t.Fatal("unpended interrupt delivered")
	}
}

func TestPendFromHandlerTailChains(t *testing.T) {
	fired := 0
	var n *nvic.NVIC
	n = nvic.New(func(l irq.Line) {
		fired++
		if fired == 1 {
			n.Pend(l) // handler re-pends its own line
		}
	})
	n.Enable(9)
	n.Trigger(9)
	if fired != 2 {
		t.Fatal("deliveries: ", fired)
	}
}

func TestPriorityRegisters(t *testing.T) {
	n := nvic.New(func(irq.Line) {})
	n.SetPriority(12, irq.P3)
	if n.Priority(12) != irq.P3 {
		t.Fatal("priority roundtrip")
	}
}

func TestConcurrentTriggerSerialized(t *testing.T) {
	var active, fired atomic.Int32
	n := nvic.New(func(irq.Line) {
		if active.Add(1) != 1 {
			t.Error("handler reentered")
		}
		fired.Add(1)
		active.Add(-1)
	})
	n.Enable(4)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				n.Trigger(4)
			}
		}()
	}
	wg.Wait()
	if fired.Load() == 0 {
		t.Fatal("no deliveries")
	}
}

func TestDisableSynchronizes(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	n := nvic.New(func(irq.Line) {
		close(entered)
		<-block
	})
	n.Enable(6)

	go n.Trigger(6)
	<-entered

	done := make(chan struct{})
	go func() {
		n.Disable(6)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("disable returned while handler was running")
	default:
	}
	close(block)
	<-done
}

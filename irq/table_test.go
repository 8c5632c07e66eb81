package irq_test

import (
	"errors"
	"testing"

	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
)

// ctrlRecorder implements irq.Controller and records mask and priority state
// per line.
type ctrlRecorder struct {
	enabled  [irq.NumLines]bool
	pending  [irq.NumLines]bool
	prio     [irq.NumLines]irq.Priority
	triggers []irq.Line
}

func (c *ctrlRecorder) Trigger(l irq.Line) {
	c.triggers = append(c.triggers, l)
	if c.enabled[l] {
		irq.Dispatch(l)
	} else {
		c.pending[l] = true
	}
}
func (c *ctrlRecorder) Pending(l irq.Line) bool                { return c.pending[l] }
func (c *ctrlRecorder) Pend(l irq.Line)                        { c.pending[l] = true }
func (c *ctrlRecorder) Unpend(l irq.Line)                      { c.pending[l] = false }
func (c *ctrlRecorder) Priority(l irq.Line) irq.Priority       { return c.prio[l] }
func (c *ctrlRecorder) SetPriority(l irq.Line, p irq.Priority) { c.prio[l] = p }
func (c *ctrlRecorder) Enable(l irq.Line)                      { c.enabled[l] = true }
func (c *ctrlRecorder) Disable(l irq.Line)                     { c.enabled[l] = false }

func discard(irq.Line) {}

func TestRegisterUnregister(t *testing.T) {
	ctrl := &ctrlRecorder{}
	_, err := irq.Scope(ctrl, discard, func(tab *irq.Table) any {
		count := 0
		h, err := tab.Register(7, irq.P1, func() { count++ })
		if err != nil {
			t.Fatal(err)
		}
		if !ctrl.enabled[7] || ctrl.prio[7] != irq.P1 {
			t.Error("line not enabled with requested priority")
		}

		tab.Trigger(7)
		tab.Trigger(7)
		if count != 2 {
			t.Error("handler runs: ", count)
		}

		irq.Unregister(tab, h)
		if ctrl.enabled[7] {
			t.Error("line still enabled after unregister")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestDoubleRegisterRejected(t *testing.T) {
	ctrl := &ctrlRecorder{}
	_, err := irq.Scope(ctrl, discard, func(tab *irq.Table) any {
		first := 0
		h, err := tab.Register(7, irq.P1, func() { first++ })
		if err != nil {
			t.Fatal(err)
		}
		if _, err := tab.Register(7, irq.P1, func() {}); !errors.Is(err, irq.ErrLineInUse) {
			t.Fatal("expected ErrLineInUse, got ", err)
		}

		// The first handler must still be installed.
		tab.Trigger(7)
		if first != 1 {
			t.Error("first handler not invoked: ", first)
		}

		irq.Unregister(tab, h)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestScopeDrainsOnReturn(t *testing.T) {
	ctrl := &ctrlRecorder{}
	_, err := irq.Scope(ctrl, discard, func(tab *irq.Table) any {
		h5, _ := tab.Register(5, irq.P2, func() {})
		h7, _ := tab.Register(7, irq.P3, func() {})
		irq.Unregister(tab, h5)
		irq.Unregister(tab, h7)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if ctrl.enabled[5] || ctrl.enabled[7] {
		t.Error("lines still enabled after scope exit")
	}

	// Another scope must be allowed now, with empty slots.
	_, err = irq.Scope(ctrl, discard, func(tab *irq.Table) any {
		h, err := tab.Register(5, irq.P1, func() {})
		if err != nil {
			t.Fatal(err)
		}
		irq.Unregister(tab, h)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestScopeDrainsOnPanic(t *testing.T) {
	ctrl := &ctrlRecorder{}
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		irq.Scope(ctrl, discard, func(tab *irq.Table) any {
			tab.Register(5, irq.P1, func() {})
			panic("boom")
		})
	}()

	if ctrl.enabled[5] {
		t.Error("line still enabled after panicking scope")
	}
	// Slot and default handler must be free again.
	_, err := irq.Scope(ctrl, discard, func(tab *irq.Table) any {
		h, err := tab.Register(5, irq.P1, func() {})
		if err != nil {
			t.Fatal(err)
		}
		irq.Unregister(tab, h)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestNestedScopeRejected(t *testing.T) {
	ctrl := &ctrlRecorder{}
	_, err := irq.Scope(ctrl, discard, func(tab *irq.Table) any {
		_, err := irq.Scope(ctrl, discard, func(*irq.Table) any { return nil })
		if !errors.Is(err, irq.ErrNested) {
			t.Error("expected ErrNested, got ", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRegisterOwned(t *testing.T) {
	type counter struct{ n int }

	ctrl := &ctrlRecorder{}
	_, err := irq.Scope(ctrl, discard, func(tab *irq.Table) any {
		h, err := irq.RegisterOwned(tab, 3, irq.P1, counter{}, func(c *counter) { c.n++ })
		if err != nil {
			t.Fatal(err)
		}

		tab.Trigger(3)
		tab.Trigger(3)
		tab.Trigger(3)

		env := irq.Unregister(tab, h)
		if env.n != 3 {
			t.Error("environment updates: ", env.n)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestWithInterrupt(t *testing.T) {
	ctrl := &ctrlRecorder{}
	_, err := irq.Scope(ctrl, discard, func(tab *irq.Table) any {
		ran := 0
		err := tab.WithInterrupt(9, irq.P4, func() { ran++ }, func(tab *irq.Table) {
			tab.Trigger(9)
		})
		if err != nil {
			t.Fatal(err)
		}
		if ran != 1 {
			t.Error("handler runs: ", ran)
		}
		if ctrl.enabled[9] {
			t.Error("line still enabled after WithInterrupt")
		}

		// Slot must be empty again even if the body panics.
		func() {
			defer func() { recover() }()
			tab.WithInterrupt(9, irq.P4, func() {}, func(*irq.Table) {
				panic("boom")
			})
		}()
		if ctrl.enabled[9] {
			t.Error("line still enabled after panicking body")
		}
		h, err := tab.Register(9, irq.P4, func() {})
		if err != nil {
			t.Error("slot not empty after panicking body: ", err)
		} else {
			irq.Unregister(tab, h)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestDefaultHandler(t *testing.T) {
	ctrl := &ctrlRecorder{}
	var got []irq.Line
	_, err := irq.Scope(ctrl, func(l irq.Line) { got = append(got, l) }, func(tab *irq.Table) any {
		ctrl.Enable(42)
		tab.Trigger(42)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != 42 {
		t.Error("default handler invocations: ", got)
	}
}

func TestDispatchOutsideScopePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	irq.Dispatch(0)
}

func TestForwarders(t *testing.T) {
	ctrl := &ctrlRecorder{}
	_, err := irq.Scope(ctrl, discard, func(tab *irq.Table) any {
		tab.SetPriority(4, irq.P7)
		if tab.Priority(4) != irq.P7 {
			t.Error("priority roundtrip")
		}
		tab.SetPending(4)
		if !tab.Pending(4) {
			t.Error("pend")
		}
		tab.ClearPending(4)
		if tab.Pending(4) {
			t.Error("unpend")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

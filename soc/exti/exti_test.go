package exti_test

import (
	"testing"

	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/exti"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/nvic"
)

func TestLineMapping(t *testing.T) {
	if exti.Line(0) != soc.IrqExti0 {
		t.Fatal("pin 0")
	}
	if exti.Line(4) != soc.IrqExti0+4 {
		t.Fatal("pin 4")
	}
	if exti.Line(7) != soc.IrqExti95 {
		t.Fatal("pin 7")
	}
	if exti.Line(exti.ButtonPin) != soc.IrqExti1510 {
		t.Fatal("button pin")
	}
}

func TestRaiseMasked(t *testing.T) {
	fired := 0
	n := nvic.New(func(irq.Line) { fired++ })
	n.Enable(soc.IrqExti1510)

	e := exti.New(n)
	e.Raise(exti.ButtonPin)
	if fired != 0 || e.Pending() != 0 {
		t.Fatal("masked pin raised an interrupt")
	}
}

func TestRaiseUnmasked(t *testing.T) {
	var got []irq.Line
	n := nvic.New(func(l irq.Line) { got = append(got, l) })
	n.Enable(soc.IrqExti1510)

	e := exti.New(n)
	e.Unmask(exti.ButtonPin)
	e.Raise(exti.ButtonPin)

	if len(got) != 1 || got[0] != soc.IrqExti1510 {
		t.Fatal("deliveries: ", got)
	}
	if e.Pending()&(1<<exti.ButtonPin) == 0 {
		t.Fatal("pending bit not set")
	}
	e.ClearPending(1 << exti.ButtonPin)
	if e.Pending() != 0 {
		t.Fatal("pending bit not cleared")
	}
}

func TestMaskAfterUnmask(t *testing.T) {
	fired := 0
	n := nvic.New(func(irq.Line) { fired++ })
	n.Enable(soc.IrqExti0)

	e := exti.New(n)
	e.Unmask(0)
	e.Mask(0)
	e.Raise(0)
	if fired != 0 {
		t.Fatal("masked pin raised an interrupt")
	}
}

package eth_test

import (
	"bytes"
	"testing"

	"github.com/embed-rs/stm32f7-discovery-sub000/irq"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/eth"
	"github.com/embed-rs/stm32f7-discovery-sub000/soc/nvic"
)

var station = [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}

func TestReceiveOrder(t *testing.T) {
	m := eth.New(nvic.New(func(irq.Line) {}), soc.IrqEth, station)

	if _, ok := m.Receive(); ok {
		t.Fatal("frame on an idle ring")
	}
	m.Inject([]byte{1})
	m.Inject([]byte{2})

	f, ok := m.Receive()
	if !ok || !bytes.Equal(f, []byte{1}) {
		t.Fatal("frame: ", f, ok)
	}
	f, ok = m.Receive()
	if !ok || !bytes.Equal(f, []byte{2}) {
		t.Fatal("frame: ", f, ok)
	}
}

func TestInjectCopies(t *testing.T) {
	m := eth.New(nvic.New(func(irq.Line) {}), soc.IrqEth, station)

	buf := []byte{0xaa}
	m.Inject(buf)
	buf[0] = 0xbb // caller reuses its buffer

	f, _ := m.Receive()
	if f[0] != 0xaa {
		t.Fatal("frame aliases caller buffer")
	}
}

func TestReceiveInterrupt(t *testing.T) {
	fired := 0
	n := nvic.New(func(irq.Line) { fired++ })
	n.Enable(soc.IrqEth)
	m := eth.New(n, soc.IrqEth, station)

	m.Inject([]byte{1})
	if fired != 0 {
		t.Fatal("interrupt with RIE clear")
	}
	if !m.ReceiveFlag() {
		t.Fatal("receive flag not set")
	}
	m.ClearReceiveFlag()

	m.EnableRxInterrupt()
	m.Inject([]byte{2})
	if fired != 1 {
		t.Fatal("deliveries: ", fired)
	}
}

func TestTransmitDrain(t *testing.T) {
	m := eth.New(nvic.New(func(irq.Line) {}), soc.IrqEth, station)
	m.Transmit([]byte{1})
	m.Transmit([]byte{2})

	sent := m.Sent()
	if len(sent) != 2 || sent[0][0] != 1 || sent[1][0] != 2 {
		t.Fatal("sent: ", sent)
	}
	if len(m.Sent()) != 0 {
		t.Fatal("drain not empty")
	}
}

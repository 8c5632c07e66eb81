// Package i2c models an I2C controller with attached slave devices.
//
// Transfers are register-addressed reads and writes, the way the touch
// controller and audio codec on the board are driven. Block reads carry an
// SMBus packet error code, a CRC-8 over the whole frame, which the bus
// verifies before handing data to the caller.
//
// A Bus is not safe for concurrent use; tasks share it through a
// task.Mutex.
package i2c

import (
	"errors"
	"fmt"

	"github.com/sigurn/crc8"
)

var (
	// ErrNack means no device acknowledged the address.
	ErrNack = errors.New("i2c nack")
	// ErrPEC means the packet error code of a block read did not match.
	ErrPEC = errors.New("i2c pec mismatch")
)

// Addr is a 7-bit slave address.
type Addr uint8

// A Device is a slave on the bus, modeled at register level.
type Device interface {
	ReadReg(reg uint8, p []byte)
	WriteReg(reg uint8, p []byte)
}

var smbusCRC8 = crc8.MakeTable(crc8.Params{Poly: 0x07, Init: 0x00, RefIn: false, RefOut: false, XorOut: 0x00, Check: 0xF4, Name: "CRC-8 SMBus"})

// Bus models one I2C controller.
type Bus struct {
	devs map[Addr]Device

	// corrupt flips one data bit in the next n block reads, exercising
	// the PEC path.
	corrupt int
}

// NewBus returns a bus with no devices attached.
func NewBus() *Bus {
	return &Bus{devs: make(map[Addr]Device)}
}

// Attach connects dev at addr. Attaching two devices at one address is a
// board layout bug and panics.
func (b *Bus) Attach(addr Addr, dev Device) {
	if _, ok := b.devs[addr]; ok {
		panic(fmt.Sprintf("i2c: address 0x%02x already attached", uint8(addr)))
	}
	b.devs[addr] = dev
}

// WriteReg writes p to the device register reg.
func (b *Bus) WriteReg(addr Addr, reg uint8, p []byte) error {
	dev, ok := b.devs[addr]
	if !ok {
		return fmt.Errorf("write 0x%02x: %w", uint8(addr), ErrNack)
	}
	dev.WriteReg(reg, p)
	return nil
}

// ReadReg fills p from the device register reg.
func (b *Bus) ReadReg(addr Addr, reg uint8, p []byte) error {
	dev, ok := b.devs[addr]
	if !ok {
		return fmt.Errorf("read 0x%02x: %w", uint8(addr), ErrNack)
	}
	dev.ReadReg(reg, p)
	return nil
}

// BlockRead fills p from the device register reg and verifies the SMBus
// packet error code of the transfer.
func (b *Bus) BlockRead(addr Addr, reg uint8, p []byte) error {
	dev, ok := b.devs[addr]
	if !ok {
		return fmt.Errorf("read 0x%02x: %w", uint8(addr), ErrNack)
	}
	dev.ReadReg(reg, p)

	// PEC covers the whole frame including both address phases.
	csum := crc8.Init(smbusCRC8)
	csum = crc8.Update(csum, []byte{uint8(addr) << 1, reg, uint8(addr)<<1 | 1}, smbusCRC8)
	csum = crc8.Update(csum, p, smbusCRC8)
	pec := crc8.Complete(csum, smbusCRC8)

	if b.corrupt > 0 {
		b.corrupt--
		p[0] ^= 0x01
	}

	csum = crc8.Init(smbusCRC8)
	csum = crc8.Update(csum, []byte{uint8(addr) << 1, reg, uint8(addr)<<1 | 1}, smbusCRC8)
	csum = crc8.Update(csum, p, smbusCRC8)
	if crc8.Complete(csum, smbusCRC8) != pec {
		return fmt.Errorf("read 0x%02x: %w", uint8(addr), ErrPEC)
	}
	return nil
}

// CorruptNext makes the next n block reads deliver one flipped bit,
// detectable through their PEC.
func (b *Bus) CorruptNext(n int) { b.corrupt = n }

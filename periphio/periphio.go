// Package periphio runs the expander driver and the keypad scanner on hosts
// driven by periph.io instead of embd.
package periphio

import (
	"fmt"
	"io"

	"github.com/kidoman/embd"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

var _ embd.I2CBus = (*Bus)(nil)

// Bus implements embd.I2CBus on top of a periph.io bus. Register accesses
// are a register address write followed by a repeated-start read, in a
// single transaction.
type Bus struct {
	bus i2c.Bus
}

func NewBus(bus i2c.Bus) *Bus {
	return &Bus{bus: bus}
}

func (b *Bus) tx(addr byte, w, r []byte) error {
	if err := b.bus.Tx(uint16(addr), w, r); err != nil {
		return fmt.Errorf("periphio: %s addr %#02x: %w", b.bus, addr, err)
	}
	return nil
}

func (b *Bus) ReadByte(addr byte) (byte, error) {
	var r [1]byte
	err := b.tx(addr, nil, r[:])
	return r[0], err
}

func (b *Bus) ReadBytes(addr byte, num int) ([]byte, error) {
	r := make([]byte, num)
	if err := b.tx(addr, nil, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (b *Bus) WriteByte(addr, value byte) error {
	return b.tx(addr, []byte{value}, nil)
}

func (b *Bus) WriteBytes(addr byte, value []byte) error {
	return b.tx(addr, value, nil)
}

func (b *Bus) ReadFromReg(addr, reg byte, value []byte) error {
	return b.tx(addr, []byte{reg}, value)
}

func (b *Bus) ReadByteFromReg(addr, reg byte) (byte, error) {
	var r [1]byte
	err := b.tx(addr, []byte{reg}, r[:])
	return r[0], err
}

// ReadWordFromReg reads two bytes, most significant first.
func (b *Bus) ReadWordFromReg(addr, reg byte) (uint16, error) {
	var r [2]byte
	if err := b.tx(addr, []byte{reg}, r[:]); err != nil {
		return 0, err
	}
	return uint16(r[0])<<8 | uint16(r[1]), nil
}

func (b *Bus) WriteToReg(addr, reg byte, value []byte) error {
	w := make([]byte, 0, len(value)+1)
	w = append(w, reg)
	w = append(w, value...)
	return b.tx(addr, w, nil)
}

func (b *Bus) WriteByteToReg(addr, reg, value byte) error {
	return b.tx(addr, []byte{reg, value}, nil)
}

// WriteWordToReg writes value most significant byte first.
func (b *Bus) WriteWordToReg(addr, reg byte, value uint16) error {
	return b.tx(addr, []byte{reg, byte(value >> 8), byte(value)}, nil)
}

// Close closes the underlying bus when it is an i2c.BusCloser.
func (b *Bus) Close() error {
	if c, ok := b.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Pin adapts a periph.io pin to the keypad interrupt pin. Levels map to
// embd.Low and embd.High.
type Pin struct {
	p    gpio.PinIO
	pull gpio.Pull
}

func NewPin(p gpio.PinIO) *Pin {
	return &Pin{p: p, pull: gpio.PullNoChange}
}

func (p *Pin) SetDirection(dir embd.Direction) error {
	if dir == embd.In {
		return p.p.In(p.pull, gpio.NoEdge)
	}
	return p.p.Out(gpio.High)
}

func (p *Pin) PullUp() error {
	p.pull = gpio.PullUp
	return p.p.In(gpio.PullUp, gpio.NoEdge)
}

func (p *Pin) Read() (int, error) {
	if p.p.Read() == gpio.Low {
		return embd.Low, nil
	}
	return embd.High, nil
}

// Close halts the pin.
func (p *Pin) Close() error {
	return p.p.Halt()
}

func (p *Pin) String() string {
	return p.p.String()
}

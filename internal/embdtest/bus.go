// Package embdtest provides an in-memory embd.I2CBus for driver tests.
package embdtest

import (
	"errors"
	"sync"

	"github.com/kidoman/embd"
)

var _ embd.I2CBus = (*Bus)(nil)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("embdtest: bus closed")

// Write records one register write.
type Write struct {
	Addr, Reg, Value byte
}

// Bus is a register file for a single device. Reads return the stored
// register unless OnRead overrides them. Err, when set, fails every
// transaction.
type Bus struct {
	mu sync.Mutex

	Regs   [256]byte
	Writes []Write
	Reads  []byte

	// OnRead, when set, supplies the value of a register read.
	OnRead func(reg byte) byte
	// OnWrite, when set, observes every register write after it is stored.
	OnWrite func(reg, value byte)

	Err    error
	closed bool
}

func (b *Bus) fail() error {
	if b.closed {
		return ErrClosed
	}
	return b.Err
}

// WritesTo returns the values written to reg, oldest first.
func (b *Bus) WritesTo(reg byte) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []byte
	for _, w := range b.Writes {
		if w.Reg == reg {
			out = append(out, w.Value)
		}
	}
	return out
}

// ReadCount returns how many times reg was read.
func (b *Bus) ReadCount(reg byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.Reads {
		if r == reg {
			n++
		}
	}
	return n
}

// Reset forgets the recorded traffic.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Writes = nil
	b.Reads = nil
}

func (b *Bus) ReadByteFromReg(addr, reg byte) (byte, error) {
	b.mu.Lock()
	if err := b.fail(); err != nil {
		b.mu.Unlock()
		return 0, err
	}
	b.Reads = append(b.Reads, reg)
	hook := b.OnRead
	v := b.Regs[reg]
	b.mu.Unlock()

	if hook != nil {
		v = hook(reg)
	}
	return v, nil
}

func (b *Bus) WriteByteToReg(addr, reg, value byte) error {
	b.mu.Lock()
	if err := b.fail(); err != nil {
		b.mu.Unlock()
		return err
	}
	b.Regs[reg] = value
	b.Writes = append(b.Writes, Write{Addr: addr, Reg: reg, Value: value})
	hook := b.OnWrite
	b.mu.Unlock()

	if hook != nil {
		hook(reg, value)
	}
	return nil
}

func (b *Bus) ReadFromReg(addr, reg byte, value []byte) error {
	for i := range value {
		v, err := b.ReadByteFromReg(addr, reg+byte(i))
		if err != nil {
			return err
		}
		value[i] = v
	}
	return nil
}

func (b *Bus) WriteToReg(addr, reg byte, value []byte) error {
	for i, v := range value {
		if err := b.WriteByteToReg(addr, reg+byte(i), v); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) ReadWordFromReg(addr, reg byte) (uint16, error) {
	var buf [2]byte
	if err := b.ReadFromReg(addr, reg, buf[:]); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

func (b *Bus) WriteWordToReg(addr, reg byte, value uint16) error {
	return b.WriteToReg(addr, reg, []byte{byte(value >> 8), byte(value)})
}

func (b *Bus) ReadByte(addr byte) (byte, error) {
	return 0, errors.New("embdtest: register-less read not supported")
}

func (b *Bus) ReadBytes(addr byte, num int) ([]byte, error) {
	return nil, errors.New("embdtest: register-less read not supported")
}

func (b *Bus) WriteByte(addr, value byte) error {
	return errors.New("embdtest: register-less write not supported")
}

func (b *Bus) WriteBytes(addr byte, value []byte) error {
	return errors.New("embdtest: register-less write not supported")
}

func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Package mcp23017 allows interfacing with the MCP23017 16-bit I2C I/O expansion chip.
//
// The driver always addresses the chip with IOCON.BANK cleared, the power-on
// layout where the A and B registers of each kind sit next to each other.
package mcp23017

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/kidoman/embd"
)

// Port selects one of the two 8-bit GPIO ports.
type Port byte

const (
	PortA Port = iota
	PortB
)

func (p Port) String() string {
	switch p {
	case PortA:
		return "A"
	case PortB:
		return "B"
	}
	return fmt.Sprintf("Port(%d)", byte(p))
}

func (p Port) valid() bool {
	return p == PortA || p == PortB
}

// Register addresses for port A. The port B register is the next address.
const (
	IODIR   = 0x00 // 1: input, 0: output
	IPOL    = 0x02 // 1: GPIO reads the inverted pin value
	GPINTEN = 0x04 // 1: interrupt-on-change enabled
	DEFVAL  = 0x06 // compare value used when INTCON is set
	INTCON  = 0x08 // 1: compare against DEFVAL, 0: against previous value
	IOCON   = 0x0A // shared by both ports
	GPPU    = 0x0C // 1: 100k pull-up enabled
	INTF    = 0x0E // read only, pins that caused the interrupt
	INTCAP  = 0x10 // read only, port value latched at interrupt time
	GPIO    = 0x12
	OLAT    = 0x14

	registerCount = 0x16
)

// IOCON bits.
const (
	IOCONIntPol = 1 << (iota + 1) // INT active-high
	IOCONODR                      // INT open-drain, overrides IntPol
	IOCONHAEN                     // hardware address enable (MCP23S17 only)
	IOCONDISSLW                   // SDA slew rate control disabled
	IOCONSEQOP                    // sequential operation disabled
	IOCONMirror                   // INTA and INTB internally connected
	IOCONBank                     // registers split by port, not supported here
)

// DefaultAddress is the bus address with A0..A2 tied low.
const DefaultAddress = 0x20

// MCP23017 16-bit I2C I/O expansion chip
type MCP23017 struct {
	Bus  embd.I2CBus
	Addr byte

	// Cached chip registers, indexed by register address.
	regs [registerCount]byte

	// reference to the host pin wired to INTA/INTB.
	interruptPin embd.DigitalPin

	listener *interruptListener
	mu       sync.Mutex
}

// New creates a new MCP23017 interface
func New(bus embd.I2CBus, addr byte) *MCP23017 {
	d := &MCP23017{
		Bus:      bus,
		Addr:     addr,
		listener: defaultInterruptListener(),
	}
	// Power-on state: every pin is an input.
	d.regs[IODIR] = 0xff
	d.regs[IODIR+1] = 0xff
	return d
}

func register(base byte, port Port) byte {
	return base + byte(port)
}

// WriteRegister writes b into the register base of the given port.
func (d *MCP23017) WriteRegister(base byte, port Port, b byte) error {
	if !port.valid() {
		return fmt.Errorf("mcp23017: %w: %v", ErrInvalidPort, port)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeRegister(base, port, b)
}

// writeRegister must be called with d.mu held.
func (d *MCP23017) writeRegister(base byte, port Port, b byte) error {
	reg := register(base, port)
	glog.V(1).Infof("mcp23017: writing [%#02x] to register %#02x", b, reg)
	if err := d.Bus.WriteByteToReg(d.Addr, reg, b); err != nil {
		return fmt.Errorf("mcp23017: write register %#02x: %w", reg, err)
	}
	d.regs[reg] = b
	if base == GPIO {
		// Writing GPIO writes the output latch.
		d.regs[register(OLAT, port)] = b
	}
	return nil
}

// ReadRegister reads the register base of the given port.
func (d *MCP23017) ReadRegister(base byte, port Port) (byte, error) {
	if !port.valid() {
		return 0, fmt.Errorf("mcp23017: %w: %v", ErrInvalidPort, port)
	}
	reg := register(base, port)

	d.mu.Lock()
	defer d.mu.Unlock()
	b, err := d.Bus.ReadByteFromReg(d.Addr, reg)
	if err != nil {
		return 0, fmt.Errorf("mcp23017: read register %#02x: %w", reg, err)
	}
	glog.V(1).Infof("mcp23017: reading [%#02x] from register %#02x", b, reg)
	d.regs[reg] = b
	return b, nil
}

// updateBits rewrites the bits selected by mask in a cached register.
func (d *MCP23017) updateBits(base byte, port Port, mask, bits byte) error {
	if !port.valid() {
		return fmt.Errorf("mcp23017: %w: %v", ErrInvalidPort, port)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	cur := d.regs[register(base, port)]
	return d.writeRegister(base, port, cur&^mask|bits&mask)
}

// Write pin direction configuration (IODIR)
// 1 for embd.In
// 0 for embd.Out
// each bit in the byte represent one pin of the port.
func (d *MCP23017) SetDirection(port Port, b byte) error {
	glog.V(1).Infof("mcp23017: new port %v direction [%#02x]", port, b)
	return d.WriteRegister(IODIR, port, b)
}

// SetPullUp enables the internal pull-up of every pin whose bit is 1.
func (d *MCP23017) SetPullUp(port Port, b byte) error {
	return d.WriteRegister(GPPU, port, b)
}

// SetPolarity inverts the GPIO reading of every pin whose bit is 1.
func (d *MCP23017) SetPolarity(port Port, b byte) error {
	return d.WriteRegister(IPOL, port, b)
}

func (d *MCP23017) SetInterruptEnable(port Port, b byte) error {
	return d.WriteRegister(GPINTEN, port, b)
}

func (d *MCP23017) SetDefaultValue(port Port, b byte) error {
	return d.WriteRegister(DEFVAL, port, b)
}

func (d *MCP23017) SetInterruptControl(port Port, b byte) error {
	return d.WriteRegister(INTCON, port, b)
}

// SetIOControl writes IOCON. The BANK bit is refused since the driver
// relies on the paired register layout.
func (d *MCP23017) SetIOControl(b byte) error {
	if b&IOCONBank != 0 {
		return fmt.Errorf("mcp23017: %w: IOCON.BANK", ErrNotSupported)
	}
	return d.WriteRegister(IOCON, PortA, b)
}

// WritePort drives the output latch of a port.
func (d *MCP23017) WritePort(port Port, b byte) error {
	return d.WriteRegister(GPIO, port, b)
}

// ReadPort reads the pin levels of a port. Reading GPIO also clears the
// port's pending interrupt.
func (d *MCP23017) ReadPort(port Port) (byte, error) {
	return d.ReadRegister(GPIO, port)
}

func (d *MCP23017) ReadOutputLatch(port Port) (byte, error) {
	return d.ReadRegister(OLAT, port)
}

// InterruptFlags reports which pins of the port raised the pending interrupt.
func (d *MCP23017) InterruptFlags(port Port) (byte, error) {
	return d.ReadRegister(INTF, port)
}

// InterruptCapture returns the port value latched when the interrupt fired
// and clears the interrupt.
func (d *MCP23017) InterruptCapture(port Port) (byte, error) {
	return d.ReadRegister(INTCAP, port)
}

// ClearInterrupts clears any pending interrupt on both ports.
func (d *MCP23017) ClearInterrupts() error {
	for _, port := range []Port{PortA, PortB} {
		if _, err := d.InterruptCapture(port); err != nil {
			return err
		}
	}
	return nil
}

// SetInterruptPin watches the host pin wired to the INT output and
// dispatches interrupts to the pins registered with Watch. INTA and INTB
// should be mirrored (IOCONMirror) when only one of them is wired.
func (d *MCP23017) SetInterruptPin(pin embd.DigitalPin) error {
	if d.interruptPin != nil {
		return fmt.Errorf("mcp23017: %w to %v", ErrInterruptPinSet, d.interruptPin.N())
	}

	if err := pin.SetDirection(embd.In); err != nil {
		return err
	}

	// only listen to Falling edge since the interrupt pin is active low
	err := pin.Watch(embd.EdgeFalling, func(p embd.DigitalPin) {
		if err := d.HandleInterrupt(); err != nil {
			glog.Errorf("mcp23017: can't handle interrupt: %v", err)
		}
	})
	if err != nil {
		return err
	}

	d.interruptPin = pin
	return nil
}

// HandleInterrupt reads the interrupt flags of both ports and calls the
// handler of every watched pin that raised it.
func (d *MCP23017) HandleInterrupt() error {
	for _, port := range []Port{PortA, PortB} {
		flags, err := d.InterruptFlags(port)
		if err != nil {
			return err
		}
		if flags == 0 {
			continue
		}
		if _, err := d.InterruptCapture(port); err != nil {
			return err
		}
		d.listener.handle(port, flags)
	}
	return nil
}

// Close disconnects from the interrupt pin.
func (d *MCP23017) Close() error {
	if nil == d.interruptPin {
		return nil
	}

	if err := d.interruptPin.Close(); err != nil {
		return err
	}

	d.interruptPin = nil
	return nil
}

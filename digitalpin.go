package mcp23017

import (
	"fmt"
	"time"

	"github.com/kidoman/embd"
)

var pins = embd.PinMap{
	&embd.PinDesc{ID: "GPA0", Aliases: []string{"0", "A0"}, Caps: embd.CapDigital, DigitalLogical: 0},
	&embd.PinDesc{ID: "GPA1", Aliases: []string{"1", "A1"}, Caps: embd.CapDigital, DigitalLogical: 1},
	&embd.PinDesc{ID: "GPA2", Aliases: []string{"2", "A2"}, Caps: embd.CapDigital, DigitalLogical: 2},
	&embd.PinDesc{ID: "GPA3", Aliases: []string{"3", "A3"}, Caps: embd.CapDigital, DigitalLogical: 3},
	&embd.PinDesc{ID: "GPA4", Aliases: []string{"4", "A4"}, Caps: embd.CapDigital, DigitalLogical: 4},
	&embd.PinDesc{ID: "GPA5", Aliases: []string{"5", "A5"}, Caps: embd.CapDigital, DigitalLogical: 5},
	&embd.PinDesc{ID: "GPA6", Aliases: []string{"6", "A6"}, Caps: embd.CapDigital, DigitalLogical: 6},
	&embd.PinDesc{ID: "GPA7", Aliases: []string{"7", "A7"}, Caps: embd.CapDigital, DigitalLogical: 7},
	&embd.PinDesc{ID: "GPB0", Aliases: []string{"8", "B0"}, Caps: embd.CapDigital, DigitalLogical: 8},
	&embd.PinDesc{ID: "GPB1", Aliases: []string{"9", "B1"}, Caps: embd.CapDigital, DigitalLogical: 9},
	&embd.PinDesc{ID: "GPB2", Aliases: []string{"10", "B2"}, Caps: embd.CapDigital, DigitalLogical: 10},
	&embd.PinDesc{ID: "GPB3", Aliases: []string{"11", "B3"}, Caps: embd.CapDigital, DigitalLogical: 11},
	&embd.PinDesc{ID: "GPB4", Aliases: []string{"12", "B4"}, Caps: embd.CapDigital, DigitalLogical: 12},
	&embd.PinDesc{ID: "GPB5", Aliases: []string{"13", "B5"}, Caps: embd.CapDigital, DigitalLogical: 13},
	&embd.PinDesc{ID: "GPB6", Aliases: []string{"14", "B6"}, Caps: embd.CapDigital, DigitalLogical: 14},
	&embd.PinDesc{ID: "GPB7", Aliases: []string{"15", "B7"}, Caps: embd.CapDigital, DigitalLogical: 15},
}

type digitalPin struct {
	device *MCP23017
	id     string
	n      int
	port   Port
	bit    byte
}

// DigitalPin returns one expander pin as an embd.DigitalPin. key is a pin
// ID ("GPB3"), an alias ("B3", "11") or the pin number.
func (d *MCP23017) DigitalPin(key interface{}) (embd.DigitalPin, error) {
	pd, found := pins.Lookup(key, embd.CapDigital)
	if !found {
		return nil, fmt.Errorf("gpio: could not find pin matching %v", key)
	}

	return &digitalPin{
		device: d,
		id:     pd.ID,
		n:      pd.DigitalLogical,
		port:   Port(pd.DigitalLogical / 8),
		bit:    byte(0x1 << uint(pd.DigitalLogical%8)),
	}, nil
}

func (p *digitalPin) String() string {
	return p.id
}

// Watch enables interrupt-on-change for the pin. The chip fires on both
// edges, so edge is ignored and the handler should Read the pin.
func (p *digitalPin) Watch(edge embd.Edge, handler func(embd.DigitalPin)) error {
	if err := p.SetDirection(embd.In); err != nil {
		return err
	}
	if err := p.device.updateBits(GPINTEN, p.port, p.bit, p.bit); err != nil {
		return err
	}
	p.device.listener.registerInterrupt(p, handler)
	return nil
}

func (p *digitalPin) StopWatching() error {
	if !p.device.listener.watching(p) {
		return nil
	}
	p.device.listener.unregisterInterrupt(p)
	return p.device.updateBits(GPINTEN, p.port, p.bit, 0)
}

func (p *digitalPin) N() int {
	return p.n
}

func (p *digitalPin) Write(val int) error {
	pin := byte(0)
	if val != embd.Low {
		pin = p.bit
	}
	return p.device.updateBits(OLAT, p.port, p.bit, pin)
}

func (p *digitalPin) Read() (int, error) {
	reg, err := p.device.ReadPort(p.port)
	if err != nil {
		return 0, err
	}
	if 0 == (reg & p.bit) {
		return embd.Low, nil
	}
	return embd.High, nil
}

func (p *digitalPin) TimePulse(state int) (time.Duration, error) {
	aroundState := embd.Low
	if state == embd.Low {
		aroundState = embd.High
	}

	// Wait for any previous pulse to end
	if err := p.waitFor(aroundState); err != nil {
		return 0, err
	}

	// Wait for the pulse to start
	if err := p.waitFor(state); err != nil {
		return 0, err
	}

	startTime := time.Now()

	// Wait for the pulse to end
	if err := p.waitFor(aroundState); err != nil {
		return 0, err
	}

	return time.Since(startTime), nil
}

func (p *digitalPin) waitFor(state int) error {
	for {
		v, err := p.Read()
		if err != nil {
			return err
		}
		if v == state {
			return nil
		}
	}
}

func (p *digitalPin) SetDirection(dir embd.Direction) error {
	reg := byte(0)
	if embd.In == dir {
		reg = p.bit
	}
	return p.device.updateBits(IODIR, p.port, p.bit, reg)
}

func (p *digitalPin) ActiveLow(b bool) error {
	state := byte(0)
	if b {
		state = p.bit
	}
	return p.device.updateBits(IPOL, p.port, p.bit, state)
}

func (p *digitalPin) PullUp() error {
	return p.device.updateBits(GPPU, p.port, p.bit, p.bit)
}

func (p *digitalPin) PullDown() error {
	return fmt.Errorf("gpio: pull-down %w", ErrNotSupported)
}

func (p *digitalPin) Close() error {
	return p.StopWatching()
}
